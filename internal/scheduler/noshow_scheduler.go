package scheduler

import (
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/rs/zerolog"
)

// NoShowScheduler sweeps pending and confirmed reservations whose check-in
// has passed and marks them no-show, once per day after the configured
// cutoff hour.
type NoShowScheduler struct {
	reservations domain.ReservationRepository
	cutoffHour   int
	ticker       *time.Ticker
	log          zerolog.Logger
}

// NewNoShowScheduler creates the sweeper. cutoffHour is the local hour
// (0-23) after which a missed check-in counts as a no-show.
func NewNoShowScheduler(reservations domain.ReservationRepository, cutoffHour int, log zerolog.Logger) *NoShowScheduler {
	return &NoShowScheduler{
		reservations: reservations,
		cutoffHour:   cutoffHour,
		log:          log,
	}
}

// Start runs one sweep immediately, then schedules the next run for the
// cutoff hour and repeats every 24 hours.
func (s *NoShowScheduler) Start() {
	s.Sweep()

	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day(), s.cutoffHour, 0, 0, 0, now.Location())
	if !nextRun.After(now) {
		nextRun = nextRun.Add(24 * time.Hour)
	}
	s.log.Info().Time("next_run", nextRun).Msg("no-show scheduler started")

	time.AfterFunc(time.Until(nextRun), func() {
		s.Sweep()
		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for range s.ticker.C {
				s.Sweep()
			}
		}()
	})
}

// Stop halts the scheduler.
func (s *NoShowScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.log.Info().Msg("no-show scheduler stopped")
	}
}

// Sweep marks stale reservations no-show. Only check-ins before today's
// start are swept; a guest arriving late tonight is not a no-show yet.
func (s *NoShowScheduler) Sweep() {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := s.reservations.MarkNoShows(startOfDay)
	if err != nil {
		s.log.Error().Err(err).Msg("no-show sweep failed")
		return
	}
	if count > 0 {
		s.log.Info().Int("marked", count).Msg("reservations marked no-show")
	}

	stale, err := s.reservations.FindStaleCheckedIn(startOfDay)
	if err != nil {
		s.log.Error().Err(err).Msg("stale check-in scan failed")
		return
	}
	for _, res := range stale {
		s.log.Warn().
			Int("reservation_id", res.ID).
			Int("room_id", res.RoomID).
			Time("check_out", res.CheckOut).
			Msg("guest still checked in past check-out")
	}
}
