package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// GroupService coordinates multi-room agency bookings. A group is not a
// stored aggregate: membership is the set of reservations sharing the same
// agency payer, agency name and date range, re-resolved from the repository
// on every operation so cancelled or retargeted members drop out naturally.
type GroupService struct {
	reservations domain.ReservationRepository
	service      *ReservationService
	guard        *ShiftGuard
	log          zerolog.Logger
}

// NewGroupService creates the group coordinator on top of the single
// reservation lifecycle service.
func NewGroupService(reservations domain.ReservationRepository, service *ReservationService, guard *ShiftGuard, log zerolog.Logger) *GroupService {
	return &GroupService{
		reservations: reservations,
		service:      service,
		guard:        guard,
		log:          log,
	}
}

// CreateGroupInput describes an agency block booking across several rooms.
type CreateGroupInput struct {
	AgencyName  string          `json:"agencyName"`
	RoomIDs     []int           `json:"roomIds"`
	GuestName   string          `json:"guestName"`
	GuestEmail  string          `json:"guestEmail"`
	CheckIn     time.Time       `json:"checkIn"`
	CheckOut    time.Time       `json:"checkOut"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	GuestCount  int             `json:"guestCount"`
	Currency    string          `json:"currency"`
	Notes       string          `json:"notes"`
}

// GroupCreateResult reports one room's outcome within a group creation.
type GroupCreateResult struct {
	RoomID        int    `json:"roomId"`
	ReservationID int    `json:"reservationId,omitempty"`
	Error         string `json:"error,omitempty"`

	err error
}

// Err returns the underlying error for a failed member, nil otherwise.
func (r GroupCreateResult) Err() error { return r.err }

// CreateGroup creates one reservation per requested room, deliberately
// without a surrounding transaction: a conflict on one room must not undo
// the rooms that did book. The caller gets a per-room result slice and
// decides what to do about the failures.
func (g *GroupService) CreateGroup(actor domain.Actor, input CreateGroupInput) ([]GroupCreateResult, error) {
	if _, err := g.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}
	if input.AgencyName == "" {
		return nil, fmt.Errorf("agency name is required for group reservations")
	}
	if len(input.RoomIDs) == 0 {
		return nil, fmt.Errorf("group reservation needs at least one room")
	}
	if !input.CheckOut.After(input.CheckIn) {
		return nil, domain.ErrInvalidRange
	}

	results := make([]GroupCreateResult, 0, len(input.RoomIDs))
	for _, roomID := range input.RoomIDs {
		created, err := g.service.Create(actor, CreateReservationInput{
			RoomID:      roomID,
			GuestName:   input.GuestName,
			GuestEmail:  input.GuestEmail,
			CheckIn:     input.CheckIn,
			CheckOut:    input.CheckOut,
			NightlyRate: input.NightlyRate,
			PayerType:   domain.PayerAgency,
			AgencyName:  input.AgencyName,
			GuestCount:  input.GuestCount,
			Currency:    input.Currency,
			Notes:       input.Notes,
		})
		if err != nil {
			g.log.Warn().Err(err).Int("room_id", roomID).
				Str("agency", input.AgencyName).
				Msg("group member reservation failed")
			results = append(results, GroupCreateResult{RoomID: roomID, Error: err.Error(), err: err})
			continue
		}
		results = append(results, GroupCreateResult{RoomID: roomID, ReservationID: created.Reservation.ID})
	}
	return results, nil
}

// Members returns the current live membership for the group the given
// reservation belongs to.
func (g *GroupService) Members(reservationID int) ([]domain.Reservation, error) {
	res, err := g.reservations.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	key, ok := res.GroupKey()
	if !ok {
		return nil, fmt.Errorf("reservation %d is not part of an agency group", reservationID)
	}
	return g.reservations.FindByGroupKey(key)
}

// ApplyDiscount reduces the nightly rate and total of every targeted member
// of a group by the given percentage. targetIDs narrows the operation to a
// subset of members; empty means all. Members that fail to update do not
// block the rest; their errors are joined into one.
func (g *GroupService) ApplyDiscount(actor domain.Actor, reservationID int, percent decimal.Decimal, targetIDs []int) ([]domain.Reservation, error) {
	if _, err := g.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}
	hundred := decimal.NewFromInt(100)
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, domain.ErrInvalidPercent
	}

	members, err := g.Members(reservationID)
	if err != nil {
		return nil, err
	}

	targets := members
	if len(targetIDs) > 0 {
		wanted := make(map[int]bool, len(targetIDs))
		for _, id := range targetIDs {
			wanted[id] = true
		}
		targets = nil
		for _, m := range members {
			if wanted[m.ID] {
				targets = append(targets, m)
			}
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no live group members match the requested reservations")
	}

	factor := hundred.Sub(percent).Div(hundred)
	now := time.Now()
	var updated []domain.Reservation
	var errs []error
	for i := range targets {
		m := targets[i]
		m.NightlyRate = m.NightlyRate.Mul(factor)
		m.TotalAmount = m.TotalAmount.Mul(factor)
		m.Notes = appendNote(m.Notes,
			actionNote(fmt.Sprintf("group discount %s%% applied", percent.StringFixed(0)), actor, now))
		m.UpdatedBy = actor.Name
		m.UpdatedAt = now
		if err := g.reservations.Update(&m); err != nil {
			errs = append(errs, fmt.Errorf("reservation %d: %w", m.ID, err))
			continue
		}
		updated = append(updated, m)
	}
	return updated, errors.Join(errs...)
}

// EditGroupInput carries shared edits applied to every live member. A total
// paid amount, when set, is the aggregate for the whole group and is split
// equally across members.
type EditGroupInput struct {
	CheckIn     *time.Time       `json:"checkIn"`
	CheckOut    *time.Time       `json:"checkOut"`
	NightlyRate *decimal.Decimal `json:"nightlyRate"`
	GuestCount  *int             `json:"guestCount"`
	TotalPaid   *decimal.Decimal `json:"totalPaid"`
	Method      domain.PaymentMethod
}

// GroupEditResult reports one member's outcome within a group edit.
type GroupEditResult struct {
	ReservationID int                         `json:"reservationId"`
	Error         string                      `json:"error,omitempty"`
	Warning       *domain.LedgerAppendWarning `json:"-"`
}

// EditGroup applies shared field edits to every live member, member by
// member so a date conflict on one room leaves the others updated. An
// aggregate paid amount is divided equally; the last member absorbs the
// rounding remainder.
func (g *GroupService) EditGroup(actor domain.Actor, reservationID int, input EditGroupInput) ([]GroupEditResult, error) {
	if _, err := g.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}
	members, err := g.Members(reservationID)
	if err != nil {
		return nil, err
	}

	var share, remainder decimal.Decimal
	if input.TotalPaid != nil {
		if input.TotalPaid.IsNegative() {
			return nil, fmt.Errorf("group paid amount: %w", domain.ErrInvalidAmount)
		}
		n := decimal.NewFromInt(int64(len(members)))
		share = input.TotalPaid.Div(n).RoundDown(2)
		remainder = input.TotalPaid.Sub(share.Mul(n))
	}

	results := make([]GroupEditResult, 0, len(members))
	for i := range members {
		m := members[i]
		update := UpdateReservationInput{
			CheckIn:       input.CheckIn,
			CheckOut:      input.CheckOut,
			NightlyRate:   input.NightlyRate,
			GuestCount:    input.GuestCount,
			PaymentMethod: input.Method,
		}
		if input.TotalPaid != nil {
			amount := share
			if i == len(members)-1 {
				amount = amount.Add(remainder)
			}
			update.AmountPaid = &amount
		}
		out, err := g.service.Update(actor, m.ID, update)
		if err != nil {
			results = append(results, GroupEditResult{ReservationID: m.ID, Error: err.Error()})
			continue
		}
		results = append(results, GroupEditResult{ReservationID: m.ID, Warning: out.Warning})
	}
	return results, nil
}

// DeleteGroup hard-deletes every live member. The same management role and
// typed confirmation phrase required for single deletion apply once for the
// whole group.
func (g *GroupService) DeleteGroup(actor domain.Actor, reservationID int, confirmation string) (int, error) {
	if !actor.Role.Management() {
		return 0, domain.ErrPermission
	}
	if confirmation != domain.DeleteConfirmationPhrase {
		return 0, domain.ErrConfirmationMismatch
	}

	members, err := g.Members(reservationID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	var errs []error
	for _, m := range members {
		if err := g.reservations.Delete(m.ID); err != nil {
			errs = append(errs, fmt.Errorf("reservation %d: %w", m.ID, err))
			continue
		}
		deleted++
	}
	if deleted > 0 {
		g.log.Info().Int("deleted", deleted).Str("actor", actor.Name).
			Msg("group reservations deleted")
	}
	return deleted, errors.Join(errs...)
}
