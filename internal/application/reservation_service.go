package application

import (
	"fmt"
	"time"

	"github.com/Maxito7/hotel_frontdesk/internal/domain"
	"github.com/Maxito7/hotel_frontdesk/internal/email"
	"github.com/Maxito7/hotel_frontdesk/internal/notify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// transitions is the guest-facing state machine. Cancellation and
// administrative reopening are handled by Cancel and Reopen, not by this
// table.
var transitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationPending:   {domain.ReservationConfirmed, domain.ReservationNoShow},
	domain.ReservationConfirmed: {domain.ReservationCheckedIn, domain.ReservationNoShow},
	domain.ReservationCheckedIn: {domain.ReservationCheckedOut},
}

func canTransition(from, to domain.ReservationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ReservationService owns the reservation lifecycle: creation, edits,
// status transitions, cancellation with refund decisions, administrative
// reopening and deletion. Every mutation is validated before it happens;
// the only post-commit failure it tolerates is a ledger append, which is
// surfaced as a warning rather than rolled back.
type ReservationService struct {
	reservations domain.ReservationRepository
	rooms        domain.RoomRepository
	ledger       domain.LedgerRepository
	guard        *ShiftGuard
	detector     *ConflictDetector
	broadcaster  *notify.Broadcaster
	emailClient  *email.Client
	log          zerolog.Logger
}

// NewReservationService creates the lifecycle service. broadcaster and
// emailClient may be nil; both are best-effort observers.
func NewReservationService(
	reservations domain.ReservationRepository,
	rooms domain.RoomRepository,
	ledger domain.LedgerRepository,
	guard *ShiftGuard,
	detector *ConflictDetector,
	broadcaster *notify.Broadcaster,
	emailClient *email.Client,
	log zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		ledger:       ledger,
		guard:        guard,
		detector:     detector,
		broadcaster:  broadcaster,
		emailClient:  emailClient,
		log:          log,
	}
}

// PaymentInput is a money movement supplied with a create or payment
// operation.
type PaymentInput struct {
	Amount decimal.Decimal      `json:"amount"`
	Method domain.PaymentMethod `json:"method"`
}

// CreateReservationInput carries everything needed to create one
// reservation.
type CreateReservationInput struct {
	RoomID         int              `json:"roomId"`
	GuestName      string           `json:"guestName"`
	GuestEmail     string           `json:"guestEmail"`
	CheckIn        time.Time        `json:"checkIn"`
	CheckOut       time.Time        `json:"checkOut"`
	NightlyRate    decimal.Decimal  `json:"nightlyRate"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"` // zero means nights * rate
	PayerType      domain.PayerType `json:"payerType"`
	AgencyName     string           `json:"agencyName"`
	GuestCount     int              `json:"guestCount"`
	Currency       string           `json:"currency"`
	Notes          string           `json:"notes"`
	InitialPayment *PaymentInput    `json:"initialPayment"`
}

// CreateResult reports a successful creation plus any non-fatal ledger
// warning.
type CreateResult struct {
	Reservation *domain.Reservation         `json:"reservation"`
	Warning     *domain.LedgerAppendWarning `json:"-"`
}

// Create runs the full single-reservation pipeline: shift guard, input
// validation, conflict check, insert, initial-payment ledger entry. The
// advisory conflict check gives a readable error early; the repository
// re-runs the authoritative check inside its write transaction.
func (s *ReservationService) Create(actor domain.Actor, input CreateReservationInput) (*CreateResult, error) {
	if _, err := s.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}

	if !input.CheckOut.After(input.CheckIn) {
		return nil, domain.ErrInvalidRange
	}
	if !input.NightlyRate.IsPositive() {
		return nil, fmt.Errorf("nightly rate: %w", domain.ErrInvalidAmount)
	}
	if input.PayerType == "" {
		input.PayerType = domain.PayerIndividual
	}
	if input.PayerType == domain.PayerAgency && input.AgencyName == "" {
		return nil, fmt.Errorf("agency name is required for agency reservations")
	}
	if input.InitialPayment != nil && !input.InitialPayment.Amount.IsPositive() {
		return nil, fmt.Errorf("initial payment: %w", domain.ErrInvalidAmount)
	}
	if _, err := s.rooms.GetByID(input.RoomID); err != nil {
		return nil, err
	}

	if err := s.detector.Check(input.RoomID, input.CheckIn, input.CheckOut, 0); err != nil {
		return nil, err
	}

	now := time.Now()
	res := &domain.Reservation{
		RoomID:      input.RoomID,
		GuestName:   input.GuestName,
		GuestEmail:  input.GuestEmail,
		CheckIn:     input.CheckIn,
		CheckOut:    input.CheckOut,
		NightlyRate: input.NightlyRate,
		TotalAmount: input.TotalAmount,
		Status:      domain.ReservationPending,
		PayerType:   input.PayerType,
		AgencyName:  input.AgencyName,
		GuestCount:  input.GuestCount,
		Notes:       input.Notes,
		Currency:    input.Currency,
		CreatedBy:   actor.Name,
		UpdatedBy:   actor.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if res.TotalAmount.IsZero() {
		res.TotalAmount = input.NightlyRate.Mul(decimal.NewFromInt(int64(res.Nights())))
	}
	if res.Currency == "" {
		res.Currency = "EGP"
	}

	if err := s.reservations.Create(res); err != nil {
		return nil, err
	}

	result := &CreateResult{Reservation: res}
	if input.InitialPayment != nil {
		result.Warning = s.recordIncome(actor, res, input.InitialPayment.Amount, input.InitialPayment.Method, "initial payment")
		if result.Warning == nil {
			res.AmountPaid = input.InitialPayment.Amount
			if err := s.reservations.Update(res); err != nil {
				s.log.Warn().Err(err).Int("reservation_id", res.ID).
					Msg("ledger entry recorded but aggregate paid amount not updated")
			}
		}
	}

	return result, nil
}

// UpdateReservationInput carries partial edits; nil fields are untouched.
type UpdateReservationInput struct {
	RoomID        *int                 `json:"roomId"`
	CheckIn       *time.Time           `json:"checkIn"`
	CheckOut      *time.Time           `json:"checkOut"`
	GuestName     *string              `json:"guestName"`
	GuestEmail    *string              `json:"guestEmail"`
	NightlyRate   *decimal.Decimal     `json:"nightlyRate"`
	TotalAmount   *decimal.Decimal     `json:"totalAmount"`
	AmountPaid    *decimal.Decimal     `json:"amountPaid"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"` // method for a paid-amount increase
	GuestCount    *int                 `json:"guestCount"`
	Note          string               `json:"note"` // extra line appended to the trail
}

// UpdateResult reports the updated reservation plus any non-fatal ledger
// warning.
type UpdateResult struct {
	Reservation *domain.Reservation         `json:"reservation"`
	Warning     *domain.LedgerAppendWarning `json:"-"`
}

// Update edits a reservation. Date or room changes re-run the conflict check
// excluding the reservation itself; date and total changes leave an audit
// line in the notes; a paid-amount increase appends an income ledger entry
// after the reservation write succeeds.
func (s *ReservationService) Update(actor domain.Actor, id int, input UpdateReservationInput) (*UpdateResult, error) {
	if _, err := s.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}

	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		return nil, fmt.Errorf("reservation %d is %s and can no longer be edited", id, res.Status)
	}

	now := time.Now()
	newCheckIn := res.CheckIn
	newCheckOut := res.CheckOut
	newRoomID := res.RoomID
	if input.CheckIn != nil {
		newCheckIn = *input.CheckIn
	}
	if input.CheckOut != nil {
		newCheckOut = *input.CheckOut
	}
	if input.RoomID != nil {
		newRoomID = *input.RoomID
	}
	if !newCheckOut.After(newCheckIn) {
		return nil, domain.ErrInvalidRange
	}

	var paidDelta decimal.Decimal
	if input.AmountPaid != nil {
		if input.AmountPaid.IsNegative() {
			return nil, fmt.Errorf("paid amount: %w", domain.ErrInvalidAmount)
		}
		paidDelta = input.AmountPaid.Sub(res.AmountPaid)
	}

	datesChanged := !newCheckIn.Equal(res.CheckIn) || !newCheckOut.Equal(res.CheckOut)
	roomChanged := newRoomID != res.RoomID
	if datesChanged || roomChanged {
		if roomChanged {
			if _, err := s.rooms.GetByID(newRoomID); err != nil {
				return nil, err
			}
		}
		if err := s.detector.Check(newRoomID, newCheckIn, newCheckOut, res.ID); err != nil {
			return nil, err
		}
	}

	if !newCheckIn.Equal(res.CheckIn) {
		res.Notes = appendNote(res.Notes,
			changeNote("check_in", dateString(res.CheckIn), dateString(newCheckIn), actor, now))
	}
	if !newCheckOut.Equal(res.CheckOut) {
		res.Notes = appendNote(res.Notes,
			changeNote("check_out", dateString(res.CheckOut), dateString(newCheckOut), actor, now))
	}
	if roomChanged {
		res.Notes = appendNote(res.Notes,
			changeNote("room", fmt.Sprintf("%d", res.RoomID), fmt.Sprintf("%d", newRoomID), actor, now))
	}
	if input.TotalAmount != nil && !input.TotalAmount.Equal(res.TotalAmount) {
		res.Notes = appendNote(res.Notes,
			changeNote("total_amount", res.TotalAmount.StringFixed(2), input.TotalAmount.StringFixed(2), actor, now))
		res.TotalAmount = *input.TotalAmount
	}
	if input.Note != "" {
		res.Notes = appendNote(res.Notes, actionNote(input.Note, actor, now))
	}

	res.CheckIn = newCheckIn
	res.CheckOut = newCheckOut
	res.RoomID = newRoomID
	if input.GuestName != nil {
		res.GuestName = *input.GuestName
	}
	if input.GuestEmail != nil {
		res.GuestEmail = *input.GuestEmail
	}
	if input.NightlyRate != nil {
		if !input.NightlyRate.IsPositive() {
			return nil, fmt.Errorf("nightly rate: %w", domain.ErrInvalidAmount)
		}
		res.NightlyRate = *input.NightlyRate
	}
	if input.AmountPaid != nil {
		res.AmountPaid = *input.AmountPaid
	}
	if input.GuestCount != nil {
		res.GuestCount = *input.GuestCount
	}
	res.UpdatedBy = actor.Name
	res.UpdatedAt = now

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	result := &UpdateResult{Reservation: res}
	if paidDelta.IsPositive() {
		method := input.PaymentMethod
		if method == "" {
			method = domain.PaymentCash
		}
		result.Warning = s.recordIncome(actor, res, paidDelta, method, "payment on update")
	}

	return result, nil
}

// RecordPayment appends an income ledger entry for the reservation and
// raises the legacy aggregate. Cash and Instapay entries land pending;
// everything else is confirmed immediately.
func (s *ReservationService) RecordPayment(actor domain.Actor, id int, payment PaymentInput) (*UpdateResult, error) {
	if _, err := s.guard.RequireOpenShift(actor); err != nil {
		return nil, err
	}
	if !payment.Amount.IsPositive() {
		return nil, fmt.Errorf("payment: %w", domain.ErrInvalidAmount)
	}

	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}

	res.AmountPaid = res.AmountPaid.Add(payment.Amount)
	res.UpdatedBy = actor.Name
	res.UpdatedAt = time.Now()
	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	result := &UpdateResult{Reservation: res}
	result.Warning = s.recordIncome(actor, res, payment.Amount, payment.Method, "payment")
	return result, nil
}

// ChangeStatus applies a guest-facing transition (confirm, check in, check
// out, no-show). Cancellation goes through Cancel; leaving cancelled goes
// through Reopen. Check-in and check-out also move the room through its
// occupancy and cleanliness states.
func (s *ReservationService) ChangeStatus(actor domain.Actor, id int, to domain.ReservationStatus) (*domain.Reservation, error) {
	switch to {
	case domain.ReservationCancelled:
		return nil, fmt.Errorf("cancellation requires a refund decision; use Cancel")
	case domain.ReservationPending, domain.ReservationConfirmed,
		domain.ReservationCheckedIn, domain.ReservationCheckedOut,
		domain.ReservationNoShow:
	default:
		return nil, fmt.Errorf("unknown reservation status %q", to)
	}

	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status == domain.ReservationCancelled {
		return nil, fmt.Errorf("reservation %d is cancelled; reopening requires manager approval", id)
	}
	if !canTransition(res.Status, to) {
		return nil, &domain.InvalidTransitionError{ReservationID: id, From: res.Status, To: to}
	}

	now := time.Now()
	res.Notes = appendNote(res.Notes,
		changeNote("status", string(res.Status), string(to), actor, now))
	res.Status = to
	res.UpdatedBy = actor.Name
	res.UpdatedAt = now

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	s.applyRoomSideEffects(res, to)
	return res, nil
}

// CancelResult reports the cancelled reservation, the refund amount decided,
// and any non-fatal ledger warning. When Warning is set the cancellation
// stands and the refund bookkeeping must be completed manually.
type CancelResult struct {
	Reservation  *domain.Reservation         `json:"reservation"`
	RefundAmount decimal.Decimal             `json:"refundAmount"`
	Warning      *domain.LedgerAppendWarning `json:"-"`
}

// Cancel moves a reservation into cancelled from any non-terminal state.
// The caller must supply a refund decision: full refunds the currently paid
// amount, partial requires an explicit positive amount, none refunds
// nothing. A positive refund becomes a pending expense ledger entry for
// manager approval; if that append fails the cancellation is not rolled
// back.
func (s *ReservationService) Cancel(actor domain.Actor, id int, refund domain.RefundDecision) (*CancelResult, error) {
	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status.Terminal() {
		return nil, &domain.InvalidTransitionError{ReservationID: id, From: res.Status, To: domain.ReservationCancelled}
	}

	var amount decimal.Decimal
	switch refund.Choice {
	case domain.RefundFull:
		amount = s.paidAmount(res)
	case domain.RefundPartial:
		if !refund.Amount.IsPositive() {
			return nil, fmt.Errorf("partial refund: %w", domain.ErrInvalidAmount)
		}
		amount = refund.Amount
	case domain.RefundNone:
		amount = decimal.Zero
	default:
		return nil, fmt.Errorf("refund choice must be full, partial or none, got %q", refund.Choice)
	}

	now := time.Now()
	res.Notes = appendNote(res.Notes, refundNote(refund.Choice, amount, actor, now))
	res.Status = domain.ReservationCancelled
	res.UpdatedBy = actor.Name
	res.UpdatedAt = now

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	result := &CancelResult{Reservation: res, RefundAmount: amount}
	if amount.IsPositive() {
		entry := domain.LedgerEntry{
			ID:            uuid.NewString(),
			ReservationID: res.ID,
			Direction:     domain.LedgerExpense,
			Amount:        amount,
			Status:        domain.LedgerPending,
			Note:          fmt.Sprintf("refund (%s) for cancelled reservation #%d", refund.Choice, res.ID),
			CreatedBy:     actor.Name,
			CreatedAt:     now,
		}
		if err := s.ledger.Append(&entry); err != nil {
			result.Warning = &domain.LedgerAppendWarning{ReservationID: res.ID, Entry: entry, Cause: err}
			s.log.Warn().Err(err).Int("reservation_id", res.ID).
				Str("amount", amount.StringFixed(2)).
				Msg("cancellation committed but refund ledger entry failed")
		} else {
			s.publishLedger(entry)
		}
	}

	s.sendCancellationNotice(res, amount)
	return result, nil
}

// Reopen administratively moves a cancelled reservation back into a live
// status. It requires management capability and an explicit confirmation
// flag collected by the calling layer as a second step; a bare first click
// is rejected. The conflict check is re-run because the room may have been
// rebooked since cancellation.
func (s *ReservationService) Reopen(actor domain.Actor, id int, target domain.ReservationStatus, confirmed bool) (*domain.Reservation, error) {
	if !actor.Role.Management() {
		return nil, domain.ErrPermission
	}
	if !confirmed {
		return nil, fmt.Errorf("reopening a cancelled reservation: %w", domain.ErrConfirmationMismatch)
	}
	switch target {
	case domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCheckedIn:
	default:
		return nil, fmt.Errorf("cannot reopen into status %q", target)
	}

	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status != domain.ReservationCancelled {
		return nil, &domain.InvalidTransitionError{ReservationID: id, From: res.Status, To: target}
	}

	if err := s.detector.Check(res.RoomID, res.CheckIn, res.CheckOut, res.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	res.Notes = appendNote(res.Notes,
		actionNote(fmt.Sprintf("reopened from cancelled to %s", target), actor, now))
	res.Status = target
	res.UpdatedBy = actor.Name
	res.UpdatedAt = now

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete hard-deletes a reservation. Management capability and the exact
// typed confirmation phrase are both required; a yes/no flag is not enough.
func (s *ReservationService) Delete(actor domain.Actor, id int, confirmation string) error {
	if !actor.Role.Management() {
		return domain.ErrPermission
	}
	if confirmation != domain.DeleteConfirmationPhrase {
		return domain.ErrConfirmationMismatch
	}
	if _, err := s.reservations.GetByID(id); err != nil {
		return err
	}
	if err := s.reservations.Delete(id); err != nil {
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}
	s.log.Info().Int("reservation_id", id).Str("actor", actor.Name).
		Msg("reservation deleted")
	return nil
}

// GetByID returns a reservation.
func (s *ReservationService) GetByID(id int) (*domain.Reservation, error) {
	return s.reservations.GetByID(id)
}

// paidAmount prefers ledger-derived totals over the legacy aggregate; the
// aggregate is only trusted for reservations with no ledger entries.
func (s *ReservationService) paidAmount(res *domain.Reservation) decimal.Decimal {
	totals, err := s.ledger.SumByReservation(res.ID)
	if err != nil {
		s.log.Warn().Err(err).Int("reservation_id", res.ID).
			Msg("falling back to aggregate paid amount")
		return res.AmountPaid
	}
	if totals.EntryCount == 0 {
		return res.AmountPaid
	}
	return totals.Paid()
}

// recordIncome appends an income entry and publishes the ledger event.
// A failed append becomes a warning, never an operation failure: the
// reservation write it follows has already committed.
func (s *ReservationService) recordIncome(actor domain.Actor, res *domain.Reservation, amount decimal.Decimal, method domain.PaymentMethod, note string) *domain.LedgerAppendWarning {
	entry := domain.LedgerEntry{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		Direction:     domain.LedgerIncome,
		Amount:        amount,
		Status:        method.EntryStatus(),
		Method:        method,
		Note:          note,
		CreatedBy:     actor.Name,
		CreatedAt:     time.Now(),
	}
	if err := s.ledger.Append(&entry); err != nil {
		s.log.Warn().Err(err).Int("reservation_id", res.ID).
			Str("amount", amount.StringFixed(2)).
			Msg("reservation committed but income ledger entry failed")
		return &domain.LedgerAppendWarning{ReservationID: res.ID, Entry: entry, Cause: err}
	}
	s.publishLedger(entry)
	s.sendReceipt(res, entry)
	return nil
}

func (s *ReservationService) publishLedger(entry domain.LedgerEntry) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.LedgerUpdated(notify.LedgerEvent{
		ReservationID: entry.ReservationID,
		EntryID:       entry.ID,
		Direction:     entry.Direction,
		Status:        entry.Status,
	})
}

func (s *ReservationService) sendReceipt(res *domain.Reservation, entry domain.LedgerEntry) {
	if s.emailClient == nil || res.GuestEmail == "" {
		return
	}
	room, err := s.rooms.GetByID(res.RoomID)
	roomNumber := ""
	if err == nil {
		roomNumber = room.Number
	}
	info := email.ReceiptInfo{
		ReservationID: res.ID,
		GuestName:     res.GuestName,
		RoomNumber:    roomNumber,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
		Amount:        entry.Amount,
		Currency:      res.Currency,
		Method:        string(entry.Method),
		Pending:       entry.Status == domain.LedgerPending,
	}
	if err := s.emailClient.SendPaymentReceipt(res.GuestEmail, info); err != nil {
		s.log.Warn().Err(err).Int("reservation_id", res.ID).Msg("payment receipt email failed")
	}
}

func (s *ReservationService) sendCancellationNotice(res *domain.Reservation, refund decimal.Decimal) {
	if s.emailClient == nil || res.GuestEmail == "" {
		return
	}
	room, err := s.rooms.GetByID(res.RoomID)
	roomNumber := ""
	if err == nil {
		roomNumber = room.Number
	}
	info := email.CancellationInfo{
		ReservationID: res.ID,
		GuestName:     res.GuestName,
		RoomNumber:    roomNumber,
		RefundAmount:  refund,
		Currency:      res.Currency,
	}
	if err := s.emailClient.SendCancellationNotice(res.GuestEmail, info); err != nil {
		s.log.Warn().Err(err).Int("reservation_id", res.ID).Msg("cancellation notice email failed")
	}
}

// applyRoomSideEffects keeps the room's occupancy and cleanliness in step
// with the stay. Failures are logged, not returned: the reservation
// transition has already committed and housekeeping state is advisory.
func (s *ReservationService) applyRoomSideEffects(res *domain.Reservation, to domain.ReservationStatus) {
	var err error
	switch to {
	case domain.ReservationCheckedIn:
		err = s.rooms.UpdateStatus(res.RoomID, domain.RoomOccupied)
	case domain.ReservationCheckedOut:
		if err = s.rooms.UpdateStatus(res.RoomID, domain.RoomAvailable); err == nil {
			err = s.rooms.UpdateCleanliness(res.RoomID, domain.RoomNeedsCleaning)
		}
	default:
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Int("room_id", res.RoomID).
			Str("status", string(to)).
			Msg("reservation transitioned but room status update failed")
	}
}
