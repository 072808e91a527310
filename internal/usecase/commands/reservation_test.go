//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"
	"courtbook/internal/domain/user"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/commands"
	"courtbook/internal/usecase/queries"
	"courtbook/internal/usecase/shared"
	"courtbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ReservationCommandsTestSuite struct {
	suite.Suite
	store       *fakeStore
	notifier    *fakeNotifier
	invalidator *fakeInvalidator
	now         time.Time
	cmds        commands.ReservationCommands

	courtID    uuid.UUID
	facilityID uuid.UUID
	member     shared.Actor
	staff      shared.Actor
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s.courtID = uuid.New()
	s.facilityID = uuid.New()
	s.member = shared.Actor{ID: uuid.New(), Role: user.RoleMember}
	s.staff = shared.Actor{ID: uuid.New(), Role: user.RoleStaff}

	s.store = newFakeStore()
	s.store.courts[s.courtID] = &shared.CourtSnapshot{
		ID:         s.courtID,
		FacilityID: s.facilityID,
		Name:       "Court 1",
		Surface:    "clay",
		Active:     true,
	}

	midnight, _ := schedule.NewTimeOfDay(0, 0)
	s.store.windows = []schedule.OperatingWindow{{
		ID:         uuid.New(),
		FacilityID: s.facilityID,
		Open:       midnight,
		Close:      schedule.EndOfDay,
		Active:     true,
	}}

	rule, err := pricing.NewRule(uuid.New(), s.courtID, nil, midnight, schedule.EndOfDay, 2000, nil, nil)
	s.Require().NoError(err)
	s.store.rules = []pricing.Rule{rule}

	s.notifier = &fakeNotifier{}
	s.invalidator = &fakeInvalidator{}
	s.cmds = commands.NewReservationCommands(
		fakeUoW{store: s.store},
		queries.NewReservationQueries(fakeReservationViews{store: s.store}),
		s.notifier,
		s.invalidator,
		clock.NewMockClock(s.now),
	)
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) slot() (time.Time, time.Time) {
	return s.now.Add(48 * time.Hour), s.now.Add(50 * time.Hour)
}

func (s *ReservationCommandsTestSuite) createCmd() commands.CreateReservationCommand {
	start, end := s.slot()
	return commands.CreateReservationCommand{
		CourtID:  s.courtID,
		StartsAt: start,
		EndsAt:   end,
		Note:     "after work",
	}
}

// stage inserts a reservation directly into the store, bypassing the
// command path, so transition tests start from a known state.
func (s *ReservationCommandsTestSuite) stage(mutate func(*builder.ReservationBuilder)) *booking.Reservation {
	start, end := s.slot()
	b := builder.NewReservationBuilder().
		WithUserID(s.member.ID).
		WithSlot(start, end)
	b.CourtID = s.courtID
	b.FacilityID = s.facilityID
	if mutate != nil {
		b.With(mutate)
	}
	res := b.BuildReconstructed()
	s.store.reservations[res.ID()] = res
	return res
}

func requestHash(cmd commands.CreateReservationCommand) string {
	data, _ := json.Marshal(cmd)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *ReservationCommandsTestSuite) TestCreateReservation() {
	key := uuid.New()
	result, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, key)

	s.Require().NoError(err)
	s.False(result.IsReplayed)
	s.Equal("pending", result.Reservation.Status)
	s.Equal(int64(4000), result.Reservation.PriceCents)
	s.Equal(s.member.ID, result.Reservation.UserID)
	s.Len(result.Reservation.ConfirmationCode, 8)

	rec := s.store.idem[key.String()+s.member.ID.String()]
	s.Require().NotNil(rec)
	s.Equal("completed", rec.Status)
	s.Require().NotNil(rec.ResultReservationID)
	s.Equal(result.Reservation.ID, *rec.ResultReservationID)

	s.Equal([]string{commands.EventReservationCreated}, s.notifier.events)
}

func (s *ReservationCommandsTestSuite) TestCreateDropsCachedAvailability() {
	start, _ := s.slot()

	result, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.Require().NoError(err)
	s.Equal([]invalidation{{CourtID: s.courtID, Date: start.Format("2006-01-02")}}, s.invalidator.dropped)

	// a failed create never touches the cache
	s.invalidator.dropped = nil
	_, err = s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.ErrorIs(err, errs.ErrSlotConflict)
	s.Empty(s.invalidator.dropped)

	s.invalidator.dropped = nil
	_, err = s.cmds.Cancel(context.Background(), result.Reservation.ID, s.member, nil)
	s.Require().NoError(err)
	s.Equal([]invalidation{{CourtID: s.courtID, Date: start.Format("2006-01-02")}}, s.invalidator.dropped)
}

func (s *ReservationCommandsTestSuite) TestRescheduleDropsBothDays() {
	res := s.stage(nil)
	start, _ := s.slot()
	cmd := commands.RescheduleCommand{
		StartsAt: start.AddDate(0, 0, 1),
		EndsAt:   start.AddDate(0, 0, 1).Add(2 * time.Hour),
	}

	_, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.Require().NoError(err)
	s.Equal([]invalidation{
		{CourtID: s.courtID, Date: start.Format("2006-01-02")},
		{CourtID: s.courtID, Date: cmd.StartsAt.Format("2006-01-02")},
	}, s.invalidator.dropped)
}

func (s *ReservationCommandsTestSuite) TestCreateRequiresIdempotencyKey() {
	_, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.Nil)
	s.ErrorIs(err, errs.ErrIdempotencyKeyRequired)
}

func (s *ReservationCommandsTestSuite) TestCreateReplaysCompletedKey() {
	key := uuid.New()
	cmd := s.createCmd()

	first, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, key)
	s.Require().NoError(err)

	second, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, key)
	s.Require().NoError(err)

	s.True(second.IsReplayed)
	s.Equal(first.Reservation.ID, second.Reservation.ID)
	s.Len(s.store.reservations, 1)
	s.Len(s.notifier.events, 1)
}

func (s *ReservationCommandsTestSuite) TestCreateRejectsReusedKeyWithDifferentPayload() {
	key := uuid.New()
	cmd := s.createCmd()
	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, key)
	s.Require().NoError(err)

	cmd.Note = "different request"
	_, err = s.cmds.CreateReservation(context.Background(), cmd, s.member, key)
	s.ErrorIs(err, errs.ErrDuplicateRequest)
}

func (s *ReservationCommandsTestSuite) TestCreateReportsKeyInProgress() {
	key := uuid.New()
	cmd := s.createCmd()
	s.store.idem[key.String()+s.member.ID.String()] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      s.member.ID,
		Status:      "processing",
		RequestHash: requestHash(cmd),
		ExpiresAt:   s.now.Add(24 * time.Hour),
	}

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, key)
	s.ErrorIs(err, errs.ErrIdempotencyInProgress)
}

func (s *ReservationCommandsTestSuite) TestCreateConflictsWithOccupyingReservation() {
	s.stage(func(b *builder.ReservationBuilder) {
		b.UserID = uuid.New()
		b.Status = "confirmed"
	})

	_, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.ErrorIs(err, errs.ErrSlotConflict)
}

func (s *ReservationCommandsTestSuite) TestCreateIgnoresReleasedReservations() {
	s.stage(func(b *builder.ReservationBuilder) {
		b.UserID = uuid.New()
		b.Status = "cancelled"
	})

	_, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.NoError(err)
}

func (s *ReservationCommandsTestSuite) TestCreateOutsideOpenHours() {
	open9, _ := schedule.NewTimeOfDay(9, 0)
	close17, _ := schedule.NewTimeOfDay(17, 0)
	s.store.windows[0].Open = open9
	s.store.windows[0].Close = close17

	cmd := s.createCmd()
	cmd.StartsAt = s.now.Add(54 * time.Hour) // 16:00, crosses closing time
	cmd.EndsAt = s.now.Add(56 * time.Hour)

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.ErrorIs(err, errs.ErrSlotConflict)
}

func (s *ReservationCommandsTestSuite) TestCreateUnknownCourt() {
	cmd := s.createCmd()
	cmd.CourtID = uuid.New()

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.ErrorIs(err, errs.ErrCourtNotFound)
}

func (s *ReservationCommandsTestSuite) TestCreateInactiveCourt() {
	s.store.courts[s.courtID].Active = false

	_, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *ReservationCommandsTestSuite) TestCreateWithoutPricingRule() {
	s.store.rules = nil

	_, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.ErrorIs(err, errs.ErrNoPricingRule)
}

func (s *ReservationCommandsTestSuite) TestCreateRejectsUnknownPaymentMethod() {
	cmd := s.createCmd()
	method := "barter"
	cmd.PaymentMethod = &method

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *ReservationCommandsTestSuite) TestCreateAppliesPromotion() {
	promo, err := pricing.NewPercentagePromotion(uuid.New(), &s.facilityID, nil, 10, nil, nil)
	s.Require().NoError(err)
	s.store.promotions = []pricing.Promotion{promo}

	result, err := s.cmds.CreateReservation(context.Background(), s.createCmd(), s.member, uuid.New())
	s.Require().NoError(err)
	s.Equal(int64(3600), result.Reservation.PriceCents)
}

func (s *ReservationCommandsTestSuite) holdForSlot() *booking.Hold {
	start, end := s.slot()
	b := builder.NewHoldBuilder().
		WithUserID(s.member.ID).
		WithSlot(start, end).
		WithExpiresAt(s.now.Add(5 * time.Minute))
	b.CourtID = s.courtID
	hold := b.BuildReconstructed()
	s.store.holds[hold.ID()] = hold
	return hold
}

func (s *ReservationCommandsTestSuite) TestCreateConsumesHold() {
	hold := s.holdForSlot()
	cmd := s.createCmd()
	holdID := hold.ID()
	cmd.HoldID = &holdID

	result, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.Require().NoError(err)
	s.Equal("pending", result.Reservation.Status)

	// The hold is gone and was excluded from its own availability check.
	s.Empty(s.store.holds)
	s.Require().NotNil(s.store.lastBusyFilter.ExcludeHoldID)
	s.Equal(holdID, *s.store.lastBusyFilter.ExcludeHoldID)
}

func (s *ReservationCommandsTestSuite) TestCreateWithForeignHold() {
	hold := s.holdForSlot()
	cmd := s.createCmd()
	holdID := hold.ID()
	cmd.HoldID = &holdID

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.staff, uuid.New())
	s.ErrorIs(err, errs.ErrHoldNotFound)
}

func (s *ReservationCommandsTestSuite) TestCreateWithExpiredHold() {
	start, end := s.slot()
	b := builder.NewHoldBuilder().
		WithUserID(s.member.ID).
		WithSlot(start, end).
		WithExpiresAt(s.now.Add(-time.Minute))
	b.CourtID = s.courtID
	hold := b.BuildReconstructed()
	s.store.holds[hold.ID()] = hold

	cmd := s.createCmd()
	holdID := hold.ID()
	cmd.HoldID = &holdID

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.ErrorIs(err, errs.ErrHoldNotFound)
}

func (s *ReservationCommandsTestSuite) TestCreateWithHoldForDifferentSlot() {
	start, end := s.slot()
	b := builder.NewHoldBuilder().
		WithUserID(s.member.ID).
		WithSlot(start.Add(2*time.Hour), end.Add(2*time.Hour)).
		WithExpiresAt(s.now.Add(5 * time.Minute))
	b.CourtID = s.courtID
	hold := b.BuildReconstructed()
	s.store.holds[hold.ID()] = hold

	cmd := s.createCmd()
	holdID := hold.ID()
	cmd.HoldID = &holdID

	_, err := s.cmds.CreateReservation(context.Background(), cmd, s.member, uuid.New())
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *ReservationCommandsTestSuite) TestReschedule() {
	res := s.stage(nil)
	start, _ := s.slot()
	note := "moved to the evening"
	cmd := commands.RescheduleCommand{
		StartsAt: start.Add(4 * time.Hour),
		EndsAt:   start.Add(6 * time.Hour),
		Note:     &note,
	}

	view, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.Require().NoError(err)
	s.Equal(cmd.StartsAt, view.StartsAt)
	s.Equal(cmd.EndsAt, view.EndsAt)
	s.Require().NotNil(view.Note)
	s.Equal(note, *view.Note)
	s.Equal([]string{commands.EventReservationRescheduled}, s.notifier.events)
}

func (s *ReservationCommandsTestSuite) TestRescheduleExcludesOwnSlot() {
	res := s.stage(nil)
	start, end := s.slot()

	// Shift by one hour: the new slot overlaps the old one, which must not
	// count as a conflict with itself.
	cmd := commands.RescheduleCommand{StartsAt: start.Add(time.Hour), EndsAt: end.Add(time.Hour)}
	_, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.NoError(err)
}

func (s *ReservationCommandsTestSuite) TestRescheduleConflictsWithOtherReservation() {
	res := s.stage(nil)
	start, end := s.slot()
	s.stage(func(b *builder.ReservationBuilder) {
		b.ID = uuid.New()
		b.UserID = uuid.New()
		b.StartsAt = start.Add(4 * time.Hour)
		b.EndsAt = end.Add(4 * time.Hour)
		b.Status = "confirmed"
	})

	cmd := commands.RescheduleCommand{StartsAt: start.Add(4 * time.Hour), EndsAt: end.Add(4 * time.Hour)}
	_, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.ErrorIs(err, errs.ErrSlotConflict)
}

func (s *ReservationCommandsTestSuite) TestRescheduleInsideLockWindow() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.Status = "confirmed"
		b.StartsAt = s.now.Add(12 * time.Hour)
		b.EndsAt = s.now.Add(14 * time.Hour)
	})

	start, end := s.slot()
	cmd := commands.RescheduleCommand{StartsAt: start, EndsAt: end}
	_, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.ErrorIs(err, errs.ErrLockWindow)
}

func (s *ReservationCommandsTestSuite) TestRescheduleForeignReservation() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.UserID = uuid.New()
	})

	start, end := s.slot()
	cmd := commands.RescheduleCommand{StartsAt: start.Add(4 * time.Hour), EndsAt: end.Add(4 * time.Hour)}

	_, err := s.cmds.Reschedule(context.Background(), res.ID(), s.member, cmd)
	s.ErrorIs(err, errs.ErrReservationNotFound)

	// Staff manage any reservation.
	_, err = s.cmds.Reschedule(context.Background(), res.ID(), s.staff, cmd)
	s.NoError(err)
}

func (s *ReservationCommandsTestSuite) TestConfirm() {
	res := s.stage(nil)

	view, err := s.cmds.Confirm(context.Background(), res.ID(), s.member, booking.PaymentCard)
	s.Require().NoError(err)
	s.Equal("confirmed", view.Status)
	s.True(view.Paid)
	s.Require().NotNil(view.PaymentMethod)
	s.Equal("card", *view.PaymentMethod)
	s.Equal([]string{commands.EventReservationConfirmed}, s.notifier.events)
}

func (s *ReservationCommandsTestSuite) TestCancelWithReason() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.Status = "confirmed"
	})

	reason := "rained out"
	view, err := s.cmds.Cancel(context.Background(), res.ID(), s.member, &reason)
	s.Require().NoError(err)
	s.Equal("cancelled", view.Status)
	s.Require().NotNil(view.CancelReason)
	s.Equal(reason, *view.CancelReason)
}

func (s *ReservationCommandsTestSuite) TestCancelTerminalReservation() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.Status = "cancelled"
	})

	_, err := s.cmds.Cancel(context.Background(), res.ID(), s.member, nil)
	s.ErrorIs(err, errs.ErrInvalidState)
}

func (s *ReservationCommandsTestSuite) TestCheckIn() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.Status = "confirmed"
	})

	view, err := s.cmds.CheckIn(context.Background(), res.ID(), s.staff)
	s.Require().NoError(err)
	s.Equal("completed", view.Status)
	s.Equal([]string{commands.EventReservationCheckedIn}, s.notifier.events)
}

func (s *ReservationCommandsTestSuite) TestCheckInPendingReservation() {
	res := s.stage(nil)

	_, err := s.cmds.CheckIn(context.Background(), res.ID(), s.staff)
	s.ErrorIs(err, errs.ErrInvalidState)
}

func (s *ReservationCommandsTestSuite) TestMarkNoShow() {
	res := s.stage(func(b *builder.ReservationBuilder) {
		b.Status = "confirmed"
	})

	obs := "court stayed empty all hour"
	view, err := s.cmds.MarkNoShow(context.Background(), res.ID(), s.staff, &obs)
	s.Require().NoError(err)
	s.Equal("no_show", view.Status)
	s.Require().NotNil(view.Note)
	s.Equal(obs, *view.Note)
	s.Equal([]string{commands.EventReservationNoShow}, s.notifier.events)
}

func (s *ReservationCommandsTestSuite) TestTransitionUnknownReservation() {
	_, err := s.cmds.Confirm(context.Background(), uuid.New(), s.member, booking.PaymentCash)
	s.ErrorIs(err, errs.ErrReservationNotFound)
}
