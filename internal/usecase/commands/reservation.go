package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/court"
	"courtbook/internal/infra"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/queries"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	idempotencyEndpointCreate = "POST /reservations"
	idempotencyKeyTTL         = 24 * time.Hour
)

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, cmd CreateReservationCommand, actor shared.Actor, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Reschedule(ctx context.Context, id uuid.UUID, actor shared.Actor, cmd RescheduleCommand) (*queries.ReservationView, error)
	Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor, method booking.PaymentMethod) (*queries.ReservationView, error)
	Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor, reason *string) (*queries.ReservationView, error)
	CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
	MarkNoShow(ctx context.Context, id uuid.UUID, actor shared.Actor, observations *string) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	notifier           Notifier
	invalidator        AvailabilityInvalidator
	clock              clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	notifier Notifier,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		notifier:           notifier,
		invalidator:        invalidator,
		clock:              clk,
	}
}

func (u *reservationCommandsImpl) CreateReservation(
	ctx context.Context,
	cmd CreateReservationCommand,
	actor shared.Actor,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := calculateRequestHash(cmd)
	replayID, err := u.claimIdempotencyKey(ctx, idempotencyKey, actor.ID, requestHash)
	if err != nil {
		return nil, err
	}
	if replayID != nil {
		view, err := u.reservationQueries.GetByIDSystem(ctx, *replayID)
		if err != nil {
			return nil, err
		}
		return &CreateReservationResult{Reservation: view, IsReplayed: true}, nil
	}

	slot, err := booking.NewTimeSlot(cmd.StartsAt, cmd.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	paymentMethod, err := parsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var reservationID uuid.UUID
	err = u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		courtEntity, snap, err := loadBookableCourt(ctx, tx.Reads(), cmd.CourtID)
		if err != nil {
			return err
		}

		now := u.clock.Now()
		filter := shared.BusyFilter{Now: now}
		if cmd.HoldID != nil {
			if err := u.consumeHold(ctx, tx, *cmd.HoldID, actor.ID, cmd.CourtID, slot, now); err != nil {
				return err
			}
			filter.ExcludeHoldID = cmd.HoldID
		}

		if err := ensureSlotAvailable(ctx, tx.Reads(), snap, slot, filter); err != nil {
			return err
		}

		factory := booking.NewFactory(u.clock, storeQuoter{ctx: ctx, reads: tx.Reads(), facilityID: snap.FacilityID})
		res, err := factory.CreateReservation(courtEntity, actor.ID, slot, paymentMethod, booking.NewNote(cmd.Note))
		if err != nil {
			return mapDomainErr(err)
		}

		id, err := tx.Reservations().Create(ctx, res)
		if err != nil {
			return mapStoreErr(err)
		}
		reservationID = id

		return mapStoreErr(tx.Idempotency().MarkCompleted(ctx, idempotencyKey, actor.ID, id))
	})
	if err != nil {
		return nil, err
	}

	u.notifier.ReservationEvent(ctx, EventReservationCreated, reservationID)
	invalidateSlotDays(ctx, u.invalidator, cmd.CourtID, slot.Start(), slot.End())

	view, err := u.reservationQueries.GetByIDSystem(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return &CreateReservationResult{Reservation: view}, nil
}

// claimIdempotencyKey returns the prior result's id when the key was
// already completed with an identical request, nil when this request now
// owns the key.
func (u *reservationCommandsImpl) claimIdempotencyKey(ctx context.Context, key, userID uuid.UUID, requestHash string) (*uuid.UUID, error) {
	var replayID *uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		won, err := tx.Idempotency().TryInsert(ctx, key, userID, idempotencyEndpointCreate, requestHash, u.clock.Now().Add(idempotencyKeyTTL))
		if err != nil {
			return mapStoreErr(err)
		}
		if won {
			return nil
		}

		rec, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
		if err != nil {
			return mapStoreErr(err)
		}
		if rec.RequestHash != requestHash {
			return errs.ErrDuplicateRequest
		}
		switch rec.Status {
		case "completed":
			if rec.ResultReservationID == nil {
				return errs.ErrStoreFailure
			}
			replayID = rec.ResultReservationID
			return nil
		case "processing":
			return errs.ErrIdempotencyInProgress
		default:
			return errs.ErrStoreFailure
		}
	})
	if err != nil {
		return nil, err
	}
	return replayID, nil
}

func (u *reservationCommandsImpl) consumeHold(ctx context.Context, tx shared.Tx, holdID, userID, courtID uuid.UUID, slot booking.TimeSlot, now time.Time) error {
	hold, err := tx.Reads().HoldByID(ctx, holdID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrHoldNotFound
		}
		return mapStoreErr(err)
	}
	if hold.UserID() != userID || hold.CourtID() != courtID || hold.IsExpired(now) {
		return errs.ErrHoldNotFound
	}
	if !hold.Slot().Start().Equal(slot.Start()) || !hold.Slot().End().Equal(slot.End()) {
		return errs.ErrValidation
	}
	if err := tx.Holds().Delete(ctx, holdID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Reschedule replaces the slot of a live reservation after re-checking
// availability for the new slot, excluding the reservation itself.
func (u *reservationCommandsImpl) Reschedule(ctx context.Context, id uuid.UUID, actor shared.Actor, cmd RescheduleCommand) (*queries.ReservationView, error) {
	slot, err := booking.NewTimeSlot(cmd.StartsAt, cmd.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	var courtID uuid.UUID
	var oldSlot booking.TimeSlot
	err = u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := u.lockOwned(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		courtID = res.CourtID()
		oldSlot = res.Slot()

		snap, err := courtSnapshot(ctx, tx.Reads(), res.CourtID())
		if err != nil {
			return err
		}

		now := u.clock.Now()
		excludeID := res.ID()
		filter := shared.BusyFilter{ExcludeReservationID: &excludeID, Now: now}
		if err := ensureSlotAvailable(ctx, tx.Reads(), snap, slot, filter); err != nil {
			return err
		}

		if err := res.Reschedule(slot, now); err != nil {
			return mapDomainErr(err)
		}
		if cmd.Note != nil {
			if err := res.UpdateNote(booking.NewNote(*cmd.Note)); err != nil {
				return mapDomainErr(err)
			}
		}
		return mapStoreErr(tx.Reservations().Update(ctx, res))
	})
	if err != nil {
		return nil, err
	}

	u.notifier.ReservationEvent(ctx, EventReservationRescheduled, id)
	invalidateSlotDays(ctx, u.invalidator, courtID, oldSlot.Start(), oldSlot.End())
	invalidateSlotDays(ctx, u.invalidator, courtID, slot.Start(), slot.End())
	return u.reservationQueries.GetByIDSystem(ctx, id)
}

func (u *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor, method booking.PaymentMethod) (*queries.ReservationView, error) {
	return u.transition(ctx, id, actor, EventReservationConfirmed, func(res *booking.Reservation) error {
		return res.Confirm(method)
	})
}

func (u *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor, reason *string) (*queries.ReservationView, error) {
	return u.transition(ctx, id, actor, EventReservationCancelled, func(res *booking.Reservation) error {
		return res.Cancel(reason)
	})
}

func (u *reservationCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return u.transition(ctx, id, actor, EventReservationCheckedIn, func(res *booking.Reservation) error {
		return res.CheckIn()
	})
}

func (u *reservationCommandsImpl) MarkNoShow(ctx context.Context, id uuid.UUID, actor shared.Actor, observations *string) (*queries.ReservationView, error) {
	return u.transition(ctx, id, actor, EventReservationNoShow, func(res *booking.Reservation) error {
		return res.MarkNoShow(observations)
	})
}

// transition runs a state-machine move under a row lock so concurrent
// transitions on the same reservation serialize.
func (u *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	actor shared.Actor,
	event string,
	apply func(res *booking.Reservation) error,
) (*queries.ReservationView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := u.lockOwned(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		if err := apply(res); err != nil {
			return mapDomainErr(err)
		}
		return mapStoreErr(tx.Reservations().Update(ctx, res))
	})
	if err != nil {
		return nil, err
	}

	u.notifier.ReservationEvent(ctx, event, id)

	view, err := u.reservationQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cancellations and no-shows free the slot; invalidating on every
	// transition keeps this helper oblivious to which ones do.
	invalidateSlotDays(ctx, u.invalidator, view.CourtID, view.StartsAt, view.EndsAt)
	return view, nil
}

// lockOwned loads the reservation under FOR UPDATE and enforces ownership.
// A foreign reservation reads as not found for members.
func (u *reservationCommandsImpl) lockOwned(ctx context.Context, tx shared.Tx, id uuid.UUID, actor shared.Actor) (*booking.Reservation, error) {
	res, err := tx.Reservations().GetForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, mapStoreErr(err)
	}
	if !actor.CanManage(res.UserID()) {
		return nil, errs.ErrReservationNotFound
	}
	return res, nil
}

func loadBookableCourt(ctx context.Context, reads shared.CommandReads, courtID uuid.UUID) (*court.Court, *shared.CourtSnapshot, error) {
	snap, err := courtSnapshot(ctx, reads, courtID)
	if err != nil {
		return nil, nil, err
	}
	courtEntity, err := court.NewCourt(snap.ID, snap.FacilityID, snap.Name, snap.Surface, snap.Indoor, snap.Active)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrValidation)
	}
	if err := courtEntity.EnsureBookable(); err != nil {
		return nil, nil, errs.Mark(err, errs.ErrValidation)
	}
	return courtEntity, snap, nil
}

func courtSnapshot(ctx context.Context, reads shared.CommandReads, courtID uuid.UUID) (*shared.CourtSnapshot, error) {
	snap, err := reads.CourtByID(ctx, courtID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCourtNotFound
		}
		return nil, mapStoreErr(err)
	}
	return snap, nil
}

func parsePaymentMethod(s *string) (*booking.PaymentMethod, error) {
	if s == nil {
		return nil, nil
	}
	m := booking.PaymentMethod(*s)
	if !m.IsValid() {
		return nil, errs.ErrValidation
	}
	return &m, nil
}

func calculateRequestHash(cmd CreateReservationCommand) string {
	data, _ := json.Marshal(cmd)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
