//go:build unit

package commands_test

import (
	"context"
	"time"

	"courtbook/internal/domain/booking"
	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/usecase/queries"
	"courtbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the postgres unit of work. It
// implements every write-side port plus the read store the command layer
// consults after commit, so a single instance backs a whole scenario.
type fakeStore struct {
	courts       map[uuid.UUID]*shared.CourtSnapshot
	reservations map[uuid.UUID]*booking.Reservation
	holds        map[uuid.UUID]*booking.Hold
	idem         map[string]*shared.IdempotencyRecord
	windows      []schedule.OperatingWindow
	blackouts    []schedule.Blackout
	rules        []pricing.Rule
	promotions   []pricing.Promotion

	lastBusyFilter shared.BusyFilter
	createErr      error
	updateErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courts:       map[uuid.UUID]*shared.CourtSnapshot{},
		reservations: map[uuid.UUID]*booking.Reservation{},
		holds:        map[uuid.UUID]*booking.Hold{},
		idem:         map[string]*shared.IdempotencyRecord{},
	}
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// --- shared.CommandReads ---

func (f *fakeStore) CourtByID(_ context.Context, id uuid.UUID) (*shared.CourtSnapshot, error) {
	snap, ok := f.courts[id]
	if !ok {
		return nil, notFound("court")
	}
	return snap, nil
}

func (f *fakeStore) ReservationByID(_ context.Context, id uuid.UUID) (*booking.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, notFound("reservation")
	}
	return res, nil
}

func (f *fakeStore) HoldByID(_ context.Context, id uuid.UUID) (*booking.Hold, error) {
	hold, ok := f.holds[id]
	if !ok {
		return nil, notFound("hold")
	}
	return hold, nil
}

func (f *fakeStore) OperatingWindows(_ context.Context, _ uuid.UUID) ([]schedule.OperatingWindow, error) {
	return f.windows, nil
}

func (f *fakeStore) Blackouts(_ context.Context, _ uuid.UUID) ([]schedule.Blackout, error) {
	return f.blackouts, nil
}

func (f *fakeStore) PricingRules(_ context.Context, _ uuid.UUID) ([]pricing.Rule, error) {
	return f.rules, nil
}

func (f *fakeStore) Promotions(_ context.Context, _, _ uuid.UUID) ([]pricing.Promotion, error) {
	return f.promotions, nil
}

// BusyIntervals derives occupancy from the stored reservations and holds
// the way the real read does: released statuses and expired holds drop out,
// and the filter's exclusions apply.
func (f *fakeStore) BusyIntervals(_ context.Context, courtID uuid.UUID, within schedule.Interval, filter shared.BusyFilter) ([]schedule.Busy, error) {
	f.lastBusyFilter = filter
	var busy []schedule.Busy
	for _, res := range f.reservations {
		if res.CourtID() != courtID || !res.Status().OccupiesSlot() {
			continue
		}
		if filter.ExcludeReservationID != nil && *filter.ExcludeReservationID == res.ID() {
			continue
		}
		iv := schedule.Interval{Start: res.Slot().Start(), End: res.Slot().End()}
		if iv.Overlaps(within) {
			busy = append(busy, schedule.Busy{Interval: iv, Reason: schedule.ReasonReserved})
		}
	}
	for _, hold := range f.holds {
		if hold.CourtID() != courtID || hold.IsExpired(filter.Now) {
			continue
		}
		if filter.ExcludeHoldID != nil && *filter.ExcludeHoldID == hold.ID() {
			continue
		}
		iv := schedule.Interval{Start: hold.Slot().Start(), End: hold.Slot().End()}
		if iv.Overlaps(within) {
			busy = append(busy, schedule.Busy{Interval: iv, Reason: schedule.ReasonHold})
		}
	}
	return busy, nil
}

func (f *fakeStore) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := f.idem[key.String()+userID.String()]
	if !ok {
		return nil, notFound("idempotency key")
	}
	return rec, nil
}

// --- shared.ReservationRepository ---

func (f *fakeStore) Create(_ context.Context, res *booking.Reservation) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.reservations[res.ID()] = res
	return res.ID(), nil
}

func (f *fakeStore) Update(_ context.Context, res *booking.Reservation) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.reservations[res.ID()] = res
	return nil
}

func (f *fakeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	return f.ReservationByID(ctx, id)
}

// --- hold repository (method names offset to avoid clashing with the
// reservation repository on the same receiver) ---

type fakeHoldRepo struct{ store *fakeStore }

func (r fakeHoldRepo) Create(_ context.Context, hold *booking.Hold) error {
	r.store.holds[hold.ID()] = hold
	return nil
}

func (r fakeHoldRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.holds[id]; !ok {
		return notFound("hold")
	}
	delete(r.store.holds, id)
	return nil
}

func (r fakeHoldRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for id, hold := range r.store.holds {
		if hold.IsExpired(now) {
			delete(r.store.holds, id)
			purged++
		}
	}
	return purged, nil
}

// --- idempotency repository ---

type fakeIdemRepo struct{ store *fakeStore }

func (r fakeIdemRepo) TryInsert(_ context.Context, key, userID uuid.UUID, _, requestHash string, expiresAt time.Time) (bool, error) {
	k := key.String() + userID.String()
	if _, ok := r.store.idem[k]; ok {
		return false, nil
	}
	r.store.idem[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      "processing",
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r fakeIdemRepo) MarkCompleted(_ context.Context, key, userID uuid.UUID, resultReservationID uuid.UUID) error {
	rec, ok := r.store.idem[key.String()+userID.String()]
	if !ok {
		return notFound("idempotency key")
	}
	rec.Status = "completed"
	rec.ResultReservationID = &resultReservationID
	return nil
}

// --- shared.Tx / shared.UnitOfWork ---

type fakeTx struct{ store *fakeStore }

func (t fakeTx) Reservations() shared.ReservationRepository { return t.store }
func (t fakeTx) Holds() shared.HoldRepository               { return fakeHoldRepo{store: t.store} }
func (t fakeTx) Idempotency() shared.IdempotencyRepository  { return fakeIdemRepo{store: t.store} }
func (t fakeTx) Reads() shared.CommandReads                 { return t.store }

type fakeUoW struct{ store *fakeStore }

func (u fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, fakeTx{store: u.store})
}

func (u fakeUoW) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, fakeTx{store: u.store})
}

func (u fakeUoW) Reads() shared.CommandReads { return u.store }

// --- queries.ReservationStore, just enough for GetByIDSystem ---

type fakeReservationViews struct{ store *fakeStore }

func (v fakeReservationViews) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	res, ok := v.store.reservations[id]
	if !ok {
		return nil, notFound("reservation")
	}
	var method *string
	if res.PaymentMethod() != nil {
		m := res.PaymentMethod().String()
		method = &m
	}
	var note *string
	if !res.Note().IsEmpty() {
		n := res.Note().String()
		note = &n
	}
	return &queries.ReservationView{
		ID:               res.ID(),
		CourtID:          res.CourtID(),
		FacilityID:       res.FacilityID(),
		UserID:           res.UserID(),
		StartsAt:         res.Slot().Start(),
		EndsAt:           res.Slot().End(),
		Status:           res.Status().String(),
		PriceCents:       res.Price().Cents(),
		PaymentMethod:    method,
		Paid:             res.Paid(),
		Note:             note,
		ConfirmationCode: res.ConfirmationCode(),
		CancelReason:     res.CancelReason(),
		CreatedAt:        res.CreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
	}, nil
}

func (v fakeReservationViews) FindByUserFirstPage(context.Context, uuid.UUID, int32) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

func (v fakeReservationViews) FindByUserKeyset(context.Context, uuid.UUID, time.Time, uuid.UUID, int32) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

func (v fakeReservationViews) FindForCourtDay(context.Context, uuid.UUID, time.Time, time.Time) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

// --- notifier ---

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) ReservationEvent(_ context.Context, event string, _ uuid.UUID) {
	n.events = append(n.events, event)
}

// --- availability invalidator ---

type invalidation struct {
	CourtID uuid.UUID
	Date    string
}

type fakeInvalidator struct {
	dropped []invalidation
}

func (f *fakeInvalidator) Invalidate(_ context.Context, courtID uuid.UUID, date string) {
	f.dropped = append(f.dropped, invalidation{CourtID: courtID, Date: date})
}
