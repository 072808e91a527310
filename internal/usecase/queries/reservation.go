package queries

import (
	"context"
	"time"

	"courtbook/internal/domain/user"
	"courtbook/internal/infra"
	"courtbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindForCourtDay(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*ReservationListItem, error)
}

type ReservationQueries interface {
	// GetByID enforces ownership: members only see their own reservations,
	// and a foreign one reads as not found rather than forbidden.
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem bypasses ownership for internal flows such as
	// idempotent replays and notification delivery.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
	// ListDaySheet is the staff view of everything occupying a court on a
	// date.
	ListDaySheet(ctx context.Context, courtID uuid.UUID, date time.Time) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	store ReservationStore
}

func NewReservationQueries(store ReservationStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole == user.RoleMember && view.UserID != actorID {
		return nil, errs.ErrReservationNotFound
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		items []*ReservationListItem
		err   error
	)
	if after == nil || after.After == "" {
		items, err = q.store.FindByUserFirstPage(ctx, userID, int32(limit))
	} else {
		var (
			lastCreatedAt time.Time
			lastID        uuid.UUID
		)
		lastCreatedAt, lastID, err = DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.ErrValidation
		}
		items, err = q.store.FindByUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(items) == limit {
		last := items[len(items)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return items, next, nil
}

func (q *reservationQueriesImpl) ListDaySheet(ctx context.Context, courtID uuid.UUID, date time.Time) ([]*ReservationListItem, error) {
	y, m, d := date.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return q.store.FindForCourtDay(ctx, courtID, from, from.AddDate(0, 0, 1))
}
