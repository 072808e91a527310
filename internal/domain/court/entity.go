package court

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCourtName   = errors.New("court name cannot be empty")
	ErrCourtNameTooLong = errors.New("court name is too long (max 255 characters)")
	ErrCourtInactive    = errors.New("court is not active")
)

const MaxCourtNameLength = 255

// Court is the unit of exclusive allocation: one non-released reservation
// per court per overlapping interval. The booking engine only reads courts.
type Court struct {
	id         uuid.UUID
	facilityID uuid.UUID
	name       string
	surface    string
	indoor     bool
	active     bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewCourt(id, facilityID uuid.UUID, name, surface string, indoor, active bool) (*Court, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCourtName
	}
	if len(name) > MaxCourtNameLength {
		return nil, ErrCourtNameTooLong
	}
	return &Court{
		id:         id,
		facilityID: facilityID,
		name:       name,
		surface:    surface,
		indoor:     indoor,
		active:     active,
	}, nil
}

func (c *Court) EnsureBookable() error {
	if !c.active {
		return ErrCourtInactive
	}
	return nil
}

func (c *Court) ID() uuid.UUID         { return c.id }
func (c *Court) FacilityID() uuid.UUID { return c.facilityID }
func (c *Court) Name() string          { return c.name }
func (c *Court) Surface() string       { return c.surface }
func (c *Court) Indoor() bool          { return c.indoor }
func (c *Court) Active() bool          { return c.active }
func (c *Court) CreatedAt() time.Time  { return c.createdAt }
func (c *Court) UpdatedAt() time.Time  { return c.updatedAt }
