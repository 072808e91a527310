package response

import (
	"log/slog"
	"time"

	"courtbook/internal/usecase/commands"
	"courtbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"`
	CourtID          uuid.UUID  `json:"courtId"`
	CourtName        string     `json:"courtName"`
	FacilityID       uuid.UUID  `json:"facilityId"`
	UserID           uuid.UUID  `json:"userId"`
	StartsAt         time.Time  `json:"startsAt"`
	EndsAt           time.Time  `json:"endsAt"`
	Status           string     `json:"status"`
	PriceCents       int64      `json:"priceCents"`
	PaymentMethod    *string    `json:"paymentMethod,omitempty"`
	Paid             bool       `json:"paid"`
	Note             *string    `json:"note,omitempty"`
	ConfirmationCode string     `json:"confirmationCode"`
	CancelReason     *string    `json:"cancelReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID         uuid.UUID `json:"id"`
	CourtID    uuid.UUID `json:"courtId"`
	CourtName  string    `json:"courtName"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReservationPageResponse struct {
	Items      []*ReservationListResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

type QuoteResponse struct {
	CourtID       uuid.UUID  `json:"courtId"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        time.Time  `json:"endsAt"`
	BaseCents     int64      `json:"baseCents"`
	DiscountCents int64      `json:"discountCents"`
	TotalCents    int64      `json:"totalCents"`
	RuleID        uuid.UUID  `json:"ruleId"`
	PromotionID   *uuid.UUID `json:"promotionId,omitempty"`
	HoldID        *uuid.UUID `json:"holdId,omitempty"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
}

type AvailabilitySlotResponse struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
}

type AvailabilityDayResponse struct {
	CourtID uuid.UUID                  `json:"courtId"`
	Date    string                     `json:"date"`
	Slots   []AvailabilitySlotResponse `json:"slots"`
}

type CourtResponse struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facilityId"`
	Name       string    `json:"name"`
	Surface    string    `json:"surface"`
	Indoor     bool      `json:"indoor"`
	Active     bool      `json:"active"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	if err := copier.Copy(&resp, view); err != nil {
		slog.Error("failed to map reservation view", "error", err)
	}
	return &resp
}

func FromReservationListItem(item *queries.ReservationListItem) *ReservationListResponse {
	var resp ReservationListResponse
	if err := copier.Copy(&resp, item); err != nil {
		slog.Error("failed to map reservation list item", "error", err)
	}
	return &resp
}

func FromReservationPage(items []*queries.ReservationListItem, next *queries.Cursor) *ReservationPageResponse {
	page := &ReservationPageResponse{
		Items: make([]*ReservationListResponse, len(items)),
	}
	for i, item := range items {
		page.Items[i] = FromReservationListItem(item)
	}
	if next != nil {
		page.NextCursor = &next.After
	}
	return page
}

func FromQuoteResult(result *commands.QuoteResult) *QuoteResponse {
	var resp QuoteResponse
	if err := copier.Copy(&resp, result); err != nil {
		slog.Error("failed to map quote result", "error", err)
	}
	return &resp
}

func FromAvailabilityDay(day *queries.AvailabilityDay) *AvailabilityDayResponse {
	resp := &AvailabilityDayResponse{
		CourtID: day.CourtID,
		Date:    day.Date,
		Slots:   make([]AvailabilitySlotResponse, len(day.Slots)),
	}
	for i, s := range day.Slots {
		resp.Slots[i] = AvailabilitySlotResponse(s)
	}
	return resp
}

func FromCourtView(view *queries.CourtView) *CourtResponse {
	var resp CourtResponse
	if err := copier.Copy(&resp, view); err != nil {
		slog.Error("failed to map court view", "error", err)
	}
	return &resp
}
