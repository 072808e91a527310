package readstore

import (
	"context"
	"time"

	"courtbook/internal/domain/pricing"
	"courtbook/internal/domain/schedule"
	"courtbook/internal/infra"
	"courtbook/internal/infra/db"
	"courtbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func loadPricingRules(ctx context.Context, dbtx db.DBTX, courtID uuid.UUID) ([]pricing.Rule, error) {
	const query = `
		SELECT id, court_id, weekday, range_start_minutes, range_end_minutes,
			price_per_hour_cents, valid_from, valid_to
		FROM pricing_rules
		WHERE court_id = $1
		ORDER BY range_start_minutes`

	rows, err := dbtx.Query(ctx, query, courtID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load pricing rules", err)
	}
	defer rows.Close()

	var rules []pricing.Rule
	for rows.Next() {
		var (
			id, court            uuid.UUID
			weekday              pgtype.Int4
			rangeStart, rangeEnd int32
			rate                 int64
			validFrom, validTo   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &court, &weekday, &rangeStart, &rangeEnd, &rate, &validFrom, &validTo); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing rule", err)
		}
		rules = append(rules, pricing.Rule{
			ID:                id,
			CourtID:           court,
			Weekday:           weekdayPtrFromPgtype(weekday),
			RangeStart:        schedule.TimeOfDay(rangeStart),
			RangeEnd:          schedule.TimeOfDay(rangeEnd),
			PricePerHourCents: rate,
			ValidFrom:         timePtrFromPgtype(validFrom),
			ValidTo:           timePtrFromPgtype(validTo),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read pricing rules", err)
	}
	return rules, nil
}

// loadPromotions returns the active promotions scoped to the court or its
// facility. Scope filtering is repeated in the domain so a promotion row
// with both scopes set still applies consistently.
func loadPromotions(ctx context.Context, dbtx db.DBTX, courtID, facilityID uuid.UUID) ([]pricing.Promotion, error) {
	const query = `
		SELECT id, facility_id, court_id, kind, percent_off, amount_off_cents,
			active, valid_from, valid_to
		FROM promotions
		WHERE active AND (court_id = $1 OR facility_id = $2)
		ORDER BY id`

	rows, err := dbtx.Query(ctx, query, courtID, facilityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load promotions", err)
	}
	defer rows.Close()

	var promos []pricing.Promotion
	for rows.Next() {
		var (
			id                 uuid.UUID
			facility, court    pgtype.UUID
			kind               string
			percentOff         pgtype.Float8
			amountOffCents     pgtype.Int8
			active             bool
			validFrom, validTo pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &facility, &court, &kind, &percentOff, &amountOffCents, &active, &validFrom, &validTo); err != nil {
			return nil, infra.WrapRepoErr("failed to scan promotion", err)
		}
		p := pricing.Promotion{
			ID:         id,
			FacilityID: pgconv.UUIDPtrFromPgtype(facility),
			CourtID:    pgconv.UUIDPtrFromPgtype(court),
			Kind:       pricing.PromotionKind(kind),
			Active:     active,
			ValidFrom:  timePtrFromPgtype(validFrom),
			ValidTo:    timePtrFromPgtype(validTo),
		}
		if percentOff.Valid {
			p.PercentOff = percentOff.Float64
		}
		if amountOffCents.Valid {
			p.AmountOffCents = amountOffCents.Int64
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read promotions", err)
	}
	return promos, nil
}

func timePtrFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}
