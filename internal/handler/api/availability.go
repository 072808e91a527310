package api

import (
	"net/http"
	"strconv"
	"time"

	resdto "courtbook/internal/handler/dto/response"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	queries queries.AvailabilityQueries
}

func NewAvailabilityHandler(qrs queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{queries: qrs}
}

// @Summary Court availability
// @Description Free and busy slots for a court on a date or an inclusive date range
// @Tags availability
// @Produce json
// @Param id path string true "Court ID"
// @Param date query string false "Single date (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD), paired with to"
// @Param to query string false "Range end (YYYY-MM-DD), paired with from"
// @Param granularity query int false "Slot granularity in minutes (0 returns raw intervals)"
// @Success 200 {object} response.AvailabilityDayResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courts/{id}/availability [get]
func (h *AvailabilityHandler) CourtAvailability(c *gin.Context) {
	courtID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var granularity time.Duration
	if raw := c.Query("granularity"); raw != "" {
		minutes, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			respondError(c, errs.Mark(parseErr, errs.ErrValidation))
			return
		}
		granularity = time.Duration(minutes) * time.Minute
	}

	if c.Query("from") != "" || c.Query("to") != "" {
		from, parseErr := time.Parse("2006-01-02", c.Query("from"))
		if parseErr != nil {
			respondError(c, errs.Mark(parseErr, errs.ErrValidation))
			return
		}
		to, parseErr := time.Parse("2006-01-02", c.Query("to"))
		if parseErr != nil {
			respondError(c, errs.Mark(parseErr, errs.ErrValidation))
			return
		}

		days, rangeErr := h.queries.CourtRange(c.Request.Context(), courtID, from, to, granularity)
		if rangeErr != nil {
			respondError(c, rangeErr)
			return
		}
		responses := make([]*resdto.AvailabilityDayResponse, 0, len(days))
		for _, day := range days {
			responses = append(responses, resdto.FromAvailabilityDay(day))
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		respondError(c, errs.Mark(err, errs.ErrValidation))
		return
	}

	day, err := h.queries.CourtDay(c.Request.Context(), courtID, date, granularity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityDay(day))
}

// @Summary List courts
// @Description Active courts of a facility
// @Tags availability
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {array} response.CourtResponse
// @Failure 400 {object} httperr.Response
// @Router /facilities/{id}/courts [get]
func (h *AvailabilityHandler) ListCourts(c *gin.Context) {
	facilityID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	courts, err := h.queries.ListCourts(c.Request.Context(), facilityID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*resdto.CourtResponse, 0, len(courts))
	for _, court := range courts {
		responses = append(responses, resdto.FromCourtView(court))
	}
	c.JSON(http.StatusOK, responses)
}
