package api

import (
	"errors"
	"net/http"

	"courtbook/internal/handler/httperr"
	"courtbook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondError maps the sentinel taxonomy onto transport codes. Anything
// unmapped is a 500 with a generic message; the cause stays in the gin
// error stack for the logging middleware.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrIdempotencyKeyRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)

	case errors.Is(err, errs.ErrCourtNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Court not found", nil)
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, errs.ErrHoldNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Hold not found", nil)

	case errors.Is(err, errs.ErrSlotConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested slot is not available", nil)
	case errors.Is(err, errs.ErrDuplicateRequest):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate request with different parameters", nil)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errors.Is(err, errs.ErrLockWindow):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is locked for changes", nil)
	case errors.Is(err, errs.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Transition not allowed from current status", nil)

	case errors.Is(err, errs.ErrLeadTime):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Slot start violates booking window", nil)
	case errors.Is(err, errs.ErrDuration):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Slot duration out of allowed range", nil)
	case errors.Is(err, errs.ErrNoPricingRule):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "No pricing rule covers the requested slot", nil)

	case errors.Is(err, errs.ErrStoreTimeout):
		httperr.AbortWithError(c, http.StatusGatewayTimeout, err, "Storage timeout", nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
