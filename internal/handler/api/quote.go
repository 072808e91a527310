package api

import (
	"net/http"

	reqdto "courtbook/internal/handler/dto/request"
	resdto "courtbook/internal/handler/dto/response"
	"courtbook/internal/handler/httperr"
	"courtbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	commands commands.QuoteCommands
}

func NewQuoteHandler(cmds commands.QuoteCommands) *QuoteHandler {
	return &QuoteHandler{commands: cmds}
}

// @Summary Quote a slot
// @Description Price a slot, optionally placing a short-lived hold on it
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.QuoteRequest true "Slot to quote"
// @Success 200 {object} response.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /quotes [post]
func (h *QuoteHandler) Quote(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req reqdto.QuoteRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.commands.Quote(c.Request.Context(), req.ToCommand(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteResult(result))
}

// @Summary Release hold
// @Description Release a hold before it expires
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /holds/{id} [delete]
func (h *QuoteHandler) ReleaseHold(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.commands.ReleaseHold(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
