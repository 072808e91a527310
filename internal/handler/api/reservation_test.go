//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"courtbook/internal/domain/user"
	"courtbook/internal/handler/api"
	resdto "courtbook/internal/handler/dto/response"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/commands"
	"courtbook/internal/usecase/queries"
	"courtbook/tests/common/builder"
	"courtbook/tests/common/httptest"
	"courtbook/tests/common/testutil"
	commandsmock "courtbook/tests/mock/commands"
	queriesmock "courtbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	actorID      uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", user.RoleMember)
		c.Next()
	}

	// Setup routes
	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.GET("/reservations", authMiddleware, s.handler.ListReservations)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.PATCH("/reservations/:id", authMiddleware, s.handler.Reschedule)
	s.router.POST("/reservations/:id/confirm", authMiddleware, s.handler.Confirm)
	s.router.POST("/reservations/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/reservations/:id/check-in", authMiddleware, s.handler.CheckIn)
	s.router.POST("/reservations/:id/no-show", authMiddleware, s.handler.MarkNoShow)
	s.router.GET("/courts/:id/day-sheet", authMiddleware, s.handler.DaySheet)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.New().String()}
}

// ================================================================================
// TestCreateReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"

	reqBody := builder.NewReservationBuilder().BuildCreateRequest()
	returnView := builder.NewReservationBuilder().BuildView()

	s.Run("success: returns 201 Created for a fresh reservation", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateReservationResult{Reservation: returnView}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.ConfirmationCode, response.ConfirmationCode)
	})

	s.Run("success: returns 200 OK when replayed from idempotency key", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateReservationResult{Reservation: returnView, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request without Idempotency-Key header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for malformed Idempotency-Key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request on missing required fields", func() {
		missing := []struct {
			name  string
			field string
		}{
			{name: "missing field: court_id", field: "court_id"},
			{name: "missing field: starts_at", field: "starts_at"},
			{name: "missing field: ends_at", field: "ends_at"},
		}
		for _, tc := range missing {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field(tc.field, nil))
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "slot conflict",
				commandsError:  errs.ErrSlotConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "not available",
			},
			{
				name:           "duplicate request on reused key",
				commandsError:  errs.ErrDuplicateRequest,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Duplicate request",
			},
			{
				name:           "request still in flight",
				commandsError:  errs.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "being processed",
			},
			{
				name:           "lead time violation",
				commandsError:  errs.ErrLeadTime,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "booking window",
			},
			{
				name:           "duration out of range",
				commandsError:  errs.ErrDuration,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "duration",
			},
			{
				name:           "no pricing rule",
				commandsError:  errs.ErrNoPricingRule,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "pricing rule",
			},
			{
				name:           "court not found",
				commandsError:  errs.ErrCourtNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Court not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()

	returnView := builder.NewReservationBuilder().BuildView()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with ReservationResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, user.RoleMember, reservationID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reservationID, response.ID)
		s.Equal(returnView.Status, response.Status)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 Not Found for missing or foreign reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, user.RoleMember, reservationID).
			Return(nil, errs.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Reservation not found")
	})
}

// ================================================================================
// TestListReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListReservations() {
	url := "/reservations"

	items := []*queries.ReservationListItem{
		builder.NewReservationBuilder().BuildListItem(),
		builder.NewReservationBuilder().BuildListItem(),
	}

	s.Run("success: returns first page with next cursor", func() {
		next := &queries.Cursor{After: "opaque-cursor"}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, nil, 0).
			Return(items, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.ReservationPageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Require().NotNil(response.NextCursor)
		s.Equal("opaque-cursor", *response.NextCursor)
	})

	s.Run("success: passes cursor and limit through", func() {
		after := &queries.Cursor{After: "prev-cursor"}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, after, 50).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=prev-cursor&limit=50", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for malformed cursor", func() {
		bad := &queries.Cursor{After: "not-base64"}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID, bad, 0).
			Return(nil, nil, errs.Mark(errors.New("bad cursor"), errs.ErrValidation)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=not-base64", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

// ================================================================================
// TestReschedule
// ================================================================================

func (s *ReservationHandlerTestSuite) TestReschedule() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()

	b := builder.NewReservationBuilder()
	reqBody := map[string]any{
		"starts_at": b.StartsAt,
		"ends_at":   b.EndsAt,
	}
	returnView := b.BuildView()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with the moved reservation", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), reservationID, gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reservationID, response.ID)
	})

	s.Run("error: 400 Bad Request on missing slot", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 409 Conflict inside the edit lock window", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), reservationID, gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrLockWindow).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "locked")
	})
}

// ================================================================================
// TestLifecycleTransitions
// ================================================================================

func (s *ReservationHandlerTestSuite) TestConfirm() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/confirm"

	returnView := builder.NewReservationBuilder().WithStatus("confirmed").BuildView()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with confirmed reservation", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), reservationID, gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"payment_method": "card"}, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 400 Bad Request without payment method", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 409 Conflict for invalid transition", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), reservationID, gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"payment_method": "card"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Transition not allowed")
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/cancel"

	returnView := builder.NewReservationBuilder().WithStatus("cancelled").BuildView()
	returnView.ID = reservationID

	s.Run("success: cancels with a reason", func() {
		reason := "rained out"
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any(), &reason).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": reason}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: body is optional", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any(), nil).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *ReservationHandlerTestSuite) TestCheckIn() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/check-in"

	returnView := builder.NewReservationBuilder().WithStatus("completed").BuildView()
	returnView.ID = reservationID

	s.Run("success: returns 200 OK with completed reservation", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), reservationID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Status)
	})
}

func (s *ReservationHandlerTestSuite) TestMarkNoShow() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/no-show"

	returnView := builder.NewReservationBuilder().WithStatus("no_show").BuildView()
	returnView.ID = reservationID

	s.Run("success: records observations", func() {
		obs := "court stayed empty"
		s.mockCommands.EXPECT().MarkNoShow(gomock.Any(), reservationID, gomock.Any(), &obs).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"observations": obs}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

// ================================================================================
// TestDaySheet
// ================================================================================

func (s *ReservationHandlerTestSuite) TestDaySheet() {
	courtID := uuid.New()
	url := "/courts/" + courtID.String() + "/day-sheet"

	items := []*queries.ReservationListItem{builder.NewReservationBuilder().BuildListItem()}

	s.Run("success: returns 200 OK with the court's reservations", func() {
		s.mockQueries.EXPECT().ListDaySheet(gomock.Any(), courtID, gomock.Any()).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01", nil, "bearer-token")

		var response []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: empty day returns an empty array", func() {
		s.mockQueries.EXPECT().ListDaySheet(gomock.Any(), courtID, gomock.Any()).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01", nil, "bearer-token")

		var response []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request for bad or missing date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=junk", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
