//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"courtbook/internal/handler/api"
	resdto "courtbook/internal/handler/dto/response"
	"courtbook/internal/pkg/errs"
	"courtbook/internal/usecase/queries"
	"courtbook/tests/common/httptest"
	queriesmock "courtbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockQueries)

	// Availability routes are public.
	s.router.GET("/courts/:id/availability", s.handler.CourtAvailability)
	s.router.GET("/facilities/:id/courts", s.handler.ListCourts)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestCourtDay() {
	courtID := uuid.New()
	url := "/courts/" + courtID.String() + "/availability"
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	day := &queries.AvailabilityDay{
		CourtID: courtID,
		Date:    "2026-06-01",
		Slots: []queries.AvailabilitySlot{
			{StartsAt: date.Add(9 * time.Hour), EndsAt: date.Add(12 * time.Hour), Status: "free"},
			{StartsAt: date.Add(12 * time.Hour), EndsAt: date.Add(13 * time.Hour), Status: "occupied", Reason: "reserved"},
		},
	}

	s.Run("success: returns 200 OK with the day's slots", func() {
		s.mockQueries.EXPECT().CourtDay(gomock.Any(), courtID, date, time.Duration(0)).
			Return(day, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01", nil, "")

		var response resdto.AvailabilityDayResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("2026-06-01", response.Date)
		s.Require().Len(response.Slots, 2)
		s.Equal("free", response.Slots[0].Status)
		s.Equal("reserved", response.Slots[1].Reason)
	})

	s.Run("success: passes granularity through in minutes", func() {
		s.mockQueries.EXPECT().CourtDay(gomock.Any(), courtID, date, 30*time.Minute).
			Return(day, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01&granularity=30", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for non-numeric granularity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01&granularity=half-hour", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for bad date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=junk", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for out-of-range granularity", func() {
		s.mockQueries.EXPECT().CourtDay(gomock.Any(), courtID, date, 5*time.Minute).
			Return(nil, errs.ErrValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01&granularity=5", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 Not Found for unknown court", func() {
		s.mockQueries.EXPECT().CourtDay(gomock.Any(), courtID, date, time.Duration(0)).
			Return(nil, errs.ErrCourtNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?date=2026-06-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Court not found")
	})
}

func (s *AvailabilityHandlerTestSuite) TestCourtRange() {
	courtID := uuid.New()
	url := "/courts/" + courtID.String() + "/availability"
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	days := []*queries.AvailabilityDay{
		{CourtID: courtID, Date: "2026-06-01"},
		{CourtID: courtID, Date: "2026-06-02"},
		{CourtID: courtID, Date: "2026-06-03"},
	}

	s.Run("success: returns 200 OK with one grid per day", func() {
		s.mockQueries.EXPECT().CourtRange(gomock.Any(), courtID, from, to, time.Duration(0)).
			Return(days, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2026-06-01&to=2026-06-03", nil, "")

		var response []*resdto.AvailabilityDayResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 3)
		s.Equal("2026-06-01", response[0].Date)
		s.Equal("2026-06-03", response[2].Date)
	})

	s.Run("success: passes granularity through in minutes", func() {
		s.mockQueries.EXPECT().CourtRange(gomock.Any(), courtID, from, to, 30*time.Minute).
			Return(days, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2026-06-01&to=2026-06-03&granularity=30", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request when to is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2026-06-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for bad range bound", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2026-06-01&to=junk", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 Bad Request for inverted range", func() {
		s.mockQueries.EXPECT().CourtRange(gomock.Any(), courtID, to, from, time.Duration(0)).
			Return(nil, errs.ErrValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2026-06-03&to=2026-06-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *AvailabilityHandlerTestSuite) TestListCourts() {
	facilityID := uuid.New()
	url := "/facilities/" + facilityID.String() + "/courts"

	courts := []*queries.CourtView{
		{ID: uuid.New(), FacilityID: facilityID, Name: "Court 1", Surface: "clay", Active: true},
		{ID: uuid.New(), FacilityID: facilityID, Name: "Court 2", Surface: "hard", Indoor: true, Active: true},
	}

	s.Run("success: returns 200 OK with the facility's courts", func() {
		s.mockQueries.EXPECT().ListCourts(gomock.Any(), facilityID).
			Return(courts, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []*resdto.CourtResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 2)
		s.Equal("Court 1", response[0].Name)
		s.True(response[1].Indoor)
	})

	s.Run("error: 400 Bad Request for invalid facility id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/facilities/not-a-uuid/courts", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
