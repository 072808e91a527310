package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"courtbook/internal/domain/user"
	"courtbook/internal/handler/api"
	"courtbook/internal/handler/middleware"
	"courtbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	quoteHandler *api.QuoteHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, availabilityHandler, quoteHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	quoteHandler *api.QuoteHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Availability reads are public.
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/courts/:id/availability", Handler: availabilityHandler.CourtAvailability},
			{Method: http.MethodGet, Path: "/facilities/:id/courts", Handler: availabilityHandler.ListCourts},
		})

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			addRoutes(authed, []route{
				{Method: http.MethodPost, Path: "/quotes", Handler: quoteHandler.Quote},
				{Method: http.MethodDelete, Path: "/holds/:id", Handler: quoteHandler.ReleaseHold},
			})

			reservations := authed.Group("/reservations")
			{
				addRoutes(reservations, []route{
					{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
					{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListReservations},
					{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
					{Method: http.MethodPatch, Path: "/:id", Handler: reservationHandler.Reschedule},
					{Method: http.MethodPost, Path: "/:id/confirm", Handler: reservationHandler.Confirm},
					{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
				})

				staffOnly := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleStaff)}
				addRoutes(reservations, []route{
					{Method: http.MethodPost, Path: "/:id/check-in", Handler: reservationHandler.CheckIn, Mw: staffOnly},
					{Method: http.MethodPost, Path: "/:id/no-show", Handler: reservationHandler.MarkNoShow, Mw: staffOnly},
				})
			}

			addRoutes(authed, []route{
				{Method: http.MethodGet, Path: "/courts/:id/day-sheet", Handler: reservationHandler.DaySheet,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleStaff)}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
