package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mascotico-api/internal/audit"
	"github.com/BruksfildServices01/mascotico-api/internal/config"
	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/domain/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/handlers"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/middleware"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
	ucCalendar "github.com/BruksfildServices01/mascotico-api/internal/usecase/calendar"
)

// Deps is everything the HTTP layer is built from. Appointments,
// References and Calendar may all be the same store.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Clock    timezone.Clock

	Appointments domain.Repository
	References   domain.References
	Calendar     calendar.Repository

	Audit     *audit.Dispatcher
	Reconcile handlers.ReconcileRunner
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log, d.Metrics),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
		gin.Recovery(),
	)

	// ======================================================
	// DOMAIN SERVICES
	// ======================================================
	errs := httperr.NewResponder(d.Log, cfg.Debug)
	evaluator := calendar.NewEvaluator(d.Calendar)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		d.Appointments,
		d.References,
		evaluator,
		d.Clock,
		d.Audit,
		d.Metrics,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewListAppointments(d.Appointments, d.Clock),
		ucAppointment.NewGetAppointment(d.Appointments),
		ucAppointment.NewCreateAppointment(
			d.Appointments,
			d.References,
			evaluator,
			d.Audit,
			d.Metrics,
			cfg.DefaultBranchID,
		),
		updateAppointmentUC,
		ucAppointment.NewCancelAppointment(updateAppointmentUC),
		ucAppointment.NewDeleteAppointment(d.Appointments, d.Audit),
		ucAppointment.NewComputeStatistics(d.Appointments, d.Clock),
		errs,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		ucAppointment.NewCheckAvailability(d.References, evaluator),
		ucAppointment.NewGetAvailability(
			d.Appointments,
			d.References,
			evaluator,
			d.Clock,
			cfg.SlotStepMinutes,
		),
		errs,
	)

	// ======================================================
	// USE CASES - CALENDAR
	// ======================================================
	calendarHandler := handlers.NewCalendarHandler(handlers.CalendarUseCases{
		ListHours:     ucCalendar.NewListOperatingHours(d.Calendar),
		UpdateHours:   ucCalendar.NewUpdateOperatingHours(d.Calendar),
		BatchHours:    ucCalendar.NewUpdateOperatingHoursBatch(d.Calendar),
		ListSpecial:   ucCalendar.NewListSpecialHours(d.Calendar, d.Clock),
		CreateSpecial: ucCalendar.NewCreateSpecialHours(d.Calendar),
		UpdateSpecial: ucCalendar.NewUpdateSpecialHours(d.Calendar),
		DeleteSpecial: ucCalendar.NewDeleteSpecialHours(d.Calendar),
		ListClosed:    ucCalendar.NewListNonWorkingDays(d.Calendar, d.Clock),
		CreateClosed:  ucCalendar.NewCreateNonWorkingDay(d.Calendar),
		DeleteClosed:  ucCalendar.NewDeleteNonWorkingDay(d.Calendar),
	}, errs)

	referenceHandler := handlers.NewReferenceHandler(d.References, errs)
	reconcileHandler := handlers.NewReconcileHandler(d.Reconcile, errs)
	reconcileLimiter := middleware.NewRateLimiter(cfg.ReconcileRatePerMinute, d.Log)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.GET("/appointments", appointmentHandler.List)
		api.GET("/appointments/cliente/:cliente_id", appointmentHandler.ListByClient)
		api.GET("/appointments/fecha/:fecha", appointmentHandler.ListByDate)
		api.GET("/appointments/estadisticas", appointmentHandler.Statistics)
		api.GET("/appointments/estadisticas/:cliente_id", appointmentHandler.Statistics)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.POST("/appointments", appointmentHandler.Create)
		api.PUT("/appointments/:id", appointmentHandler.Update)
		api.PATCH("/appointments/:id", appointmentHandler.Update)
		api.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		api.GET("/availability", availabilityHandler.Check)
		api.GET("/availability/day", availabilityHandler.Day)

		// ------------------------------
		// CALENDAR + REFERENCES (read)
		// ------------------------------
		api.GET("/horarios", calendarHandler.ListOperatingHours)
		api.GET("/horarios-especiales", calendarHandler.ListSpecialHours)
		api.GET("/dias-no-laborables", calendarHandler.ListNonWorkingDays)
		api.GET("/sucursales", referenceHandler.Branches)
		api.GET("/servicios", referenceHandler.Services)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)
			admin.POST("/appointments/reconcile", reconcileLimiter.Middleware(), reconcileHandler.Run)
			admin.GET("/appointments/reconcile/status", reconcileHandler.Status)

			admin.PUT("/horarios/:id", calendarHandler.UpdateOperatingHours)
			admin.PUT("/horarios-masivo", calendarHandler.UpdateOperatingHoursBatch)

			admin.POST("/horarios-especiales", calendarHandler.CreateSpecialHours)
			admin.PUT("/horarios-especiales/:id", calendarHandler.UpdateSpecialHours)
			admin.DELETE("/horarios-especiales/:id", calendarHandler.DeleteSpecialHours)

			admin.POST("/dias-no-laborables", calendarHandler.CreateNonWorkingDay)
			admin.DELETE("/dias-no-laborables/:id", calendarHandler.DeleteNonWorkingDay)
		}
	}
}
