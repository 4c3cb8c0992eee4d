package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/metrics"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/session"
)

type Options struct {
	CORSOrigins []string
	// Checks are pinged by /healthz.
	Checks map[string]handlers.Pinger
	// Gatherer backs /metrics; defaults to the global registry.
	Gatherer prometheus.Gatherer
}

func New(h *handlers.Handler, sessions *session.Manager, m *metrics.Metrics, logger zerolog.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger), middleware.Metrics(m))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/healthz", h.Health(opts.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	withSession := middleware.Session(sessions, logger)

	adminRoutes := r.Group("/admin", withSession)
	{
		adminRoutes.POST("/login", h.AdminLogin)

		guarded := adminRoutes.Group("", middleware.RequireRole(session.RoleAdmin))
		guarded.POST("/logout", h.AdminLogout)
		guarded.POST("/doctors", h.CreateDoctor)
		guarded.PUT("/doctors/:username/password", h.ChangeDoctorPassword)
		guarded.DELETE("/doctors/:username", h.DeleteDoctor)
		guarded.DELETE("/patients/:username", h.DeletePatient)
	}

	doctorRoutes := r.Group("/doctor", withSession)
	{
		doctorRoutes.POST("/login", h.DoctorLogin)

		guarded := doctorRoutes.Group("", middleware.RequireRole(session.RoleDoctor))
		guarded.POST("/logout", h.DoctorLogout)
		guarded.PUT("/password", h.DoctorChangePassword)
		guarded.PUT("/appointment-cost", h.ChangeAppointmentCost)
		guarded.GET("/appointments", h.DoctorAppointments)
	}

	patientRoutes := r.Group("/patient", withSession)
	{
		patientRoutes.POST("/register", h.RegisterPatient)
		patientRoutes.POST("/login", h.PatientLogin)

		guarded := patientRoutes.Group("", middleware.RequireRole(session.RolePatient))
		guarded.POST("/logout", h.PatientLogout)
		guarded.POST("/appointments", h.BookAppointment)
		guarded.GET("/appointments", h.PatientAppointments)
		guarded.GET("/appointments/:id", h.AppointmentDetails)
		guarded.DELETE("/appointments/:id", h.CancelAppointment)
	}

	return r
}
