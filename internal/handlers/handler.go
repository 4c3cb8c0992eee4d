package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/metrics"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/session"
	"github.com/harentsoaR/hospital-api/internal/store"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

type Handler struct {
	Admins       store.AdminRepository
	Doctors      store.DoctorRepository
	Patients     store.PatientRepository
	Appointments store.AppointmentRepository
	Tx           store.Transactor

	Sessions        *session.Manager
	Passwords       utils.PasswordHasher
	NotificationSvc services.Notifier
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger

	// Now is the clock used to decide which appointments are upcoming.
	Now func() time.Time
}

func NewHandler(
	repos store.Repositories,
	sessions *session.Manager,
	passwords utils.PasswordHasher,
	notificationSvc services.Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handler {
	if notificationSvc == nil {
		notificationSvc = services.NopNotifier{}
	}
	return &Handler{
		Admins:          repos.Admins,
		Doctors:         repos.Doctors,
		Patients:        repos.Patients,
		Appointments:    repos.Appointments,
		Tx:              repos.Tx,
		Sessions:        sessions,
		Passwords:       passwords,
		NotificationSvc: notificationSvc,
		Metrics:         m,
		Logger:          logger,
		Now:             time.Now,
	}
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports 503 when any dependency fails its ping.
func (h *Handler) Health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				h.Logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": name + " unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

func (h *Handler) message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// fail converts err to its status code and JSON body. Server errors are
// logged with the request id.
func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error().
			Err(err).
			Str("request_id", middleware.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// identity returns the caller resolved by the role guard.
func (h *Handler) identity(c *gin.Context) (session.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		h.fail(c, apperrors.Unauthorized())
	}
	return identity, ok
}

// bindError reports a wrongly typed field as such instead of as missing.
func bindError(err error, missing string) *apperrors.HTTPError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation("Invalid field type")
	}
	return apperrors.Validation(missing)
}
