package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/hospital-api/internal/session"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	signer, err := utils.NewTokenSigner("test-secret")
	require.NoError(t, err)
	return session.NewManager(session.NewRedisStore(session.NewRedisClient(mr.Addr(), "", 0)), signer, session.Options{TTL: time.Hour})
}

// cookieFor persists data and returns the cookie a client would send back.
func cookieFor(t *testing.T, m *session.Manager, data session.Data) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, m.Save(req.Context(), rec, &session.Session{Data: data}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func guardedEngine(m *session.Manager, role session.Role) *gin.Engine {
	r := gin.New()
	r.Use(Session(m, zerolog.Nop()))
	r.GET("/guarded", RequireRole(role), func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"message": identity.Username})
	})
	return r
}

func TestRequireRole(t *testing.T) {
	m := newManager(t)

	tests := []struct {
		name   string
		data   *session.Data
		role   session.Role
		status int
		body   string
	}{
		{"no cookie", nil, session.RoleDoctor, http.StatusForbidden, "Unauthorized access"},
		{"other role", &session.Data{Patient: "maria"}, session.RoleDoctor, http.StatusForbidden, "Unauthorized access"},
		{"doctor", &session.Data{Doctor: "drhouse"}, session.RoleDoctor, http.StatusOK, "drhouse"},
		{"admin", &session.Data{Admin: true}, session.RoleAdmin, http.StatusOK, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.data != nil {
				req.AddCookie(cookieFor(t, m, *tt.data))
			}
			rec := httptest.NewRecorder()
			guardedEngine(m, tt.role).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRecoveryReturns500(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
	assert.Contains(t, buf.String(), "panic recovered")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
}
