package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/session"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// passwordLookup returns the stored hash for username.
type passwordLookup func(ctx context.Context, username string) (string, error)

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, session.RoleAdmin, func(ctx context.Context, username string) (string, error) {
		admin, err := h.Admins.FindByUsername(ctx, username)
		if err != nil {
			return "", err
		}
		return admin.Password, nil
	})
}

func (h *Handler) DoctorLogin(c *gin.Context) {
	h.login(c, session.RoleDoctor, func(ctx context.Context, username string) (string, error) {
		doctor, err := h.Doctors.FindByUsername(ctx, username)
		if err != nil {
			return "", err
		}
		return doctor.Password, nil
	})
}

func (h *Handler) PatientLogin(c *gin.Context) {
	h.login(c, session.RolePatient, func(ctx context.Context, username string) (string, error) {
		patient, err := h.Patients.FindByUsername(ctx, username)
		if err != nil {
			return "", err
		}
		return patient.Password, nil
	})
}

// login answers unknown users and wrong passwords with the same 401.
func (h *Handler) login(c *gin.Context, role session.Role, lookup passwordLookup) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Validation("Missing username or password"))
		return
	}

	ctx := c.Request.Context()
	hash, err := lookup(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.fail(c, err)
		return
	}
	if err != nil || !h.Passwords.CheckPasswordHash(req.Password, hash) {
		h.Metrics.ObserveLogin(string(role), "failure")
		h.Logger.Warn().
			Str("role", string(role)).
			Str("username", req.Username).
			Str("request_id", middleware.RequestID(c)).
			Msg("login failed")
		h.fail(c, apperrors.InvalidCredentials())
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.Sessions.Renew(ctx, sess); err != nil {
		h.fail(c, err)
		return
	}
	sess.Data.Grant(role, req.Username)
	if err := h.Sessions.Save(ctx, c.Writer, sess); err != nil {
		h.fail(c, err)
		return
	}

	h.Metrics.ObserveLogin(string(role), "success")
	h.Logger.Info().Str("role", string(role)).Str("username", req.Username).Msg("login succeeded")
	h.message(c, http.StatusOK, "Login successful")
}

func (h *Handler) AdminLogout(c *gin.Context)   { h.logout(c, session.RoleAdmin) }
func (h *Handler) DoctorLogout(c *gin.Context)  { h.logout(c, session.RoleDoctor) }
func (h *Handler) PatientLogout(c *gin.Context) { h.logout(c, session.RolePatient) }

// logout clears only the marker of role; the session record goes away once
// no marker is left.
func (h *Handler) logout(c *gin.Context, role session.Role) {
	ctx := c.Request.Context()
	sess := middleware.CurrentSession(c)
	sess.Data.Revoke(role)

	var err error
	if sess.Data.Empty() {
		err = h.Sessions.Destroy(ctx, c.Writer, sess)
	} else {
		err = h.Sessions.Save(ctx, c.Writer, sess)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, http.StatusOK, "Logout successful")
}
