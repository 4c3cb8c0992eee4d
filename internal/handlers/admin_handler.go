package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type CreateDoctorRequest struct {
	FirstName       string   `json:"first_name" binding:"required"`
	LastName        string   `json:"last_name" binding:"required"`
	Email           string   `json:"email" binding:"required"`
	Username        string   `json:"username" binding:"required"`
	Password        string   `json:"password" binding:"required"`
	Specialization  string   `json:"specialization" binding:"required"`
	AppointmentCost *float64 `json:"appointment_cost" binding:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err, "Missing fields"))
		return
	}
	if *req.AppointmentCost < 0 {
		h.fail(c, apperrors.Validation("Invalid appointment cost"))
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Doctors.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if exists {
		h.fail(c, apperrors.Conflict("Doctor already exists"))
		return
	}

	hashedPassword, err := h.Passwords.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	doctor := models.Doctor{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Username:        req.Username,
		Password:        hashedPassword,
		Specialization:  req.Specialization,
		AppointmentCost: *req.AppointmentCost,
	}
	if err := h.Doctors.Insert(ctx, &doctor); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, apperrors.ErrConflict) {
			h.fail(c, apperrors.Conflict("Doctor already exists"))
			return
		}
		h.fail(c, err)
		return
	}

	h.Logger.Info().Str("doctor", doctor.Username).Msg("doctor created")
	h.message(c, http.StatusCreated, "Doctor created successfully")
}

func (h *Handler) ChangeDoctorPassword(c *gin.Context) {
	h.setDoctorPassword(c, c.Param("username"))
}

// setDoctorPassword is shared by the admin and the doctor's own endpoint.
func (h *Handler) setDoctorPassword(c *gin.Context, username string) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Validation("Missing new password"))
		return
	}

	hashedPassword, err := h.Passwords.HashPassword(req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Doctors.UpdatePassword(c.Request.Context(), username, hashedPassword); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.fail(c, apperrors.NotFound("Doctor not found"))
			return
		}
		h.fail(c, err)
		return
	}
	h.message(c, http.StatusOK, "Password updated successfully")
}

// DeleteDoctor removes the doctor and every appointment booked with them.
// The appointment cleanup runs even when no doctor record matched.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	username := c.Param("username")
	var found bool
	var removed int64

	err := h.Tx.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
		found = true
		if err := h.Doctors.Delete(ctx, username); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			found = false
		}
		n, err := h.Appointments.DeleteByDoctor(ctx, username)
		removed = n
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Metrics.ObserveCascadeDelete("doctor", removed)
	if !found {
		h.fail(c, apperrors.NotFound("Doctor not found"))
		return
	}
	h.Logger.Info().Str("doctor", username).Int64("appointments_removed", removed).Msg("doctor deleted")
	h.message(c, http.StatusOK, "Doctor deleted successfully")
}

// DeletePatient mirrors DeleteDoctor for patients.
func (h *Handler) DeletePatient(c *gin.Context) {
	username := c.Param("username")
	var found bool
	var removed int64

	err := h.Tx.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
		found = true
		if err := h.Patients.Delete(ctx, username); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			found = false
		}
		n, err := h.Appointments.DeleteByPatient(ctx, username)
		removed = n
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Metrics.ObserveCascadeDelete("patient", removed)
	if !found {
		h.fail(c, apperrors.NotFound("Patient not found"))
		return
	}
	h.Logger.Info().Str("patient", username).Int64("appointments_removed", removed).Msg("patient deleted")
	h.message(c, http.StatusOK, "Patient deleted successfully")
}
