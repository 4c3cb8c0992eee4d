package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type changeCostRequest struct {
	NewCost float64 `json:"new_cost" binding:"required,gt=0"`
}

func (h *Handler) DoctorChangePassword(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	h.setDoctorPassword(c, identity.Username)
}

// ChangeAppointmentCost updates the doctor's cost and then rewrites the cost
// of every appointment already booked with them, past ones included.
func (h *Handler) ChangeAppointmentCost(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req changeCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Validation("Missing new cost"))
		return
	}

	var updated int64
	err := h.Tx.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Doctors.UpdateCost(ctx, identity.Username, req.NewCost); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Doctor not found")
			}
			return err
		}
		n, err := h.Appointments.UpdateCostByDoctor(ctx, identity.Username, req.NewCost)
		updated = n
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Logger.Info().
		Str("doctor", identity.Username).
		Float64("cost", req.NewCost).
		Int64("appointments_updated", updated).
		Msg("appointment cost changed")
	h.message(c, http.StatusOK, "Appointment cost updated successfully")
}

// DoctorAppointments lists the doctor's appointments dated from now on.
func (h *Handler) DoctorAppointments(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointments, err := h.Appointments.ListByDoctorFrom(c.Request.Context(), identity.Username, h.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Views(appointments))
}
