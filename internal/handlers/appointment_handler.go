package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type BookAppointmentRequest struct {
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
}

// BookAppointment assigns the first doctor of the requested specialization,
// in username order, who has no appointment at the same date and time.
func (h *Handler) BookAppointment(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err, "Missing fields"))
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		h.fail(c, apperrors.Validation("Invalid date or time format"))
		return
	}
	slot, err := time.Parse(models.TimeLayout, req.Time)
	if err != nil {
		h.fail(c, apperrors.Validation("Invalid date or time format"))
		return
	}

	apt := models.Appointment{
		PatientUsername: identity.Username,
		Date:            date,
		Time:            slot.Format(models.TimeLayout),
		Reason:          req.Reason,
		Specialization:  req.Specialization,
	}
	booked, err := h.assignDoctor(c.Request.Context(), &apt)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !booked {
		h.Metrics.ObserveBooking("unavailable")
		h.fail(c, apperrors.NotFound("No available doctor found"))
		return
	}

	h.Metrics.ObserveBooking("booked")
	h.notifyPatient(c.Request.Context(), identity.Username, &apt, h.NotificationSvc.AppointmentBooked)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Appointment booked successfully",
		"id":      apt.ID.Hex(),
	})
}

// assignDoctor fills in the doctor fields of apt and inserts it. A
// duplicate-key error means another request took the slot first, so the
// next candidate is tried.
func (h *Handler) assignDoctor(ctx context.Context, apt *models.Appointment) (bool, error) {
	doctors, err := h.Doctors.ListBySpecialization(ctx, apt.Specialization)
	if err != nil {
		return false, err
	}

	for i := range doctors {
		doctor := &doctors[i]
		taken, err := h.Appointments.SlotTaken(ctx, doctor.Username, apt.Date, apt.Time)
		if err != nil {
			return false, err
		}
		if taken {
			continue
		}

		apt.ID = primitive.NilObjectID
		apt.DoctorUsername = doctor.Username
		apt.DoctorName = doctor.FullName()
		apt.Cost = doctor.AppointmentCost
		err = h.Appointments.Insert(ctx, apt)
		if errors.Is(err, apperrors.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (h *Handler) PatientAppointments(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	appointments, err := h.Appointments.ListByPatientFrom(c.Request.Context(), identity.Username, h.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Views(appointments))
}

// AppointmentDetails answers 404 both for unknown ids and for appointments
// owned by another patient.
func (h *Handler) AppointmentDetails(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.NotFound("Appointment not found"))
		return
	}

	apt, err := h.Appointments.FindForPatient(c.Request.Context(), id, identity.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.fail(c, apperrors.NotFound("Appointment not found"))
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apt.View())
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.NotFound("Appointment not found"))
		return
	}

	apt, err := h.Appointments.DeleteForPatient(c.Request.Context(), id, identity.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.fail(c, apperrors.NotFound("Appointment not found"))
			return
		}
		h.fail(c, err)
		return
	}

	h.notifyPatient(c.Request.Context(), identity.Username, apt, h.NotificationSvc.AppointmentCanceled)
	h.message(c, http.StatusOK, "Appointment canceled successfully")
}

// notifyPatient looks up the patient's contact details; lookup failures only
// skip the notification.
func (h *Handler) notifyPatient(ctx context.Context, username string, apt *models.Appointment, send func(*models.Patient, *models.Appointment)) {
	patient, err := h.Patients.FindByUsername(ctx, username)
	if err != nil {
		h.Logger.Debug().Err(err).Str("patient", username).Msg("notification skipped")
		return
	}
	send(patient, apt)
}
