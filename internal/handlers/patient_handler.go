package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type RegisterPatientRequest struct {
	FirstName string      `json:"first_name" binding:"required"`
	LastName  string      `json:"last_name" binding:"required"`
	Email     string      `json:"email" binding:"required"`
	AMKA      models.Text `json:"amka" binding:"required"`
	Birthdate models.Text `json:"birthdate" binding:"required"`
	Username  string      `json:"username" binding:"required"`
	Password  string      `json:"password" binding:"required"`
	Phone     string      `json:"phone"`
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err, "Missing fields"))
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Patients.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if exists {
		h.fail(c, apperrors.Conflict("Patient already exists"))
		return
	}

	hashedPassword, err := h.Passwords.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	patient := models.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		AMKA:      req.AMKA.String(),
		Birthdate: req.Birthdate.String(),
		Username:  req.Username,
		Password:  hashedPassword,
		Phone:     req.Phone,
	}
	if err := h.Patients.Insert(ctx, &patient); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.fail(c, apperrors.Conflict("Patient already exists"))
			return
		}
		h.fail(c, err)
		return
	}

	h.Logger.Info().Str("patient", patient.Username).Msg("patient registered")
	h.message(c, http.StatusCreated, "Patient registered successfully")
}
