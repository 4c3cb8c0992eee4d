package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/hospital-api/internal/models"
)

const textbeltURL = "https://textbelt.com/text"

// Notifier tells patients about changes to their appointments.
type Notifier interface {
	AppointmentBooked(patient *models.Patient, apt *models.Appointment)
	AppointmentCanceled(patient *models.Patient, apt *models.Appointment)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) AppointmentBooked(*models.Patient, *models.Appointment)   {}
func (NopNotifier) AppointmentCanceled(*models.Patient, *models.Appointment) {}

// NotificationService sends SMS through the Textbelt API.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

func NewNotificationService(apiKey string, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With().Str("component", "notifications").Logger(),
	}
}

// NewNotifier returns a Textbelt notifier when a key is configured.
func NewNotifier(apiKey string, logger zerolog.Logger) Notifier {
	if apiKey == "" {
		return NopNotifier{}
	}
	return NewNotificationService(apiKey, logger)
}

func (s *NotificationService) AppointmentBooked(patient *models.Patient, apt *models.Appointment) {
	s.notify(patient, "Appointment Confirmed", apt)
}

func (s *NotificationService) AppointmentCanceled(patient *models.Patient, apt *models.Appointment) {
	s.notify(patient, "Appointment Canceled", apt)
}

func appointmentMessage(title string, patient *models.Patient, apt *models.Appointment) string {
	return fmt.Sprintf(
		"%s for %s: %s with Dr. %s on %s at %s.",
		title,
		patient.FullName(),
		apt.Specialization,
		apt.DoctorName,
		apt.Date.Format("Jan 2"),
		apt.Time,
	)
}

func (s *NotificationService) notify(patient *models.Patient, title string, apt *models.Appointment) {
	if patient == nil || patient.Phone == "" {
		s.logger.Debug().Msg("SMS not sent: patient has no phone number")
		return
	}
	body := appointmentMessage(title, patient, apt)
	// Send in a goroutine so it doesn't block the API response
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.send(ctx, patient.Phone, body); err != nil {
			s.logger.Warn().Err(err).Str("username", patient.Username).Msg("SMS delivery failed")
			return
		}
		s.logger.Info().Str("username", patient.Username).Msg("SMS sent")
	}()
}

func (s *NotificationService) send(ctx context.Context, phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("marshal sms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(postBody))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected sms: %s", result.Error)
	}
	return nil
}
