package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/hospital-api/internal/models"
)

func TestNewNotifierWithoutKeyIsNop(t *testing.T) {
	_, ok := NewNotifier("", zerolog.Nop()).(NopNotifier)
	assert.True(t, ok)
}

func TestSendPostsToTextbelt(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	s := NewNotificationService("key-1", zerolog.Nop())
	s.endpoint = srv.URL

	require.NoError(t, s.send(context.Background(), "+306900000000", "hello"))
	assert.Equal(t, "+306900000000", got["phone"])
	assert.Equal(t, "key-1", got["key"])
}

func TestSendReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Out of quota"}`))
	}))
	defer srv.Close()

	s := NewNotificationService("key-1", zerolog.Nop())
	s.endpoint = srv.URL

	err := s.send(context.Background(), "+306900000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Out of quota")
}

func TestAppointmentMessageNamesPatient(t *testing.T) {
	patient := &models.Patient{FirstName: "Maria", LastName: "Papadopoulou"}
	apt := &models.Appointment{
		Specialization: "cardiology",
		DoctorName:     "Nikos Georgiou",
		Date:           time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		Time:           "09:30",
	}

	assert.Equal(t,
		"Appointment Confirmed for Maria Papadopoulou: cardiology with Dr. Nikos Georgiou on Jul 1 at 09:30.",
		appointmentMessage("Appointment Confirmed", patient, apt),
	)
}
