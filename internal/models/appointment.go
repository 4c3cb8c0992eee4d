package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DateLayout is the calendar-date format accepted when booking.
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format accepted when booking.
	TimeLayout = "15:04"
)

// Appointment snapshots the doctor's cost, specialization and name at booking
// time; later doctor changes only reach it through an explicit bulk update.
type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PatientUsername string             `bson:"patient_username" json:"patient_username"`
	DoctorUsername  string             `bson:"doctor_username" json:"doctor_username"`
	Date            time.Time          `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Reason          string             `bson:"reason" json:"reason"`
	Cost            float64            `bson:"cost" json:"cost"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	DoctorName      string             `bson:"doctor_name" json:"doctor_name"`
}

// AppointmentView is the JSON shape returned by the listing and detail endpoints.
type AppointmentView struct {
	ID              string  `json:"_id"`
	PatientUsername string  `json:"patient_username"`
	DoctorUsername  string  `json:"doctor_username"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Reason          string  `json:"reason"`
	Cost            float64 `json:"cost"`
	Specialization  string  `json:"specialization"`
	DoctorName      string  `json:"doctor_name"`
}

func (a *Appointment) View() AppointmentView {
	return AppointmentView{
		ID:              a.ID.Hex(),
		PatientUsername: a.PatientUsername,
		DoctorUsername:  a.DoctorUsername,
		Date:            a.Date.UTC().Format(time.RFC3339),
		Time:            a.Time,
		Reason:          a.Reason,
		Cost:            a.Cost,
		Specialization:  a.Specialization,
		DoctorName:      a.DoctorName,
	}
}

// Views converts a listing, never returning nil so it encodes as [].
func Views(appointments []Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		views = append(views, appointments[i].View())
	}
	return views
}
