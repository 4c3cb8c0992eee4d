// Package store holds the record collections behind small repository
// interfaces. Mongo is the production backend; package memory provides an
// in-process one.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/models"
)

// Collection names in the hospital database.
const (
	AdminsCollection       = "admins"
	DoctorsCollection      = "doctors"
	PatientsCollection     = "patients"
	AppointmentsCollection = "appointments"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Insert(ctx context.Context, admin *models.Admin) error
}

type DoctorRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Doctor, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Insert(ctx context.Context, doctor *models.Doctor) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateCost(ctx context.Context, username string, cost float64) error
	Delete(ctx context.Context, username string) error
	// ListBySpecialization returns matching doctors ordered by username.
	ListBySpecialization(ctx context.Context, specialization string) ([]models.Doctor, error)
}

type PatientRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Patient, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Insert(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, username string) error
}

type AppointmentRepository interface {
	Insert(ctx context.Context, apt *models.Appointment) error
	// ListByDoctorFrom and ListByPatientFrom return appointments dated at or
	// after from, ordered by date then time.
	ListByDoctorFrom(ctx context.Context, doctor string, from time.Time) ([]models.Appointment, error)
	ListByPatientFrom(ctx context.Context, patient string, from time.Time) ([]models.Appointment, error)
	FindForPatient(ctx context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error)
	DeleteForPatient(ctx context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error)
	DeleteByDoctor(ctx context.Context, doctor string) (int64, error)
	DeleteByPatient(ctx context.Context, patient string) (int64, error)
	UpdateCostByDoctor(ctx context.Context, doctor string, cost float64) (int64, error)
	SlotTaken(ctx context.Context, doctor string, date time.Time, timeOfDay string) (bool, error)
}

// Transactor runs fn as one unit where the backend supports it. fn may be
// invoked more than once and must not keep state across invocations.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories bundles everything the handlers need from a backend.
type Repositories struct {
	Admins       AdminRepository
	Doctors      DoctorRepository
	Patients     PatientRepository
	Appointments AppointmentRepository
	Tx           Transactor
}
