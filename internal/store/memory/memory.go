// Package memory is an in-process backend for the store interfaces. It
// enforces the same uniqueness rules as the Mongo indexes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	admins       map[string]models.Admin
	doctors      map[string]models.Doctor
	patients     map[string]models.Patient
	appointments map[primitive.ObjectID]models.Appointment
}

func New() *Store {
	return &Store{
		admins:       make(map[string]models.Admin),
		doctors:      make(map[string]models.Doctor),
		patients:     make(map[string]models.Patient),
		appointments: make(map[primitive.ObjectID]models.Appointment),
	}
}

func (s *Store) Repositories() store.Repositories {
	return store.Repositories{
		Admins:       adminRepository{s},
		Doctors:      doctorRepository{s},
		Patients:     patientRepository{s},
		Appointments: appointmentRepository{s},
		Tx:           s,
	}
}

// WithTransaction runs fn directly; there is no rollback.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Ping(context.Context) error { return nil }

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
}

func conflict(op string) error {
	return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
}

type adminRepository struct{ s *Store }

func (r adminRepository) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	admin, ok := r.s.admins[username]
	if !ok {
		return nil, notFound("find admin")
	}
	return &admin, nil
}

func (r adminRepository) Insert(_ context.Context, admin *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[admin.Username]; ok {
		return conflict("insert admin")
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	r.s.admins[admin.Username] = *admin
	return nil
}

type doctorRepository struct{ s *Store }

func (r doctorRepository) FindByUsername(_ context.Context, username string) (*models.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	doctor, ok := r.s.doctors[username]
	if !ok {
		return nil, notFound("find doctor")
	}
	return &doctor, nil
}

func (r doctorRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.existsLocked(email, username), nil
}

func (r doctorRepository) existsLocked(email, username string) bool {
	if _, ok := r.s.doctors[username]; ok {
		return true
	}
	for _, d := range r.s.doctors {
		if d.Email == email {
			return true
		}
	}
	return false
}

func (r doctorRepository) Insert(_ context.Context, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.existsLocked(doctor.Email, doctor.Username) {
		return conflict("insert doctor")
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	r.s.doctors[doctor.Username] = *doctor
	return nil
}

func (r doctorRepository) UpdatePassword(_ context.Context, username, passwordHash string) error {
	return r.update(username, "update doctor password", func(d *models.Doctor) { d.Password = passwordHash })
}

func (r doctorRepository) UpdateCost(_ context.Context, username string, cost float64) error {
	return r.update(username, "update doctor cost", func(d *models.Doctor) { d.AppointmentCost = cost })
}

func (r doctorRepository) update(username, op string, fn func(*models.Doctor)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor, ok := r.s.doctors[username]
	if !ok {
		return notFound(op)
	}
	fn(&doctor)
	r.s.doctors[username] = doctor
	return nil
}

func (r doctorRepository) Delete(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.doctors[username]; !ok {
		return notFound("delete doctor")
	}
	delete(r.s.doctors, username)
	return nil
}

func (r doctorRepository) ListBySpecialization(_ context.Context, specialization string) ([]models.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var doctors []models.Doctor
	for _, d := range r.s.doctors {
		if d.Specialization == specialization {
			doctors = append(doctors, d)
		}
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Username < doctors[j].Username })
	return doctors, nil
}

type patientRepository struct{ s *Store }

func (r patientRepository) FindByUsername(_ context.Context, username string) (*models.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	patient, ok := r.s.patients[username]
	if !ok {
		return nil, notFound("find patient")
	}
	return &patient, nil
}

func (r patientRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.existsLocked(email, username), nil
}

func (r patientRepository) existsLocked(email, username string) bool {
	if _, ok := r.s.patients[username]; ok {
		return true
	}
	for _, p := range r.s.patients {
		if p.Email == email {
			return true
		}
	}
	return false
}

func (r patientRepository) Insert(_ context.Context, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.existsLocked(patient.Email, patient.Username) {
		return conflict("insert patient")
	}
	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	r.s.patients[patient.Username] = *patient
	return nil
}

func (r patientRepository) Delete(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[username]; !ok {
		return notFound("delete patient")
	}
	delete(r.s.patients, username)
	return nil
}

type appointmentRepository struct{ s *Store }

func (r appointmentRepository) Insert(_ context.Context, apt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.DoctorUsername == apt.DoctorUsername && a.Date.Equal(apt.Date) && a.Time == apt.Time {
			return conflict("insert appointment")
		}
	}
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	r.s.appointments[apt.ID] = *apt
	return nil
}

func (r appointmentRepository) ListByDoctorFrom(_ context.Context, doctor string, from time.Time) ([]models.Appointment, error) {
	return r.list(func(a models.Appointment) bool {
		return a.DoctorUsername == doctor && !a.Date.Before(from)
	}), nil
}

func (r appointmentRepository) ListByPatientFrom(_ context.Context, patient string, from time.Time) ([]models.Appointment, error) {
	return r.list(func(a models.Appointment) bool {
		return a.PatientUsername == patient && !a.Date.Before(from)
	}), nil
}

func (r appointmentRepository) list(match func(models.Appointment) bool) []models.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (r appointmentRepository) FindForPatient(_ context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	apt, ok := r.s.appointments[id]
	if !ok || apt.PatientUsername != patient {
		return nil, notFound("find appointment")
	}
	return &apt, nil
}

func (r appointmentRepository) DeleteForPatient(_ context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	apt, ok := r.s.appointments[id]
	if !ok || apt.PatientUsername != patient {
		return nil, notFound("delete appointment")
	}
	delete(r.s.appointments, id)
	return &apt, nil
}

func (r appointmentRepository) DeleteByDoctor(_ context.Context, doctor string) (int64, error) {
	return r.deleteWhere(func(a models.Appointment) bool { return a.DoctorUsername == doctor }), nil
}

func (r appointmentRepository) DeleteByPatient(_ context.Context, patient string) (int64, error) {
	return r.deleteWhere(func(a models.Appointment) bool { return a.PatientUsername == patient }), nil
}

func (r appointmentRepository) deleteWhere(match func(models.Appointment) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.appointments {
		if match(a) {
			delete(r.s.appointments, id)
			n++
		}
	}
	return n
}

func (r appointmentRepository) UpdateCostByDoctor(_ context.Context, doctor string, cost float64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.appointments {
		if a.DoctorUsername == doctor {
			a.Cost = cost
			r.s.appointments[id] = a
			n++
		}
	}
	return n, nil
}

func (r appointmentRepository) SlotTaken(_ context.Context, doctor string, date time.Time, timeOfDay string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.appointments {
		if a.DoctorUsername == doctor && a.Date.Equal(date) && a.Time == timeOfDay {
			return true, nil
		}
	}
	return false, nil
}
