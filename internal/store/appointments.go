package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

type appointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) AppointmentRepository {
	return &appointmentRepository{coll: db.Collection(AppointmentsCollection)}
}

func (r *appointmentRepository) Insert(ctx context.Context, apt *models.Appointment) error {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, apt)
	return translate(err, "insert appointment")
}

func (r *appointmentRepository) ListByDoctorFrom(ctx context.Context, doctor string, from time.Time) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"doctor_username": doctor, "date": bson.M{"$gte": from}})
}

func (r *appointmentRepository) ListByPatientFrom(ctx context.Context, patient string, from time.Time) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"patient_username": patient, "date": bson.M{"$gte": from}})
}

func (r *appointmentRepository) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "list appointments")
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, translate(err, "decode appointments")
	}
	return appointments, nil
}

func (r *appointmentRepository) FindForPatient(ctx context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error) {
	var apt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "patient_username": patient}).Decode(&apt)
	if err != nil {
		return nil, translate(err, "find appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) DeleteForPatient(ctx context.Context, id primitive.ObjectID, patient string) (*models.Appointment, error) {
	var apt models.Appointment
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "patient_username": patient}).Decode(&apt)
	if err != nil {
		return nil, translate(err, "delete appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) DeleteByDoctor(ctx context.Context, doctor string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"doctor_username": doctor})
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patient string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"patient_username": patient})
}

func (r *appointmentRepository) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, translate(err, "delete appointments")
	}
	return result.DeletedCount, nil
}

func (r *appointmentRepository) UpdateCostByDoctor(ctx context.Context, doctor string, cost float64) (int64, error) {
	result, err := r.coll.UpdateMany(ctx, bson.M{"doctor_username": doctor}, bson.M{"$set": bson.M{"cost": cost}})
	if err != nil {
		return 0, translate(err, "update appointment costs")
	}
	return result.ModifiedCount, nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, doctor string, date time.Time, timeOfDay string) (bool, error) {
	filter := bson.M{"doctor_username": doctor, "date": date, "time": timeOfDay}
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, translate(err, "check slot")
	}
}
