package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/models"
)

type patientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) PatientRepository {
	return &patientRepository{coll: db.Collection(PatientsCollection)}
}

func (r *patientRepository) FindByUsername(ctx context.Context, username string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&patient); err != nil {
		return nil, translate(err, "find patient")
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return existsByEmailOrUsername(ctx, r.coll, email, username, "find patient")
}

func (r *patientRepository) Insert(ctx context.Context, patient *models.Patient) error {
	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, patient)
	return translate(err, "insert patient")
}

func (r *patientRepository) Delete(ctx context.Context, username string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return translate(err, "delete patient")
	}
	if result.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments, "delete patient")
	}
	return nil
}
