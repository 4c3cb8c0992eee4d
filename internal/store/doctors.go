package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/models"
)

type doctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) DoctorRepository {
	return &doctorRepository{coll: db.Collection(DoctorsCollection)}
}

func (r *doctorRepository) FindByUsername(ctx context.Context, username string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doctor); err != nil {
		return nil, translate(err, "find doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return existsByEmailOrUsername(ctx, r.coll, email, username, "find doctor")
}

func (r *doctorRepository) Insert(ctx context.Context, doctor *models.Doctor) error {
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, doctor)
	return translate(err, "insert doctor")
}

func (r *doctorRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return r.set(ctx, username, bson.M{"password": passwordHash}, "update doctor password")
}

func (r *doctorRepository) UpdateCost(ctx context.Context, username string, cost float64) error {
	return r.set(ctx, username, bson.M{"appointment_cost": cost}, "update doctor cost")
}

func (r *doctorRepository) set(ctx context.Context, username string, fields bson.M, op string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": fields})
	if err != nil {
		return translate(err, op)
	}
	if result.MatchedCount == 0 {
		return translate(mongo.ErrNoDocuments, op)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, username string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return translate(err, "delete doctor")
	}
	if result.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments, "delete doctor")
	}
	return nil
}

func (r *doctorRepository) ListBySpecialization(ctx context.Context, specialization string) ([]models.Doctor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"specialization": specialization}, opts)
	if err != nil {
		return nil, translate(err, "list doctors")
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, translate(err, "decode doctors")
	}
	return doctors, nil
}

// existsByEmailOrUsername is shared by the doctor and patient collections,
// which carry the same pair of unique fields.
func existsByEmailOrUsername(ctx context.Context, coll *mongo.Collection, email, username, op string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}}
	err := coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, translate(err, op)
}
