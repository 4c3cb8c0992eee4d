package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
)

// MongoStore owns the client and exposes the four collections as repositories.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri, database string, transactions bool) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, client.Database(database), transactions), nil
}

func NewMongoStore(client *mongo.Client, db *mongo.Database, transactions bool) *MongoStore {
	return &MongoStore{client: client, db: db, transactions: transactions}
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Repositories() Repositories {
	return Repositories{
		Admins:       NewAdminRepository(s.db),
		Doctors:      NewDoctorRepository(s.db),
		Patients:     NewPatientRepository(s.db),
		Appointments: NewAppointmentRepository(s.db),
		Tx:           s,
	}
}

// WithTransaction runs fn inside a multi-document transaction when enabled.
// Transactions need a replica set; standalone servers run fn directly.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the unique indexes backing username, email and
// appointment-slot uniqueness.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		AdminsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		DoctorsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "specialization", Value: 1}, {Key: "username", Value: 1}}},
		},
		PatientsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		AppointmentsCollection: {
			{Keys: bson.D{{Key: "doctor_username", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "patient_username", Value: 1}, {Key: "date", Value: 1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the shared taxonomy.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
