package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	clinicCollection  = "clinics"
	patientCollection = "patients"
	adCollection      = "ads"
)

type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	clinics  *clinicMongoRepository
	patients *patientMongoRepository
	ads      *adMongoRepository
}

// NewMongo connects, pings and makes sure the indexes exist.
func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: mongo connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("docstore: mongo ping failed: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client:   client,
		db:       db,
		clinics:  &clinicMongoRepository{db: db},
		patients: &patientMongoRepository{db: db},
		ads:      &adMongoRepository{db: db},
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(clinicCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("docstore: failed to create clinic indexes: %w", err)
	}

	if _, err := db.Collection(patientCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "clinic_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "clinic_id", Value: 1}, {Key: "uhid", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("docstore: failed to create patient indexes: %w", err)
	}

	if _, err := db.Collection(adCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pool", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("docstore: failed to create ad indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Clinics() ClinicRepository   { return s.clinics }
func (s *MongoStore) Patients() PatientRepository { return s.patients }
func (s *MongoStore) Ads() AdRepository           { return s.ads }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// clinics

type clinicMongoRepository struct {
	db *mongo.Database
}

func (r *clinicMongoRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	now := time.Now().UTC()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now

	if _, err := r.db.Collection(clinicCollection).InsertOne(ctx, clinic); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *clinicMongoRepository) Get(ctx context.Context, id string) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := r.db.Collection(clinicCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&clinic); err != nil {
		return nil, mapErr(err)
	}
	return &clinic, nil
}

func (r *clinicMongoRepository) List(ctx context.Context) ([]models.Clinic, error) {
	cursor, err := r.db.Collection(clinicCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	clinics := []models.Clinic{}
	if err := cursor.All(ctx, &clinics); err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicMongoRepository) Update(ctx context.Context, clinic *models.Clinic) error {
	clinic.UpdatedAt = time.Now().UTC()
	result, err := r.db.Collection(clinicCollection).ReplaceOne(ctx, bson.M{"_id": clinic.ID}, clinic)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *clinicMongoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Collection(clinicCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// patients

type patientMongoRepository struct {
	db *mongo.Database
}

func patientKey(clinicID, id string) bson.M {
	return bson.M{"_id": id, "clinic_id": clinicID}
}

func (r *patientMongoRepository) Create(ctx context.Context, patient *models.Patient) error {
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	if _, err := r.db.Collection(patientCollection).InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *patientMongoRepository) Get(ctx context.Context, clinicID, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.Collection(patientCollection).FindOne(ctx, patientKey(clinicID, id)).Decode(&patient); err != nil {
		return nil, mapErr(err)
	}
	return &patient, nil
}

func (r *patientMongoRepository) List(ctx context.Context, clinicID string) ([]models.Patient, error) {
	cursor, err := r.db.Collection(patientCollection).Find(ctx, bson.M{"clinic_id": clinicID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	patients := []models.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientMongoRepository) Count(ctx context.Context, clinicID string) (int64, error) {
	return r.db.Collection(patientCollection).CountDocuments(ctx, bson.M{"clinic_id": clinicID})
}

func (r *patientMongoRepository) Update(ctx context.Context, patient *models.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	result, err := r.db.Collection(patientCollection).ReplaceOne(ctx, patientKey(patient.ClinicID, patient.ID), patient)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientMongoRepository) Delete(ctx context.Context, clinicID, id string) error {
	result, err := r.db.Collection(patientCollection).DeleteOne(ctx, patientKey(clinicID, id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ads

type adMongoRepository struct {
	db *mongo.Database
}

func (r *adMongoRepository) Create(ctx context.Context, ad *models.Ad) error {
	ad.CreatedAt = time.Now().UTC()
	if _, err := r.db.Collection(adCollection).InsertOne(ctx, ad); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *adMongoRepository) List(ctx context.Context, pool models.AdPool) ([]models.Ad, error) {
	cursor, err := r.db.Collection(adCollection).Find(ctx, bson.M{"pool": pool},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	ads := []models.Ad{}
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *adMongoRepository) Delete(ctx context.Context, pool models.AdPool, id string) error {
	result, err := r.db.Collection(adCollection).DeleteOne(ctx, bson.M{"_id": id, "pool": pool})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

var _ Store = (*MongoStore)(nil)
