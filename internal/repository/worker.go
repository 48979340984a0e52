package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

// WorkerFilter restreint le listing des prestataires
type WorkerFilter struct {
	Skill        string
	Location     string
	Availability *bool
}

type WorkerRepository interface {
	Create(ctx context.Context, worker *models.Worker) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	GetByEmail(ctx context.Context, email string) (*models.Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]models.Worker, error)
	Update(ctx context.Context, worker *models.Worker) error
	AppendDocuments(ctx context.Context, id primitive.ObjectID, urls []string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoWorkerRepository struct {
	collection *mongo.Collection
}

func NewWorkerRepository(db *mongo.Database) WorkerRepository {
	return &mongoWorkerRepository{collection: db.Collection("workers")}
}

func (r *mongoWorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	if worker.Onboarding.Status == "" {
		worker.Onboarding.Status = models.OnboardingPending
	}
	// un tableau vide plutôt que null, sinon le $push des documents échoue
	if worker.Onboarding.Documents == nil {
		worker.Onboarding.Documents = []string{}
	}

	res, err := r.collection.InsertOne(ctx, worker)
	if err != nil {
		return fmt.Errorf("création prestataire: %w", err)
	}
	worker.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoWorkerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	var worker models.Worker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture prestataire: %w", err)
	}
	return &worker, nil
}

func (r *mongoWorkerRepository) GetByEmail(ctx context.Context, email string) (*models.Worker, error) {
	var worker models.Worker
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture prestataire: %w", err)
	}
	return &worker, nil
}

func (r *mongoWorkerRepository) List(ctx context.Context, filter WorkerFilter) ([]models.Worker, error) {
	query := bson.M{}
	if filter.Skill != "" {
		query["skills"] = bson.M{
			"$regex":   "^" + regexp.QuoteMeta(filter.Skill) + "$",
			"$options": "i",
		}
	}
	if filter.Location != "" {
		query["location"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.Location),
			"$options": "i",
		}
	}
	if filter.Availability != nil {
		query["availability"] = *filter.Availability
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing prestataires: %w", err)
	}
	defer cursor.Close(ctx)

	var workers []models.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("décodage prestataires: %w", err)
	}
	return workers, nil
}

func (r *mongoWorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	worker.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": worker.ID}, worker)
	if err != nil {
		return fmt.Errorf("mise à jour prestataire: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoWorkerRepository) AppendDocuments(ctx context.Context, id primitive.ObjectID, urls []string) error {
	update := bson.M{
		"$push": bson.M{"onboarding.documents": bson.M{"$each": urls}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("ajout documents prestataire: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoWorkerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("suppression prestataire: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
