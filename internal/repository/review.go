package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	// UpdateOwned / DeleteOwned filtrent aussi sur le propriétaire : un
	// utilisateur ne touche jamais l'avis d'un autre (ErrNotFound sinon)
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, rating int) (*models.Review, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error
	ListByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Review, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error)
}

type mongoReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{collection: db.Collection("reviews")}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("création avis: %w", err)
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoReviewRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, rating int) (*models.Review, error) {
	filter := bson.M{"_id": id, "user": userID}
	update := bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.Review
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mise à jour avis: %w", err)
	}
	return &review, nil
}

func (r *mongoReviewRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("suppression avis: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoReviewRepository) ListByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Review, error) {
	return r.list(ctx, bson.M{"worker": workerID})
}

func (r *mongoReviewRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *mongoReviewRepository) list(ctx context.Context, filter bson.M) ([]models.Review, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing avis: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("décodage avis: %w", err)
	}
	return reviews, nil
}
