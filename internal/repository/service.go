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

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	ListByCategory(ctx context.Context, category string) ([]models.Service, error)
	Search(ctx context.Context, query string) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) ServiceRepository {
	return &mongoServiceRepository{collection: db.Collection("services")}
}

func (r *mongoServiceRepository) Create(ctx context.Context, service *models.Service) error {
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, service)
	if err != nil {
		return fmt.Errorf("insertion service: %w", err)
	}
	service.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoServiceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	var service models.Service
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture service: %w", err)
	}
	return &service, nil
}

func (r *mongoServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("décodage services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) ListByCategory(ctx context.Context, category string) ([]models.Service, error) {
	// correspondance exacte insensible à la casse
	filter := bson.M{"category": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(category) + "$",
		"$options": "i",
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing services par catégorie: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("décodage services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) Search(ctx context.Context, query string) ([]models.Service, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"$or": []bson.M{
		{"name": bson.M{"$regex": pattern, "$options": "i"}},
		{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("recherche services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("décodage services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) Update(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": service.ID}, service)
	if err != nil {
		return fmt.Errorf("mise à jour service: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoServiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("suppression service: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
