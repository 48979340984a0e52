package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

type CartRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection("carts")}
}

func (r *mongoCartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture panier: %w", err)
	}
	return &cart, nil
}

func (r *mongoCartRepository) Insert(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return fmt.Errorf("création panier: %w", err)
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Save remplace le document entier : la logique d'agrégation mute le panier
// en mémoire puis persiste le résultat en une seule écriture.
func (r *mongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart)
	if err != nil {
		return fmt.Errorf("sauvegarde panier: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
