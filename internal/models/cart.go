package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CartStatusPending   = "pending"
	CartStatusCompleted = "completed"
)

// ServiceLine associe un service du catalogue à une quantité (≥ 1)
type ServiceLine struct {
	Service  primitive.ObjectID `bson:"service" json:"service"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// MiniCart regroupe les services d'une même catégorie, confiés à un seul
// prestataire. Un panier ne contient jamais deux mini-paniers de la même
// catégorie.
type MiniCart struct {
	Category string             `bson:"category" json:"category"`
	Worker   primitive.ObjectID `bson:"worker" json:"worker"`
	Services []ServiceLine      `bson:"services" json:"services"`
}

type Cart struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Location string             `bson:"location" json:"location"`
	MiniCarts []MiniCart        `bson:"mini_carts" json:"miniCarts"`
	Status    string            `bson:"status" json:"status"`
	// Projection dérivée des mini-paniers, recalculée à chaque mutation.
	// Jamais acceptée en entrée.
	TotalPrice float64   `bson:"total_price" json:"totalPrice"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// FindMiniCart retourne l'index du mini-panier d'une catégorie, ou -1
func (c *Cart) FindMiniCart(category string) int {
	for i := range c.MiniCarts {
		if c.MiniCarts[i].Category == category {
			return i
		}
	}
	return -1
}

// --- Vues résolues (GET /cart/view) ---

type ServiceLineView struct {
	Service  Service `json:"service"`
	Quantity int     `json:"quantity"`
}

type MiniCartView struct {
	Category string            `json:"category"`
	Worker   Worker            `json:"worker"`
	Services []ServiceLineView `json:"services"`
}

type CartView struct {
	ID         primitive.ObjectID `json:"id"`
	User       primitive.ObjectID `json:"user"`
	Location   string             `json:"location"`
	MiniCarts  []MiniCartView     `json:"miniCarts"`
	Status     string             `json:"status"`
	TotalPrice float64            `json:"totalPrice"`
}
