package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Commande créée, en attente
	OrderStatusCompleted OrderStatus = "completed" // Prestation réalisée
	OrderStatusCancelled OrderStatus = "cancelled" // Annulée, sans retour possible

	PaymentStatusPending   PaymentStatus = "pending"   // Paiement non effectué
	PaymentStatusCompleted PaymentStatus = "completed" // Paiement encaissé
	PaymentStatusFailed    PaymentStatus = "failed"    // Tentative échouée
	PaymentStatusRefunded  PaymentStatus = "refunded"  // Remboursé après annulation
)

// Order est un instantané immuable du panier : Amount est copié du panier à
// la création et n'est jamais recalculé.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Cart          primitive.ObjectID `bson:"cart" json:"cart"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	OrderStatus   OrderStatus        `bson:"order_status" json:"orderStatus"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	OrderDate     time.Time          `bson:"order_date" json:"orderDate"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
