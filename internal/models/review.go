package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Worker    primitive.ObjectID `bson:"worker" json:"worker"`
	Rating    int                `bson:"rating" json:"rating"` // 1 à 5
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ReviewView expose le nom du relecteur ou du prestataire en plus de l'avis
type ReviewView struct {
	Review
	UserName   string `json:"userName,omitempty"`
	WorkerName string `json:"workerName,omitempty"`
}
