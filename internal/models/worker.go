package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts d'onboarding d'un prestataire
const (
	OnboardingPending  = "pending"
	OnboardingApproved = "approved"
	OnboardingRejected = "rejected"
)

type Onboarding struct {
	// URLs MinIO des documents fournis (pièce d'identité, certificats...)
	Documents []string `bson:"documents" json:"documents"`
	QuizScore int      `bson:"quiz_score" json:"quizScore"`
	Status    string   `bson:"status" json:"status"`
}

type Worker struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Phone    string             `bson:"phone" json:"phone"`
	Skills   []string           `bson:"skills" json:"skills"`
	// Zone d'intervention déclarée à l'inscription. La position temps réel
	// vit dans Redis, pas ici.
	Location     string     `bson:"location" json:"location"`
	Onboarding   Onboarding `bson:"onboarding" json:"onboarding"`
	Availability bool       `bson:"availability" json:"availability"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}
