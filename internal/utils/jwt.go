package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateUserJWT génère le token d'un utilisateur (claims user_id + role)
func GenerateUserJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateWorkerJWT génère le token d'un prestataire (claim worker_id)
func GenerateWorkerJWT(worker models.Worker) (string, error) {
	claims := jwt.MapClaims{
		"worker_id": worker.ID.Hex(),
		"email":     worker.Email,
		"phone":     worker.Phone,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
