package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/database"
)

// Les positions temps réel des prestataires vivent dans Redis : clé avec TTL
// pour la dernière position, pub/sub pour le flux websocket.
const (
	workerLocationTTL     = 15 * time.Minute
	WorkerLocationChannel = "worker_locations"
)

var ErrLocationUnknown = errors.New("position inconnue")

type WorkerPosition struct {
	WorkerID  string    `json:"workerId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func workerLocationKey(workerID string) string {
	return "loc:worker:" + workerID
}

// PublishWorkerLocation enregistre la dernière position d'un prestataire et
// la diffuse aux clients websocket abonnés
func PublishWorkerLocation(ctx context.Context, workerID string, lat, lng float64) error {
	pos := WorkerPosition{
		WorkerID:  workerID,
		Lat:       lat,
		Lng:       lng,
		UpdatedAt: time.Now(),
	}

	payload, err := json.Marshal(pos)
	if err != nil {
		return err
	}

	if err := database.Redis.Set(ctx, workerLocationKey(workerID), payload, workerLocationTTL).Err(); err != nil {
		return fmt.Errorf("sauvegarde position: %w", err)
	}
	if err := database.Redis.Publish(ctx, WorkerLocationChannel, payload).Err(); err != nil {
		return fmt.Errorf("diffusion position: %w", err)
	}
	return nil
}

// GetWorkerLocation retourne la dernière position connue d'un prestataire
func GetWorkerLocation(ctx context.Context, workerID string) (*WorkerPosition, error) {
	data, err := database.Redis.Get(ctx, workerLocationKey(workerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrLocationUnknown
		}
		return nil, fmt.Errorf("lecture position: %w", err)
	}

	var pos WorkerPosition
	if err := json.Unmarshal([]byte(data), &pos); err != nil {
		return nil, fmt.Errorf("décodage position: %w", err)
	}
	return &pos, nil
}

// SubscribeWorkerLocations ouvre l'abonnement pub/sub au flux des positions
func SubscribeWorkerLocations(ctx context.Context) *redis.PubSub {
	return database.Redis.Subscribe(ctx, WorkerLocationChannel)
}
