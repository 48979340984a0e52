package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// le contrôle d'origine est délégué au middleware CORS
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LocationHandler struct {
	users repository.UserRepository
}

func NewLocationHandler(users repository.UserRepository) *LocationHandler {
	return &LocationHandler{users: users}
}

// ✅ PUT /location/worker — position temps réel du prestataire (Redis + pub/sub)
func (h *LocationHandler) UpdateWorkerLocation(c *gin.Context) {
	workerID := c.GetString("worker_id")
	if workerID == "" {
		apperr.Abort(c, apperr.Unauthorized("Prestataire non authentifié"))
		return
	}

	var req struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("lat et lng sont requis"))
		return
	}

	if err := services.PublishWorkerLocation(c.Request.Context(), workerID, *req.Lat, *req.Lng); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour de la position", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Position mise à jour"})
}

// ✅ GET /location/worker/:workerId — dernière position connue
func (h *LocationHandler) GetWorkerLocation(c *gin.Context) {
	pos, err := services.GetWorkerLocation(c.Request.Context(), c.Param("workerId"))
	if err != nil {
		if errors.Is(err, services.ErrLocationUnknown) {
			apperr.Abort(c, apperr.NotFound("Aucune position connue pour ce prestataire"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la lecture de la position", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "location": pos})
}

// ✅ PUT /location/user — position du client, persistée sur le profil
func (h *LocationHandler) UpdateUserLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("lat et lng sont requis"))
		return
	}

	loc := models.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	if err := h.users.UpdateLocation(c.Request.Context(), userID, loc); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour de la position", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Position mise à jour"})
}

// ✅ GET /location/ws — flux websocket des positions prestataires.
// Chaque message publié sur le canal Redis est relayé tel quel au client.
func (h *LocationHandler) LocationFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Upgrade websocket échoué:", err)
		return
	}

	defer conn.Close()

	clientID := uuid.NewString()
	log.Printf("✅ Client websocket connecté: %s", clientID)

	// l'abonnement survit au contexte de la requête : il vit tant que la
	// connexion websocket est ouverte
	sub := services.SubscribeWorkerLocations(context.Background())
	defer sub.Close()

	done := make(chan struct{})

	// pompe de lecture : détecte la fermeture côté client
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-done:
			log.Printf("👋 Client websocket déconnecté: %s", clientID)
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("⚠️ Écriture websocket échouée (%s): %v", clientID, err)
				return
			}
		}
	}
}
