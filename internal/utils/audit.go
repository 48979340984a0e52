package utils

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/database"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

// LogAction enregistre une action sensible (mutation admin, paiement,
// remboursement) dans le journal d'audit ScyllaDB
func LogAction(c *gin.Context, action, resource, resourceID string) {
	logAsync(c, action, resource, resourceID, true, "")
}

// LogFailedAction enregistre une action échouée
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	logAsync(c, action, resource, resourceID, false, errorMsg)
}

func logAsync(c *gin.Context, action, resource, resourceID string, success bool, errorMsg string) {
	if database.Scylla == nil {
		return
	}

	entry := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Success:    success,
		ErrorMsg:   errorMsg,
		IPAddress:  c.ClientIP(),
		CreatedAt:  time.Now(),
	}

	go func() {
		err := database.Scylla.Query(`
			INSERT INTO audit_logs (id, user_id, user_email, action, resource, resource_id, success, error_msg, ip_address, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.UserID, entry.UserEmail, entry.Action, entry.Resource,
			entry.ResourceID, entry.Success, entry.ErrorMsg, entry.IPAddress, entry.CreatedAt).Exec()
		if err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}
