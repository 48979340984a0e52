package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/services"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/utils"
)

type ServiceHandler struct {
	services repository.ServiceRepository
}

func NewServiceHandler(repo repository.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{services: repo}
}

// ✅ POST /services (admin)
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req struct {
		Category    string  `json:"category" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Catégorie, nom et prix (positif) sont requis"))
		return
	}

	service := &models.Service{
		Category:    strings.TrimSpace(req.Category),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Description: req.Description,
	}
	if err := h.services.Create(c.Request.Context(), service); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la création du service", err))
		return
	}

	go services.IndexService(*service)
	utils.LogAction(c, "service.create", "service", service.ID.Hex())
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Service créé", "service": service})
}

// ✅ GET /services
func (h *ServiceHandler) GetAllServices(c *gin.Context) {
	list, err := h.services.List(c.Request.Context())
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des services", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": list})
}

// ✅ GET /services/category/:category
func (h *ServiceHandler) GetServicesByCategory(c *gin.Context) {
	list, err := h.services.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des services", err))
		return
	}
	if len(list) == 0 {
		apperr.Abort(c, apperr.NotFound("Aucun service trouvé pour cette catégorie"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": list})
}

// ✅ GET /services/search?q= — Elasticsearch d'abord, MongoDB en secours
func (h *ServiceHandler) SearchServices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		apperr.Abort(c, apperr.InvalidInput("Le paramètre q est requis"))
		return
	}

	list, err := services.SearchServicesIndex(query)
	if err != nil {
		log.Println("⚠️ Recherche Elastic indisponible, repli sur MongoDB:", err)
		list, err = h.services.Search(c.Request.Context(), query)
		if err != nil {
			apperr.Abort(c, apperr.Internal("Erreur lors de la recherche", err))
			return
		}
	}
	if len(list) == 0 {
		apperr.Abort(c, apperr.NotFound("Aucun service trouvé pour cette recherche"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": list})
}

// ✅ GET /services/:id
func (h *ServiceHandler) GetServiceByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de service invalide"))
		return
	}

	service, err := h.services.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Service introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération du service", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": service})
}

// ✅ PUT /services/:id (admin)
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de service invalide"))
		return
	}

	service, err := h.services.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Service introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour du service", err))
		return
	}

	var req struct {
		Category    *string  `json:"category"`
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	if req.Category != nil {
		service.Category = strings.TrimSpace(*req.Category)
	}
	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			apperr.Abort(c, apperr.InvalidInput("Le prix doit être positif"))
			return
		}
		service.Price = *req.Price
	}
	if req.Description != nil {
		service.Description = *req.Description
	}

	if err := h.services.Update(c.Request.Context(), service); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour du service", err))
		return
	}

	go services.IndexService(*service)
	utils.LogAction(c, "service.update", "service", service.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service mis à jour", "service": service})
}

// ✅ DELETE /services/:id (admin)
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de service invalide"))
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Service introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la suppression du service", err))
		return
	}

	go services.RemoveServiceIndex(id.Hex())
	utils.LogAction(c, "service.delete", "service", id.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service supprimé"})
}
