package handlers

import (
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

type WorkerHandler struct {
	workers repository.WorkerRepository
}

func NewWorkerHandler(workers repository.WorkerRepository) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// ✅ POST /workers — inscription d'un prestataire (onboarding en attente)
func (h *WorkerHandler) Register(c *gin.Context) {
	var req struct {
		Name       string   `json:"name" binding:"required"`
		Email      string   `json:"email" binding:"required"`
		Password   string   `json:"password" binding:"required"`
		Phone      string   `json:"phone" binding:"required"`
		Skills     []string `json:"skills" binding:"required,min=1"`
		Location   string   `json:"location" binding:"required"`
		Onboarding struct {
			QuizScore *int `json:"quizScore" binding:"required"`
		} `json:"onboarding"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Nom, e-mail, mot de passe, téléphone, compétences, zone et score de quiz sont requis"))
		return
	}
	if *req.Onboarding.QuizScore < 0 || *req.Onboarding.QuizScore > 100 {
		apperr.Abort(c, apperr.InvalidInput("Score de quiz invalide (0 à 100 attendu)"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(req.Email) {
		apperr.Abort(c, apperr.InvalidInput("Adresse e-mail invalide"))
		return
	}
	if !phoneRegex.MatchString(req.Phone) {
		apperr.Abort(c, apperr.InvalidInput("Numéro de téléphone invalide (10 chiffres attendus)"))
		return
	}
	if len(req.Password) < 8 {
		apperr.Abort(c, apperr.InvalidInput("Le mot de passe doit contenir au moins 8 caractères"))
		return
	}

	if _, err := h.workers.GetByEmail(c.Request.Context(), req.Email); err == nil {
		apperr.Abort(c, apperr.InvalidInput("Un prestataire existe déjà avec cet e-mail"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'inscription", err))
		return
	}

	worker := &models.Worker{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Skills:   req.Skills,
		Location: req.Location,
		Onboarding: models.Onboarding{
			Documents: []string{},
			QuizScore: *req.Onboarding.QuizScore,
			Status:    models.OnboardingPending,
		},
		Availability: true,
	}
	if err := h.workers.Create(c.Request.Context(), worker); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'inscription", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Prestataire inscrit", "worker": worker})
}

// ✅ POST /workers/login
func (h *WorkerHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("E-mail et mot de passe requis"))
		return
	}

	worker, err := h.workers.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		apperr.Abort(c, apperr.Unauthorized("Identifiants invalides"))
		return
	}

	ok, err := utils.VerifyPassword(req.Password, worker.Password)
	if err != nil || !ok {
		apperr.Abort(c, apperr.Unauthorized("Identifiants invalides"))
		return
	}

	token, err := utils.GenerateWorkerJWT(*worker)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la connexion", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "worker": worker})
}

// ✅ GET /workers/:id
func (h *WorkerHandler) GetWorkerByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}

	worker, err := h.workers.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Abort(c, apperr.NotFound("Prestataire introuvable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "worker": worker})
}

// ✅ GET /workers?skill=&location=&available=
func (h *WorkerHandler) GetAllWorkers(c *gin.Context) {
	filter := repository.WorkerFilter{
		Skill:    c.Query("skill"),
		Location: c.Query("location"),
	}
	if v := c.Query("available"); v != "" {
		available := v == "true"
		filter.Availability = &available
	}

	workers, err := h.workers.List(c.Request.Context(), filter)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des prestataires", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workers": workers})
}

// ✅ PATCH /workers/:id — un prestataire ne modifie que son propre profil
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}
	if c.GetString("worker_id") != id.Hex() {
		apperr.Abort(c, apperr.Forbidden("Ce profil ne vous appartient pas"))
		return
	}

	worker, err := h.workers.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Abort(c, apperr.NotFound("Prestataire introuvable"))
		return
	}

	var req struct {
		Name         *string   `json:"name"`
		Phone        *string   `json:"phone"`
		Skills       *[]string `json:"skills"`
		Location     *string   `json:"location"`
		Availability *bool     `json:"availability"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	if req.Name != nil && *req.Name != "" {
		worker.Name = *req.Name
	}
	if req.Phone != nil {
		if !phoneRegex.MatchString(*req.Phone) {
			apperr.Abort(c, apperr.InvalidInput("Numéro de téléphone invalide (10 chiffres attendus)"))
			return
		}
		worker.Phone = *req.Phone
	}
	if req.Skills != nil && len(*req.Skills) > 0 {
		worker.Skills = *req.Skills
	}
	if req.Location != nil && *req.Location != "" {
		worker.Location = *req.Location
	}
	if req.Availability != nil {
		worker.Availability = *req.Availability
	}

	if err := h.workers.Update(c.Request.Context(), worker); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour du prestataire", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profil mis à jour", "worker": worker})
}

// ✅ POST /workers/:id/documents — dépôt des pièces d'onboarding dans MinIO
func (h *WorkerHandler) UploadDocuments(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}
	if c.GetString("worker_id") != id.Hex() {
		apperr.Abort(c, apperr.Forbidden("Ce profil ne vous appartient pas"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Formulaire multipart attendu"))
		return
	}
	files := form.File["documents"]
	if len(files) == 0 {
		apperr.Abort(c, apperr.InvalidInput("Aucun document fourni"))
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, uerr := services.UploadWorkerDocument(c.Request.Context(), id.Hex(), file)
		if uerr != nil {
			apperr.Abort(c, apperr.Internal("Échec du dépôt des documents", uerr))
			return
		}
		urls = append(urls, url)
	}

	if err := h.workers.AppendDocuments(c.Request.Context(), id, urls); err != nil {
		apperr.Abort(c, apperr.Internal("Échec du dépôt des documents", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Documents enregistrés", "documents": urls})
}

// ✅ DELETE /workers/:id (admin)
func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}

	if err := h.workers.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Prestataire introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la suppression du prestataire", err))
		return
	}

	utils.LogAction(c, "worker.delete", "worker", id.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prestataire supprimé"})
}
