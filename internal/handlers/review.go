package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
)

type ReviewHandler struct {
	reviews repository.ReviewRepository
	users   repository.UserRepository
	workers repository.WorkerRepository
}

func NewReviewHandler(reviews repository.ReviewRepository, users repository.UserRepository,
	workers repository.WorkerRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users, workers: workers}
}

// ✅ POST /review/add
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		WorkerID string `json:"workerId" binding:"required"`
		Rating   int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Prestataire et note sont requis"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		apperr.Abort(c, apperr.InvalidInput("La note doit être comprise entre 1 et 5"))
		return
	}

	workerID, err := primitive.ObjectIDFromHex(req.WorkerID)
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}
	if _, err := h.workers.GetByID(c.Request.Context(), workerID); err != nil {
		apperr.Abort(c, apperr.NotFound("Prestataire introuvable"))
		return
	}

	review := &models.Review{
		User:   userID,
		Worker: workerID,
		Rating: req.Rating,
	}
	if err := h.reviews.Create(c.Request.Context(), review); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'ajout de l'avis", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Avis enregistré", "review": review})
}

// ✅ PUT /review/update/:reviewId — seul l'auteur peut modifier son avis
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant d'avis invalide"))
		return
	}

	var req struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Une note est requise"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		apperr.Abort(c, apperr.InvalidInput("La note doit être comprise entre 1 et 5"))
		return
	}

	review, err := h.reviews.UpdateOwned(c.Request.Context(), reviewID, userID, req.Rating)
	if err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Avis introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour de l'avis", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Avis mis à jour", "review": review})
}

// ✅ DELETE /review/delete/:reviewId
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant d'avis invalide"))
		return
	}

	if err := h.reviews.DeleteOwned(c.Request.Context(), reviewID, userID); err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Avis introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la suppression de l'avis", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Avis supprimé"})
}

// ✅ GET /review/worker/:workerId — avis reçus, avec le nom du relecteur
func (h *ReviewHandler) GetWorkerReviews(c *gin.Context) {
	workerID, err := primitive.ObjectIDFromHex(c.Param("workerId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
		return
	}

	reviews, err := h.reviews.ListByWorker(c.Request.Context(), workerID)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des avis", err))
		return
	}
	if len(reviews) == 0 {
		apperr.Abort(c, apperr.NotFound("Aucun avis trouvé pour ce prestataire"))
		return
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := models.ReviewView{Review: review}
		if user, uerr := h.users.GetByID(c.Request.Context(), review.User); uerr == nil {
			view.UserName = user.Username
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": views})
}

// ✅ GET /review/user — avis déposés par l'utilisateur courant
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByUser(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des avis", err))
		return
	}
	if len(reviews) == 0 {
		apperr.Abort(c, apperr.NotFound("Aucun avis trouvé pour cet utilisateur"))
		return
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := models.ReviewView{Review: review}
		if worker, werr := h.workers.GetByID(c.Request.Context(), review.Worker); werr == nil {
			view.WorkerName = worker.Name
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": views})
}
