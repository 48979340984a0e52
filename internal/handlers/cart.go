package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/services"
)

type CartHandler struct {
	cart *services.CartService
}

func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// currentUserID relit l'id utilisateur posé par le middleware JWT
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		apperr.Abort(c, apperr.Unauthorized("Utilisateur non authentifié"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// ✅ POST /cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ServiceID string `json:"serviceId" binding:"required"`
		Quantity  int    `json:"quantity"`
		WorkerID  string `json:"workerId"`
		Location  string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de service invalide"))
		return
	}

	input := services.AddToCartInput{
		ServiceID: serviceID,
		Quantity:  req.Quantity,
		Location:  req.Location,
	}
	if req.WorkerID != "" {
		workerID, werr := primitive.ObjectIDFromHex(req.WorkerID)
		if werr != nil {
			apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
			return
		}
		input.Worker = &workerID
	}

	cart, outcome, err := h.cart.AddToCart(c.Request.Context(), userID, input)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	status := http.StatusOK
	message := "Service ajouté au panier"
	if outcome == services.OutcomeCreated {
		status = http.StatusCreated
		message = "Panier créé"
	}
	c.JSON(status, gin.H{"success": true, "message": message, "cart": cart})
}

// ✅ DELETE /cart/remove
func (h *CartHandler) DeleteFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ServiceID string `json:"serviceId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de service invalide"))
		return
	}

	cart, err := h.cart.DeleteFromCart(c.Request.Context(), userID, serviceID, req.Quantity)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service retiré du panier", "cart": cart})
}

// ✅ DELETE /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cart.ClearCart(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Panier vidé", "cart": cart})
}

// ✅ GET /cart/view — panier avec services et prestataires résolus
func (h *CartHandler) ViewCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.cart.ViewCart(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": view})
}

// ✅ PUT /cart/update — localisation et/ou réaffectation de prestataire
func (h *CartHandler) UpdateCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Category string `json:"category"`
		WorkerID string `json:"workerId"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	input := services.UpdateCartInput{
		Category: req.Category,
		Location: req.Location,
	}
	if req.WorkerID != "" {
		workerID, werr := primitive.ObjectIDFromHex(req.WorkerID)
		if werr != nil {
			apperr.Abort(c, apperr.InvalidInput("Identifiant de prestataire invalide"))
			return
		}
		input.WorkerID = &workerID
	}

	cart, err := h.cart.UpdateCart(c.Request.Context(), userID, input)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Panier mis à jour", "cart": cart})
}
