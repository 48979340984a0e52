package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/services"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/utils"
)

type OrderHandler struct {
	orders *services.OrderService
	cart   *services.CartService
	users  repository.UserRepository
}

func NewOrderHandler(orders *services.OrderService, cart *services.CartService, users repository.UserRepository) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart, users: users}
}

// ✅ POST /order/create — fige le panier courant en commande
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	utils.LogAction(c, "order.create", "order", order.ID.Hex())
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Commande créée", "order": order})
}

// ✅ PUT /order/complete/:orderId (admin)
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de commande invalide"))
		return
	}

	order, err := h.orders.CompleteOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.LogFailedAction(c, "order.complete", "order", orderID.Hex(), err.Error())
		apperr.Abort(c, err)
		return
	}

	utils.LogAction(c, "order.complete", "order", order.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commande terminée", "order": order})
}

// ✅ POST /order/pay — encaisse une commande terminée puis envoie la
// confirmation (e-mail + facture PDF + QR UPI) en tâche de fond
func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderID       string `json:"orderId" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de commande invalide"))
		return
	}

	order, err := h.orders.ProcessPayment(c.Request.Context(), orderID, req.PaymentMethod)
	if err != nil {
		utils.LogFailedAction(c, "order.pay", "order", orderID.Hex(), err.Error())
		apperr.Abort(c, err)
		return
	}

	utils.LogAction(c, "order.pay", "order", order.ID.Hex())
	go h.sendPaymentConfirmation(*order, userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Paiement effectué", "order": order})
}

// sendPaymentConfirmation tourne hors requête : aucun échec ici ne doit
// remonter au client, le paiement est déjà encaissé
func (h *OrderHandler) sendPaymentConfirmation(order models.Order, userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		log.Println("⚠️ Confirmation non envoyée, utilisateur introuvable:", err)
		return
	}

	cartView, err := h.cart.ViewCart(ctx, userID)
	if err != nil {
		log.Println("⚠️ Confirmation non envoyée, panier illisible:", err)
		return
	}

	qrBase64, err := utils.GenerateUPIQR(os.Getenv("UPI_VPA"), "SewaSaathi", order.TransactionID, order.Amount)
	if err != nil {
		log.Println("⚠️ Génération du QR UPI échouée:", err)
		qrBase64 = ""
	}

	var pdf []byte
	pdf, err = utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), order.ID.Hex(), qrBase64)
	if err != nil {
		log.Println("⚠️ Génération de la facture PDF échouée:", err)
		pdf = nil
	}

	html := utils.GeneratePaymentConfirmationHTML(order, *cartView, qrBase64)
	if err := utils.SendConfirmationEmail(user.Email, "Confirmation de paiement SewaSaathi", html, pdf); err != nil {
		log.Println("❌ Envoi de l'e-mail de confirmation échoué:", err)
		return
	}
	log.Println("✅ Confirmation de paiement envoyée à", user.Email)
}

// ✅ DELETE /order/cancel/:orderId — rembourse si déjà payé
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de commande invalide"))
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	if order.User != userID && c.GetString("role") != "admin" {
		apperr.Abort(c, apperr.Forbidden("Cette commande ne vous appartient pas"))
		return
	}

	order, err = h.orders.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.LogFailedAction(c, "order.cancel", "order", orderID.Hex(), err.Error())
		apperr.Abort(c, err)
		return
	}

	utils.LogAction(c, "order.cancel", "order", order.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commande annulée", "order": order})
}

// ✅ GET /order/history — commandes de l'utilisateur courant
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// ✅ GET /order/:orderId
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant de commande invalide"))
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	if order.User != userID && c.GetString("role") != "admin" {
		apperr.Abort(c, apperr.Forbidden("Cette commande ne vous appartient pas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// ✅ GET /order (admin)
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// ✅ GET /order/status/:status (admin)
func (h *OrderHandler) GetOrdersByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		apperr.Abort(c, apperr.InvalidInput("Statut de commande inconnu"))
		return
	}

	orders, err := h.orders.GetOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}
