package services

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
)

// PaymentGateway est le contrat minimal attendu du processeur de paiement
// externe. Les montants sont en unités mineures (paise pour l'INR).
type PaymentGateway interface {
	CreateCharge(ctx context.Context, amountMinor int64, currency, method string) (string, error)
	CreateRefund(ctx context.Context, transactionID string) error
}

// OrderService pilote le cycle de vie commande/paiement :
// orderStatus  : pending → completed → cancelled
// paymentStatus: pending → completed → refunded
type OrderService struct {
	orders  repository.OrderRepository
	carts   repository.CartRepository
	gateway PaymentGateway
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, gateway PaymentGateway) *OrderService {
	return &OrderService{orders: orders, carts: carts, gateway: gateway}
}

// CreateOrder fige le panier en une commande : Amount est copié du prix total
// au moment de l'appel et ne bougera plus. Le panier n'est ni vidé ni
// verrouillé (comportement d'origine conservé, voir DESIGN.md).
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Panier introuvable")
		}
		return nil, apperr.Internal("Erreur lors de la création de la commande", err)
	}

	order := &models.Order{
		Cart:          cart.ID,
		User:          userID,
		Amount:        cart.TotalPrice,
		PaymentMethod: "none",
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperr.Internal("Erreur lors de la création de la commande", err)
	}
	return order, nil
}

// CompleteOrder marque la commande comme terminée. Aucune garde sur l'état
// courant : re-terminer une commande déjà terminée est idempotent.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.OrderStatus = models.OrderStatusCompleted

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, apperr.Internal("Erreur lors de la clôture de la commande", err)
	}
	return order, nil
}

// ProcessPayment encaisse une commande terminée via la passerelle de
// paiement. Pas de clé d'idempotence : un retry après timeout peut
// double-facturer (comportement d'origine conservé, voir DESIGN.md).
func (s *OrderService) ProcessPayment(ctx context.Context, orderID primitive.ObjectID, paymentMethod string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus != models.OrderStatusCompleted {
		return nil, apperr.InvalidInput("La commande doit être marquée comme terminée avant le paiement")
	}

	// montant en paise (1 INR = 100 paise)
	amountMinor := int64(math.Round(order.Amount * 100))

	transactionID, err := s.gateway.CreateCharge(ctx, amountMinor, "inr", paymentMethod)
	if err != nil {
		return nil, apperr.Internal("Échec du paiement", err)
	}

	order.PaymentMethod = paymentMethod
	order.PaymentStatus = models.PaymentStatusCompleted
	order.TransactionID = transactionID

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, apperr.Internal("Échec du paiement", err)
	}
	return order, nil
}

// CancelOrder annule la commande ; si le paiement était encaissé, il est
// d'abord remboursé. Un second appel est sans effet sur le paiement
// (le statut refunded ne déclenche plus de remboursement).
func (s *OrderService) CancelOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		if err := s.gateway.CreateRefund(ctx, order.TransactionID); err != nil {
			return nil, apperr.Internal("Erreur lors de l'annulation de la commande", err)
		}
		order.PaymentStatus = models.PaymentStatusRefunded
	}

	order.OrderStatus = models.OrderStatusCancelled

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, apperr.Internal("Erreur lors de l'annulation de la commande", err)
	}
	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	return s.getOrder(ctx, orderID)
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Erreur lors de la récupération des commandes", err)
	}
	return orders, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Erreur lors de la récupération des commandes", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	orders, err := s.orders.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperr.Internal("Erreur lors de la récupération des commandes", err)
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Commande introuvable")
		}
		return nil, apperr.Internal("Erreur lors de la récupération de la commande", err)
	}
	return order, nil
}
