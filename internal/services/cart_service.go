package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
)

// UpsertOutcome indique si l'opération a créé le panier ou muté un panier
// existant
type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota
	OutcomeMutated
)

// CartService possède toute la logique d'agrégation du panier : mini-paniers
// par catégorie (un prestataire par catégorie), accumulation des quantités et
// recalcul du prix total à chaque mutation.
type CartService struct {
	carts    repository.CartRepository
	services repository.ServiceRepository
	users    repository.UserRepository
	workers  repository.WorkerRepository
}

func NewCartService(carts repository.CartRepository, services repository.ServiceRepository,
	users repository.UserRepository, workers repository.WorkerRepository) *CartService {
	return &CartService{carts: carts, services: services, users: users, workers: workers}
}

// AddToCartInput porte les paramètres de POST /cart/add
type AddToCartInput struct {
	ServiceID primitive.ObjectID
	Quantity  int
	Worker    *primitive.ObjectID // requis seulement pour une nouvelle catégorie
	Location  string
}

// AddToCart ajoute un service au panier de l'utilisateur, en le créant au
// besoin. Le panier créé hérite de l'adresse du profil ; une location
// explicite ne s'applique qu'à un panier existant.
func (s *CartService) AddToCart(ctx context.Context, userID primitive.ObjectID, input AddToCartInput) (*models.Cart, UpsertOutcome, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, 0, apperr.InvalidInput("Quantité invalide")
	}

	service, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperr.NotFound("Service introuvable")
		}
		return nil, 0, apperr.Internal("Erreur lors de l'ajout au panier", err)
	}

	outcome := OutcomeMutated
	cart, err := s.carts.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user, uerr := s.users.GetByID(ctx, userID)
		if uerr != nil {
			return nil, 0, apperr.Internal("Erreur lors de l'ajout au panier", uerr)
		}
		outcome = OutcomeCreated
		cart = &models.Cart{
			User:       userID,
			Location:   user.Address,
			MiniCarts:  []models.MiniCart{},
			Status:     models.CartStatusPending,
			TotalPrice: 0,
		}
	case err != nil:
		return nil, 0, apperr.Internal("Erreur lors de l'ajout au panier", err)
	default:
		if input.Location != "" {
			cart.Location = input.Location
		}
	}

	// L'unicité des catégories est garantie ici, au point de mutation : un
	// mini-panier n'est inséré que si sa catégorie est absente.
	idx := cart.FindMiniCart(service.Category)
	if idx == -1 {
		if input.Worker == nil {
			return nil, 0, apperr.InvalidInput(
				fmt.Sprintf("Un prestataire est requis pour la catégorie : %s", service.Category))
		}
		cart.MiniCarts = append(cart.MiniCarts, models.MiniCart{
			Category: service.Category,
			Worker:   *input.Worker,
			Services: []models.ServiceLine{{Service: input.ServiceID, Quantity: quantity}},
		})
	} else {
		// Le prestataire éventuellement fourni est ignoré : la réaffectation
		// passe par PUT /cart/update
		mc := &cart.MiniCarts[idx]
		lineIdx := findServiceLine(mc.Services, input.ServiceID)
		if lineIdx == -1 {
			mc.Services = append(mc.Services, models.ServiceLine{Service: input.ServiceID, Quantity: quantity})
		} else {
			mc.Services[lineIdx].Quantity += quantity
		}
	}

	if err := s.recomputeAndSave(ctx, cart, outcome == OutcomeCreated); err != nil {
		return nil, 0, err
	}
	return cart, outcome, nil
}

// DeleteFromCart décrémente la quantité d'un service, et retire l'entrée
// quand la décrémentation atteint ou dépasse la quantité détenue. Un
// mini-panier vidé est retiré du panier.
func (s *CartService) DeleteFromCart(ctx context.Context, userID primitive.ObjectID, serviceID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.InvalidInput("Quantité invalide")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Panier introuvable")
		}
		return nil, apperr.Internal("Erreur lors du retrait du panier", err)
	}

	idx := -1
	for i := range cart.MiniCarts {
		if findServiceLine(cart.MiniCarts[i].Services, serviceID) != -1 {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.NotFound("Service introuvable dans le panier")
	}

	mc := &cart.MiniCarts[idx]
	lineIdx := findServiceLine(mc.Services, serviceID)
	if lineIdx == -1 {
		return nil, apperr.NotFound("Service introuvable dans le mini-panier")
	}

	if mc.Services[lineIdx].Quantity > quantity {
		mc.Services[lineIdx].Quantity -= quantity
	} else {
		// la quantité ne descend jamais sous zéro : retrait complet
		mc.Services = append(mc.Services[:lineIdx], mc.Services[lineIdx+1:]...)
	}

	if len(mc.Services) == 0 {
		cart.MiniCarts = append(cart.MiniCarts[:idx], cart.MiniCarts[idx+1:]...)
	}

	if err := s.recomputeAndSave(ctx, cart, false); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart vide les mini-paniers et remet le prix à zéro
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Panier introuvable")
		}
		return nil, apperr.Internal("Erreur lors du vidage du panier", err)
	}

	cart.MiniCarts = []models.MiniCart{}
	cart.TotalPrice = 0

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperr.Internal("Erreur lors du vidage du panier", err)
	}
	return cart, nil
}

// ViewCart retourne le panier avec services et prestataires résolus
func (s *CartService) ViewCart(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Panier introuvable")
		}
		return nil, apperr.Internal("Erreur lors de la récupération du panier", err)
	}

	view := &models.CartView{
		ID:         cart.ID,
		User:       cart.User,
		Location:   cart.Location,
		MiniCarts:  []models.MiniCartView{},
		Status:     cart.Status,
		TotalPrice: cart.TotalPrice,
	}

	for _, mc := range cart.MiniCarts {
		worker, werr := s.workers.GetByID(ctx, mc.Worker)
		if werr != nil {
			return nil, apperr.Internal("Erreur lors de la récupération du panier", werr)
		}

		mcView := models.MiniCartView{
			Category: mc.Category,
			Worker:   *worker,
			Services: []models.ServiceLineView{},
		}
		for _, line := range mc.Services {
			service, serr := s.services.GetByID(ctx, line.Service)
			if serr != nil {
				return nil, apperr.Internal("Erreur lors de la récupération du panier", serr)
			}
			mcView.Services = append(mcView.Services, models.ServiceLineView{
				Service:  *service,
				Quantity: line.Quantity,
			})
		}
		view.MiniCarts = append(view.MiniCarts, mcView)
	}

	return view, nil
}

// UpdateCartInput porte les paramètres de PUT /cart/update
type UpdateCartInput struct {
	Category string
	WorkerID *primitive.ObjectID
	Location string
}

// UpdateCart change la localisation du panier et/ou réaffecte le prestataire
// d'une catégorie. Un WorkerID sans Category est silencieusement ignoré.
func (s *CartService) UpdateCart(ctx context.Context, userID primitive.ObjectID, input UpdateCartInput) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Panier introuvable")
		}
		return nil, apperr.Internal("Erreur lors de la mise à jour du panier", err)
	}

	if input.Location != "" {
		cart.Location = input.Location
	}

	if input.Category != "" {
		idx := cart.FindMiniCart(input.Category)
		if idx == -1 {
			return nil, apperr.NotFound("Aucun mini-panier trouvé pour cette catégorie")
		}
		if input.WorkerID != nil {
			cart.MiniCarts[idx].Worker = *input.WorkerID
		}
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperr.Internal("Erreur lors de la mise à jour du panier", err)
	}
	return cart, nil
}

// ComputeTotalPrice recalcule le prix total depuis les mini-paniers, avec une
// lecture fraîche du prix de chaque service : un changement de tarif au
// catalogue est reflété au prochain recalcul. Remise de 25 % sur une
// catégorie dès que son mini-panier contient plus d'un service distinct (le
// seuil porte sur le nombre de services, pas sur les quantités).
func (s *CartService) ComputeTotalPrice(ctx context.Context, miniCarts []models.MiniCart) (float64, error) {
	total := 0.0
	for _, mc := range miniCarts {
		categoryTotal := 0.0
		for _, line := range mc.Services {
			service, err := s.services.GetByID(ctx, line.Service)
			if err != nil {
				return 0, fmt.Errorf("prix du service %s: %w", line.Service.Hex(), err)
			}
			categoryTotal += float64(line.Quantity) * service.Price
		}
		if len(mc.Services) > 1 {
			categoryTotal *= 0.75
		}
		total += categoryTotal
	}
	return total, nil
}

func (s *CartService) recomputeAndSave(ctx context.Context, cart *models.Cart, created bool) error {
	total, err := s.ComputeTotalPrice(ctx, cart.MiniCarts)
	if err != nil {
		return apperr.Internal("Erreur lors du calcul du prix total", err)
	}
	cart.TotalPrice = total

	if created {
		if err := s.carts.Insert(ctx, cart); err != nil {
			return apperr.Internal("Erreur lors de la sauvegarde du panier", err)
		}
		return nil
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return apperr.Internal("Erreur lors de la sauvegarde du panier", err)
	}
	return nil
}

func findServiceLine(lines []models.ServiceLine, serviceID primitive.ObjectID) int {
	for i := range lines {
		if lines[i].Service == serviceID {
			return i
		}
	}
	return -1
}
