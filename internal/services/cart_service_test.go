package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

type cartFixture struct {
	svc     *CartService
	carts   *fakeCartRepo
	user    *models.User
	worker  *models.Worker
	worker2 *models.Worker

	deepClean *models.Service // nettoyage, 100
	sofaClean *models.Service // nettoyage, 50
	pipeFix   *models.Service // plomberie, 300
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	f := &cartFixture{
		user:      &models.User{Username: "asha", Email: "asha@example.com", Address: "12 MG Road, Pune"},
		worker:    &models.Worker{Name: "Ravi", Email: "ravi@example.com"},
		worker2:   &models.Worker{Name: "Meena", Email: "meena@example.com"},
		deepClean: &models.Service{Category: "nettoyage", Name: "Nettoyage en profondeur", Price: 100},
		sofaClean: &models.Service{Category: "nettoyage", Name: "Nettoyage canapé", Price: 50},
		pipeFix:   &models.Service{Category: "plomberie", Name: "Réparation de fuite", Price: 300},
	}

	f.carts = newFakeCartRepo()
	users := newFakeUserRepo(f.user)
	workers := newFakeWorkerRepo(f.worker, f.worker2)
	catalog := newFakeServiceRepo(f.deepClean, f.sofaClean, f.pipeFix)

	f.svc = NewCartService(f.carts, catalog, users, workers)
	return f
}

func TestAddToCartCreatesCartFromProfileAddress(t *testing.T) {
	f := newCartFixture(t)

	cart, outcome, err := f.svc.AddToCart(context.Background(), f.user.ID, AddToCartInput{
		ServiceID: f.deepClean.ID,
		Worker:    &f.worker.ID,
		Location:  "ailleurs", // ignorée : le panier créé hérite de l'adresse du profil
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, "12 MG Road, Pune", cart.Location)
	assert.Equal(t, models.CartStatusPending, cart.Status)
	require.Len(t, cart.MiniCarts, 1)
	assert.Equal(t, "nettoyage", cart.MiniCarts[0].Category)
	assert.Equal(t, f.worker.ID, cart.MiniCarts[0].Worker)
	require.Len(t, cart.MiniCarts[0].Services, 1)
	assert.Equal(t, 1, cart.MiniCarts[0].Services[0].Quantity) // quantité par défaut
	assert.Equal(t, 100.0, cart.TotalPrice)
	assert.Equal(t, 1, f.carts.inserts)
}

func TestAddToCartLocationOverrideOnExistingCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, outcome, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Location: "7 FC Road, Pune"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeMutated, outcome)
	assert.Equal(t, "7 FC Road, Pune", cart.Location)
}

func TestAddToCartRejectsNegativeQuantity(t *testing.T) {
	f := newCartFixture(t)

	_, _, err := f.svc.AddToCart(context.Background(), f.user.ID, AddToCartInput{
		ServiceID: f.deepClean.ID,
		Quantity:  -2,
		Worker:    &f.worker.ID,
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInvalidInput, appErr.Kind)
}

func TestAddToCartUnknownService(t *testing.T) {
	f := newCartFixture(t)

	_, _, err := f.svc.AddToCart(context.Background(), f.user.ID, AddToCartInput{
		ServiceID: primitive.NewObjectID(),
		Worker:    &f.worker.ID,
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestAddToCartRequiresWorkerForNewCategory(t *testing.T) {
	f := newCartFixture(t)

	_, _, err := f.svc.AddToCart(context.Background(), f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInvalidInput, appErr.Kind)
	assert.Contains(t, appErr.Message, "nettoyage")
}

func TestAddToCartAccumulatesQuantityAndIgnoresWorker(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 2, Worker: &f.worker.ID})
	require.NoError(t, err)

	// prestataire différent sur un ajout dans une catégorie existante :
	// la quantité s'accumule et le prestataire d'origine est conservé
	cart, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 3, Worker: &f.worker2.ID})
	require.NoError(t, err)

	require.Len(t, cart.MiniCarts, 1)
	assert.Equal(t, f.worker.ID, cart.MiniCarts[0].Worker)
	require.Len(t, cart.MiniCarts[0].Services, 1)
	assert.Equal(t, 5, cart.MiniCarts[0].Services[0].Quantity)
	assert.Equal(t, 500.0, cart.TotalPrice) // un seul service distinct : pas de remise
}

func TestCategoryUniquenessSameMiniCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.sofaClean.ID})
	require.NoError(t, err)

	// même catégorie : un seul mini-panier, deux lignes
	require.Len(t, cart.MiniCarts, 1)
	assert.Len(t, cart.MiniCarts[0].Services, 2)
}

// Scénario de référence : nettoyage (100×2 + 50×1) avec remise de 25 %,
// plomberie (300) sans remise → 187,5 + 300 = 487,5
func TestTotalPriceMultiServiceDiscount(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 2, Worker: &f.worker.ID})
	require.NoError(t, err)
	_, _, err = f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.sofaClean.ID})
	require.NoError(t, err)
	cart, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.pipeFix.ID, Worker: &f.worker2.ID})
	require.NoError(t, err)

	assert.InDelta(t, 487.5, cart.TotalPrice, 1e-9)
}

func TestTotalPriceFollowsCatalogPriceChange(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.pipeFix.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	// le tarif change au catalogue : la prochaine mutation le reflète
	f.pipeFix.Price = 350
	cart, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.pipeFix.ID})
	require.NoError(t, err)

	assert.Equal(t, 700.0, cart.TotalPrice)
}

func TestDeleteFromCartDecrements(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 3, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, err := f.svc.DeleteFromCart(ctx, f.user.ID, f.deepClean.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.MiniCarts[0].Services[0].Quantity)
	assert.Equal(t, 200.0, cart.TotalPrice)
}

func TestDeleteFromCartOverDecrementRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 2, Worker: &f.worker.ID})
	require.NoError(t, err)
	_, _, err = f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.sofaClean.ID})
	require.NoError(t, err)

	// retirer 10 alors qu'on en détient 2 : la ligne disparaît, pas de négatif
	cart, err := f.svc.DeleteFromCart(ctx, f.user.ID, f.deepClean.ID, 10)
	require.NoError(t, err)
	require.Len(t, cart.MiniCarts, 1)
	require.Len(t, cart.MiniCarts[0].Services, 1)
	assert.Equal(t, f.sofaClean.ID, cart.MiniCarts[0].Services[0].Service)
	assert.Equal(t, 50.0, cart.TotalPrice) // une seule ligne restante : la remise tombe
}

func TestDeleteFromCartPrunesEmptyMiniCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)
	_, _, err = f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.pipeFix.ID, Worker: &f.worker2.ID})
	require.NoError(t, err)

	cart, err := f.svc.DeleteFromCart(ctx, f.user.ID, f.deepClean.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.MiniCarts, 1)
	assert.Equal(t, "plomberie", cart.MiniCarts[0].Category)
	assert.Equal(t, 300.0, cart.TotalPrice)
}

func TestDeleteFromCartRejectsNegativeQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 2, Worker: &f.worker.ID})
	require.NoError(t, err)

	// un retrait négatif ne doit jamais augmenter la quantité détenue
	_, err = f.svc.DeleteFromCart(ctx, f.user.ID, f.deepClean.ID, -3)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInvalidInput, appErr.Kind)

	cart, err := f.svc.ViewCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.MiniCarts[0].Services[0].Quantity)
}

func TestDeleteFromCartUnknownService(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	_, err = f.svc.DeleteFromCart(ctx, f.user.ID, f.pipeFix.ID, 1)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestClearCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, err := f.svc.ClearCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.MiniCarts)
	assert.Equal(t, 0.0, cart.TotalPrice)
}

func TestUpdateCartReassignsWorker(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, err := f.svc.UpdateCart(ctx, f.user.ID, UpdateCartInput{
		Category: "nettoyage",
		WorkerID: &f.worker2.ID,
		Location: "7 FC Road, Pune",
	})
	require.NoError(t, err)
	assert.Equal(t, f.worker2.ID, cart.MiniCarts[0].Worker)
	assert.Equal(t, "7 FC Road, Pune", cart.Location)
}

func TestUpdateCartUnknownCategory(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateCart(ctx, f.user.ID, UpdateCartInput{Category: "jardinage", WorkerID: &f.worker2.ID})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestUpdateCartWorkerWithoutCategoryIgnored(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Worker: &f.worker.ID})
	require.NoError(t, err)

	cart, err := f.svc.UpdateCart(ctx, f.user.ID, UpdateCartInput{WorkerID: &f.worker2.ID})
	require.NoError(t, err)

	// sans catégorie, la réaffectation est ignorée silencieusement
	assert.Equal(t, f.worker.ID, cart.MiniCarts[0].Worker)
}

func TestViewCartResolvesServicesAndWorkers(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AddToCart(ctx, f.user.ID, AddToCartInput{ServiceID: f.deepClean.ID, Quantity: 2, Worker: &f.worker.ID})
	require.NoError(t, err)

	view, err := f.svc.ViewCart(ctx, f.user.ID)
	require.NoError(t, err)

	require.Len(t, view.MiniCarts, 1)
	assert.Equal(t, "Ravi", view.MiniCarts[0].Worker.Name)
	require.Len(t, view.MiniCarts[0].Services, 1)
	assert.Equal(t, "Nettoyage en profondeur", view.MiniCarts[0].Services[0].Service.Name)
	assert.Equal(t, 2, view.MiniCarts[0].Services[0].Quantity)
}

func TestViewCartNotFound(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.ViewCart(context.Background(), f.user.ID)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}
