package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
)

// Doubles en mémoire des dépôts Mongo, suffisants pour exercer toute la
// logique métier sans base.

type fakeCartRepo struct {
	byUser  map[primitive.ObjectID]*models.Cart
	inserts int
	saves   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{byUser: map[primitive.ObjectID]*models.Cart{}}
}

func (r *fakeCartRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cart, nil
}

func (r *fakeCartRepo) Insert(_ context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	r.byUser[cart.User] = cart
	r.inserts++
	return nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *models.Cart) error {
	r.byUser[cart.User] = cart
	r.saves++
	return nil
}

type fakeServiceRepo struct {
	byID map[primitive.ObjectID]*models.Service
}

func newFakeServiceRepo(services ...*models.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{byID: map[primitive.ObjectID]*models.Service{}}
	for _, s := range services {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		r.byID[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) Create(_ context.Context, s *models.Service) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	r.byID[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeServiceRepo) List(_ context.Context) ([]models.Service, error) {
	out := make([]models.Service, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeServiceRepo) ListByCategory(_ context.Context, category string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.byID {
		if s.Category == category {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Search(_ context.Context, _ string) ([]models.Service, error) {
	return nil, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, s *models.Service) error {
	r.byID[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeUserRepo struct {
	byID map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.byID {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateLocation(_ context.Context, id primitive.ObjectID, loc models.GeoPoint) error {
	if u, ok := r.byID[id]; ok {
		u.Location = &loc
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeWorkerRepo struct {
	byID map[primitive.ObjectID]*models.Worker
}

func newFakeWorkerRepo(workers ...*models.Worker) *fakeWorkerRepo {
	r := &fakeWorkerRepo{byID: map[primitive.ObjectID]*models.Worker{}}
	for _, w := range workers {
		if w.ID.IsZero() {
			w.ID = primitive.NewObjectID()
		}
		r.byID[w.ID] = w
	}
	return r
}

func (r *fakeWorkerRepo) Create(_ context.Context, w *models.Worker) error {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	r.byID[w.ID] = w
	return nil
}

func (r *fakeWorkerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (r *fakeWorkerRepo) GetByEmail(_ context.Context, email string) (*models.Worker, error) {
	for _, w := range r.byID {
		if w.Email == email {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkerRepo) List(_ context.Context, _ repository.WorkerFilter) ([]models.Worker, error) {
	return nil, nil
}

func (r *fakeWorkerRepo) Update(_ context.Context, w *models.Worker) error {
	r.byID[w.ID] = w
	return nil
}

func (r *fakeWorkerRepo) AppendDocuments(_ context.Context, id primitive.ObjectID, urls []string) error {
	if w, ok := r.byID[id]; ok {
		w.Onboarding.Documents = append(w.Onboarding.Documents, urls...)
	}
	return nil
}

func (r *fakeWorkerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

type fakeOrderRepo struct {
	byID map[primitive.ObjectID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[primitive.ObjectID]*models.Order{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.byID[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *models.Order) error {
	r.byID[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.byID {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.byID {
		if o.OrderStatus == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

// fakeGateway enregistre les appels à la passerelle de paiement
type fakeGateway struct {
	chargeCalls  int
	refundCalls  int
	lastAmount   int64
	lastCurrency string
	lastMethod   string
	lastRefunded string
	chargeErr    error
	refundErr    error
}

func (g *fakeGateway) CreateCharge(_ context.Context, amountMinor int64, currency, method string) (string, error) {
	g.chargeCalls++
	g.lastAmount = amountMinor
	g.lastCurrency = currency
	g.lastMethod = method
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "pi_test_123", nil
}

func (g *fakeGateway) CreateRefund(_ context.Context, transactionID string) error {
	g.refundCalls++
	g.lastRefunded = transactionID
	return g.refundErr
}
