package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
)

// Stubs ciblés : l'interface embarquée couvre les méthodes non exercées par
// le test (panique au runtime si un test s'aventure hors du stub).

type stubServiceRepo struct {
	repository.ServiceRepository
	byCategory []models.Service
	search     []models.Service
}

func (s *stubServiceRepo) ListByCategory(_ context.Context, _ string) ([]models.Service, error) {
	return s.byCategory, nil
}

func (s *stubServiceRepo) Search(_ context.Context, _ string) ([]models.Service, error) {
	return s.search, nil
}

type stubReviewRepo struct {
	repository.ReviewRepository
	byWorker []models.Review
	byUser   []models.Review
}

func (s *stubReviewRepo) ListByWorker(_ context.Context, _ primitive.ObjectID) ([]models.Review, error) {
	return s.byWorker, nil
}

func (s *stubReviewRepo) ListByUser(_ context.Context, _ primitive.ObjectID) ([]models.Review, error) {
	return s.byUser, nil
}

type stubWorkerRepo struct {
	repository.WorkerRepository
	created *models.Worker
	byID    map[primitive.ObjectID]*models.Worker
}

func (s *stubWorkerRepo) GetByEmail(_ context.Context, _ string) (*models.Worker, error) {
	return nil, repository.ErrNotFound
}

func (s *stubWorkerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	if w, ok := s.byID[id]; ok {
		return w, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubWorkerRepo) Create(_ context.Context, w *models.Worker) error {
	w.ID = primitive.NewObjectID()
	s.created = w
	return nil
}

type stubUserRepo struct {
	repository.UserRepository
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestGetServicesByCategoryEmptyReturns404(t *testing.T) {
	h := NewServiceHandler(&stubServiceRepo{byCategory: []models.Service{}})

	c, w := testContext(t, http.MethodGet, "/services/category/jardinage", nil)
	c.Params = gin.Params{{Key: "category", Value: "jardinage"}}

	h.GetServicesByCategory(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Aucun service")
}

func TestGetServicesByCategoryFound(t *testing.T) {
	h := NewServiceHandler(&stubServiceRepo{byCategory: []models.Service{
		{ID: primitive.NewObjectID(), Category: "plomberie", Name: "Réparation de fuite", Price: 300},
	}})

	c, w := testContext(t, http.MethodGet, "/services/category/plomberie", nil)
	c.Params = gin.Params{{Key: "category", Value: "plomberie"}}

	h.GetServicesByCategory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Réparation de fuite")
}

// Elastic non initialisé dans les tests : la recherche passe par le repli
// MongoDB, et un résultat vide doit rester un 404
func TestSearchServicesEmptyReturns404(t *testing.T) {
	h := NewServiceHandler(&stubServiceRepo{search: []models.Service{}})

	c, w := testContext(t, http.MethodGet, "/services/search?q=introuvable", nil)

	h.SearchServices(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Aucun service")
}

func TestGetWorkerReviewsEmptyReturns404(t *testing.T) {
	h := NewReviewHandler(&stubReviewRepo{byWorker: []models.Review{}}, &stubUserRepo{}, &stubWorkerRepo{})

	c, w := testContext(t, http.MethodGet, "/review/worker/x", nil)
	c.Params = gin.Params{{Key: "workerId", Value: primitive.NewObjectID().Hex()}}

	h.GetWorkerReviews(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Aucun avis")
}

func TestGetUserReviewsEmptyReturns404(t *testing.T) {
	h := NewReviewHandler(&stubReviewRepo{byUser: []models.Review{}}, &stubUserRepo{}, &stubWorkerRepo{})

	c, w := testContext(t, http.MethodGet, "/review/user", nil)
	c.Set("user_id", primitive.NewObjectID().Hex())

	h.GetUserReviews(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Aucun avis")
}

func TestWorkerRegisterStoresOnboarding(t *testing.T) {
	repo := &stubWorkerRepo{}
	h := NewWorkerHandler(repo)

	payload, err := json.Marshal(gin.H{
		"name":       "Ravi",
		"email":      "ravi@example.com",
		"password":   "tr0p-s3cret!",
		"phone":      "9876543210",
		"skills":     []string{"plomberie"},
		"location":   "Pune",
		"onboarding": gin.H{"quizScore": 82},
	})
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, "/workers", payload)
	h.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, 82, repo.created.Onboarding.QuizScore)
	assert.Equal(t, models.OnboardingPending, repo.created.Onboarding.Status)
	assert.Empty(t, repo.created.Onboarding.Documents)
}

func TestWorkerRegisterRequiresQuizScore(t *testing.T) {
	h := NewWorkerHandler(&stubWorkerRepo{})

	payload, err := json.Marshal(gin.H{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "tr0p-s3cret!",
		"phone":    "9876543210",
		"skills":   []string{"plomberie"},
		"location": "Pune",
	})
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, "/workers", payload)
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkerRegisterRejectsOutOfRangeQuizScore(t *testing.T) {
	h := NewWorkerHandler(&stubWorkerRepo{})

	payload, err := json.Marshal(gin.H{
		"name":       "Ravi",
		"email":      "ravi@example.com",
		"password":   "tr0p-s3cret!",
		"phone":      "9876543210",
		"skills":     []string{"plomberie"},
		"location":   "Pune",
		"onboarding": gin.H{"quizScore": 150},
	})
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, "/workers", payload)
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "quiz")
}
