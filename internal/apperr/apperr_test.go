package apperr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performAbort(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	Abort(c, err)
	return w
}

func TestAbortMapsKindsToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("introuvable"), http.StatusNotFound},
		{InvalidInput("invalide"), http.StatusBadRequest},
		{Unauthorized("non authentifié"), http.StatusUnauthorized},
		{Forbidden("interdit"), http.StatusForbidden},
		{Internal("erreur", errors.New("cause")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := performAbort(t, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestAbortHidesTechnicalDetail(t *testing.T) {
	w := performAbort(t, Internal("Erreur interne du serveur", errors.New("dsn=mongodb://secret")))

	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "Erreur interne du serveur")
}

func TestAbortWrapsUnknownErrors(t *testing.T) {
	w := performAbort(t, errors.New("panique interne"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NotContains(t, w.Body.String(), "panique interne")
}
