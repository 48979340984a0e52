package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("lecture interrompue")
}

// Un body illisible ne doit pas contourner silencieusement le limiteur
func TestLoginRateLimitUnreadableBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/login", nil)
	c.Request.Body = io.NopCloser(brokenReader{})

	LoginRateLimit()(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())
	assert.Contains(t, w.Body.String(), "illisible")
}
