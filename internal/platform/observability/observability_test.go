package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorReporter_NoPanicWithoutSentryHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorReporter())
	router.GET("/boom", func(c *gin.Context) {
		c.Status(500)
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		router.ServeHTTP(rec, req)
	})
	assert.Equal(t, 500, rec.Code)
}

func TestErrorReporter_PassesThroughNon5xxResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorReporter())
	router.GET("/ok", func(c *gin.Context) {
		c.Status(200)
	})

	req := httptest.NewRequest("GET", "/ok", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
}
