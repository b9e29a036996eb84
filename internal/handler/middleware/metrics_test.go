//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"court-booking/internal/handler/middleware"
	"court-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Metrics())
	router.GET("/api/bookings/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("labels by route template", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues("/api/bookings/:id", http.MethodGet, "204")
		before := testutil.ToFloat64(counter)

		for _, id := range []string{"a", "b"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/"+id, nil))
			assert.Equal(t, http.StatusNoContent, w.Code)
		}

		assert.Equal(t, before+2, testutil.ToFloat64(counter))
	})

	t.Run("unknown paths share one label", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404")
		before := testutil.ToFloat64(counter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})
}
