package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMetrics_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	adapter := NewPrometheusAdapter()

	router := gin.New()
	router.GET("/vehicles/:id", func(c *gin.Context) {
		start := time.Now()
		c.Status(http.StatusOK)
		adapter.RecordMetrics(c, start)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles/123", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(adapter.httpRequestsTotal.WithLabelValues("/vehicles/:id", "GET", "200")))
}

func TestRecordAchievementAndReminders(t *testing.T) {
	adapter := NewPrometheusAdapter()

	adapter.RecordAchievementAwarded("vehicle")
	adapter.RecordAchievementAwarded("vehicle")
	adapter.RecordRemindersCreated(3)
	adapter.RecordRemindersCreated(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(adapter.achievementsAwarded.WithLabelValues("vehicle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(adapter.remindersCreated))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	adapter := NewPrometheusAdapter()
	adapter.RecordRemindersCreated(1)

	w := httptest.NewRecorder()
	adapter.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maintenance_reminders_created_total 1")
}
