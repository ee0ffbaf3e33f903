package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for admin request metrics
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures a render call
type Timer struct {
	start   time.Time
	metrics *Metrics
	appID   string
}

// NewTimer creates a new timer for appID
func NewTimer(metrics *Metrics, appID string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		appID:   appID,
	}
}

// Stop stops the timer and records the render duration
func (t *Timer) Stop() {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordRender(t.appID, time.Since(t.start))
}
