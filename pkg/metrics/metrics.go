package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Collector tracks pipeline counters without external deps.
type Collector struct {
	totalRequests   atomic.Int64
	failedRequests  atomic.Int64
	totalLatencyMic atomic.Int64

	CommandsPostalCode   atomic.Int64
	CommandsStoreSelect  atomic.Int64
	CommandsUnrecognized atomic.Int64
	Sweeps               atomic.Int64
	TasksEnqueued        atomic.Int64
	ProbesChecked        atomic.Int64
	StoresOpen           atomic.Int64
	NotificationsSent    atomic.Int64
	TeardownsStarted     atomic.Int64

	startedAt time.Time
}

func New() *Collector {
	return &Collector{
		startedAt: time.Now(),
	}
}

// GinMiddleware records request count, failures, and aggregate latency.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		c.totalRequests.Add(1)
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			c.failedRequests.Add(1)
		}
		c.totalLatencyMic.Add(time.Since(start).Microseconds())
	}
}

// Handler exposes the metrics in a simple JSON form.
func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs := c.totalRequests.Load()
		latency := c.totalLatencyMic.Load()
		var avgMicros int64
		if reqs > 0 {
			avgMicros = latency / reqs
		}

		payload := map[string]interface{}{
			"requests_total":        reqs,
			"requests_failed":       c.failedRequests.Load(),
			"avg_latency_micros":    avgMicros,
			"commands_postal_code":  c.CommandsPostalCode.Load(),
			"commands_store_select": c.CommandsStoreSelect.Load(),
			"commands_unrecognized": c.CommandsUnrecognized.Load(),
			"sweeps_total":          c.Sweeps.Load(),
			"tasks_enqueued":        c.TasksEnqueued.Load(),
			"probes_checked":        c.ProbesChecked.Load(),
			"stores_open":           c.StoresOpen.Load(),
			"notifications_sent":    c.NotificationsSent.Load(),
			"teardowns_started":     c.TeardownsStarted.Load(),
			"uptime_seconds":        int64(time.Since(c.startedAt).Seconds()),
			"timestamp":             time.Now().UTC(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}
