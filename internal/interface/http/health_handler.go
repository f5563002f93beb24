package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/pkg/apperror"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

// HealthCheck probes one backend; a nil error means it is up.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	Started time.Time
	Timeout time.Duration
	Checks  map[string]HealthCheck
	Logger  *logrus.Logger
}

func NewHealthHandler(started time.Time, timeout time.Duration, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Started: started, Timeout: timeout, Checks: map[string]HealthCheck{}, Logger: logger}
}

// Add registers a named dependency probe.
func (h *HealthHandler) Add(name string, check HealthCheck) {
	h.Checks[name] = check
}

// Health is a liveness probe: it always answers 200 and reports dependency state
// in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "OK"
	deps := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			status = "DEGRADED"
			deps[name] = "down"
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			}
			continue
		}
		deps[name] = "up"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.Success(c, http.StatusOK, gin.H{
		"status":       status,
		"message":      "server is running",
		"timestamp":    time.Now().UTC(),
		"uptime":       time.Since(h.Started).Seconds(),
		"dependencies": deps,
		"memory": gin.H{
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
			"num_gc":      mem.NumGC,
			"goroutines":  runtime.NumGoroutine(),
		},
	}, "health", nil)
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(c *gin.Context) {
	response.Fail(c, apperror.NotFound("route not found"), false)
}
