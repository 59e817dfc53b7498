package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout bounds each readiness check.
const readyTimeout = 2 * time.Second

// ReadinessCheck is one dependency probed by Ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// StatusResponse is the body of the health and readiness probes.
type StatusResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Ops
// @Produce     json
// @Success     200 {object} handlers.StatusResponse
// @Router      /health [get]
func Health(c *gin.Context) {
	ok(c, http.StatusOK, StatusResponse{Status: "ok"})
}

// Ready returns a readiness probe that runs every check. Any failing check
// turns the response into 503 with the error envelope.
//
// @ID          ready
// @Summary     Readiness probe
// @Tags        Ops
// @Produce     json
// @Success     200 {object} handlers.StatusResponse
// @Failure     503 {object} handlers.ErrorResponse
// @Router      /readyz [get]
func Ready(checks ...ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := make(map[string]string, len(checks))
		for _, chk := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			err := chk.Ping(ctx)
			cancel()
			if err != nil {
				fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, chk.Name+" unavailable")
				return
			}
			results[chk.Name] = "ok"
		}
		ok(c, http.StatusOK, StatusResponse{Status: "ok", Checks: results})
	}
}
