package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

// Pinger is the slice of the store readiness needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyState reports whether token keys are loaded.
type KeyState interface {
	IsReady() bool
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adaptivesdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, adaptivesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database and the token key ring.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adaptivesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	adaptivesdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, keys KeyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"keys":     "ok",
		}
		status, code := "ok", http.StatusOK

		// Error text stays in the logs; probes only need the verdict.
		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if keys == nil || !keys.IsReady() {
			checks["keys"] = "not loaded"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, adaptivesdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
