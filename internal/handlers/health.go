package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jeremyjsx/blogapi/internal/storage"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// BrokerStatus is satisfied by *events.RabbitMQPublisher.
type BrokerStatus interface {
	Healthy() bool
}

// HealthDeps lists what /health probes. Storage and Broker are optional.
type HealthDeps struct {
	DB      Pinger
	Storage storage.Storage
	Broker  BrokerStatus
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		if err := deps.DB.PingContext(ctx); err != nil {
			checks["db"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["db"] = "ok"
		}

		if deps.Storage != nil {
			if _, err := deps.Storage.Exists(ctx, "__health__"); err != nil {
				checks["s3"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["s3"] = "ok"
			}
		} else {
			checks["s3"] = "skipped"
		}

		if deps.Broker != nil {
			if !deps.Broker.Healthy() {
				checks["rabbitmq"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["rabbitmq"] = "ok"
			}
		} else {
			checks["rabbitmq"] = "skipped"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}
