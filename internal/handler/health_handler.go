package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/riodino14/edupulse-backend/internal/config"
	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Service        string    `json:"service"`
	Environment    string    `json:"environment"`
	DatasetVersion string    `json:"dataset_version,omitempty"`
}

// HealthCheck reports liveness. The status is "degraded" while no learning
// data is loaded; the endpoint still answers 200 so the process is not restarted.
func HealthCheck(cfg config.Config, datasets service.DatasetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if datasets != nil {
			status, err := datasets.Status(c.UserContext())
			if err != nil {
				payload.Status = "degraded"
			} else {
				payload.DatasetVersion = status.Version
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
