package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds liveness/readiness style endpoints.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus := "ok"
		redisStatus := "ok"

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				dbStatus = "down"
			}
		} else {
			dbStatus = "disabled"
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
			}
		} else {
			redisStatus = "disabled"
		}

		status := http.StatusOK
		if dbStatus == "down" || redisStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":    "ok",
			"service":   d.Cfg.AppName,
			"db":        dbStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
