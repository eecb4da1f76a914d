package rest

import (
	"github.com/AzielCF/az-reply/pkg/msgworker"
	"github.com/gofiber/fiber/v2"
)

// GetWorkerPoolStats returns real-time worker pool statistics
func GetWorkerPoolStats(c *fiber.Ctx) error {
	stats := msgworker.GetGlobalStats()
	return c.JSON(stats)
}
