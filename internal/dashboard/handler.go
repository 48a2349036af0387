package dashboard

import (
	"log"

	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/stats
func StatsHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := sel.Current().DashboardStats()
		if err != nil {
			log.Println("dashboard stats:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(stats)
	}
}

// GET /api/dashboard/activity
func ActivityHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activity, err := sel.Current().RecentActivity()
		if err != nil {
			log.Println("dashboard activity:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(activity)
	}
}
