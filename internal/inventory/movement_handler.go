package inventory

import (
	"log"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type CreateStockMovementRequest struct {
	ProductID string `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// POST /api/stock-movements (admin)
//
// The acting user always comes from the token, never from the body.
func CreateStockMovementHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]string{}
		if body.ProductID == "" {
			fields["productId"] = "productId is required"
		}
		switch models.MovementType(body.Type) {
		case models.MovementIn, models.MovementOut, models.MovementAdjustment:
		default:
			fields["type"] = "type must be one of in, out, adjustment"
		}
		if len(fields) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid input",
				"fields": fields,
			})
		}

		movement := models.StockMovement{
			ProductID: body.ProductID,
			Type:      models.MovementType(body.Type),
			Quantity:  body.Quantity,
			Reason:    body.Reason,
			UserID:    auth.UserID(c),
		}
		if err := sel.Current().CreateStockMovement(&movement); err != nil {
			log.Println("create stock movement:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

// GET /api/stock-movements/:productId
func ListStockMovementsHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		movements, err := sel.Current().GetStockMovements(c.Params("productId"))
		if err != nil {
			log.Println("list stock movements:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(movements)
	}
}
