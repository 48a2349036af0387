package inventory

import (
	"errors"
	"log"
	"strings"

	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// GET /api/categories
func ListCategoriesHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := sel.Current().GetCategories()
		if err != nil {
			log.Println("list categories:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(categories)
	}
}

// POST /api/categories (admin)
func CreateCategoryHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid input",
				"fields": map[string]string{"name": "name is required"},
			})
		}

		category := models.Category{
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
		}
		if err := sel.Current().CreateCategory(&category); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusBadRequest, "Category already exists")
			}
			log.Println("create category:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// PUT /api/categories/:id (admin)
func UpdateCategoryHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		update := store.CategoryUpdate{Description: body.Description}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":  "Invalid input",
					"fields": map[string]string{"name": "name must not be empty"},
				})
			}
			update.Name = &name
		}

		category, err := sel.Current().UpdateCategory(c.Params("id"), update)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Category not found")
			}
			log.Println("update category:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(category)
	}
}

// DELETE /api/categories/:id (admin)
//
// Deletion is unconditional; products still referencing the category keep
// working and resolve to the "Unknown" placeholder.
func DeleteCategoryHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sel.Current().DeleteCategory(c.Params("id")); err != nil {
			log.Println("delete category:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(fiber.Map{"message": "Category deleted successfully"})
	}
}
