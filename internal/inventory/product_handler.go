package inventory

import (
	"errors"
	"log"
	"strings"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	MinStockLevel int     `json:"minStockLevel"`
	CategoryID    string  `json:"categoryId"`
	ImageURL      string  `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	SKU           *string  `json:"sku"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stockQuantity"`
	MinStockLevel *int     `json:"minStockLevel"`
	CategoryID    *string  `json:"categoryId"`
	ImageURL      *string  `json:"imageUrl"`
}

// GET /api/products?page=1&limit=10&search=&categoryId=&status=
func ListProductsHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := store.ProductFilter{
			Page:       c.QueryInt("page", 1),
			Limit:      c.QueryInt("limit", 10),
			Search:     c.Query("search"),
			CategoryID: c.Query("categoryId"),
			Status:     c.Query("status"),
		}

		page, err := sel.Current().GetProducts(filter)
		if err != nil {
			log.Println("list products:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(page)
	}
}

// GET /api/products/:id
func GetProductHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		product, err := sel.Current().GetProductByID(c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			log.Println("get product:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(product)
	}
}

func validateCreateProduct(body *CreateProductRequest) map[string]string {
	fields := map[string]string{}
	if body.Name == "" {
		fields["name"] = "name is required"
	}
	if body.SKU == "" {
		fields["sku"] = "sku is required"
	}
	if body.Price <= 0 {
		fields["price"] = "price must be positive"
	}
	if body.StockQuantity < 0 {
		fields["stockQuantity"] = "stockQuantity must not be negative"
	}
	if body.MinStockLevel < 0 {
		fields["minStockLevel"] = "minStockLevel must not be negative"
	}
	if body.CategoryID == "" {
		fields["categoryId"] = "categoryId is required"
	}
	return fields
}

// POST /api/products (admin)
func CreateProductHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)
		if fields := validateCreateProduct(&body); len(fields) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid input",
				"fields": fields,
			})
		}

		st := sel.Current()
		product := models.Product{
			Name:          body.Name,
			SKU:           body.SKU,
			Description:   strings.TrimSpace(body.Description),
			Price:         body.Price,
			StockQuantity: body.StockQuantity,
			MinStockLevel: body.MinStockLevel,
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
		}
		if err := st.CreateProduct(&product); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusBadRequest, "SKU already in use")
			}
			log.Println("create product:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		// The product itself is committed at this point; a ledger failure
		// must not undo the create.
		if err := recordInitialStock(st, &product, auth.UserID(c)); err != nil {
			log.Println("create product: record initial stock:", err)
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/products/:id (admin)
func UpdateProductHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]string{}
		if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
			fields["name"] = "name must not be empty"
		}
		if body.SKU != nil && strings.TrimSpace(*body.SKU) == "" {
			fields["sku"] = "sku must not be empty"
		}
		if body.Price != nil && *body.Price <= 0 {
			fields["price"] = "price must be positive"
		}
		if body.StockQuantity != nil && *body.StockQuantity < 0 {
			fields["stockQuantity"] = "stockQuantity must not be negative"
		}
		if body.MinStockLevel != nil && *body.MinStockLevel < 0 {
			fields["minStockLevel"] = "minStockLevel must not be negative"
		}
		if body.CategoryID != nil && *body.CategoryID == "" {
			fields["categoryId"] = "categoryId must not be empty"
		}
		if len(fields) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid input",
				"fields": fields,
			})
		}

		st := sel.Current()
		id := c.Params("id")

		existing, err := st.GetProductByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			log.Println("update product: lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		product, err := st.UpdateProduct(id, store.ProductUpdate{
			Name:          body.Name,
			SKU:           body.SKU,
			Description:   body.Description,
			Price:         body.Price,
			StockQuantity: body.StockQuantity,
			MinStockLevel: body.MinStockLevel,
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusBadRequest, "SKU already in use")
			}
			log.Println("update product:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		if body.StockQuantity != nil {
			err := recordStockChange(st, product.ID, existing.StockQuantity, *body.StockQuantity, auth.UserID(c))
			if err != nil {
				log.Println("update product: record stock change:", err)
			}
		}

		return c.JSON(product)
	}
}

// DELETE /api/products/:id (admin)
func DeleteProductHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sel.Current().DeleteProduct(c.Params("id")); err != nil {
			log.Println("delete product:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(fiber.Map{"message": "Product deleted successfully"})
	}
}
