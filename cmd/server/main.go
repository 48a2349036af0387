package main

import (
	"log"
	"strings"

	"stocktrack-backend/internal/auth"
	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/dashboard"
	"stocktrack-backend/internal/database"
	"stocktrack-backend/internal/inventory"
	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	// A missing database is not fatal: the selector serves every request
	// from the in-memory store until the connection comes back.
	var dbStore store.Store
	db, err := database.Open(cfg)
	if err != nil {
		log.Println("[WARN] database unavailable, falling back to in-memory storage:", err)
	} else {
		dbStore = store.NewDatabaseStore(db)
		log.Println("Connected to Postgres")
	}

	memStore := store.NewMemoryStore()
	memStore.Seed()

	sel := store.NewSelector(dbStore, memStore, database.NewHealth(db))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg, sel))
	api.Post("/auth/login", auth.LoginHandler(cfg, sel))
	api.Post("/auth/google", auth.GoogleLoginHandler(cfg, sel))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(sel))

	// Categories
	protected.Get("/categories", inventory.ListCategoriesHandler(sel))
	protected.Post("/categories", auth.RequireAdmin(), inventory.CreateCategoryHandler(sel))
	protected.Put("/categories/:id", auth.RequireAdmin(), inventory.UpdateCategoryHandler(sel))
	protected.Delete("/categories/:id", auth.RequireAdmin(), inventory.DeleteCategoryHandler(sel))

	// Products
	protected.Get("/products", inventory.ListProductsHandler(sel))
	protected.Get("/products/:id", inventory.GetProductHandler(sel))
	protected.Post("/products", auth.RequireAdmin(), inventory.CreateProductHandler(sel))
	protected.Put("/products/:id", auth.RequireAdmin(), inventory.UpdateProductHandler(sel))
	protected.Delete("/products/:id", auth.RequireAdmin(), inventory.DeleteProductHandler(sel))

	// Stock movements
	protected.Post("/stock-movements", auth.RequireAdmin(), inventory.CreateStockMovementHandler(sel))
	protected.Get("/stock-movements/:productId", inventory.ListStockMovementsHandler(sel))

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler(sel))
	protected.Get("/dashboard/activity", dashboard.ActivityHandler(sel))

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
