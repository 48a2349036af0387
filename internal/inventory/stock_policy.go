package inventory

import (
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/store"
)

// The store only persists movement records it is given; these helpers are
// the calling-layer policy that keeps the ledger in step with product
// writes.

// recordInitialStock appends the "Initial stock" movement for a product
// created with a nonzero starting quantity.
func recordInitialStock(st store.Store, product *models.Product, userID string) error {
	if product.StockQuantity <= 0 {
		return nil
	}
	return st.CreateStockMovement(&models.StockMovement{
		ProductID: product.ID,
		Type:      models.MovementIn,
		Quantity:  product.StockQuantity,
		Reason:    "Initial stock",
		UserID:    userID,
	})
}

// recordStockChange appends a "Stock adjustment" movement when an update
// moved the stock quantity: in for an increase, out for a decrease, with
// the absolute difference as the quantity.
func recordStockChange(st store.Store, productID string, before, after int, userID string) error {
	if before == after {
		return nil
	}
	movementType := models.MovementIn
	quantity := after - before
	if quantity < 0 {
		movementType = models.MovementOut
		quantity = -quantity
	}
	return st.CreateStockMovement(&models.StockMovement{
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		Reason:    "Stock adjustment",
		UserID:    userID,
	})
}
