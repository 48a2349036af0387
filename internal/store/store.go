package store

import (
	"errors"
	"time"

	"stocktrack-backend/internal/models"
)

// ErrNotFound is returned by lookups that matched no record. Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a create or update would violate a
// uniqueness rule (email, SKU, category name). Handlers translate it
// into an HTTP 400 response.
var ErrDuplicate = errors.New("duplicate record")

// Stock status values accepted by ProductFilter.Status. Together they
// partition every product exactly once on (StockQuantity, MinStockLevel).
const (
	StatusInStock    = "in_stock"     // quantity above the minimum level
	StatusLowStock   = "low_stock"    // nonzero quantity at or below the minimum level
	StatusOutOfStock = "out_of_stock" // quantity is exactly zero
)

const (
	UnknownCategoryName = "Unknown"
	UnknownProductName  = "Unknown Product"
	UnknownProductSKU   = "Unknown"
	UnknownUserName     = "Unknown User"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// recentActivityLimit caps the dashboard activity feed.
const recentActivityLimit = 10

type ProductFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	Status     string
}

func (f ProductFilter) normalized() ProductFilter {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	return f
}

// MatchesStatus reports whether a product with the given stock quantity
// and minimum level falls into the given status bucket. An empty status
// matches everything.
func MatchesStatus(quantity, minLevel int, status string) bool {
	switch status {
	case StatusOutOfStock:
		return quantity == 0
	case StatusLowStock:
		return quantity > 0 && quantity <= minLevel
	case StatusInStock:
		return quantity > minLevel
	default:
		return true
	}
}

// ProductWithCategory is a product joined with its resolved category at
// read time. When the reference is dangling the category degrades to the
// "Unknown" placeholder instead of failing the read.
type ProductWithCategory struct {
	models.Product
	Category models.Category `json:"category"`
}

type ProductPage struct {
	Products []ProductWithCategory `json:"products"`
	Total    int64                 `json:"total"`
}

type DashboardStats struct {
	TotalProducts   int64  `json:"totalProducts"`
	LowStockItems   int64  `json:"lowStockItems"`
	TotalValue      string `json:"totalValue"`
	TotalCategories int64  `json:"totalCategories"`
}

// ActivityEntry is one row of the dashboard activity feed: a stock
// movement joined with product and user display fields.
type ActivityEntry struct {
	ID          string              `json:"id"`
	Type        models.MovementType `json:"type"`
	ProductName string              `json:"productName"`
	ProductSKU  string              `json:"productSku"`
	Quantity    int                 `json:"quantity"`
	Reason      string              `json:"reason,omitempty"`
	UserName    string              `json:"userName"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Partial updates. Nil fields are left untouched; set fields are merged
// and the record's UpdatedAt is refreshed.

type UserUpdate struct {
	Name         *string
	PasswordHash *string
	Role         *models.UserRole
	ExternalID   *string
	Provider     *models.AuthProvider
}

type CategoryUpdate struct {
	Name        *string
	Description *string
}

type ProductUpdate struct {
	Name          *string
	SKU           *string
	Description   *string
	Price         *float64
	StockQuantity *int
	MinStockLevel *int
	CategoryID    *string
	ImageURL      *string
}

// Store is the storage contract shared by the database backend and the
// in-memory fallback. Both implementations must be indistinguishable to
// callers: same result shapes, same error sentinels, same filter and
// aggregation semantics.
type Store interface {
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByExternalID(externalID string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(id string, update UserUpdate) (*models.User, error)

	GetCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(category *models.Category) error
	UpdateCategory(id string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(id string) error

	GetProducts(filter ProductFilter) (ProductPage, error)
	GetProductByID(id string) (*ProductWithCategory, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(id string, update ProductUpdate) (*models.Product, error)
	DeleteProduct(id string) error

	CreateStockMovement(movement *models.StockMovement) error
	GetStockMovements(productID string) ([]models.StockMovement, error)

	DashboardStats() (DashboardStats, error)
	RecentActivity() ([]ActivityEntry, error)
}
