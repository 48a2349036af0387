package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"stocktrack-backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory fallback backend used when the database is
// unreachable. It implements the same Store contract, including the
// uniqueness scans the database enforces via indexes, so callers cannot
// tell the two backends apart.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[string]models.User
	categories map[string]models.Category
	products   map[string]models.Product
	movements  map[string]models.StockMovement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]models.User),
		categories: make(map[string]models.Category),
		products:   make(map[string]models.Product),
		movements:  make(map[string]models.StockMovement),
	}
}

// Seed loads demo categories and products so the app stays usable while
// running degraded without a database.
func (s *MemoryStore) Seed() {
	seedCategories := []models.Category{
		{Name: "Electronics", Description: "Electronic devices and components"},
		{Name: "Clothing", Description: "Apparel and fashion items"},
		{Name: "Home & Garden", Description: "Home improvement and garden supplies"},
		{Name: "Sports", Description: "Sports equipment and accessories"},
		{Name: "Books", Description: "Books and educational materials"},
	}
	categoryIDs := make([]string, 0, len(seedCategories))
	for _, c := range seedCategories {
		_ = s.CreateCategory(&c)
		categoryIDs = append(categoryIDs, c.ID)
	}

	seedProducts := []models.Product{
		{Name: "iPhone 13", SKU: "IPHONE13-128", Description: "Apple iPhone 13 with 128GB storage", Price: 699.99, StockQuantity: 25, MinStockLevel: 5, CategoryID: categoryIDs[0]},
		{Name: "MacBook Pro", SKU: "MBP-M1-512", Description: "MacBook Pro with M1 chip and 512GB SSD", Price: 1299.99, StockQuantity: 8, MinStockLevel: 3, CategoryID: categoryIDs[0]},
		{Name: "T-Shirt Cotton", SKU: "TSHIRT-COT-M", Description: "Premium cotton t-shirt medium size", Price: 29.99, StockQuantity: 50, MinStockLevel: 20, CategoryID: categoryIDs[1]},
		{Name: "Basketball", SKU: "BALL-BASK-OFF", Description: "Official size basketball", Price: 39.99, StockQuantity: 22, MinStockLevel: 10, CategoryID: categoryIDs[3]},
	}
	for _, p := range seedProducts {
		_ = s.CreateProduct(&p)
	}
}

func (s *MemoryStore) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByExternalID(externalID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ExternalID != "" && user.ExternalID == externalID {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrDuplicate
		}
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.ExternalID != nil {
		user.ExternalID = *update.ExternalID
	}
	if update.Provider != nil {
		user.Provider = *update.Provider
	}
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return &user, nil
}

func (s *MemoryStore) GetCategories() ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *MemoryStore) GetCategoryByID(id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (s *MemoryStore) CreateCategory(category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return ErrDuplicate
		}
	}

	now := time.Now()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now
	s.categories[category.ID] = *category
	return nil
}

func (s *MemoryStore) UpdateCategory(id string, update CategoryUpdate) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	category.UpdatedAt = time.Now()
	s.categories[id] = category
	return &category, nil
}

// DeleteCategory is unconditional, matching the database backend: products
// referencing the category are orphaned and resolve to the "Unknown"
// placeholder on joined reads.
func (s *MemoryStore) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) GetProducts(filter ProductFilter) (ProductPage, error) {
	filter = filter.normalized()

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Product, 0, len(s.products))
	search := strings.ToLower(filter.Search)
	for _, p := range s.products {
		if search != "" {
			if !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) {
				continue
			}
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if !MatchesStatus(p.StockQuantity, p.MinStockLevel, filter.Status) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	offset := (filter.Page - 1) * filter.Limit
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	pageItems := filtered[offset:end]

	joined := make([]ProductWithCategory, 0, len(pageItems))
	for _, p := range pageItems {
		joined = append(joined, ProductWithCategory{Product: p, Category: s.categoryOrUnknown(p.CategoryID)})
	}
	return ProductPage{Products: joined, Total: total}, nil
}

// categoryOrUnknown must be called with the lock held.
func (s *MemoryStore) categoryOrUnknown(id string) models.Category {
	if category, ok := s.categories[id]; ok {
		return category
	}
	return models.Category{Name: UnknownCategoryName}
}

func (s *MemoryStore) GetProductByID(id string) (*ProductWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ProductWithCategory{Product: product, Category: s.categoryOrUnknown(product.CategoryID)}, nil
}

func (s *MemoryStore) CreateProduct(product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.SKU == product.SKU {
			return ErrDuplicate
		}
	}

	now := time.Now()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) UpdateProduct(id string, update ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.SKU != nil && *update.SKU != product.SKU {
		for _, existing := range s.products {
			if existing.ID != id && existing.SKU == *update.SKU {
				return nil, ErrDuplicate
			}
		}
		product.SKU = *update.SKU
	}
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	if update.MinStockLevel != nil {
		product.MinStockLevel = *update.MinStockLevel
	}
	if update.CategoryID != nil {
		product.CategoryID = *update.CategoryID
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	product.UpdatedAt = time.Now()
	s.products[id] = product
	return &product, nil
}

func (s *MemoryStore) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

func (s *MemoryStore) CreateStockMovement(movement *models.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	movement.ID = uuid.NewString()
	movement.CreatedAt = time.Now()
	s.movements[movement.ID] = *movement
	return nil
}

func (s *MemoryStore) GetStockMovements(productID string) ([]models.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movements := make([]models.StockMovement, 0)
	for _, m := range s.movements {
		if m.ProductID == productID {
			movements = append(movements, m)
		}
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	return movements, nil
}

func (s *MemoryStore) DashboardStats() (DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats DashboardStats
	stats.TotalProducts = int64(len(s.products))
	stats.TotalCategories = int64(len(s.categories))

	var totalValue float64
	for _, p := range s.products {
		// Inclusive threshold: zero-stock products count as low stock
		// here, unlike the low_stock product filter.
		if p.StockQuantity <= p.MinStockLevel {
			stats.LowStockItems++
		}
		totalValue += p.Price * float64(p.StockQuantity)
	}
	stats.TotalValue = fmt.Sprintf("%.2f", totalValue)
	return stats, nil
}

func (s *MemoryStore) RecentActivity() ([]ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movements := make([]models.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		movements = append(movements, m)
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	if len(movements) > recentActivityLimit {
		movements = movements[:recentActivityLimit]
	}

	entries := make([]ActivityEntry, 0, len(movements))
	for _, m := range movements {
		entries = append(entries, newActivityEntry(m, s.products, s.users))
	}
	return entries, nil
}
