package store

import (
	"errors"
	"fmt"
	"strings"

	"stocktrack-backend/internal/models"

	"gorm.io/gorm"
)

// DatabaseStore is the persistent backend, backed by Postgres through GORM.
type DatabaseStore struct {
	db *gorm.DB
}

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "external_id = ?", externalID).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) CreateUser(user *models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(user).Error
}

func (s *DatabaseStore) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
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
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *DatabaseStore) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &category, nil
}

func (s *DatabaseStore) CreateCategory(category *models.Category) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(category).Error
}

func (s *DatabaseStore) UpdateCategory(id string, update CategoryUpdate) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory is unconditional: products referencing the category are
// left in place and resolve to the "Unknown" placeholder on joined reads.
func (s *DatabaseStore) DeleteCategory(id string) error {
	return s.db.Delete(&models.Category{}, "id = ?", id).Error
}

func (s *DatabaseStore) productQuery(filter ProductFilter) *gorm.DB {
	q := s.db.Model(&models.Product{})
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	switch filter.Status {
	case StatusOutOfStock:
		q = q.Where("stock_quantity = 0")
	case StatusLowStock:
		q = q.Where("stock_quantity > 0 AND stock_quantity <= min_stock_level")
	case StatusInStock:
		q = q.Where("stock_quantity > min_stock_level")
	}
	return q
}

func (s *DatabaseStore) GetProducts(filter ProductFilter) (ProductPage, error) {
	filter = filter.normalized()

	// Total counts the filtered set so pagination math stays consistent
	// with the returned slice.
	var total int64
	if err := s.productQuery(filter).Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	var products []models.Product
	err := s.productQuery(filter).
		Order("created_at desc").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return ProductPage{}, err
	}

	joined, err := s.attachCategories(products)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: joined, Total: total}, nil
}

func (s *DatabaseStore) attachCategories(products []models.Product) ([]ProductWithCategory, error) {
	ids := make([]string, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}

	byID := make(map[string]models.Category, len(ids))
	if len(ids) > 0 {
		var categories []models.Category
		if err := s.db.Find(&categories, "id IN ?", ids).Error; err != nil {
			return nil, err
		}
		for _, c := range categories {
			byID[c.ID] = c
		}
	}

	joined := make([]ProductWithCategory, 0, len(products))
	for _, p := range products {
		category, ok := byID[p.CategoryID]
		if !ok {
			category = models.Category{Name: UnknownCategoryName}
		}
		joined = append(joined, ProductWithCategory{Product: p, Category: category})
	}
	return joined, nil
}

func (s *DatabaseStore) GetProductByID(id string) (*ProductWithCategory, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	joined, err := s.attachCategories([]models.Product{product})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

func (s *DatabaseStore) CreateProduct(product *models.Product) error {
	var count int64
	if err := s.db.Model(&models.Product{}).Where("sku = ?", product.SKU).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return s.db.Create(product).Error
}

func (s *DatabaseStore) UpdateProduct(id string, update ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	if update.SKU != nil && *update.SKU != product.SKU {
		var count int64
		if err := s.db.Model(&models.Product{}).Where("sku = ? AND id <> ?", *update.SKU, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicate
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
	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *DatabaseStore) DeleteProduct(id string) error {
	return s.db.Delete(&models.Product{}, "id = ?", id).Error
}

func (s *DatabaseStore) CreateStockMovement(movement *models.StockMovement) error {
	return s.db.Create(movement).Error
}

func (s *DatabaseStore) GetStockMovements(productID string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := s.db.
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (s *DatabaseStore) DashboardStats() (DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return DashboardStats{}, err
	}
	// Inclusive threshold: zero-stock products count as low stock here,
	// unlike the low_stock product filter.
	err := s.db.Model(&models.Product{}).
		Where("stock_quantity <= min_stock_level").
		Count(&stats.LowStockItems).Error
	if err != nil {
		return DashboardStats{}, err
	}

	var totalValue float64
	err = s.db.Model(&models.Product{}).
		Select("COALESCE(SUM(price * stock_quantity), 0)").
		Scan(&totalValue).Error
	if err != nil {
		return DashboardStats{}, err
	}
	stats.TotalValue = fmt.Sprintf("%.2f", totalValue)

	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func (s *DatabaseStore) RecentActivity() ([]ActivityEntry, error) {
	var movements []models.StockMovement
	err := s.db.
		Order("created_at desc").
		Limit(recentActivityLimit).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(movements))
	userIDs := make([]string, 0, len(movements))
	for _, m := range movements {
		productIDs = append(productIDs, m.ProductID)
		userIDs = append(userIDs, m.UserID)
	}

	productsByID := make(map[string]models.Product)
	if len(productIDs) > 0 {
		var products []models.Product
		if err := s.db.Find(&products, "id IN ?", productIDs).Error; err != nil {
			return nil, err
		}
		for _, p := range products {
			productsByID[p.ID] = p
		}
	}

	usersByID := make(map[string]models.User)
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.Find(&users, "id IN ?", userIDs).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	entries := make([]ActivityEntry, 0, len(movements))
	for _, m := range movements {
		entries = append(entries, newActivityEntry(m, productsByID, usersByID))
	}
	return entries, nil
}

// newActivityEntry joins a movement with product and user display fields,
// degrading to placeholders when a referenced record has been deleted.
func newActivityEntry(m models.StockMovement, products map[string]models.Product, users map[string]models.User) ActivityEntry {
	entry := ActivityEntry{
		ID:          m.ID,
		Type:        m.Type,
		ProductName: UnknownProductName,
		ProductSKU:  UnknownProductSKU,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		UserName:    UnknownUserName,
		CreatedAt:   m.CreatedAt,
	}
	if p, ok := products[m.ProductID]; ok {
		entry.ProductName = p.Name
		entry.ProductSKU = p.SKU
	}
	if u, ok := users[m.UserID]; ok {
		entry.UserName = u.Name
	}
	return entry
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
