package store

import (
	"fmt"
	"testing"
	"time"

	"stocktrack-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, s *MemoryStore, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, s.CreateCategory(&c))
	return c
}

func seedProduct(t *testing.T, s *MemoryStore, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, s.CreateProduct(&p))
	return p
}

func seedUser(t *testing.T, s *MemoryStore, email, name string) models.User {
	t.Helper()
	u := models.User{Email: email, Name: name, Role: models.RoleUser, Provider: models.ProviderLocal}
	require.NoError(t, s.CreateUser(&u))
	return u
}

func TestUserLookups(t *testing.T) {
	s := NewMemoryStore()
	u := seedUser(t, s, "a@example.com", "Alice")

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	got, err = s.GetUserByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUser("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByExternalID("ext-123")
	assert.ErrorIs(t, err, ErrNotFound)

	ext := "ext-123"
	provider := models.ProviderGoogle
	updated, err := s.UpdateUser(u.ID, UserUpdate{ExternalID: &ext, Provider: &provider})
	require.NoError(t, err)
	assert.Equal(t, "ext-123", updated.ExternalID)
	assert.Equal(t, models.ProviderGoogle, updated.Provider)

	got, err = s.GetUserByExternalID("ext-123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	seedUser(t, s, "a@example.com", "Alice")

	dup := models.User{Email: "a@example.com", Name: "Imposter"}
	assert.ErrorIs(t, s.CreateUser(&dup), ErrDuplicate)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	seedProduct(t, s, models.Product{Name: "Widget", SKU: "W-1", Price: 10, CategoryID: c.ID})

	dup := models.Product{Name: "Other", SKU: "W-1", Price: 5, CategoryID: c.ID}
	assert.ErrorIs(t, s.CreateProduct(&dup), ErrDuplicate)

	other := seedProduct(t, s, models.Product{Name: "Other", SKU: "W-2", Price: 5, CategoryID: c.ID})
	sku := "W-1"
	_, err := s.UpdateProduct(other.ID, ProductUpdate{SKU: &sku})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	s := NewMemoryStore()
	seedCategory(t, s, "Books")
	dup := models.Category{Name: "Books"}
	assert.ErrorIs(t, s.CreateCategory(&dup), ErrDuplicate)
}

func TestStatusPartitionIsExhaustiveAndExclusive(t *testing.T) {
	statuses := []string{StatusOutOfStock, StatusLowStock, StatusInStock}
	for quantity := 0; quantity <= 15; quantity++ {
		for minLevel := 0; minLevel <= 15; minLevel++ {
			matches := 0
			for _, status := range statuses {
				if MatchesStatus(quantity, minLevel, status) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "quantity=%d minLevel=%d", quantity, minLevel)
		}
	}
}

func TestGetProductsStatusFilterScenario(t *testing.T) {
	s := NewMemoryStore()
	c1 := seedCategory(t, s, "Electronics")
	c2 := seedCategory(t, s, "Sports")

	empty := seedProduct(t, s, models.Product{Name: "Empty", SKU: "P-0", Price: 1, StockQuantity: 0, MinStockLevel: 0, CategoryID: c1.ID})
	low := seedProduct(t, s, models.Product{Name: "Low", SKU: "P-5", Price: 1, StockQuantity: 5, MinStockLevel: 10, CategoryID: c1.ID})
	full := seedProduct(t, s, models.Product{Name: "Full", SKU: "P-20", Price: 1, StockQuantity: 20, MinStockLevel: 10, CategoryID: c2.ID})

	cases := []struct {
		status string
		wantID string
	}{
		{StatusOutOfStock, empty.ID},
		{StatusLowStock, low.ID},
		{StatusInStock, full.ID},
	}
	for _, tc := range cases {
		page, err := s.GetProducts(ProductFilter{Status: tc.status})
		require.NoError(t, err)
		require.Len(t, page.Products, 1, "status %s", tc.status)
		assert.Equal(t, tc.wantID, page.Products[0].ID, "status %s", tc.status)
		assert.EqualValues(t, 1, page.Total, "status %s", tc.status)
	}
}

func TestGetProductsSearchMatchesNameSKUDescription(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	seedProduct(t, s, models.Product{Name: "iPhone 13", SKU: "IPHONE13-128", Description: "Apple phone", Price: 699.99, CategoryID: c.ID})
	seedProduct(t, s, models.Product{Name: "Basketball", SKU: "BALL-1", Description: "Official size", Price: 39.99, CategoryID: c.ID})

	for _, query := range []string{"iphone", "IPHONE13", "apple"} {
		page, err := s.GetProducts(ProductFilter{Search: query})
		require.NoError(t, err)
		require.Len(t, page.Products, 1, "query %q", query)
		assert.Equal(t, "iPhone 13", page.Products[0].Name, "query %q", query)
	}

	page, err := s.GetProducts(ProductFilter{Search: "no-such-product"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.EqualValues(t, 0, page.Total)
}

func TestGetProductsCategoryFilter(t *testing.T) {
	s := NewMemoryStore()
	c1 := seedCategory(t, s, "Electronics")
	c2 := seedCategory(t, s, "Sports")
	seedProduct(t, s, models.Product{Name: "Phone", SKU: "A", Price: 1, CategoryID: c1.ID})
	seedProduct(t, s, models.Product{Name: "Ball", SKU: "B", Price: 1, CategoryID: c2.ID})

	page, err := s.GetProducts(ProductFilter{CategoryID: c2.ID})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Ball", page.Products[0].Name)
	assert.Equal(t, "Sports", page.Products[0].Category.Name)
}

func TestGetProductsTotalCountsFilteredSet(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Bulk")
	for i := 0; i < 25; i++ {
		quantity := i % 3 // mix of stock levels
		seedProduct(t, s, models.Product{
			Name:          fmt.Sprintf("Item %02d", i),
			SKU:           fmt.Sprintf("SKU-%02d", i),
			Price:         1,
			StockQuantity: quantity,
			MinStockLevel: 1,
			CategoryID:    c.ID,
		})
	}

	// Total reflects the filtered collection regardless of page and limit.
	full, err := s.GetProducts(ProductFilter{Status: StatusOutOfStock, Limit: 100})
	require.NoError(t, err)
	want := int64(len(full.Products))

	for _, limit := range []int{1, 3, 10} {
		for page := 1; page <= 4; page++ {
			res, err := s.GetProducts(ProductFilter{Status: StatusOutOfStock, Page: page, Limit: limit})
			require.NoError(t, err)
			assert.Equal(t, want, res.Total, "page=%d limit=%d", page, limit)
			assert.LessOrEqual(t, len(res.Products), limit)
		}
	}
}

func TestGetProductsPaginationSlicesNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Bulk")
	for i := 0; i < 5; i++ {
		seedProduct(t, s, models.Product{Name: fmt.Sprintf("Item %d", i), SKU: fmt.Sprintf("S-%d", i), Price: 1, CategoryID: c.ID})
		time.Sleep(time.Millisecond)
	}

	first, err := s.GetProducts(ProductFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "Item 4", first.Products[0].Name)
	assert.Equal(t, "Item 3", first.Products[1].Name)
	assert.EqualValues(t, 5, first.Total)

	last, err := s.GetProducts(ProductFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Products, 1)
	assert.Equal(t, "Item 0", last.Products[0].Name)

	beyond, err := s.GetProducts(ProductFilter{Page: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Products)
	assert.EqualValues(t, 5, beyond.Total)
}

func TestDeletedCategoryResolvesToUnknown(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Doomed")
	p := seedProduct(t, s, models.Product{Name: "Orphan", SKU: "O-1", Price: 1, CategoryID: c.ID})

	require.NoError(t, s.DeleteCategory(c.ID))

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, UnknownCategoryName, got.Category.Name)

	page, err := s.GetProducts(ProductFilter{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, UnknownCategoryName, page.Products[0].Category.Name)
}

func TestDashboardStats(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	seedCategory(t, s, "Sports")
	seedProduct(t, s, models.Product{Name: "A", SKU: "A", Price: 699.99, StockQuantity: 25, MinStockLevel: 5, CategoryID: c.ID})
	seedProduct(t, s, models.Product{Name: "B", SKU: "B", Price: 29.99, StockQuantity: 5, MinStockLevel: 10, CategoryID: c.ID})
	seedProduct(t, s, models.Product{Name: "C", SKU: "C", Price: 10, StockQuantity: 0, MinStockLevel: 0, CategoryID: c.ID})

	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalCategories)
	// Zero-stock products count as low stock on the dashboard even though
	// the low_stock product filter excludes them.
	assert.EqualValues(t, 2, stats.LowStockItems)
	assert.Equal(t, "17649.70", stats.TotalValue)

	// Idempotent with no intervening writes.
	again, err := s.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestDashboardLowStockDisagreesWithLowStockFilter(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	seedProduct(t, s, models.Product{Name: "Zero", SKU: "Z", Price: 1, StockQuantity: 0, MinStockLevel: 5, CategoryID: c.ID})

	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.LowStockItems)

	page, err := s.GetProducts(ProductFilter{Status: StatusLowStock})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	s := NewMemoryStore()
	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.TotalProducts)
	assert.Equal(t, "0.00", stats.TotalValue)
}

func TestStockMovementsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	p := seedProduct(t, s, models.Product{Name: "A", SKU: "A", Price: 1, CategoryID: c.ID})
	u := seedUser(t, s, "a@example.com", "Alice")

	for i := 1; i <= 3; i++ {
		m := models.StockMovement{ProductID: p.ID, Type: models.MovementIn, Quantity: i, UserID: u.ID}
		require.NoError(t, s.CreateStockMovement(&m))
		time.Sleep(time.Millisecond)
	}

	movements, err := s.GetStockMovements(p.ID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, 3, movements[0].Quantity)
	assert.Equal(t, 1, movements[2].Quantity)

	other, err := s.GetStockMovements("missing")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRecentActivityJoinsAndPlaceholders(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	p := seedProduct(t, s, models.Product{Name: "Phone", SKU: "PH-1", Price: 1, CategoryID: c.ID})
	u := seedUser(t, s, "a@example.com", "Alice")

	m := models.StockMovement{ProductID: p.ID, Type: models.MovementIn, Quantity: 5, Reason: "Initial stock", UserID: u.ID}
	require.NoError(t, s.CreateStockMovement(&m))
	time.Sleep(time.Millisecond)
	orphan := models.StockMovement{ProductID: "gone-product", Type: models.MovementOut, Quantity: 2, UserID: "gone-user"}
	require.NoError(t, s.CreateStockMovement(&orphan))

	entries, err := s.RecentActivity()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first; the orphaned movement degrades to placeholders.
	assert.Equal(t, UnknownProductName, entries[0].ProductName)
	assert.Equal(t, UnknownProductSKU, entries[0].ProductSKU)
	assert.Equal(t, UnknownUserName, entries[0].UserName)

	assert.Equal(t, "Phone", entries[1].ProductName)
	assert.Equal(t, "PH-1", entries[1].ProductSKU)
	assert.Equal(t, "Alice", entries[1].UserName)
	assert.Equal(t, "Initial stock", entries[1].Reason)
}

func TestRecentActivityCappedAtTen(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	p := seedProduct(t, s, models.Product{Name: "Phone", SKU: "PH-1", Price: 1, CategoryID: c.ID})
	u := seedUser(t, s, "a@example.com", "Alice")

	for i := 1; i <= 12; i++ {
		m := models.StockMovement{ProductID: p.ID, Type: models.MovementIn, Quantity: i, UserID: u.ID}
		require.NoError(t, s.CreateStockMovement(&m))
		time.Sleep(time.Millisecond)
	}

	entries, err := s.RecentActivity()
	require.NoError(t, err)
	require.Len(t, entries, 10)
	assert.Equal(t, 12, entries[0].Quantity)
	assert.Equal(t, 3, entries[9].Quantity)
}

func TestUpdateProductMergesPartialFields(t *testing.T) {
	s := NewMemoryStore()
	c := seedCategory(t, s, "Electronics")
	p := seedProduct(t, s, models.Product{Name: "Phone", SKU: "PH-1", Description: "old", Price: 10, StockQuantity: 3, MinStockLevel: 1, CategoryID: c.ID})

	price := 12.5
	quantity := 7
	updated, err := s.UpdateProduct(p.ID, ProductUpdate{Price: &price, StockQuantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.Equal(t, "Phone", updated.Name)
	assert.Equal(t, "old", updated.Description)

	_, err = s.UpdateProduct("missing", ProductUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoriesSortedByName(t *testing.T) {
	s := NewMemoryStore()
	seedCategory(t, s, "Sports")
	seedCategory(t, s, "Books")
	seedCategory(t, s, "Electronics")

	categories, err := s.GetCategories()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Electronics", categories[1].Name)
	assert.Equal(t, "Sports", categories[2].Name)
}

func TestSeedPopulatesDemoData(t *testing.T) {
	s := NewMemoryStore()
	s.Seed()

	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalProducts)
	assert.EqualValues(t, 5, stats.TotalCategories)

	page, err := s.GetProducts(ProductFilter{Search: "macbook"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Electronics", page.Products[0].Category.Name)
}
