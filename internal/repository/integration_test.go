package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfithaven/storefront-api/internal/model"
)

func cleanupAll(t *testing.T) {
	cleanupTable(t, "order_lines", "orders", "cart_lines", "carts", "products", "sliders", "categories", "users")
}

func seedTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email: email, Password: "hashed",
		FirstName: "Ana", LastName: "Reyes", Role: "customer",
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func seedTestProduct(t *testing.T, name string) *model.Product {
	t.Helper()
	ctx := context.Background()
	category := &model.Category{Title: "Shirts", Image: "shirts.jpg", Slug: "shirts-" + uuid.NewString()[:8]}
	require.NoError(t, NewCategoryRepository(testPool).Create(ctx, category))

	product := &model.Product{
		CategoryID: category.ID, Name: name, Brand: "OutfitHaven",
		Price:  decimal.NewFromInt(1200),
		Images: []string{"a.jpg"}, Sizes: []string{"M", "L"},
	}
	require.NoError(t, NewProductRepository(testPool).Create(ctx, product))
	return product
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupAll(t)

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "test@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryRepo_GetBySlug(t *testing.T) {
	cleanupAll(t)

	repo := NewCategoryRepository(testPool)
	ctx := context.Background()

	category := &model.Category{Title: "Shirts", Image: "shirts.jpg", Slug: "shirts"}
	require.NoError(t, repo.Create(ctx, category))

	found, err := repo.GetBySlug(ctx, "shirts")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, category.ID, found.ID)
}

func TestProductRepo_CRUD(t *testing.T) {
	cleanupAll(t)

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	product := seedTestProduct(t, "Oxford Shirt")
	assert.NotEqual(t, uuid.Nil, product.ID)

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oxford Shirt", found.Name)
	assert.Equal(t, []string{"M", "L"}, found.Sizes)

	product.Name = "Linen Shirt"
	require.NoError(t, repo.Update(ctx, product))

	found, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, "Linen Shirt", found.Name)

	require.NoError(t, repo.Delete(ctx, product.ID))
	found, _ = repo.GetByID(ctx, product.ID)
	assert.Nil(t, found)
}

func TestCartRepo_UpsertMergesLines(t *testing.T) {
	cleanupAll(t)

	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "cart@example.com")
	product := seedTestProduct(t, "Oxford Shirt")

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, cartRepo.Create(ctx, cart))

	require.NoError(t, cartRepo.UpsertLine(ctx, cart.ID, product.ID, "M", 1))
	require.NoError(t, cartRepo.UpsertLine(ctx, cart.ID, product.ID, "M", 2))
	require.NoError(t, cartRepo.UpsertLine(ctx, cart.ID, product.ID, "L", 1))

	found, err := cartRepo.GetWithLines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)

	byKey := map[string]int{}
	for _, line := range found.Lines {
		byKey[line.Size] = line.Quantity
		assert.Equal(t, "Oxford Shirt", line.Name)
	}
	assert.Equal(t, 3, byKey["M"])
	assert.Equal(t, 1, byKey["L"])
}

func TestCartRepo_ClearKeepsCartRow(t *testing.T) {
	cleanupAll(t)

	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "clear@example.com")
	product := seedTestProduct(t, "Oxford Shirt")

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, cartRepo.Create(ctx, cart))
	require.NoError(t, cartRepo.UpsertLine(ctx, cart.ID, product.ID, "M", 2))
	require.NoError(t, cartRepo.ClearLines(ctx, cart.ID))

	found, err := cartRepo.GetWithLines(ctx, cart.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Empty(t, found.Lines)
}

func TestOrderRepo_CreateAndList(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "order@example.com")
	product := seedTestProduct(t, "Oxford Shirt")

	shipping := model.ShippingInfo{
		Email: user.Email, FirstName: "Ana", LastName: "Reyes",
		Address: "12 Mabini St", City: "Manila", Region: "NCR",
		PostalCode: "1000", Phone: "09170000000",
	}

	first := &model.Order{
		UserID: user.ID, Shipping: shipping,
		Total: decimal.NewFromInt(1200), Status: model.OrderStatusPending,
		Lines: []model.OrderLine{
			{ProductID: product.ID, Size: "M", Quantity: 2, Price: decimal.NewFromInt(600)},
		},
	}
	require.NoError(t, orderRepo.Create(ctx, first))

	second := &model.Order{
		UserID: user.ID, Shipping: shipping,
		Total: decimal.NewFromInt(600), Status: model.OrderStatusPending,
		Lines: []model.OrderLine{
			{ProductID: product.ID, Size: "L", Quantity: 1, Price: decimal.NewFromInt(600)},
		},
	}
	require.NoError(t, orderRepo.Create(ctx, second))

	found, err := orderRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	assert.Equal(t, "NCR", found.Shipping.Region)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Oxford Shirt", found.Lines[0].Name)

	orders, err := orderRepo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// newest first
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	require.NoError(t, orderRepo.UpdateStatus(ctx, first.ID, model.OrderStatusProcessing))
	found, _ = orderRepo.GetByID(ctx, first.ID)
	assert.Equal(t, model.OrderStatusProcessing, found.Status)
}

func TestOrderRepo_KeepsLineSequence(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "sequence@example.com")
	// names chosen so alphabetical order disagrees with submission order
	zebra := seedTestProduct(t, "Zebra Hoodie")
	anorak := seedTestProduct(t, "Anorak")

	order := &model.Order{
		UserID: user.ID,
		Shipping: model.ShippingInfo{
			Email: user.Email, FirstName: "Ana", LastName: "Reyes",
			Address: "12 Mabini St", City: "Manila", Region: "NCR",
			PostalCode: "1000", Phone: "09170000000",
		},
		Total: decimal.NewFromInt(2400), Status: model.OrderStatusPending,
		Lines: []model.OrderLine{
			{ProductID: zebra.ID, Size: "M", Quantity: 1, Price: decimal.NewFromInt(1200)},
			{ProductID: anorak.ID, Size: "L", Quantity: 1, Price: decimal.NewFromInt(1200)},
		},
	}
	require.NoError(t, orderRepo.Create(ctx, order))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, zebra.ID, found.Lines[0].ProductID)
	assert.Equal(t, anorak.ID, found.Lines[1].ProductID)
}
