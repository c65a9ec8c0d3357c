package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfithaven/storefront-api/internal/dto"
	"github.com/outfithaven/storefront-api/internal/middleware"
	"github.com/outfithaven/storefront-api/internal/model"
)

type mockOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	history []uuid.UUID
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now().Add(time.Duration(len(m.history)) * time.Second)
	m.orders[order.ID] = order
	m.history = append(m.history, order.ID)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

// ListByUserID mirrors the real repo's newest-first ordering.
func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for i := len(m.history) - 1; i >= 0; i-- {
		if order := m.orders[m.history[i]]; order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = status
	return nil
}

func seedUser(repo *mockUserRepo) uuid.UUID {
	user := &model.User{
		ID: uuid.New(), Email: "ana@example.com",
		FirstName: "Ana", LastName: "Reyes", Role: "customer",
	}
	repo.users[user.ID] = user
	return user.ID
}

func newOrderService(orderRepo *mockOrderRepo, userRepo *mockUserRepo, productRepo *mockProductRepo) *OrderService {
	return NewOrderService(orderRepo, userRepo, productRepo, nil, slog.Default())
}

func shippingFixture() dto.ShippingInfoRequest {
	return dto.ShippingInfoRequest{
		Email: "ana@example.com", FirstName: "Ana", LastName: "Reyes",
		Address: "12 Mabini St", City: "Manila", Region: "NCR",
		PostalCode: "1000", Phone: "09170000000",
	}
}

func placeOrder(t *testing.T, svc *OrderService, userID uuid.UUID, items []dto.OrderLineRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := svc.Place(context.Background(), userID, dto.CreateOrderRequest{
		Items:        items,
		ShippingInfo: shippingFixture(),
		Total:        decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	return resp
}

func TestOrderService_Place(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	pid := seedProduct(productRepo, "M")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	resp := placeOrder(t, svc, userID, []dto.OrderLineRequest{
		{ProductID: pid, Size: "M", Quantity: 2, Price: decimal.NewFromInt(600)},
	})

	assert.Equal(t, model.OrderStatusPending, resp.Status)
	assert.Equal(t, "Ana", resp.User.FirstName)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Len(t, orderRepo.orders, 1)
}

func TestOrderService_Place_KeepsItemSequence(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	first := seedProduct(productRepo, "M")
	second := seedProduct(productRepo, "L")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	resp := placeOrder(t, svc, userID, []dto.OrderLineRequest{
		{ProductID: second, Size: "L", Quantity: 1, Price: decimal.NewFromInt(600)},
		{ProductID: first, Size: "M", Quantity: 2, Price: decimal.NewFromInt(300)},
	})

	require.Len(t, resp.Items, 2)
	assert.Equal(t, second, resp.Items[0].ProductID)
	assert.Equal(t, first, resp.Items[1].ProductID)
}

func TestOrderService_Place_RejectsDuplicateItems(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	pid := seedProduct(productRepo, "M", "L")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	_, err := svc.Place(context.Background(), userID, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{ProductID: pid, Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)},
			{ProductID: pid, Size: "M", Quantity: 2, Price: decimal.NewFromInt(600)},
		},
		ShippingInfo: shippingFixture(),
		Total:        decimal.NewFromInt(1800),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, orderRepo.orders)

	// same product in two sizes is two distinct items, not a duplicate
	resp := placeOrder(t, svc, userID, []dto.OrderLineRequest{
		{ProductID: pid, Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)},
		{ProductID: pid, Size: "L", Quantity: 1, Price: decimal.NewFromInt(600)},
	})
	assert.Len(t, resp.Items, 2)
}

func TestOrderService_Place_EmptyPersistsNothing(t *testing.T) {
	orderRepo := newMockOrderRepo()
	svc := newOrderService(orderRepo, newMockUserRepo(), newMockProductRepo())

	_, err := svc.Place(context.Background(), uuid.New(), dto.CreateOrderRequest{
		ShippingInfo: shippingFixture(),
		Total:        decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_Place_UnknownProduct(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	userID := seedUser(userRepo)
	svc := newOrderService(orderRepo, userRepo, newMockProductRepo())

	_, err := svc.Place(context.Background(), userID, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{ProductID: uuid.New(), Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)},
		},
		ShippingInfo: shippingFixture(),
		Total:        decimal.NewFromInt(600),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_ListByUser_NewestFirst(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	pid := seedProduct(productRepo, "M")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	items := []dto.OrderLineRequest{{ProductID: pid, Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)}}
	first := placeOrder(t, svc, userID, items)
	second := placeOrder(t, svc, userID, items)
	third := placeOrder(t, svc, userID, items)

	resp, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, resp.Orders, 3)
	assert.Equal(t, third.ID, resp.Orders[0].ID)
	assert.Equal(t, second.ID, resp.Orders[1].ID)
	assert.Equal(t, first.ID, resp.Orders[2].ID)
}

func TestOrderService_Get_OtherUsersOrder(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	pid := seedProduct(productRepo, "M")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	placed := placeOrder(t, svc, userID, []dto.OrderLineRequest{
		{ProductID: pid, Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)},
	})

	stranger := middleware.Identity{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err := svc.Get(context.Background(), placed.ID, stranger)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	owner := middleware.Identity{UserID: userID, Role: model.RoleCustomer}
	_, err = svc.Get(context.Background(), placed.ID, owner)
	assert.NoError(t, err)

	// admins may read any order
	admin := middleware.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = svc.Get(context.Background(), placed.ID, admin)
	assert.NoError(t, err)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	userID := seedUser(userRepo)
	pid := seedProduct(productRepo, "M")
	svc := newOrderService(orderRepo, userRepo, productRepo)

	placed := placeOrder(t, svc, userID, []dto.OrderLineRequest{
		{ProductID: pid, Size: "M", Quantity: 1, Price: decimal.NewFromInt(600)},
	})

	// pending may not skip straight to shipped
	_, err := svc.UpdateStatus(context.Background(), placed.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	for _, next := range []model.OrderStatus{
		model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered,
	} {
		resp, err := svc.UpdateStatus(context.Background(), placed.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, resp.Status)
	}

	// delivered is terminal
	_, err = svc.UpdateStatus(context.Background(), placed.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := newOrderService(newMockOrderRepo(), newMockUserRepo(), newMockProductRepo())
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
