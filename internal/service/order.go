package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/outfithaven/storefront-api/internal/dto"
	"github.com/outfithaven/storefront-api/internal/middleware"
	"github.com/outfithaven/storefront-api/internal/model"
	"github.com/outfithaven/storefront-api/internal/repository"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("order belongs to another user")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidOrderStatus = errors.New("unknown order status")
)

// OrdersQueue is the fulfillment queue order events are published to.
const OrdersQueue = "orders"

type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	amqpCh      *amqp.Channel
	log         *slog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository, amqpCh *amqp.Channel, log *slog.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		amqpCh:      amqpCh,
		log:         log,
	}
}

// Place creates an order in pending status. Line prices and the total are
// taken from the request as submitted; the accepted total is logged so
// discrepancies can be audited later.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	type itemKey struct {
		productID uuid.UUID
		size      string
	}
	seen := make(map[itemKey]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
		}
		if item.Size == "" {
			return nil, fmt.Errorf("%w: size is required", ErrInvalidInput)
		}
		key := itemKey{item.ProductID, item.Size}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate item %s size %s", ErrInvalidInput, item.ProductID, item.Size)
		}
		seen[key] = true
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
	}

	order := &model.Order{
		UserID:   userID,
		Shipping: req.ShippingInfo.Normalize(),
		Total:    req.Total,
		Status:   model.OrderStatusPending,
	}
	for _, item := range req.Items {
		order.Lines = append(order.Lines, model.OrderLine{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order placed", "order_id", order.ID, "user_id", userID, "total", order.Total)

	s.publishPlaced(ctx, order)

	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return s.toResponse(ctx, created)
}

// publishPlaced hands the order to the fulfillment queue. Publish failures
// are logged and swallowed; the order is already committed.
func (s *OrderService) publishPlaced(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	body, err := json.Marshal(model.OrderPlaced{OrderID: order.ID, UserID: order.UserID})
	if err != nil {
		s.log.Error("marshal order event", "order_id", order.ID, "error", err)
		return
	}
	err = s.amqpCh.PublishWithContext(ctx, "", OrdersQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		s.log.Error("publish order event", "order_id", order.ID, "error", err)
	}
}

// ListByUser returns the caller's orders newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := &dto.OrderListResponse{Orders: []dto.OrderResponse{}}
	for i := range orders {
		r, err := s.toResponse(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		resp.Orders = append(resp.Orders, *r)
	}
	return resp, nil
}

// Get returns a single order, refusing access to orders owned by other
// users unless the caller is an admin.
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID, caller middleware.Identity) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != caller.UserID && !caller.Admin() {
		return nil, ErrOrderAccessDenied
	}
	return s.toResponse(ctx, order)
}

// UpdateStatus moves an order along the fulfillment lifecycle. Pending may
// become processing or cancelled, processing shipped or cancelled, shipped
// delivered. Delivered and cancelled are terminal.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*dto.OrderResponse, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, next)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	s.log.Info("order status updated", "order_id", orderID, "from", order.Status, "to", next)

	order.Status = next
	return s.toResponse(ctx, order)
}

func (s *OrderService) toResponse(ctx context.Context, order *model.Order) (*dto.OrderResponse, error) {
	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("get order user: %w", err)
	}

	resp := &dto.OrderResponse{
		ID: order.ID,
		ShippingInfo: dto.ShippingInfoResponse{
			Email:      order.Shipping.Email,
			FirstName:  order.Shipping.FirstName,
			LastName:   order.Shipping.LastName,
			Address:    order.Shipping.Address,
			Apartment:  order.Shipping.Apartment,
			PostalCode: order.Shipping.PostalCode,
			City:       order.Shipping.City,
			Region:     order.Shipping.Region,
			Phone:      order.Shipping.Phone,
		},
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
	if user != nil {
		resp.User = dto.OrderUserResponse{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		}
	}
	for _, line := range order.Lines {
		resp.Items = append(resp.Items, dto.OrderLineResponse{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Name:      line.Name,
			Images:    line.Images,
		})
	}
	return resp, nil
}
