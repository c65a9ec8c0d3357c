package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/outfithaven/storefront-api/internal/model"
	"github.com/outfithaven/storefront-api/internal/repository"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("product not found in cart")
	ErrInvalidInput     = errors.New("invalid input")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// Get returns the caller's cart with product display fields resolved.
// A user who has never added anything has no cart at all.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return s.cartRepo.GetWithLines(ctx, cart.ID)
}

// Add puts quantity of (productID, size) into the cart, creating the cart
// on first use. Adding an existing line increments its quantity.
func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, size string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}
	if size == "" {
		return nil, fmt.Errorf("%w: size is required", ErrInvalidInput)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{UserID: userID}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
	}

	if err := s.cartRepo.UpsertLine(ctx, cart.ID, productID, size, quantity); err != nil {
		return nil, fmt.Errorf("add cart line: %w", err)
	}
	return s.cartRepo.GetWithLines(ctx, cart.ID)
}

// UpdateQuantity sets (not increments) the quantity of an existing line.
// Only Add may create carts or lines.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, size string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}
	if size == "" {
		return nil, fmt.Errorf("%w: size is required", ErrInvalidInput)
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	if err := s.cartRepo.SetLineQuantity(ctx, cart.ID, productID, size, quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("update cart line: %w", err)
	}
	return s.cartRepo.GetWithLines(ctx, cart.ID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID uuid.UUID, size string) (*model.Cart, error) {
	if size == "" {
		return nil, fmt.Errorf("%w: size is required", ErrInvalidInput)
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	if err := s.cartRepo.DeleteLine(ctx, cart.ID, productID, size); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("remove cart line: %w", err)
	}
	return s.cartRepo.GetWithLines(ctx, cart.ID)
}

// Clear empties the cart's lines; the cart row itself stays and remains
// resolvable by Get.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	if err := s.cartRepo.ClearLines(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return s.cartRepo.GetWithLines(ctx, cart.ID)
}
