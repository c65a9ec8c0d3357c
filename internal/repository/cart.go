package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outfithaven/storefront-api/internal/model"
)

type CartRepository interface {
	// GetByUserID returns nil, nil when the user has no cart yet. A cart is
	// only ever created through Create — never implicitly.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	// UpsertLine merges additively: inserting an existing (product, size)
	// increments its quantity rather than replacing it.
	UpsertLine(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID, size string) error
	ClearLines(ctx context.Context, cartID uuid.UUID) error
	GetWithLines(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (r *pgCartRepo) Create(ctx context.Context, cart *model.Cart) error {
	cart.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, NOW(), NOW()) RETURNING created_at, updated_at`,
		cart.ID, cart.UserID,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpsertLine(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error {
	// Atomic increment-or-insert, so two concurrent adds for the same
	// (product, size) can never produce duplicate lines or a lost update.
	query := `INSERT INTO cart_lines (cart_id, product_id, size, quantity, added_at)
			  VALUES ($1, $2, $3, $4, NOW())
			  ON CONFLICT (cart_id, product_id, size)
			  DO UPDATE SET quantity = cart_lines.quantity + $4`
	if _, err := r.pool.Exec(ctx, query, cartID, productID, size, quantity); err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	r.touch(ctx, cartID)
	return nil
}

func (r *pgCartRepo) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, size string, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_lines SET quantity = $4 WHERE cart_id = $1 AND product_id = $2 AND size = $3`,
		cartID, productID, size, quantity,
	)
	if err != nil {
		return fmt.Errorf("set cart line quantity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.touch(ctx, cartID)
	return nil
}

func (r *pgCartRepo) DeleteLine(ctx context.Context, cartID, productID uuid.UUID, size string) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2 AND size = $3`,
		cartID, productID, size,
	)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.touch(ctx, cartID)
	return nil
}

// ClearLines empties the cart but keeps the cart row itself.
func (r *pgCartRepo) ClearLines(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	r.touch(ctx, cartID)
	return nil
}

func (r *pgCartRepo) GetWithLines(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1`, cartID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT cl.product_id, cl.size, cl.quantity, cl.added_at,
		       p.name, p.price, p.images, p.sizes
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
		ORDER BY cl.added_at`, cartID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.CartLine
		if err := rows.Scan(&line.ProductID, &line.Size, &line.Quantity, &line.AddedAt,
			&line.Name, &line.Price, &line.Images, &line.Sizes); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart, rows.Err()
}

func (r *pgCartRepo) touch(ctx context.Context, cartID uuid.UUID) {
	_, _ = r.pool.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID)
}
