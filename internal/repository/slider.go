package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outfithaven/storefront-api/internal/model"
)

type SliderRepository interface {
	Create(ctx context.Context, slider *model.Slider) error
	List(ctx context.Context) ([]model.Slider, error)
	Update(ctx context.Context, slider *model.Slider) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgSliderRepo struct{ pool *pgxpool.Pool }

func NewSliderRepository(pool *pgxpool.Pool) SliderRepository {
	return &pgSliderRepo{pool: pool}
}

func (r *pgSliderRepo) Create(ctx context.Context, slider *model.Slider) error {
	slider.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sliders (id, images, created_at) VALUES ($1, $2, NOW()) RETURNING created_at`,
		slider.ID, slider.Images,
	).Scan(&slider.CreatedAt)
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}
	return nil
}

func (r *pgSliderRepo) List(ctx context.Context) ([]model.Slider, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, images, created_at FROM sliders ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sliders: %w", err)
	}
	defer rows.Close()

	var sliders []model.Slider
	for rows.Next() {
		var s model.Slider
		if err := rows.Scan(&s.ID, &s.Images, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slider: %w", err)
		}
		sliders = append(sliders, s)
	}
	return sliders, rows.Err()
}

func (r *pgSliderRepo) Update(ctx context.Context, slider *model.Slider) error {
	ct, err := r.pool.Exec(ctx, `UPDATE sliders SET images = $2 WHERE id = $1`, slider.ID, slider.Images)
	if err != nil {
		return fmt.Errorf("update slider: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgSliderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sliders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slider: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
