package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/outfithaven/storefront-api/internal/dto"
	"github.com/outfithaven/storefront-api/internal/model"
	"github.com/outfithaven/storefront-api/internal/repository"
)

var ErrSliderNotFound = errors.New("slider not found")

type SliderService struct {
	sliderRepo repository.SliderRepository
}

func NewSliderService(sliderRepo repository.SliderRepository) *SliderService {
	return &SliderService{sliderRepo: sliderRepo}
}

func (s *SliderService) Create(ctx context.Context, req dto.CreateSliderRequest) (*dto.SliderResponse, error) {
	slider := &model.Slider{Images: req.Images}
	if err := s.sliderRepo.Create(ctx, slider); err != nil {
		return nil, fmt.Errorf("create slider: %w", err)
	}
	return &dto.SliderResponse{ID: slider.ID, Images: slider.Images}, nil
}

func (s *SliderService) List(ctx context.Context) ([]dto.SliderResponse, error) {
	sliders, err := s.sliderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sliders: %w", err)
	}
	resp := make([]dto.SliderResponse, 0, len(sliders))
	for _, slider := range sliders {
		resp = append(resp, dto.SliderResponse{ID: slider.ID, Images: slider.Images})
	}
	return resp, nil
}

func (s *SliderService) Update(ctx context.Context, id uuid.UUID, req dto.CreateSliderRequest) (*dto.SliderResponse, error) {
	slider := &model.Slider{ID: id, Images: req.Images}
	if err := s.sliderRepo.Update(ctx, slider); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSliderNotFound
		}
		return nil, fmt.Errorf("update slider: %w", err)
	}
	return &dto.SliderResponse{ID: slider.ID, Images: slider.Images}, nil
}

func (s *SliderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sliderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSliderNotFound
		}
		return fmt.Errorf("delete slider: %w", err)
	}
	return nil
}
