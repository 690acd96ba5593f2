package service

import (
	"context"
	"fmt"

	"github.com/dnazarov/clientstore-api/internal/model"
)

// ListCities returns the public projection of the replica, ordered
// operational-first, then active-first, then alphabetically. The city set
// is bounded and low-cardinality, so there is no pagination.
func (s *Service) ListCities(ctx context.Context, filter model.CityFilter) ([]model.CityView, error) {
	cities, err := s.cityRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	views := make([]model.CityView, 0, len(cities))
	for i := range cities {
		views = append(views, cities[i].View())
	}
	return views, nil
}

// GetCityByID retrieves one city by its primary key. Returns nil when not
// found.
func (s *Service) GetCityByID(ctx context.Context, id string) (*model.CityView, error) {
	city, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	if city == nil {
		return nil, nil
	}
	view := city.View()
	return &view, nil
}

// GetCityByCode retrieves one city by its short code. Returns nil when not
// found.
func (s *Service) GetCityByCode(ctx context.Context, code string) (*model.CityView, error) {
	city, err := s.cityRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get city by code: %w", err)
	}
	if city == nil {
		return nil, nil
	}
	view := city.View()
	return &view, nil
}
