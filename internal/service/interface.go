package service

import (
	"context"

	"github.com/dnazarov/clientstore-api/internal/model"
)

// CityReader defines the city read service interface for testing
type CityReader interface {
	ListCities(ctx context.Context, filter model.CityFilter) ([]model.CityView, error)
	GetCityByID(ctx context.Context, id string) (*model.CityView, error)
	GetCityByCode(ctx context.Context, code string) (*model.CityView, error)
}
