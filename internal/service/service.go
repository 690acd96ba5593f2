package service

import (
	"github.com/dnazarov/clientstore-api/internal/repository"
)

// Service provides read access to the city replica for the rest of the
// platform.
type Service struct {
	cityRepo repository.CityRepository
}

// NewService creates a new service instance
func NewService(cityRepo repository.CityRepository) *Service {
	return &Service{cityRepo: cityRepo}
}
