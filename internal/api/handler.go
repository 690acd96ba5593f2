package api

import (
	"net/http"
	"strconv"

	"github.com/dnazarov/clientstore-api/internal/apierr"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/dnazarov/clientstore-api/internal/service"
	"github.com/gorilla/mux"
)

// Handler handles city read requests. All city endpoints are
// unauthenticated: they feed dropdowns and forms across the platform.
type Handler struct {
	service service.CityReader
}

// NewHandler creates a new handler instance
func NewHandler(service service.CityReader) *Handler {
	return &Handler{service: service}
}

// ListCities handles GET /api/v1/cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	var filter model.CityFilter

	if activeStr := r.URL.Query().Get("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			writeError(w, apierr.Validation("invalid active parameter"))
			return
		}
		filter.Active = &active
	}
	if opStr := r.URL.Query().Get("operational"); opStr != "" {
		operational, err := strconv.ParseBool(opStr)
		if err != nil {
			writeError(w, apierr.Validation("invalid operational parameter"))
			return
		}
		filter.Operational = &operational
	}

	cities, err := h.service.ListCities(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "cities retrieved", cities, len(cities))
}

// ListOperationalCities handles GET /api/v1/cities/operational
func (h *Handler) ListOperationalCities(w http.ResponseWriter, r *http.Request) {
	operational := true
	cities, err := h.service.ListCities(r.Context(), model.CityFilter{Operational: &operational})
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "operational cities retrieved", cities, len(cities))
}

// ListActiveCities handles GET /api/v1/cities/active
func (h *Handler) ListActiveCities(w http.ResponseWriter, r *http.Request) {
	active := true
	cities, err := h.service.ListCities(r.Context(), model.CityFilter{Active: &active})
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "active cities retrieved", cities, len(cities))
}

// GetCity handles GET /api/v1/cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	city, err := h.service.GetCityByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if city == nil {
		writeError(w, apierr.NotFound(apierr.CodeCityNotFound, "city not found"))
		return
	}
	writeData(w, http.StatusOK, "city retrieved", city)
}

// GetCityByCode handles GET /api/v1/cities/code/{code}
func (h *Handler) GetCityByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	city, err := h.service.GetCityByCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	if city == nil {
		writeError(w, apierr.NotFound(apierr.CodeCityNotFound, "city not found"))
		return
	}
	writeData(w, http.StatusOK, "city retrieved", city)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
