package api

import (
	"encoding/json"
	"net/http"

	"github.com/dnazarov/clientstore-api/internal/apierr"
	"github.com/dnazarov/clientstore-api/internal/mapping"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/gorilla/mux"
)

// MappingHandler handles client-rider mapping requests. All routes sit
// behind the bearer-token middleware.
type MappingHandler struct {
	service *mapping.Service
}

// NewMappingHandler creates a mapping endpoint handler.
func NewMappingHandler(service *mapping.Service) *MappingHandler {
	return &MappingHandler{service: service}
}

// Create handles POST /api/client-rider-mappings
func (h *MappingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in mapping.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apierr.Validation("invalid request body"))
		return
	}

	m, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "mapping created", m)
}

// BulkCreate handles POST /api/client-rider-mappings/bulk
func (h *MappingHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mappings []mapping.BulkItem `json:"mappings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apierr.Validation("invalid request body"))
		return
	}
	if len(body.Mappings) == 0 {
		writeError(w, apierr.Validation("mappings list is empty"))
		return
	}

	result, err := h.service.BulkCreate(r.Context(), body.Mappings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "bulk create processed", result)
}

// Get handles GET /api/client-rider-mappings/{id}
func (h *MappingHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "mapping retrieved", m)
}

// Update handles PUT /api/client-rider-mappings/{id}
func (h *MappingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in mapping.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apierr.Validation("invalid request body"))
		return
	}

	m, err := h.service.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "mapping updated", m)
}

// Verify handles POST /api/client-rider-mappings/{id}/verify
func (h *MappingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status     string `json:"status"`
		VerifiedBy string `json:"verifiedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apierr.Validation("invalid request body"))
		return
	}

	m, err := h.service.Verify(r.Context(), mux.Vars(r)["id"], body.Status, body.VerifiedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "mapping verification recorded", m)
}

// Deactivate handles DELETE /api/client-rider-mappings/{id}. Mappings are
// deactivated, never removed.
func (h *MappingHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	m, err := h.service.Deactivate(r.Context(), mux.Vars(r)["id"], body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "mapping deactivated", m)
}

// Resolve handles GET /api/client-rider-mappings/resolve/{clientId}/{clientRiderId}
func (h *MappingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	m, err := h.service.Resolve(r.Context(), vars["clientId"], vars["clientRiderId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "mapping resolved", m)
}

// ListByClient handles GET /api/client-rider-mappings/client/{clientId}
func (h *MappingHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	ms, err := h.service.ListByClient(r.Context(), mux.Vars(r)["clientId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "mappings retrieved", ms, len(ms))
}

// ListByRider handles GET /api/client-rider-mappings/rider/{platformRiderId}
func (h *MappingHandler) ListByRider(w http.ResponseWriter, r *http.Request) {
	platformID := model.PlatformRiderID(mux.Vars(r)["platformRiderId"])
	ms, err := h.service.ListByPlatformRider(r.Context(), platformID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, "mappings retrieved", ms, len(ms))
}
