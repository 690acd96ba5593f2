package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dnazarov/clientstore-api/internal/model"
	syncpkg "github.com/dnazarov/clientstore-api/internal/sync"
)

// SyncHandler receives city events from the vehicle service. The endpoint
// is unauthenticated under the trusted-network assumption for internal
// routes.
type SyncHandler struct {
	handler *syncpkg.Handler
}

// NewSyncHandler creates a sync endpoint handler.
func NewSyncHandler(handler *syncpkg.Handler) *SyncHandler {
	return &SyncHandler{handler: handler}
}

// ReceiveCityEvent handles POST /internal/cities/events. The Result is
// always returned to the delivering side; a handler error additionally
// produces a 500 so the emitter knows the event was not applied.
func (s *SyncHandler) ReceiveCityEvent(w http.ResponseWriter, r *http.Request) {
	var event model.CityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Response{
			Success: false,
			Message: "invalid event payload",
		})
		return
	}

	result, err := s.handler.Apply(r.Context(), event)
	status := http.StatusOK
	if err != nil {
		if errors.Is(err, syncpkg.ErrInvalidEvent) {
			status = http.StatusBadRequest
		} else {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, model.Response{
		Success: result.Success,
		Message: "event " + result.Action,
		Data:    result,
	})
}
