// Package sync applies city lifecycle events from the vehicle service of
// record to the local replica table. Application is idempotent with
// respect to re-delivery, self-heals rows the replica has never seen, and
// rejects events older than the stored state.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/dnazarov/clientstore-api/internal/repository"
	"go.uber.org/zap"
)

// Actions reported in a Result.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionSkipped       = "skipped"
	ActionStale         = "stale"
	ActionError         = "error"
)

// ErrInvalidEvent marks events whose envelope fails validation; they can
// never succeed on retry.
var ErrInvalidEvent = errors.New("invalid city event")

// Result describes what applying one event did to the replica.
type Result struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	CityID  string `json:"cityId"`
	EventID string `json:"eventId"`
	Error   string `json:"error,omitempty"`
}

// Handler owns all writes to the city replica.
type Handler struct {
	cities repository.CityRepository
	log    *zap.Logger
	now    func() time.Time
}

// NewHandler creates a sync handler.
func NewHandler(cities repository.CityRepository, log *zap.Logger) *Handler {
	return &Handler{cities: cities, log: log, now: time.Now}
}

// Apply dispatches one event to its handler. Domain outcomes (skipped,
// stale) come back as a successful Result; repository failures come back
// as both a failed Result and a non-nil error so the delivering side can
// retry instead of silently losing the event.
func (h *Handler) Apply(ctx context.Context, event model.CityEvent) (Result, error) {
	if err := validate(event); err != nil {
		return h.failed(event, err), err
	}

	var (
		res Result
		err error
	)
	switch event.Type {
	case model.CityCreated:
		res, err = h.handleCreated(ctx, event)
	case model.CityUpdated:
		res, err = h.handleUpdated(ctx, event)
	case model.CityDeleted:
		res, err = h.handleDeleted(ctx, event)
	case model.CityActivated, model.CityDeactivated:
		res, err = h.handleStatusChanged(ctx, event)
	default:
		err = fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, event.Type)
		res = h.failed(event, err)
	}

	if err != nil {
		h.log.Error("city event failed",
			zap.String("event_id", event.EventID),
			zap.String("city_id", event.CityID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return res, err
	}

	h.log.Info("city event applied",
		zap.String("event_id", event.EventID),
		zap.String("city_id", event.CityID),
		zap.String("type", string(event.Type)),
		zap.String("action", res.Action),
	)
	return res, nil
}

func validate(event model.CityEvent) error {
	if event.CityID == "" {
		return fmt.Errorf("%w: event has no cityId", ErrInvalidEvent)
	}
	if event.EventID == "" {
		return fmt.Errorf("%w: event has no eventId", ErrInvalidEvent)
	}
	switch event.Type {
	case model.CityCreated, model.CityUpdated:
		if event.Data == nil {
			return fmt.Errorf("%w: %s event has no data snapshot", ErrInvalidEvent, event.Type)
		}
		if event.Data.ID == "" {
			return fmt.Errorf("%w: %s event snapshot has no id", ErrInvalidEvent, event.Type)
		}
	case model.CityDeleted, model.CityActivated, model.CityDeactivated:
		// These act on the stored row; no snapshot required.
	}
	return nil
}

// handleCreated inserts the snapshot verbatim. A row that already exists
// means a re-delivered event; nothing is modified.
func (h *Handler) handleCreated(ctx context.Context, event model.CityEvent) (Result, error) {
	existing, err := h.cities.GetByID(ctx, event.Data.ID)
	if err != nil {
		return h.failed(event, err), err
	}
	if existing != nil {
		return h.ok(event, ActionSkipped), nil
	}

	if err := h.cities.Insert(ctx, event.Snapshot(h.now())); err != nil {
		return h.failed(event, err), err
	}
	return h.ok(event, ActionCreated), nil
}

// handleUpdated overwrites every mirrored field with the snapshot. A
// missing row is created from the same snapshot (the replica may have
// subscribed after the city existed, or missed the CREATED event). An
// event sequenced before the stored row is rejected as stale.
func (h *Handler) handleUpdated(ctx context.Context, event model.CityEvent) (Result, error) {
	existing, err := h.cities.GetByID(ctx, event.Data.ID)
	if err != nil {
		return h.failed(event, err), err
	}
	if existing == nil {
		return h.handleCreated(ctx, event)
	}
	if event.EventSequence < existing.EventSequence {
		return h.ok(event, ActionStale), nil
	}

	if err := h.cities.Update(ctx, event.Snapshot(h.now())); err != nil {
		return h.failed(event, err), err
	}
	return h.ok(event, ActionUpdated), nil
}

// handleDeleted soft-deletes: both flags cleared, row retained.
func (h *Handler) handleDeleted(ctx context.Context, event model.CityEvent) (Result, error) {
	existing, err := h.cities.GetByID(ctx, event.CityID)
	if err != nil {
		return h.failed(event, err), err
	}
	if existing == nil {
		return h.ok(event, ActionSkipped), nil
	}
	if event.EventSequence < existing.EventSequence {
		return h.ok(event, ActionStale), nil
	}

	if err := h.cities.SetDeleted(ctx, event.CityID, event.EventSequence, event.Version, h.now()); err != nil {
		return h.failed(event, err), err
	}
	return h.ok(event, ActionDeleted), nil
}

// handleStatusChanged flips isActive only. Activation deliberately leaves
// isOperational alone: a reactivated city is not operational until the
// vehicle service says so via an UPDATED snapshot.
func (h *Handler) handleStatusChanged(ctx context.Context, event model.CityEvent) (Result, error) {
	existing, err := h.cities.GetByID(ctx, event.CityID)
	if err != nil {
		return h.failed(event, err), err
	}
	if existing == nil {
		return h.ok(event, ActionSkipped), nil
	}
	if event.EventSequence < existing.EventSequence {
		return h.ok(event, ActionStale), nil
	}
	if event.EventSequence == existing.EventSequence {
		// Re-delivery of the event that produced the stored state.
		return h.ok(event, ActionSkipped), nil
	}

	active := event.Type == model.CityActivated
	if err := h.cities.SetActive(ctx, event.CityID, active, event.EventSequence, event.Version, h.now()); err != nil {
		return h.failed(event, err), err
	}
	return h.ok(event, ActionStatusChanged), nil
}

func (h *Handler) ok(event model.CityEvent, action string) Result {
	return Result{Success: true, Action: action, CityID: event.CityID, EventID: event.EventID}
}

func (h *Handler) failed(event model.CityEvent, err error) Result {
	return Result{Success: false, Action: ActionError, CityID: event.CityID, EventID: event.EventID, Error: err.Error()}
}
