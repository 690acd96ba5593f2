package model

import "time"

// CityEventType identifies the lifecycle fact an event carries.
type CityEventType string

const (
	CityCreated     CityEventType = "CREATED"
	CityUpdated     CityEventType = "UPDATED"
	CityDeleted     CityEventType = "DELETED"
	CityActivated   CityEventType = "ACTIVATED"
	CityDeactivated CityEventType = "DEACTIVATED"
)

// CityEvent is the envelope delivered by the vehicle service whenever a
// city row mutates upstream. Events carry full snapshots, not deltas;
// DELETED events carry only id, name, code and version in Data.
type CityEvent struct {
	Type          CityEventType  `json:"type"`
	CityID        string         `json:"cityId"`
	EventID       string         `json:"eventId"`
	EventSequence int64          `json:"eventSequence"`
	Timestamp     time.Time      `json:"timestamp"`
	Version       int64          `json:"version"`
	TriggeredBy   *string        `json:"triggeredBy,omitempty"`
	Metadata      *EventMetadata `json:"metadata,omitempty"`
	Data          *CityEventData `json:"data,omitempty"`
	// Changes is informational only; handlers apply the snapshot, not the
	// diff.
	Changes []FieldChange `json:"changes,omitempty"`
}

// EventMetadata carries optional provenance attached by the emitter.
type EventMetadata struct {
	Source        string `json:"source,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// FieldChange describes one mutated field, as reported by the emitter.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// CityEventData is the city snapshot at emission time.
type CityEventData struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	DisplayName         string     `json:"displayName"`
	Code                string     `json:"code"`
	State               string     `json:"state"`
	Country             string     `json:"country"`
	Timezone            string     `json:"timezone"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	PinCodeRange        *string    `json:"pinCodeRange,omitempty"`
	RegionCode          *string    `json:"regionCode,omitempty"`
	IsActive            bool       `json:"isActive"`
	IsOperational       bool       `json:"isOperational"`
	LaunchDate          *time.Time `json:"launchDate,omitempty"`
	EstimatedPopulation *int64     `json:"estimatedPopulation,omitempty"`
	MarketPotential     *string    `json:"marketPotential,omitempty"`
	Version             int64      `json:"version"`
	LastModifiedBy      *string    `json:"lastModifiedBy,omitempty"`
}

// Snapshot materializes the event data as a replica row stamped with the
// event's sequence and the given sync time.
func (e *CityEvent) Snapshot(syncedAt time.Time) City {
	d := e.Data
	return City{
		ID:                  d.ID,
		Name:                d.Name,
		DisplayName:         d.DisplayName,
		Code:                d.Code,
		State:               d.State,
		Country:             d.Country,
		Timezone:            d.Timezone,
		Latitude:            d.Latitude,
		Longitude:           d.Longitude,
		PinCodeRange:        d.PinCodeRange,
		RegionCode:          d.RegionCode,
		IsActive:            d.IsActive,
		IsOperational:       d.IsOperational,
		LaunchDate:          d.LaunchDate,
		EstimatedPopulation: d.EstimatedPopulation,
		MarketPotential:     d.MarketPotential,
		Version:             d.Version,
		LastModifiedBy:      d.LastModifiedBy,
		EventSequence:       e.EventSequence,
		LastSyncAt:          syncedAt,
	}
}
