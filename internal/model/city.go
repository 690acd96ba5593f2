package model

import "time"

// City is the local replica of a city owned by the vehicle service.
// Authoritative attributes are mirrored verbatim from event snapshots;
// Version, EventSequence and LastSyncAt are sync bookkeeping.
type City struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	DisplayName         string     `db:"display_name" json:"displayName"`
	Code                string     `db:"code" json:"code"`
	State               string     `db:"state" json:"state"`
	Country             string     `db:"country" json:"country"`
	Timezone            string     `db:"timezone" json:"timezone"`
	Latitude            float64    `db:"latitude" json:"latitude"`
	Longitude           float64    `db:"longitude" json:"longitude"`
	PinCodeRange        *string    `db:"pin_code_range" json:"pinCodeRange,omitempty"`
	RegionCode          *string    `db:"region_code" json:"regionCode,omitempty"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	IsOperational       bool       `db:"is_operational" json:"isOperational"`
	LaunchDate          *time.Time `db:"launch_date" json:"launchDate,omitempty"`
	EstimatedPopulation *int64     `db:"estimated_population" json:"estimatedPopulation,omitempty"`
	MarketPotential     *string    `db:"market_potential" json:"marketPotential,omitempty"`

	Version        int64     `db:"version" json:"version"`
	LastModifiedBy *string   `db:"last_modified_by" json:"lastModifiedBy,omitempty"`
	EventSequence  int64     `db:"event_sequence" json:"eventSequence"`
	LastSyncAt     time.Time `db:"last_sync_at" json:"lastSyncAt"`
}

// CityFilter narrows List results. Nil means "don't filter on this flag".
type CityFilter struct {
	Active      *bool
	Operational *bool
}
