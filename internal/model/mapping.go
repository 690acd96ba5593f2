package model

import "time"

// PublicRiderID is the external-facing rider code (e.g. "DEL-25-R000044").
// PlatformRiderID is the rider service's internal UUID. They are distinct
// types so a public ID can never be passed where an internal one is
// expected.
type (
	PublicRiderID   string
	PlatformRiderID string
)

// Verification states for a client-rider mapping.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ClientRiderMapping links a client to a rider under the client's own
// label. ClientRiderID is unique across all mappings, and a rider can be
// mapped to a given client at most once. Rows are never hard-deleted.
type ClientRiderMapping struct {
	ID                 string          `db:"id" json:"id"`
	ClientID           string          `db:"client_id" json:"clientId"`
	PlatformRiderID    PlatformRiderID `db:"platform_rider_id" json:"platformRiderId"`
	PublicRiderID      PublicRiderID   `db:"public_rider_id" json:"publicRiderId"`
	ClientRiderID      string          `db:"client_rider_id" json:"clientRiderId"`
	Notes              *string         `db:"notes" json:"notes,omitempty"`
	IsActive           bool            `db:"is_active" json:"isActive"`
	VerificationStatus string          `db:"verification_status" json:"verificationStatus"`
	VerifiedBy         *string         `db:"verified_by" json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time      `db:"verified_at" json:"verifiedAt,omitempty"`
	DeactivationReason *string         `db:"deactivation_reason" json:"deactivationReason,omitempty"`
	DeactivationDate   *time.Time      `db:"deactivation_date" json:"deactivationDate,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// Client is the local client (business account) record a mapping belongs to.
type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
