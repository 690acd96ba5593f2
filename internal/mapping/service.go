// Package mapping implements the client-rider identity mapping domain:
// resolving public rider codes to internal UUIDs via the rider service and
// persisting client assignments under global uniqueness rules.
package mapping

import (
	"context"
	"fmt"
	"time"

	"github.com/dnazarov/clientstore-api/internal/apierr"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/dnazarov/clientstore-api/internal/repository"
	"github.com/google/uuid"
)

// Resolver translates public rider IDs into internal ones.
type Resolver interface {
	ResolvePublicRiderID(ctx context.Context, publicID model.PublicRiderID) (model.PlatformRiderID, error)
}

// Service drives all mapping operations.
type Service struct {
	mappings repository.MappingRepository
	clients  repository.ClientRepository
	resolver Resolver
	now      func() time.Time
}

// NewService creates a mapping service.
func NewService(mappings repository.MappingRepository, clients repository.ClientRepository, resolver Resolver) *Service {
	return &Service{
		mappings: mappings,
		clients:  clients,
		resolver: resolver,
		now:      time.Now,
	}
}

// CreateInput carries a single-create request. The rider is identified by
// its public code; the internal ID is resolved server-side.
type CreateInput struct {
	ClientID      string              `json:"clientId"`
	PublicRiderID model.PublicRiderID `json:"platformRiderId"` // external contract field name, carries the public ID
	ClientRiderID string              `json:"clientRiderId"`
	Notes         *string             `json:"notes,omitempty"`
}

// Create resolves the rider and inserts a mapping. Pre-checks produce
// precise 409/404 codes; the unique constraints in the schema remain the
// source of truth if a concurrent insert wins the race.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.ClientRiderMapping, error) {
	if in.ClientID == "" || in.PublicRiderID == "" || in.ClientRiderID == "" {
		return nil, apierr.Validation("clientId, platformRiderId and clientRiderId are required")
	}

	platformID, err := s.resolver.ResolvePublicRiderID(ctx, in.PublicRiderID)
	if err != nil {
		return nil, apierr.NotFound(apierr.CodeRiderNotFound,
			fmt.Sprintf("rider %s could not be resolved", in.PublicRiderID))
	}

	if err := s.checkDuplicates(ctx, in.ClientID, in.ClientRiderID, platformID); err != nil {
		return nil, err
	}

	exists, err := s.clients.Exists(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound(apierr.CodeClientNotFound,
			fmt.Sprintf("client %s not found", in.ClientID))
	}

	now := s.now()
	m := model.ClientRiderMapping{
		ID:                 uuid.NewString(),
		ClientID:           in.ClientID,
		PlatformRiderID:    platformID,
		PublicRiderID:      in.PublicRiderID,
		ClientRiderID:      in.ClientRiderID,
		Notes:              in.Notes,
		IsActive:           true,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.mappings.Insert(ctx, m); err != nil {
		if apierr.IsUniqueViolation(err) {
			// Lost the check-then-insert race; report it like the pre-check.
			return nil, apierr.Conflict(apierr.CodeDuplicateClientRider,
				fmt.Sprintf("clientRiderId %s is already in use", in.ClientRiderID))
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) checkDuplicates(ctx context.Context, clientID, clientRiderID string, platformID model.PlatformRiderID) error {
	// clientRiderId is unique across ALL mappings, not per client.
	existing, err := s.mappings.GetByClientRiderID(ctx, clientRiderID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apierr.Conflict(apierr.CodeDuplicateClientRider,
			fmt.Sprintf("clientRiderId %s is already in use", clientRiderID))
	}

	paired, err := s.mappings.GetByClientAndPlatform(ctx, clientID, platformID)
	if err != nil {
		return err
	}
	if paired != nil {
		return apierr.Conflict(apierr.CodeDuplicatePlatformRider,
			"rider is already mapped to this client")
	}
	return nil
}

// BulkItem is one entry of a bulk-create payload. Unlike the single-create
// path, PlatformRiderID here is already the internal UUID; no resolution
// happens.
type BulkItem struct {
	ClientID        string                `json:"clientId"`
	PlatformRiderID model.PlatformRiderID `json:"platformRiderId"`
	PublicRiderID   model.PublicRiderID   `json:"publicRiderId"`
	ClientRiderID   string                `json:"clientRiderId"`
}

// BulkFailure records one rejected entry.
type BulkFailure struct {
	Item  BulkItem `json:"item"`
	Error string   `json:"error"`
}

// BulkResult accumulates the partial outcome of a batch. No transaction
// wraps the batch; entries succeed or fail independently.
type BulkResult struct {
	Successful []model.ClientRiderMapping `json:"successful"`
	Failed     []BulkFailure              `json:"failed"`
}

// BulkCreate applies the per-mapping checks in a loop, accumulating
// failures instead of aborting.
func (s *Service) BulkCreate(ctx context.Context, items []BulkItem) (*BulkResult, error) {
	result := &BulkResult{
		Successful: []model.ClientRiderMapping{},
		Failed:     []BulkFailure{},
	}
	for _, item := range items {
		m, err := s.bulkCreateOne(ctx, item)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Item: item, Error: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, *m)
	}
	return result, nil
}

func (s *Service) bulkCreateOne(ctx context.Context, item BulkItem) (*model.ClientRiderMapping, error) {
	if item.ClientID == "" || item.PlatformRiderID == "" || item.ClientRiderID == "" {
		return nil, apierr.Validation("clientId, platformRiderId and clientRiderId are required")
	}
	if err := s.checkDuplicates(ctx, item.ClientID, item.ClientRiderID, item.PlatformRiderID); err != nil {
		return nil, err
	}
	exists, err := s.clients.Exists(ctx, item.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound(apierr.CodeClientNotFound,
			fmt.Sprintf("client %s not found", item.ClientID))
	}

	now := s.now()
	m := model.ClientRiderMapping{
		ID:                 uuid.NewString(),
		ClientID:           item.ClientID,
		PlatformRiderID:    item.PlatformRiderID,
		PublicRiderID:      item.PublicRiderID,
		ClientRiderID:      item.ClientRiderID,
		IsActive:           true,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.mappings.Insert(ctx, m); err != nil {
		if apierr.IsUniqueViolation(err) {
			return nil, apierr.Conflict(apierr.CodeDuplicateClientRider,
				fmt.Sprintf("clientRiderId %s is already in use", item.ClientRiderID))
		}
		return nil, err
	}
	return &m, nil
}

// GetByID returns one mapping or MAPPING_NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id string) (*model.ClientRiderMapping, error) {
	m, err := s.mappings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apierr.NotFound(apierr.CodeMappingNotFound, "mapping not found")
	}
	return m, nil
}

// Resolve looks up a mapping by the client's own rider label.
func (s *Service) Resolve(ctx context.Context, clientID, clientRiderID string) (*model.ClientRiderMapping, error) {
	m, err := s.mappings.GetByClientAndLabel(ctx, clientID, clientRiderID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apierr.NotFound(apierr.CodeMappingNotFound, "mapping not found")
	}
	return m, nil
}

// ListByClient returns all mappings owned by a client.
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]model.ClientRiderMapping, error) {
	return s.mappings.ListByClient(ctx, clientID)
}

// ListByPlatformRider returns all client assignments of one rider.
func (s *Service) ListByPlatformRider(ctx context.Context, platformID model.PlatformRiderID) ([]model.ClientRiderMapping, error) {
	return s.mappings.ListByPlatformRider(ctx, platformID)
}

// UpdateInput carries a relabel request.
type UpdateInput struct {
	ClientRiderID string  `json:"clientRiderId"`
	Notes         *string `json:"notes,omitempty"`
}

// Update relabels a mapping, re-checking global label uniqueness.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.ClientRiderMapping, error) {
	if in.ClientRiderID == "" {
		return nil, apierr.Validation("clientRiderId is required")
	}
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ClientRiderID != in.ClientRiderID {
		existing, err := s.mappings.GetByClientRiderID(ctx, in.ClientRiderID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apierr.Conflict(apierr.CodeDuplicateClientRider,
				fmt.Sprintf("clientRiderId %s is already in use", in.ClientRiderID))
		}
	}
	if err := s.mappings.UpdateLabel(ctx, id, in.ClientRiderID, in.Notes, s.now()); err != nil {
		if apierr.IsUniqueViolation(err) {
			return nil, apierr.Conflict(apierr.CodeDuplicateClientRider,
				fmt.Sprintf("clientRiderId %s is already in use", in.ClientRiderID))
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Verify records a verification decision.
func (s *Service) Verify(ctx context.Context, id, status, verifiedBy string) (*model.ClientRiderMapping, error) {
	switch status {
	case model.VerificationVerified, model.VerificationRejected:
	default:
		return nil, apierr.Validation("status must be verified or rejected")
	}
	if verifiedBy == "" {
		return nil, apierr.Validation("verifiedBy is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.mappings.Verify(ctx, id, status, verifiedBy, s.now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Deactivate marks a mapping inactive; rows are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id, reason string) (*model.ClientRiderMapping, error) {
	if reason == "" {
		return nil, apierr.Validation("reason is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.mappings.Deactivate(ctx, id, reason, s.now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
