// Package riderclient calls the rider service's internal endpoints. The
// endpoints are unauthenticated service-to-service calls on the trusted
// network.
package riderclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dnazarov/clientstore-api/internal/model"
)

// ErrRiderNotResolved is returned whenever a public rider ID cannot be
// resolved to an internal one. The rider service being unreachable and the
// rider genuinely not existing are indistinguishable to callers.
var ErrRiderNotResolved = errors.New("rider could not be resolved")

// Rider is the collaborator's rider payload.
type Rider struct {
	ID            model.PlatformRiderID `json:"id"`
	PublicRiderID model.PublicRiderID   `json:"publicRiderId"`
	Name          string                `json:"name"`
	Phone         string                `json:"phone"`
	Status        string                `json:"status"`
}

type riderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *Rider `json:"data"`
}

// Client talks to one rider service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a rider service client with a fixed request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ResolvePublicRiderID translates a public rider code into the internal
// UUID used as a foreign key.
func (c *Client) ResolvePublicRiderID(ctx context.Context, publicID model.PublicRiderID) (model.PlatformRiderID, error) {
	rider, err := c.get(ctx, "/internal/riders/public/"+url.PathEscape(string(publicID)))
	if err != nil {
		return "", err
	}
	return rider.ID, nil
}

// GetRiderByID fetches a rider by its internal UUID.
func (c *Client) GetRiderByID(ctx context.Context, platformID model.PlatformRiderID) (*Rider, error) {
	return c.get(ctx, "/internal/riders/"+url.PathEscape(string(platformID)))
}

func (c *Client) get(ctx context.Context, path string) (*Rider, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRiderNotResolved, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRiderNotResolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rider service returned %d", ErrRiderNotResolved, resp.StatusCode)
	}

	var body riderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRiderNotResolved, err)
	}
	if !body.Success || body.Data == nil || body.Data.ID == "" {
		return nil, ErrRiderNotResolved
	}
	return body.Data, nil
}
