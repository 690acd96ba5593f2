package riderclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ResolvePublicRiderID(t *testing.T) {
	t.Run("successful resolution", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/riders/public/DEL-25-R000044", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":{"id":"uuid-123","name":"Ravi Kumar","phone":"+919999999999"}}`))
		}))
		defer srv.Close()

		client := New(srv.URL, 5*time.Second)
		id, err := client.ResolvePublicRiderID(context.Background(), "DEL-25-R000044")
		require.NoError(t, err)
		assert.Equal(t, "uuid-123", string(id))
	})

	t.Run("404 yields not resolved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := New(srv.URL, 5*time.Second)
		_, err := client.ResolvePublicRiderID(context.Background(), "DEL-25-R999999")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRiderNotResolved)
	})

	t.Run("timeout yields not resolved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := New(srv.URL, 20*time.Millisecond)
		_, err := client.ResolvePublicRiderID(context.Background(), "DEL-25-R000044")
		require.Error(t, err)
		// Unreachable and not-found are indistinguishable to callers.
		assert.ErrorIs(t, err, ErrRiderNotResolved)
	})

	t.Run("success=false yields not resolved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"rider not found"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, 5*time.Second)
		_, err := client.ResolvePublicRiderID(context.Background(), "DEL-25-R000044")
		assert.ErrorIs(t, err, ErrRiderNotResolved)
	})

	t.Run("missing data.id yields not resolved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"name":"Ravi Kumar"}}`))
		}))
		defer srv.Close()

		client := New(srv.URL, 5*time.Second)
		_, err := client.ResolvePublicRiderID(context.Background(), "DEL-25-R000044")
		assert.ErrorIs(t, err, ErrRiderNotResolved)
	})
}

func TestClient_GetRiderByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/riders/uuid-123", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"id":"uuid-123","publicRiderId":"DEL-25-R000044","name":"Ravi Kumar"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	rider, err := client.GetRiderByID(context.Background(), "uuid-123")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", rider.Name)
	assert.Equal(t, "DEL-25-R000044", string(rider.PublicRiderID))
}
