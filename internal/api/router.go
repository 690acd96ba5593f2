package api

import (
	"github.com/dnazarov/clientstore-api/internal/auth"
	"github.com/dnazarov/clientstore-api/internal/mapping"
	"github.com/dnazarov/clientstore-api/internal/service"
	"github.com/dnazarov/clientstore-api/internal/stats"
	syncpkg "github.com/dnazarov/clientstore-api/internal/sync"
	"github.com/gorilla/mux"
)

// RouterConfig wires the handlers and middleware configuration.
type RouterConfig struct {
	Cities         service.CityReader
	Sync           *syncpkg.Handler
	Mappings       *mapping.Service
	Stats          *stats.Collector
	JWTSecret      string
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router
func NewRouter(cfg RouterConfig) *mux.Router {
	handler := NewHandler(cfg.Cities)
	syncHandler := NewSyncHandler(cfg.Sync)
	mappingHandler := NewMappingHandler(cfg.Mappings)
	statsHandler := NewStatsHandler(cfg.Stats)

	router := mux.NewRouter()
	router.Use(CORS(cfg.AllowedOrigins))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// City read API: public, unauthenticated (dropdown/form population).
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/cities", handler.ListCities).Methods("GET")
	v1.HandleFunc("/cities/operational", handler.ListOperationalCities).Methods("GET")
	v1.HandleFunc("/cities/active", handler.ListActiveCities).Methods("GET")
	v1.HandleFunc("/cities/code/{code}", handler.GetCityByCode).Methods("GET")
	v1.HandleFunc("/cities/{id}", handler.GetCity).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	// Internal sync endpoints: unauthenticated, trusted network only.
	internal := router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/cities/events", syncHandler.ReceiveCityEvent).Methods("POST")

	// Mapping API: bearer JWT required.
	mappings := router.PathPrefix("/api/client-rider-mappings").Subrouter()
	mappings.Use(auth.Middleware(cfg.JWTSecret))
	mappings.HandleFunc("", mappingHandler.Create).Methods("POST")
	mappings.HandleFunc("/bulk", mappingHandler.BulkCreate).Methods("POST")
	mappings.HandleFunc("/resolve/{clientId}/{clientRiderId}", mappingHandler.Resolve).Methods("GET")
	mappings.HandleFunc("/rider/{platformRiderId}", mappingHandler.ListByRider).Methods("GET")
	mappings.HandleFunc("/client/{clientId}", mappingHandler.ListByClient).Methods("GET")
	mappings.HandleFunc("/{id}", mappingHandler.Get).Methods("GET")
	mappings.HandleFunc("/{id}", mappingHandler.Update).Methods("PUT")
	mappings.HandleFunc("/{id}", mappingHandler.Deactivate).Methods("DELETE")
	mappings.HandleFunc("/{id}/verify", mappingHandler.Verify).Methods("POST")

	return router
}
