package stats

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Replica   ReplicaStats  `json:"replica"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// ReplicaStats summarizes the sync state of the city replica.
type ReplicaStats struct {
	Cities            int64      `json:"cities"`
	OperationalCities int64      `json:"operational_cities"`
	MaxEventSequence  int64      `json:"max_event_sequence"`
	LastSyncAt        *time.Time `json:"last_sync_at"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var memStatsCacheDuration = 5 * time.Second

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
	}

	stats.Memory = c.collectMemoryStats()

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Database = *dbStats

	replicaStats, err := c.collectReplicaStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Replica = *replicaStats
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type: string(c.config.Type),
	}

	if totalSize, err := c.getDatabaseSize(ctx); err == nil {
		stats.SizeBytes = totalSize
	}

	tables := []string{"cities", "clients", "client_rider_mappings"}
	for _, table := range tables {
		countQuery := "SELECT COUNT(*) FROM " + table
		var count int64
		if err := c.db.GetContext(ctx, &count, countQuery); err != nil {
			continue
		}
		stats.TableStats = append(stats.TableStats, TableStat{Name: table, RowCount: count})
		stats.TotalRecords += count
	}

	return stats, nil
}

func (c *Collector) collectReplicaStats(ctx context.Context) (*ReplicaStats, error) {
	stats := &ReplicaStats{}

	if err := c.db.GetContext(ctx, &stats.Cities, "SELECT COUNT(*) FROM cities"); err != nil {
		return nil, err
	}
	q := "SELECT COUNT(*) FROM cities WHERE is_operational"
	if c.config.Type != config.DBTypePostgreSQL {
		q = "SELECT COUNT(*) FROM cities WHERE is_operational = 1"
	}
	if err := c.db.GetContext(ctx, &stats.OperationalCities, q); err != nil {
		return nil, err
	}
	if err := c.db.GetContext(ctx, &stats.MaxEventSequence,
		"SELECT COALESCE(MAX(event_sequence), 0) FROM cities"); err != nil {
		return nil, err
	}

	var lastSync *time.Time
	if err := c.db.GetContext(ctx, &lastSync,
		"SELECT MAX(last_sync_at) FROM cities"); err == nil {
		stats.LastSyncAt = lastSync
	}

	return stats, nil
}

func (c *Collector) getDatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	var err error

	if c.config.Type == config.DBTypePostgreSQL {
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	} else {
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}

	if err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
