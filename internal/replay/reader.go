// Package replay reads exported city-event logs (newline-delimited JSON)
// for replica backfill and bootstrap.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dnazarov/clientstore-api/internal/model"
)

const defaultBatchSize = 500

// Reader streams CityEvents out of an NDJSON file.
type Reader struct {
	path      string
	batchSize int
}

// NewReader creates a reader for the given event log file.
func NewReader(path string, batchSize int) *Reader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Reader{path: path, batchSize: batchSize}
}

// Process streams the file in batches through the callback. A malformed
// line aborts with its line number; partial batches already handed to the
// callback stay applied.
func (r *Reader) Process(onBatch func(batch []model.CityEvent) error) (int, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	return r.process(file, onBatch)
}

func (r *Reader) process(src io.Reader, onBatch func(batch []model.CityEvent) error) (int, error) {
	scanner := bufio.NewScanner(src)
	// Event snapshots can be large; raise the line limit well beyond the
	// bufio default.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	batch := make([]model.CityEvent, 0, r.batchSize)
	total := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event model.CityEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return total, fmt.Errorf("malformed event at line %d: %w", lineNo, err)
		}
		batch = append(batch, event)

		if len(batch) >= r.batchSize {
			if err := onBatch(batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("failed to scan event log: %w", err)
	}

	if len(batch) > 0 {
		if err := onBatch(batch); err != nil {
			return total, err
		}
		total += len(batch)
	}

	return total, nil
}
