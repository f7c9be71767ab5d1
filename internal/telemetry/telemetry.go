// Package telemetry records one CSV row per biology tick for offline
// analysis of a run.
package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/moorebrett0/triops/internal/sim"
)

// Row is a flattened snapshot.
type Row struct {
	Tick        uint64  `csv:"tick"`
	Age         int     `csv:"age"`
	Stage       string  `csv:"stage"`
	Hunger      float64 `csv:"hunger"`
	Health      float64 `csv:"health"`
	Size        float64 `csv:"size"`
	Alive       bool    `csv:"alive"`
	Molting     bool    `csv:"molting"`
	Water       float64 `csv:"water"`
	Oxygen      float64 `csv:"oxygen"`
	Temperature float64 `csv:"temperature"`
	Eggs        int     `csv:"eggs"`
}

// RowFrom flattens a snapshot.
func RowFrom(snap sim.Snapshot) Row {
	return Row{
		Tick:        snap.Ticks,
		Age:         snap.Organism.Age,
		Stage:       snap.Organism.Stage.String(),
		Hunger:      snap.Organism.Hunger,
		Health:      snap.Organism.Health,
		Size:        snap.Organism.Size,
		Alive:       snap.Organism.Alive,
		Molting:     snap.Molting,
		Water:       snap.Environment.WaterQuality,
		Oxygen:      snap.Environment.Oxygen,
		Temperature: snap.Environment.Temperature,
		Eggs:        snap.Environment.EggsInSand,
	}
}

// Recorder appends rows to a CSV stream. A nil *Recorder records nothing.
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewRecorder writes to w. The caller keeps ownership of w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Create opens path for writing, creating parent directories. An empty path
// disables recording and returns a nil Recorder.
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	slog.Info("telemetry: recording", "path", path)
	return &Recorder{w: f, closer: f}, nil
}

// Record writes one row for snap.
func (r *Recorder) Record(snap sim.Snapshot) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []Row{RowFrom(snap)}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows++
	return nil
}

// Rows is how many rows were written.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Close closes the underlying file when the recorder opened it.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
