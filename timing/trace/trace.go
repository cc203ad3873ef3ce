// Package trace records per-cycle architectural state snapshots and writes
// them out as JSON for offline inspection.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ucsim/timing/pipeline"
)

// Recorder collects architectural state snapshots, one per cycle.
type Recorder struct {
	config  *Config
	entries []pipeline.ArchState
}

// NewRecorder creates a Recorder with the given configuration. A nil
// config uses the defaults.
func NewRecorder(config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Recorder{config: config}
}

// Record appends a snapshot, respecting the configured sampling interval
// and entry limit.
func (r *Recorder) Record(state pipeline.ArchState) {
	if r.config.MaxEntries > 0 && len(r.entries) >= r.config.MaxEntries {
		return
	}
	if r.config.SampleInterval > 1 && state.Cycle%r.config.SampleInterval != 0 {
		return
	}
	r.entries = append(r.entries, state)
}

// Entries returns the recorded snapshots.
func (r *Recorder) Entries() []pipeline.ArchState {
	return r.entries
}

// Len returns the number of recorded snapshots.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Reset discards all recorded snapshots.
func (r *Recorder) Reset() {
	r.entries = nil
}

// WriteTo writes the recorded trace as indented JSON.
func (r *Recorder) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.entries); err != nil {
		return fmt.Errorf("failed to serialize trace: %w", err)
	}
	return nil
}

// Save writes the recorded trace to a JSON file.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer f.Close()

	if err := r.WriteTo(f); err != nil {
		return err
	}
	return nil
}

// Load reads a previously saved trace from a JSON file.
func Load(path string) ([]pipeline.ArchState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	var entries []pipeline.ArchState
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse trace file: %w", err)
	}
	return entries, nil
}
