package extension

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Record describes one successfully started extension. The library handle
// stays private to the Registry that owns it.
type Record struct {
	Name      string    // name as requested, possibly directory-qualified
	Base      string    // sanitized base name, Extension.Name()
	Path      string    // shared library file that was opened
	Rank      int       // dense, 0-based load order
	Extension Extension // started capability of the module

	lib Library
}

// Registry is the append-only, ordered list of started extensions.
type Registry struct {
	mu      sync.RWMutex
	records []Record
	closed  bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// append registers ext, whose start function already returned true, and
// takes ownership of lib. It fails once the registry is closed.
func (r *Registry) append(name string, ext Extension, lib Library) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Record{}, ErrRegistryClosed
	}
	rec := Record{
		Name:      name,
		Base:      ext.Name(),
		Path:      lib.Path(),
		Rank:      len(r.records),
		Extension: ext,
		lib:       lib,
	}
	r.records = append(r.records, rec)
	return rec, nil
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns a snapshot of the registry in load order.
func (r *Registry) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Record(nil), r.records...)
}

// Find returns the first record loaded under base.
func (r *Registry) Find(base string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Base == base {
			return rec, true
		}
	}
	return Record{}, false
}

// Close releases every library handle in the *reverse* order of loading and
// refuses further loads.
// It attempts to release all handles even if some releases fail; those errors
// are collected and returned together using errors.Join.
// Handles are released once: calling Close again is a no-op returning nil.
// Only call it once no code from the extensions can run anymore.
func (r *Registry) Close() error {
	// 1. mark the registry closed and take a copy of the records, so the lock
	// is not held while the dynamic loader runs
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	records := append([]Record(nil), r.records...)
	r.mu.Unlock()

	var allErrors []error // slice to collect errors during release

	// 2. iterate in reverse load order
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if err := rec.lib.Close(); err != nil {
			log.Error().Str("extension", rec.Base).Int("rank", rec.Rank).Err(err).Msg("failed to release extension library")
			allErrors = append(allErrors, fmt.Errorf("release extension %s (rank %d): %w", rec.Base, rec.Rank, err))
			continue // keep releasing the others
		}
		log.Debug().Str("extension", rec.Base).Int("rank", rec.Rank).Msg("extension library released")
	}

	// 3. report collected errors
	if len(allErrors) > 0 {
		log.Warn().Int("error_count", len(allErrors)).Msg("extension release completed with errors")
		return errors.Join(allErrors...)
	}
	return nil
}
