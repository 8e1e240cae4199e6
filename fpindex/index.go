// Package fpindex indexes strings by their RefPerSys fingerprint and
// reports strings that share one.
package fpindex

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/refpersys/rpsfront/rpshash"
)

// ErrEmpty is returned when asked to index an empty string.
var ErrEmpty = errors.New("fpindex: empty string")

// Entry is the outcome of adding one string to the index.
type Entry struct {
	Text        string
	Fingerprint rpshash.Fingerprint
	Collision   bool   // Prior is a different string with the same fingerprint
	Prior       string // text first recorded under the fingerprint, if any
}

// Index hashes strings and records them in a Store.
type Index struct {
	store Store
}

// New creates an Index over store; a nil store means an in-memory one.
func New(store Store) *Index {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Index{store: store}
}

// Add fingerprints text and records it.
func (ix *Index) Add(ctx context.Context, text string) (Entry, error) {
	fp := rpshash.SumString(text)
	if !fp.Valid() {
		if text == "" {
			return Entry{}, ErrEmpty
		}
		return Entry{}, rpshash.ErrInvalidUTF8
	}

	prior, collided, err := ix.store.Record(ctx, fp, text)
	if err != nil {
		return Entry{}, err
	}
	if collided {
		log.Warn().Str("fingerprint", fp.String()).Str("text", text).Str("prior", prior).Msg("fingerprint collision")
	}
	return Entry{Text: text, Fingerprint: fp, Collision: collided, Prior: prior}, nil
}
