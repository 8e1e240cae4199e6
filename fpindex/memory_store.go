package fpindex

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/refpersys/rpsfront/rpshash"
)

// memoryStore implements Store with an in-process map.
type memoryStore struct {
	mu    sync.Mutex
	texts map[string]string
}

// NewMemoryStore creates an empty in-memory fingerprint store.
func NewMemoryStore() Store {
	return &memoryStore{
		texts: make(map[string]string),
	}
}

// Record implements Store.
func (s *memoryStore) Record(_ context.Context, fp rpshash.Fingerprint, text string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(fp)
	prior, exists := s.texts[k]
	if !exists {
		s.texts[k] = text
		log.Debug().Str("key", k).Msg("fingerprint recorded")
		return "", false, nil
	}
	return prior, prior != text, nil
}
