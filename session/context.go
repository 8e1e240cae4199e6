package session

import (
	"context"

	"github.com/rs/zerolog/log"
)

// sessionKey is the private key type used for context.WithValue.
type sessionKey struct{}

// WithContext returns a copy of ctx carrying s.
// A nil ctx is replaced by context.Background().
func (s *Session) WithContext(ctx context.Context) context.Context {
	if ctx == nil {
		log.Debug().Msg("attaching session to a nil context, using background context")
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext extracts the Session stored in ctx by WithContext.
func FromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext is like FromContext but panics when ctx carries no session.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: no session in context")
	}
	return s
}
