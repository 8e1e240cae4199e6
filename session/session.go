// Package session holds the per-process state of the front-end: the registry
// of loaded extensions and the one-shot installation latch. A Session is
// created by the caller and passed explicitly, there is no package-level state.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refpersys/rpsfront/extension"
	"github.com/refpersys/rpsfront/install"
)

// ErrAlreadyValidated is returned when ValidateInstallation is called again.
// It signals API misuse, not a broken installation.
var ErrAlreadyValidated = errors.New("session: installation path can only be set once")

// Session is the explicit context shared by the host's startup steps.
type Session struct {
	ID       uuid.UUID
	Program  string
	Hostname string
	PID      int

	loader    *extension.Loader
	registry  *extension.Registry
	validator *install.Validator

	validateCalled atomic.Bool
	installation   atomic.Pointer[install.Report]
}

// Option configures a Session.
type Option func(*Session)

// WithLoader replaces the extension loader.
func WithLoader(l *extension.Loader) Option {
	return func(s *Session) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithValidator replaces the installation validator.
func WithValidator(v *install.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithProgram sets the program name used in diagnostics.
func WithProgram(name string) Option {
	return func(s *Session) {
		s.Program = name
	}
}

// New creates a Session for the current process.
func New(opts ...Option) *Session {
	host, err := os.Hostname()
	if err != nil {
		log.Warn().Err(err).Msg("cannot determine host name")
	}
	s := &Session{
		ID:        uuid.New(),
		Program:   filepath.Base(os.Args[0]),
		Hostname:  host,
		PID:       os.Getpid(),
		loader:    extension.NewLoader(),
		registry:  extension.NewRegistry(),
		validator: install.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	log.Debug().Str("session", s.ID.String()).Str("host", s.Hostname).Int("pid", s.PID).Msg("session created")
	return s
}

// Extensions returns the registry of extensions loaded in this session.
func (s *Session) Extensions() *extension.Registry {
	return s.registry
}

// LoadExtension loads the named module into the session registry.
func (s *Session) LoadExtension(name string) (extension.Record, error) {
	return s.loader.Load(s.registry, name)
}

// ValidateInstallation certifies dir as the RefPerSys installation of this
// session. Only the first call runs the checks; every later call fails with
// ErrAlreadyValidated whatever its argument and whatever the first outcome.
func (s *Session) ValidateInstallation(dir string) (*install.Report, error) {
	if !s.validateCalled.CompareAndSwap(false, true) {
		log.Error().Str("session", s.ID.String()).Str("path", dir).Msg("installation path set twice")
		return nil, fmt.Errorf("%w: refusing %s", ErrAlreadyValidated, dir)
	}
	report, err := s.validator.Validate(dir)
	if err != nil {
		return nil, err
	}
	s.installation.Store(report)
	return report, nil
}

// Installation returns the validated installation, if any.
func (s *Session) Installation() (*install.Report, bool) {
	r := s.installation.Load()
	return r, r != nil
}

// Close releases the loaded extensions. It must not run while extension
// code may still execute.
func (s *Session) Close() error {
	return s.registry.Close()
}
