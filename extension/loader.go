package extension

import (
	"fmt"
	"path"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxNameLen is the longest requested module name accepted by Load.
const MaxNameLen = 239

// Loader opens extension modules and appends them to a Registry.
type Loader struct {
	opener Opener
	suffix string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithOpener replaces the dynamic loader, mostly for tests.
func WithOpener(o Opener) LoaderOption {
	return func(l *Loader) {
		if o != nil {
			l.opener = o
		}
	}
}

// WithSuffix overrides the shared library suffix appended to requested names.
func WithSuffix(s string) LoaderOption {
	return func(l *Loader) {
		l.suffix = s
	}
}

// NewLoader creates a Loader backed by the platform dynamic loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		opener: DynamicOpener{},
		suffix: LibrarySuffix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BaseName returns the final path component of requested after checking it
// only holds ASCII letters, digits and underscores.
func BaseName(requested string) (string, error) {
	if requested == "" {
		return "", fmt.Errorf("%w: empty name", ErrRejected)
	}
	if len(requested) > MaxNameLen {
		return "", fmt.Errorf("%w: name is %d bytes long, limit is %d", ErrRejected, len(requested), MaxNameLen)
	}
	base := path.Base(requested)
	for i := 0; i < len(base); i++ {
		c := base[i]
		if !(c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return "", fmt.Errorf("%w: base name %q has invalid character %q", ErrRejected, base, c)
		}
	}
	return base, nil
}

// StartSymbol returns the initialization symbol of the module named base.
func StartSymbol(base string) string {
	return "fltkrps_" + base + "_start"
}

// Load opens the module requested, runs its start function and appends it to reg.
// On any failure the library is closed again and reg is left untouched.
// Loading the same module twice yields two records.
func (l *Loader) Load(reg *Registry, requested string) (Record, error) {
	base, err := BaseName(requested)
	if err != nil {
		log.Error().Str("extension", requested).Err(err).Msg("refusing to load extension")
		return Record{}, err
	}

	libPath := requested + l.suffix
	lib, err := l.opener.Open(libPath)
	if err != nil {
		log.Error().Str("extension", base).Str("library", libPath).Err(err).Msg("failed to open extension library")
		return Record{}, fmt.Errorf("%w %s: %w", ErrOpen, libPath, err)
	}

	symbol := StartSymbol(base)
	start, err := lib.StartFunc(symbol)
	if err != nil {
		log.Error().Str("extension", base).Str("library", libPath).Str("symbol", symbol).Err(err).Msg("failed to resolve start symbol")
		closeQuietly(lib)
		return Record{}, fmt.Errorf("%w: %s in %s: %w", ErrSymbolNotFound, symbol, libPath, err)
	}

	var ext Extension = &module{name: base, start: start}
	startTime := time.Now()
	if !ext.Start() {
		log.Error().Str("extension", ext.Name()).Str("symbol", symbol).Dur("duration", time.Since(startTime)).Msg("extension declined to start")
		closeQuietly(lib)
		return Record{}, fmt.Errorf("%w: %s in %s", ErrDeclined, symbol, libPath)
	}

	rec, err := reg.append(requested, ext, lib)
	if err != nil {
		closeQuietly(lib)
		return Record{}, err
	}
	log.Info().
		Str("extension", base).
		Str("library", libPath).
		Int("rank", rec.Rank).
		Dur("duration", time.Since(startTime)).
		Msg("extension loaded")
	return rec, nil
}

func closeQuietly(lib Library) {
	if err := lib.Close(); err != nil {
		log.Warn().Str("library", lib.Path()).Err(err).Msg("failed to close extension library")
	}
}
