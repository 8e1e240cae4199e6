// Package extension loads native extension modules into the host process
// and keeps the ordered registry of the ones that initialized successfully.
//
// A module requested as "dir/foo" lives in the shared library "dir/foo.so"
// and exports a nullary function `bool fltkrps_foo_start(void)`; the module
// is registered only when that function returns true.
package extension

import "errors"

// Extension is the capability a loaded module exposes: a single start call.
type Extension interface {
	// Name returns the sanitized base name of the module.
	Name() string

	// Start runs the module initialization and reports whether the module
	// accepted to be loaded.
	Start() bool
}

// Library is an opened shared library.
type Library interface {
	// Path returns the file the library was opened from.
	Path() string

	// StartFunc resolves symbol as a nullary function returning a boolean.
	StartFunc(symbol string) (func() bool, error)

	// Close releases the library. Calling it more than once is a no-op.
	Close() error
}

// Opener opens shared libraries with immediate, global symbol binding.
type Opener interface {
	Open(path string) (Library, error)
}

// Predefined errors for extension loading.
var (
	ErrRejected       = errors.New("extension: name rejected")
	ErrOpen           = errors.New("extension: cannot open library")
	ErrSymbolNotFound = errors.New("extension: start symbol not found")
	ErrDeclined       = errors.New("extension: start function declined initialization")
	ErrRegistryClosed = errors.New("extension: registry is closed")
	ErrUnsupported    = errors.New("extension: dynamic loading is not supported on this platform")
)

// module binds a resolved start function to its base name.
type module struct {
	name  string
	start func() bool
}

func (m *module) Name() string { return m.name }
func (m *module) Start() bool  { return m.start() }
