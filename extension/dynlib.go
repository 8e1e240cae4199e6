//go:build darwin || freebsd || linux

package extension

import (
	"sync"

	"github.com/ebitengine/purego"
)

// DynamicOpener opens shared libraries through the platform dynamic loader
// with RTLD_NOW|RTLD_GLOBAL, so undefined symbols fail at open time and the
// library's symbols become visible to modules loaded later.
type DynamicOpener struct{}

// Open implements Opener.
func (DynamicOpener) Open(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return &dynamicLibrary{path: path, handle: handle}, nil
}

type dynamicLibrary struct {
	path   string
	handle uintptr

	closeOnce sync.Once
	closeErr  error
}

func (d *dynamicLibrary) Path() string { return d.path }

func (d *dynamicLibrary) StartFunc(symbol string) (func() bool, error) {
	sym, err := purego.Dlsym(d.handle, symbol)
	if err != nil {
		return nil, err
	}
	var start func() bool
	purego.RegisterFunc(&start, sym)
	return start, nil
}

func (d *dynamicLibrary) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = purego.Dlclose(d.handle)
	})
	return d.closeErr
}
