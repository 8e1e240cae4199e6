//go:build !(darwin || freebsd || linux)

package extension

// DynamicOpener reports ErrUnsupported on platforms without a dlopen-style loader.
type DynamicOpener struct{}

// Open implements Opener.
func (DynamicOpener) Open(path string) (Library, error) {
	return nil, ErrUnsupported
}
