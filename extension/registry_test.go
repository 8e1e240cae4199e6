package extension

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedLibrary records the order in which libraries are released.
type orderedLibrary struct {
	name     string
	released *[]string
	err      error
	closes   int
}

func (o *orderedLibrary) Path() string { return o.name + ".so" }

func (o *orderedLibrary) StartFunc(string) (func() bool, error) {
	return func() bool { return true }, nil
}

func (o *orderedLibrary) Close() error {
	o.closes++
	*o.released = append(*o.released, o.name)
	return o.err
}

// started returns an Extension that already accepted to start.
func started(base string) Extension {
	return &module{name: base, start: func() bool { return true }}
}

func TestRegistry_AppendAssignsDenseRanks(t *testing.T) {
	reg := NewRegistry()
	var released []string
	for i, name := range []string{"a", "b", "c"} {
		rec, err := reg.append(name, started(name), &orderedLibrary{name: name, released: &released})
		require.NoError(t, err)
		assert.Equal(t, i, rec.Rank)
		assert.Equal(t, name+".so", rec.Path)
	}
	assert.Equal(t, 3, reg.Len())

	rec, ok := reg.Find("b")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Rank)
	_, ok = reg.Find("zzz")
	assert.False(t, ok)
}

func TestRegistry_RecordsIsASnapshot(t *testing.T) {
	reg := NewRegistry()
	var released []string
	_, err := reg.append("a", started("a"), &orderedLibrary{name: "a", released: &released})
	require.NoError(t, err)

	snap := reg.Records()
	snap[0].Base = "mutated"
	rec, ok := reg.Find("a")
	require.True(t, ok)
	assert.Equal(t, "a", rec.Base)
}

func TestRegistry_CloseReleasesInReverseOrderOnce(t *testing.T) {
	reg := NewRegistry()
	var released []string
	libs := map[string]*orderedLibrary{}
	for _, name := range []string{"a", "b", "c"} {
		libs[name] = &orderedLibrary{name: name, released: &released}
		_, err := reg.append(name, started(name), libs[name])
		require.NoError(t, err)
	}

	require.NoError(t, reg.Close())
	assert.Equal(t, []string{"c", "b", "a"}, released)

	require.NoError(t, reg.Close())
	for name, lib := range libs {
		assert.Equal(t, 1, lib.closes, name)
	}

	_, err := reg.append("d", started("d"), &orderedLibrary{name: "d", released: &released})
	assert.ErrorIs(t, err, ErrRegistryClosed)
}

func TestRegistry_CloseCollectsErrors(t *testing.T) {
	reg := NewRegistry()
	var released []string
	boom := errors.New("dlclose failed")
	_, err := reg.append("a", started("a"), &orderedLibrary{name: "a", released: &released, err: boom})
	require.NoError(t, err)
	_, err = reg.append("b", started("b"), &orderedLibrary{name: "b", released: &released})
	require.NoError(t, err)

	err = reg.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "a"}, released)
}

func TestLoad_AfterCloseReleasesLibrary(t *testing.T) {
	loader, opener := newFakeLoader(map[string]map[string]func() bool{
		"demo.so": {"fltkrps_demo_start": func() bool { return true }},
	})
	reg := NewRegistry()
	require.NoError(t, reg.Close())

	_, err := loader.Load(reg, "demo")
	require.ErrorIs(t, err, ErrRegistryClosed)
	require.Len(t, opener.handed, 1)
	assert.Equal(t, 1, opener.handed[0].closed)
}
