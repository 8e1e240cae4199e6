package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	return tmp
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("rpsfront", pflag.ContinueOnError)
	fs.StringP("title", "T", DefaultTitle, "")
	fs.StringP("dimension", "D", DefaultDimension, "")
	fs.Float64P("scale", "S", DefaultScale, "")
	fs.StringP("refpersys", "r", "", "")
	fs.StringArrayP("plugin", "P", nil, "")
	fs.Bool("debug", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	s, used, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultTitle, s.Title)
	assert.Equal(t, DefaultDimension, s.Dimension)
	assert.InDelta(t, DefaultScale, s.Scale, 1e-9)
	assert.Empty(t, s.RefPerSys)
	assert.Empty(t, s.Plugins)
	assert.False(t, s.Debug)
	assert.Empty(t, s.Index.RedisAddr)
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "cfg.yaml")
	content := "title: My RefPerSys\nscale: 2.5\nplugins:\n  - a/one\n  - two\nindex:\n  redis_addr: localhost:6379\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	s, used, err := LoadConfig(nil, file)
	require.NoError(t, err)
	assert.Equal(t, file, used)
	assert.Equal(t, "My RefPerSys", s.Title)
	assert.InDelta(t, 2.5, s.Scale, 1e-9)
	assert.Equal(t, []string{"a/one", "two"}, s.Plugins)
	assert.Equal(t, "localhost:6379", s.Index.RedisAddr)
	assert.Equal(t, DefaultDimension, s.Dimension)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	tmp := isolate(t)
	_, _, err := LoadConfig(nil, filepath.Join(tmp, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_UserConfigDir(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, "rpsfront")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rpsfront.yaml"), []byte("dimension: 800x600\n"), 0o600))

	s, used, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rpsfront.yaml"), used)
	assert.Equal(t, "800x600", s.Dimension)
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("RPSFRONT_TITLE", "from env")
	t.Setenv("RPSFRONT_INDEX_REDIS_ADDR", "redis:6379")

	s, _, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "from env", s.Title)
	assert.Equal(t, "redis:6379", s.Index.RedisAddr)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "cfg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("title: file\nscale: 3\n"), 0o600))
	t.Setenv("RPSFRONT_TITLE", "env")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-T", "flag", "-r", "/opt/rps", "--debug"}))

	s, _, err := LoadConfig(flags, file)
	require.NoError(t, err)
	assert.Equal(t, "flag", s.Title)
	assert.Equal(t, "/opt/rps", s.RefPerSys)
	assert.True(t, s.Debug)
	assert.InDelta(t, 3.0, s.Scale, 1e-9, "unchanged flags do not override the file")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "cfg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("title: [unclosed\n"), 0o600))

	_, _, err := LoadConfig(nil, file)
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	tmp := isolate(t)

	user, err := GetConfigPath(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "rpsfront", "rpsfront.yaml"), user)

	system, err := GetConfigPath(true)
	require.NoError(t, err)
	assert.Equal(t, "rpsfront.yaml", filepath.Base(system))
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	isolate(t)
	in := Settings{
		Title:     "written",
		Dimension: "640x480",
		Scale:     1.5,
		RefPerSys: "/opt/RefPerSys",
		Plugins:   []string{"demo"},
		Index:     IndexSettings{RedisAddr: "127.0.0.1:6379"},
	}

	path, err := WriteConfigFile(&in, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "written", raw["title"])

	out, used, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, in, out)
}
