// Package config loads the front-end settings from defaults, an optional
// rpsfront.yaml file, RPSFRONT_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the configuration file name without extension.
	FileName = "rpsfront"
	// EnvPrefix prefixes the environment variables read by LoadConfig.
	EnvPrefix = "rpsfront"

	DefaultTitle     = "GUI-Fltk RefPerSys"
	DefaultDimension = "444x333"
	DefaultScale     = 1.0
)

// Settings is the effective configuration of one rpsfront run.
type Settings struct {
	Title     string        `mapstructure:"title" yaml:"title"`
	Dimension string        `mapstructure:"dimension" yaml:"dimension"`
	Scale     float64       `mapstructure:"scale" yaml:"scale"`
	RefPerSys string        `mapstructure:"refpersys" yaml:"refpersys,omitempty"`
	Plugins   []string      `mapstructure:"plugins" yaml:"plugins,omitempty"`
	Debug     bool          `mapstructure:"debug" yaml:"debug"`
	Index     IndexSettings `mapstructure:"index" yaml:"index"`
}

// IndexSettings configures the fingerprint index used by the hash command.
type IndexSettings struct {
	// RedisAddr selects a shared Redis index; empty means in-memory.
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr,omitempty"`
}

// Defaults returns the built-in default values keyed by viper key.
func Defaults() map[string]any {
	return map[string]any{
		"title":            DefaultTitle,
		"dimension":        DefaultDimension,
		"scale":            DefaultScale,
		"refpersys":        "",
		"plugins":          []string{},
		"debug":            false,
		"index.redis_addr": "",
	}
}

// flagKeys maps viper keys to the flag names that override them.
var flagKeys = map[string]string{
	"title":            "title",
	"dimension":        "dimension",
	"scale":            "scale",
	"refpersys":        "refpersys",
	"plugins":          "plugin",
	"debug":            "debug",
	"index.redis_addr": "redis",
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "rpsfront")
		default:
			configDir = "/etc/rpsfront"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "rpsfront")
	}
	return filepath.Join(configDir, FileName+".yaml"), nil
}

// LoadConfig merges defaults, the config file, the environment and the flags
// of flags that are present. An explicit file must exist; the standard
// locations are optional. It also returns the config file used, if any.
func LoadConfig(flags *pflag.FlagSet, explicit string) (Settings, string, error) {
	var s Settings
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return s, "", fmt.Errorf("read config: %w", err)
		}
		v.SetConfigFile(explicit)
	}
	if userPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userPath))
	}
	if systemPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return s, "", fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, "", fmt.Errorf("decode config: %w", err)
	}
	return s, v.ConfigFileUsed(), nil
}

// WriteConfigFile stores s as YAML in the user or system location and
// returns the path written.
func WriteConfigFile(s *Settings, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(s, path)
}

// WriteConfigFileTo stores s as YAML at path, creating parent directories.
func WriteConfigFileTo(s *Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	return os.WriteFile(path, data, 0o644)
}
