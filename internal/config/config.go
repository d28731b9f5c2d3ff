package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrMissingLibrary is returned when the library name or version is unset.
var ErrMissingLibrary = errors.New("library name and version are required")

type LibraryConfig struct {
	Name              string `mapstructure:"name"`
	Version           string `mapstructure:"version"`
	BaseURL           string `mapstructure:"base_url"`
	JavadocURLPattern string `mapstructure:"javadoc_url_pattern"`
	ProjectURL        string `mapstructure:"project_url"`
}

type OutputConfig struct {
	Path             string   `mapstructure:"path"`
	PrettyPrint      bool     `mapstructure:"pretty_print"`
	CompressionLevel int      `mapstructure:"compression_level"`
	Exclude          []string `mapstructure:"exclude"`
}

type Config struct {
	Library  LibraryConfig `mapstructure:"library"`
	Output   OutputConfig  `mapstructure:"output"`
	LogLevel string        `mapstructure:"log_level"`
}

// configBase returns the directory searched for oakdoc.toml besides ".".
// Checks XDG_CONFIG_HOME, then ~/.config.
func configBase() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "oakdoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "oakdoc")
	}
	return ""
}

// New returns a viper instance with oakdoc's search paths, defaults and
// environment bindings. Flags can be bound onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("oakdoc")
	v.SetConfigType("toml")

	v.AddConfigPath(".")
	if dir := configBase(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetDefault("output.pretty_print", false)
	v.SetDefault("output.compression_level", 6)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("OAKDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{
		"library.name", "library.version", "library.base_url",
		"library.javadoc_url_pattern", "library.project_url",
		"output.path", "output.exclude",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// stringToSliceHookFunc lets output.exclude be given as one comma separated
// string, which is what environment variables provide.
func stringToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return []string{}, nil
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

// Load reads the config file (if any) and decodes every source into a
// Config. The result is validated.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToSliceHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings a generation run cannot do without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Library.Name) == "" || strings.TrimSpace(c.Library.Version) == "" {
		return ErrMissingLibrary
	}
	if c.Output.CompressionLevel < -2 || c.Output.CompressionLevel > 9 {
		return fmt.Errorf("compression level %d out of range [-2, 9]", c.Output.CompressionLevel)
	}
	for _, pattern := range c.Output.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// DefaultFilename is the archive name used when no output file is given.
func (c *Config) DefaultFilename() string {
	return c.Library.Name + "-" + c.Library.Version + ".zip"
}

// OutputPath resolves where the archive goes: the configured file, the
// default file name inside the configured directory, or the default file
// name in the working directory.
func (c *Config) OutputPath() string {
	path := c.Output.Path
	if path == "" {
		return c.DefaultFilename()
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, c.DefaultFilename())
	}
	return path
}
