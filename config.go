package tagcatalog

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir                  string   `yaml:"data_dir"`
	MaxRecent                int      `yaml:"max_recent"`
	DefaultIgnoredExtensions []string `yaml:"default_ignored_extensions"`
	LogLevel                 string   `yaml:"log_level"`
	LogFormat                string   `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:                  defaultDataDir(),
		MaxRecent:                7,
		DefaultIgnoredExtensions: []string{"tmp", "part", "crdownload"},
		LogLevel:                 "info",
		LogFormat:                string(LogFormatText),
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// NewConfiguredLogger builds the logger described by the config, writing to
// w. verbose forces debug output.
func (c *Config) NewConfiguredLogger(w io.Writer, verbose bool) (Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []LoggerOption{WithLevel(level), WithFormat(LogFormat(c.LogFormat)), WithOutput(w)}
	if verbose {
		opts = append(opts, WithDebug())
	}
	return NewLogger(opts...), nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tag-catalog")
	}
	return ".tag-catalog"
}
