// Package config loads optional defaults for srt2vtt from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fmueller/srt2vtt/internal/convert"
	"github.com/fmueller/srt2vtt/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// Config mirrors the command-line flags that can be given defaults.
type Config struct {
	Offset     string `toml:"offset"`
	NoProgress bool   `toml:"no_progress"`
	Verbose    bool   `toml:"verbose"`
	JSONLogs   bool   `toml:"json_logs"`
	Summary    bool   `toml:"summary"`
}

func Default() Config {
	return Config{
		Offset:  "0",
		Summary: true,
	}
}

// Load reads the config at path, or the default location when path is
// empty. It returns the resolved path and whether a file was found. Only an
// explicitly requested file is required to exist.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolved, err := platform.ResolveConfigPath(path)
	if err != nil {
		if path == "" {
			return cfg, "", false, nil
		}
		return Config{}, "", false, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == "" {
			return cfg, resolved, false, nil
		}
		return Config{}, resolved, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, resolved, true, fmt.Errorf("parse config %s: %s", resolved, strict.String())
		}
		return Config{}, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, resolved, true, fmt.Errorf("config %s: %w", resolved, err)
	}
	return cfg, resolved, true, nil
}

func (c Config) Validate() error {
	if _, err := convert.ParseOffset(c.Offset); err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	return nil
}
