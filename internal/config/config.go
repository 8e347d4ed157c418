package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ghostbust-dev/ghostbust/internal/trace"
)

const (
	// ConfigFile is the optional per-project configuration file,
	// looked up in the working directory.
	ConfigFile = ".ghostbust.yaml"

	// DirEnv overrides the storage base directory when set.
	DirEnv = "GHOSTBUST_DIR"

	// DefaultDirName is the storage directory created next to the code
	// being analyzed when nothing else is configured.
	DefaultDirName = ".ghostbust"

	// DefaultInterpreter runs profiled scripts.
	DefaultInterpreter = "python3"
)

// Config holds the resolved tool configuration. Dir is always set by
// the time a Config leaves Load; everything below the CLI receives it
// as an explicit value and never consults the environment.
type Config struct {
	Dir         string `yaml:"dir"`
	Interpreter string `yaml:"python"`
	Stats       Stats  `yaml:"stats"`
}

// Stats holds the defaults for the stats listing.
type Stats struct {
	SortBy   string `yaml:"sort"`
	NumLines int    `yaml:"lines"`
}

// Default returns the configuration used when no file and no
// environment override are present.
func Default(workDir string) Config {
	return Config{
		Dir:         filepath.Join(workDir, DefaultDirName),
		Interpreter: DefaultInterpreter,
		Stats: Stats{
			SortBy:   string(trace.DefaultSortKey),
			NumLines: trace.DefaultStatsLines,
		},
	}
}

// Load resolves the effective configuration for a working directory:
// defaults, overlaid by .ghostbust.yaml when present, with the
// GHOSTBUST_DIR environment variable taking precedence for the storage
// directory. A missing config file is not an error; a malformed one is.
func Load(workDir string) (Config, error) {
	cfg := Default(workDir)

	data, err := os.ReadFile(filepath.Join(workDir, ConfigFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	} else {
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
		}
		cfg = merge(cfg, file, workDir)
	}

	if dir := os.Getenv(DirEnv); dir != "" {
		cfg.Dir = dir
	}

	if _, err := trace.ParseSortKey(cfg.Stats.SortBy); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if cfg.Stats.NumLines < 0 {
		return Config{}, fmt.Errorf("invalid %s: stats lines must not be negative", ConfigFile)
	}

	return cfg, nil
}

func merge(base, file Config, workDir string) Config {
	if file.Dir != "" {
		base.Dir = file.Dir
		if !filepath.IsAbs(base.Dir) {
			base.Dir = filepath.Join(workDir, base.Dir)
		}
	}
	if file.Interpreter != "" {
		base.Interpreter = file.Interpreter
	}
	if file.Stats.SortBy != "" {
		base.Stats.SortBy = file.Stats.SortBy
	}
	if file.Stats.NumLines != 0 {
		base.Stats.NumLines = file.Stats.NumLines
	}
	return base
}
