// Package config loads the optional nibel.yaml or nibel.toml file of a
// module and resolves generator settings against it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

const (
	yamlFile = "nibel.yaml"
	tomlFile = "nibel.toml"

	// OutputInPackage writes generated files next to the declarations they
	// wrap. It is the only supported output mode.
	OutputInPackage = "in-package"

	defaultRuntimeImport = "github.com/go-drift/nibel/pkg/nibel"
	defaultDebounce      = 500 * time.Millisecond
)

// Config represents the optional nibel.yaml or nibel.toml configuration.
type Config struct {
	Patterns      []string    `yaml:"patterns,omitempty" toml:"patterns"`
	Output        string      `yaml:"output,omitempty" toml:"output"`
	RuntimeImport string      `yaml:"runtime_import,omitempty" toml:"runtime_import"`
	Tags          []string    `yaml:"tags,omitempty" toml:"tags"`
	Header        []string    `yaml:"header,omitempty" toml:"header"`
	Watch         WatchConfig `yaml:"watch,omitempty" toml:"watch"`
}

// WatchConfig contains settings of the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty" toml:"debounce"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	Source        string
	Patterns      []string
	RuntimeImport string
	Tags          []string
	Header        []string
	Debounce      time.Duration
}

// LoadOptional reads nibel.yaml or nibel.toml if present. The returned
// source is the file name read, empty when neither exists.
func LoadOptional(dir string) (*Config, string, error) {
	yamlData, yamlErr := readOptional(filepath.Join(dir, yamlFile))
	tomlData, tomlErr := readOptional(filepath.Join(dir, tomlFile))
	if err := errors.Join(yamlErr, tomlErr); err != nil {
		return nil, "", err
	}

	var cfg Config
	switch {
	case yamlData != nil && tomlData != nil:
		return nil, "", fmt.Errorf("both %s and %s exist; keep one", yamlFile, tomlFile)
	case yamlData != nil:
		if err := yaml.Unmarshal(yamlData, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", yamlFile, err)
		}
		return &cfg, yamlFile, nil
	case tomlData != nil:
		meta, err := toml.Decode(string(tomlData), &cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", tomlFile, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, "", fmt.Errorf("unknown key %s in %s", undecoded[0], tomlFile)
		}
		return &cfg, tomlFile, nil
	}
	return &cfg, "", nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Resolve loads the configuration file (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, source, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	output := strings.TrimSpace(cfg.Output)
	if output != "" && output != OutputInPackage {
		return nil, fmt.Errorf("unsupported output %q: only %q is supported", output, OutputInPackage)
	}

	runtimeImport := strings.TrimSpace(cfg.RuntimeImport)
	if runtimeImport == "" {
		runtimeImport = defaultRuntimeImport
	}
	if err := module.CheckImportPath(runtimeImport); err != nil {
		return nil, fmt.Errorf("invalid runtime_import: %w", err)
	}

	patterns := trimAll(cfg.Patterns)
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	debounce := defaultDebounce
	if s := strings.TrimSpace(cfg.Watch.Debounce); s != "" {
		debounce, err = time.ParseDuration(s)
		if err != nil || debounce <= 0 {
			return nil, fmt.Errorf("invalid watch.debounce %q", s)
		}
	}

	return &Resolved{
		Root:          dir,
		ModulePath:    modulePath,
		Source:        source,
		Patterns:      patterns,
		RuntimeImport: runtimeImport,
		Tags:          trimAll(cfg.Tags),
		Header:        cfg.Header,
		Debounce:      debounce,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRoot(dir)
}

func findRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
