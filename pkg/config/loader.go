package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/logging"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/metrics"
)

// EnvPatternsPath overrides the pattern config file location when set.
const EnvPatternsPath = "INTENT_ROUTER_PATTERNS"

// DefaultPatternsPath is used when no path is given and no env override is set.
const DefaultPatternsPath = "config/intent_patterns.json"

var (
	loaderMu sync.RWMutex
	loaded   *Config
)

// Load resolves, parses, and caches the pattern configuration. The result is
// cached process-wide: subsequent calls return the cached Config regardless
// of path. Any failure (missing file, bad syntax, validation error) falls
// back wholesale to the bundled default with a warning: a broken override
// must never produce a partially valid config, and must never take the
// router down.
func Load(path string) *Config {
	loaderMu.RLock()
	if loaded != nil {
		c := loaded
		loaderMu.RUnlock()
		return c
	}
	loaderMu.RUnlock()

	loaderMu.Lock()
	defer loaderMu.Unlock()
	if loaded != nil {
		return loaded
	}

	resolved := resolvePath(path)
	cfg, err := ParseFile(resolved)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && path == "" && os.Getenv(EnvPatternsPath) == "":
		// No override authored at all: the bundled default is the expected
		// configuration, not a degraded state.
		logging.Infof("no pattern config at %q, using bundled default", resolved)
		cfg = Default()
	default:
		logging.Warnf("pattern config %q rejected, falling back to bundled default: %v", resolved, err)
		metrics.RecordConfigFallback()
		cfg = Default()
	}
	if err == nil {
		logging.Infof("pattern config loaded: path=%s groups=%d", resolved, len(cfg.Groups))
	}
	loaded = cfg
	return loaded
}

// Get returns the cached configuration, or the bundled default if nothing
// has been loaded yet.
func Get() *Config {
	loaderMu.RLock()
	defer loaderMu.RUnlock()
	if loaded != nil {
		return loaded
	}
	return Default()
}

// Reset clears the process-wide config cache. Intended for tests.
func Reset() {
	loaderMu.Lock()
	loaded = nil
	loaderMu.Unlock()
}

// ParseFile reads and compiles a config file, choosing the codec by
// extension: .yaml/.yml are parsed as YAML, everything else as JSON.
func ParseFile(path string) (*Config, error) {
	// Resolve symlinks so Kubernetes ConfigMap mounts read the real file.
	resolved, _ := filepath.EvalSymlinks(path)
	if resolved == "" {
		resolved = path
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	default:
		return Parse(data, FormatJSON)
	}
}

// Format selects the wire codec for Parse.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Parse decodes and compiles a config document without touching the
// process-wide cache.
func Parse(data []byte, format Format) (*Config, error) {
	var rc RouterConfig
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &rc)
	default:
		err = json.Unmarshal(data, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode pattern config: %w", err)
	}
	return Compile(&rc)
}

func resolvePath(path string) string {
	if env := os.Getenv(EnvPatternsPath); env != "" {
		return env
	}
	if path != "" {
		return path
	}
	return DefaultPatternsPath
}
