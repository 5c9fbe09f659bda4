package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

// The bundled default pattern document. This is the wholesale fallback for
// any load or validation failure, so it must itself always compile.
//
//go:embed default_patterns.json
var defaultPatternsJSON []byte

var (
	defaultOnce sync.Once
	defaultCfg  *Config
)

// defaultDocument returns a fresh copy of the bundled default wire document.
// Callers may mutate the copy freely.
func defaultDocument() *RouterConfig {
	var rc RouterConfig
	if err := json.Unmarshal(defaultPatternsJSON, &rc); err != nil {
		panic(fmt.Sprintf("bundled default pattern config is not valid JSON: %v", err))
	}
	return &rc
}

// Default returns the compiled bundled default configuration.
func Default() *Config {
	defaultOnce.Do(func() {
		cfg, err := Compile(defaultDocument())
		if err != nil {
			panic(fmt.Sprintf("bundled default pattern config failed to compile: %v", err))
		}
		defaultCfg = cfg
	})
	return defaultCfg
}
