package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/router"
)

// demoCatalog mirrors the spec names in the intent table so the CLI works
// out of the box without a server-side preset catalog.
var demoCatalog = router.StaticCatalog{
	{Name: "chat-default", Preset: map[string]interface{}{"model": "gpt-4o-mini", "temperature": 0.7}},
	{Name: "coder", Preset: map[string]interface{}{"model": "claude-sonnet-4-20250514", "temperature": 0.2}},
	{Name: "researcher", Preset: map[string]interface{}{"model": "gpt-4o", "temperature": 0.4, "web_search": true}},
	{Name: "strategist", Preset: map[string]interface{}{"model": "o3", "temperature": 0.5}},
	{Name: "deep-reasoner", Preset: map[string]interface{}{"model": "o3", "temperature": 0.3}},
	{Name: "quick-responder", Preset: map[string]interface{}{"model": "gpt-4o-mini", "max_tokens": 512}},
	{Name: "companion", Preset: map[string]interface{}{"model": "gpt-4o", "temperature": 0.9}},
	{Name: "writer", Preset: map[string]interface{}{"model": "claude-sonnet-4-20250514", "temperature": 0.8}},
}

// loadCatalog reads a spec catalog from a JSON file, or returns the built-in
// demo catalog when no path is given.
func loadCatalog(path string) (router.SpecCatalog, error) {
	if path == "" {
		return demoCatalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec catalog: %w", err)
	}
	var specs []router.ModelSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("spec catalog is not valid JSON: %w", err)
	}
	return router.StaticCatalog(specs), nil
}
