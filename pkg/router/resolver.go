package router

import (
	"fmt"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/logging"
)

// ModelSpec is a named, preconfigured model/preset bundle from the external
// spec catalog. The router only ever reads it.
type ModelSpec struct {
	Name   string                 `json:"name"`
	Preset map[string]interface{} `json:"preset"`
}

// SpecCatalog is the external read-only catalog of currently available specs.
type SpecCatalog interface {
	Specs() []ModelSpec
}

// StaticCatalog is a fixed in-memory SpecCatalog.
type StaticCatalog []ModelSpec

func (c StaticCatalog) Specs() []ModelSpec { return c }

// intentSpecs maps every routable intent to its spec name. The table is
// fixed at compile time and deliberately not user-configurable.
var intentSpecs = map[string]string{
	"chat":           "chat-default",
	"coding":         "coder",
	"research":       "researcher",
	"strategy":       "strategist",
	"deep_reasoning": "deep-reasoner",
	"quick":          "quick-responder",
	"support":        "companion",
	"writing":        "writer",
}

// SpecNameForIntent returns the configured spec name for an intent, falling
// back to the default intent's spec for unknown intents.
func SpecNameForIntent(intent, defaultIntent string) string {
	if name, ok := intentSpecs[intent]; ok {
		return name
	}
	return intentSpecs[defaultIntent]
}

// resolveSpec maps the gauge's final intent to an available spec. A missing
// spec recovers by falling back to the default intent's spec; when even that
// is unavailable, routing for this request is aborted and the caller keeps
// its unmodified request.
func resolveSpec(intent, defaultIntent string, catalog SpecCatalog) (*ModelSpec, error) {
	available := catalog.Specs()
	byName := make(map[string]*ModelSpec, len(available))
	for i := range available {
		byName[available[i].Name] = &available[i]
	}

	wanted := SpecNameForIntent(intent, defaultIntent)
	if spec, ok := byName[wanted]; ok {
		return spec, nil
	}

	fallback := SpecNameForIntent(defaultIntent, defaultIntent)
	if spec, ok := byName[fallback]; ok {
		logging.Warnf("spec %q for intent %q not in catalog, falling back to %q", wanted, intent, fallback)
		return spec, nil
	}

	return nil, fmt.Errorf("spec %q unavailable and default spec %q missing from catalog", wanted, fallback)
}
