package classification

import (
	"path/filepath"
	"strings"
)

// DescribeAttachments flattens heterogeneous attachment objects into a
// lower-cased descriptor set: mime types, kinds, roles, `ext:` filename
// extensions, and `tool:` names. Attachment shapes vary across clients
// (direct fields, nested file/metadata objects, tools arrays); anything
// malformed is skipped, never an error.
func DescribeAttachments(items []interface{}) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		describeInto(set, m, 0)
	}
	return set
}

// maxAttachmentDepth bounds recursion into nested file/metadata objects.
const maxAttachmentDepth = 3

var descriptorKeys = []string{"type", "mimetype", "mime_type", "mimeType", "kind", "role"}

var filenameKeys = []string{"filename", "file_name", "fileName", "name"}

func describeInto(set map[string]struct{}, m map[string]interface{}, depth int) {
	if depth > maxAttachmentDepth {
		return
	}

	for _, key := range descriptorKeys {
		if s, ok := m[key].(string); ok {
			add(set, s)
		}
	}

	for _, key := range filenameKeys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		if ext := strings.TrimPrefix(filepath.Ext(s), "."); ext != "" {
			add(set, "ext:"+ext)
		}
	}

	for _, key := range []string{"file", "metadata"} {
		if nested, ok := m[key].(map[string]interface{}); ok {
			describeInto(set, nested, depth+1)
		}
	}

	if tools, ok := m["tools"].([]interface{}); ok {
		for _, tool := range tools {
			switch t := tool.(type) {
			case string:
				add(set, "tool:"+t)
			case map[string]interface{}:
				if name, ok := t["name"].(string); ok {
					add(set, "tool:"+name)
				} else if typ, ok := t["type"].(string); ok {
					add(set, "tool:"+typ)
				}
			}
		}
	}
}

func add(set map[string]struct{}, v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v != "" {
		set[v] = struct{}{}
	}
}
