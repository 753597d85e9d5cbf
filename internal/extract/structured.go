package extract

import (
	"encoding/json"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
)

var jsonLDScripts = xpath.MustCompile(`//script[@type='application/ld+json']`)

// StructuredData returns every JSON-LD object on the page. Top-level arrays
// are expanded and @graph members are lifted next to their container.
// Scripts that fail to decode are skipped.
func (d *Document) StructuredData() []map[string]any {
	d.schemaOnce.Do(func() {
		for _, n := range htmlquery.QuerySelectorAll(d.root(), jsonLDScripts) {
			var v any
			if err := json.Unmarshal([]byte(strings.TrimSpace(htmlquery.InnerText(n))), &v); err != nil {
				continue
			}
			d.schemas = appendSchemas(d.schemas, v)
		}
	})
	return d.schemas
}

func appendSchemas(out []map[string]any, v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			out = appendSchemas(out, item)
		}
	case map[string]any:
		graph, hasGraph := t["@graph"].([]any)
		if !hasGraph || len(Types(t)) > 0 {
			out = append(out, t)
		}
		if hasGraph {
			for _, item := range graph {
				out = appendSchemas(out, item)
			}
		}
	}
	return out
}

// Types returns the @type values of a schema object, whether @type is a
// string or a list.
func Types(schema map[string]any) []string {
	switch t := schema["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether any schema declares one of the given types.
func HasType(schemas []map[string]any, types ...string) bool {
	for _, s := range schemas {
		for _, t := range Types(s) {
			for _, want := range types {
				if t == want {
					return true
				}
			}
		}
	}
	return false
}

// SchemaBlob is the JSON encoding of all schemas, for substring probes like
// "does any schema mention openingHours".
func SchemaBlob(schemas []map[string]any) string {
	if len(schemas) == 0 {
		return ""
	}
	b, err := json.Marshal(schemas)
	if err != nil {
		return ""
	}
	return string(b)
}
