package runner

import (
	"fmt"
	"strings"

	"github.com/jacoelho/pathwatch/observable"
)

// buildRecord turns a decoded YAML mapping into a record graph.
func buildRecord(m map[string]any) *observable.Record {
	values := make(map[string]any, len(m))
	for k, v := range m {
		values[k] = graphValue(v)
	}
	return observable.NewRecord(values)
}

// graphValue converts mappings to records and sequences to lists; scalars
// pass through.
func graphValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return buildRecord(t)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = graphValue(item)
		}
		return observable.NewList(items...)
	default:
		return v
	}
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case *observable.Record:
		if t == nil {
			return "null"
		}
		return "{" + strings.Join(t.Keys(), ", ") + "}"
	case *observable.List[any]:
		if t == nil {
			return "null"
		}
		parts := make([]string, 0, t.Count())
		for _, item := range t.Items() {
			parts = append(parts, describe(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
