package tasmota

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Summary returns a one-line summary of the reply
func (r *Reply) Summary() string {
	if r.Len() == 0 {
		return "(empty reply)"
	}
	parts := make([]string, 0, r.Len())
	for _, k := range r.keys {
		switch v := r.fields[k].(type) {
		case map[string]any:
			parts = append(parts, fmt.Sprintf("%s={%d fields}", k, len(v)))
		case []any:
			parts = append(parts, fmt.Sprintf("%s=[%d items]", k, len(v)))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}

// FormatReply renders a reply as an indented tree. Top-level keys keep
// document order; nested objects are sorted by key.
func FormatReply(r *Reply) string {
	var b strings.Builder
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		writeValue(&b, 0, k, v)
	}
	return b.String()
}

func writeValue(b *strings.Builder, depth int, key string, v any) {
	indent := strings.Repeat("  ", depth)

	switch val := v.(type) {
	case map[string]any:
		b.WriteString(fmt.Sprintf("%s%s:\n", indent, key))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeValue(b, depth+1, k, val[k])
		}
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, scalar(item))
		}
		b.WriteString(fmt.Sprintf("%s%s: [%s]\n", indent, key, strings.Join(items, ", ")))
	default:
		b.WriteString(fmt.Sprintf("%s%s: %s\n", indent, key, scalar(val)))
	}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case map[string]any, []any:
		data, err := marshalNoEscape(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatJSON renders a reply as indented JSON, keeping the device's key order
func FormatJSON(r *Reply) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw(), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
