package tasmota

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Reply is the decoded JSON object a device returns for a command.
//
// Tasmota replies have no fixed shape: each command answers under its own
// key(s). Reply keeps the top-level keys in document order because some
// checks (Status) depend on which key comes first.
type Reply struct {
	fields map[string]any
	keys   []string
	raw    []byte
}

// ParseReply decodes body as a JSON object. Numbers are kept as json.Number.
func ParseReply(body []byte) (*Reply, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	r := &Reply{
		fields: make(map[string]any),
		raw:    append([]byte(nil), bytes.TrimSpace(body)...),
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if _, seen := r.fields[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.fields[key] = value
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON object")
	}

	return r, nil
}

// NewReply builds a reply from a Go map. Key order follows keys when given,
// otherwise the order is unspecified. Intended for tests and fakes.
func NewReply(fields map[string]any, keys ...string) *Reply {
	if len(keys) == 0 {
		for k := range fields {
			keys = append(keys, k)
		}
	}
	raw, _ := marshalNoEscape(fields)
	return &Reply{fields: fields, keys: keys, raw: raw}
}

// Get returns the raw value stored under key
func (r *Reply) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Has reports whether key is present with a non-null value
func (r *Reply) Has(key string) bool {
	v, ok := r.Get(key)
	return ok && v != nil
}

// String returns the value under key if it is a JSON string
func (r *Reply) String(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value under key if it is an integral JSON number
func (r *Reply) Int(key string) (int, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i, true
		}
		// 5.0 and 5e1 are integral too
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// FirstKey returns the first top-level key in document order
func (r *Reply) FirstKey() (string, bool) {
	if r == nil || len(r.keys) == 0 {
		return "", false
	}
	return r.keys[0], true
}

// Keys returns the top-level keys in document order
func (r *Reply) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Len returns the number of top-level keys
func (r *Reply) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Map returns a copy of the top-level fields
func (r *Reply) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Raw returns the body the reply was decoded from
func (r *Reply) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// MarshalJSON returns the original body so key order survives re-encoding
func (r *Reply) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
