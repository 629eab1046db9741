package verification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// fields is a JSON object split into raw members.
type fields map[string]json.RawMessage

func splitObject(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("expected a JSON object, got %s", bytes.TrimSpace(data))
	}
	return f, nil
}

// has reports whether key is present with a non-null value.
func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && !isNull(raw)
}

// isString reports whether key holds a JSON string.
func (f fields) isString(key string) bool {
	raw, ok := f[key]
	return ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '"'
}

// isObject reports whether key holds a JSON object.
func (f fields) isObject(key string) bool {
	raw, ok := f[key]
	return ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{'
}

func requireKeys(data []byte, keys ...string) error {
	f, err := splitObject(data)
	if err != nil {
		return err
	}
	var missing []string
	for _, k := range keys {
		if !f.has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// candidate is one arm of an untagged union.
type candidate[T any] struct {
	name     string
	conforms func(fields) bool
	decode   func([]byte) (T, error)
}

// decodeFirst tries candidates in order. A candidate is attempted only when its
// conformance check passes; a decode failure falls through to the next one.
func decodeFirst[T any](target string, data []byte, candidates []candidate[T]) (T, error) {
	var zero T
	f, err := splitObject(data)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", target, err)
	}
	var attempts []error
	for _, c := range candidates {
		if !c.conforms(f) {
			continue
		}
		v, err := c.decode(data)
		if err == nil {
			return v, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", c.name, err))
	}
	return zero, &ShapeError{Target: target, Attempts: attempts}
}

// conformsTo builds a key-presence check for a shape. Keys for facets the shape does
// not carry may still be present; extra lists keys every arm requires.
func conformsTo(k Kind, extra ...string) func(fields) bool {
	want := k.facets()
	return func(f fields) bool {
		if want.email && !f.has(keyEmail) {
			return false
		}
		if want.phone && !f.has(keyPhone) {
			return false
		}
		if want.address && !f.has(keyAddress) {
			return false
		}
		for _, key := range extra {
			if _, ok := f[key]; !ok {
				return false
			}
		}
		return true
	}
}

const (
	keyEmail    = "email"
	keyPhone    = "phone"
	keyAddress  = "address"
	keyDuration = "duration"
)

func decodeAs[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
