package lounge

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Timestamps on the wire are ISO-8601. The lounge API emits them with and
// without fractional seconds and, on older records, without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// decoder pulls typed fields out of one raw response mapping. The first
// missing required field or type mismatch is recorded and surfaced by
// finish; later accessors keep returning zero values so an entity decode
// reads as a flat list of field assignments.
//
// Fields the schema does not name are dropped: decoded entities carry known
// fields only, and Raw reproduces exactly those.
type decoder struct {
	entity string
	data   map[string]any
	err    *DecodeError
}

func newDecoder(entity string, data map[string]any) *decoder {
	return &decoder{entity: entity, data: data}
}

func (d *decoder) fail(field, reason string) {
	if d.err == nil {
		d.err = &DecodeError{Entity: d.entity, Field: field, Reason: reason}
	}
}

func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	return nil
}

func (d *decoder) str(field string) string {
	v, ok := d.data[field]
	if !ok || v == nil {
		d.fail(field, "required field is missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field, fmt.Sprintf("expected string, got %T", v))
		return ""
	}
	return s
}

func (d *decoder) optStr(field string) *string {
	v, ok := d.data[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field, fmt.Sprintf("expected string, got %T", v))
		return nil
	}
	return &s
}

func (d *decoder) integer(field string) int {
	v, ok := d.data[field]
	if !ok || v == nil {
		d.fail(field, "required field is missing")
		return 0
	}
	n, ok := asInt(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected integer, got %T", v))
		return 0
	}
	return n
}

func (d *decoder) optInt(field string) *int {
	v, ok := d.data[field]
	if !ok || v == nil {
		return nil
	}
	n, ok := asInt(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected integer, got %T", v))
		return nil
	}
	return &n
}

func (d *decoder) optFloat(field string) *float64 {
	v, ok := d.data[field]
	if !ok || v == nil {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected number, got %T", v))
		return nil
	}
	return &f
}

func (d *decoder) float(field string) float64 {
	v, ok := d.data[field]
	if !ok || v == nil {
		d.fail(field, "required field is missing")
		return 0
	}
	f, ok := asFloat(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected number, got %T", v))
		return 0
	}
	return f
}

func (d *decoder) boolean(field string) bool {
	v, ok := d.data[field]
	if !ok || v == nil {
		d.fail(field, "required field is missing")
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(field, fmt.Sprintf("expected bool, got %T", v))
		return false
	}
	return b
}

func (d *decoder) timestamp(field string) time.Time {
	s := d.str(field)
	if s == "" {
		return time.Time{}
	}
	t, ok := parseTimestamp(s)
	if !ok {
		d.fail(field, fmt.Sprintf("unparseable timestamp %q", s))
		return time.Time{}
	}
	return t
}

func (d *decoder) optTimestamp(field string) *time.Time {
	s := d.optStr(field)
	if s == nil || *s == "" {
		return nil
	}
	t, ok := parseTimestamp(*s)
	if !ok {
		d.fail(field, fmt.Sprintf("unparseable timestamp %q", *s))
		return nil
	}
	return &t
}

// objects returns the field as a list of raw mappings. A missing field
// yields an empty list when required is false.
func (d *decoder) objects(field string, required bool) []map[string]any {
	v, ok := d.data[field]
	if !ok || v == nil {
		if required {
			d.fail(field, "required field is missing")
		}
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		d.fail(field, fmt.Sprintf("expected list, got %T", v))
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			d.fail(field, fmt.Sprintf("element %d: expected object, got %T", i, item))
			return nil
		}
		out = append(out, m)
	}
	return out
}

// optIntList reads an optional list of integers, defaulting to empty.
func (d *decoder) optIntList(field string) []int {
	v, ok := d.data[field]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		d.fail(field, fmt.Sprintf("expected list, got %T", v))
		return nil
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		n, ok := asInt(item)
		if !ok {
			d.fail(field, fmt.Sprintf("element %d: expected integer, got %T", i, item))
			return nil
		}
		out = append(out, n)
	}
	return out
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.Trunc(n) != n {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// putOpt writes an optional field into a raw mapping only when it was
// present in the source response, keeping Raw round-trip faithful.
func putOpt[T any](m map[string]any, field string, v *T) {
	if v != nil {
		m[field] = *v
	}
}

func putOptTime(m map[string]any, field string, t *time.Time) {
	if t != nil {
		m[field] = formatTimestamp(*t)
	}
}
