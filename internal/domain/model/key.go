// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Field names one categorical dimension a record can be grouped by.
type Field string

// Grouping fields.
const (
	FieldLocation Field = "location"
	FieldTeam     Field = "team"
	FieldShift    Field = "shift"
	FieldProcess  Field = "process"
)

// Fields lists every grouping field in canonical order.
var Fields = []Field{FieldLocation, FieldTeam, FieldShift, FieldProcess} //nolint:gochecknoglobals // fixed field set

// ParseField resolves a field name (case-insensitive).
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldLocation, FieldTeam, FieldShift, FieldProcess:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// ParseFields resolves a list of field names, dropping duplicates and
// keeping the caller's order.
func ParseFields(names []string) ([]Field, error) {
	out := make([]Field, 0, len(names))
	seen := make(map[Field]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseField(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// GroupKey identifies one combination of categorical values. Unset fields
// are empty strings; the zero value is the whole population.
type GroupKey struct {
	Location string `json:"location,omitempty"`
	Team     string `json:"team,omitempty"`
	Shift    string `json:"shift,omitempty"`
	Process  string `json:"process,omitempty"`
}

// Get returns the value of f.
func (k GroupKey) Get(f Field) string {
	switch f {
	case FieldLocation:
		return k.Location
	case FieldTeam:
		return k.Team
	case FieldShift:
		return k.Shift
	case FieldProcess:
		return k.Process
	default:
		return ""
	}
}

// With returns a copy of k with f set to v.
func (k GroupKey) With(f Field, v string) GroupKey {
	switch f {
	case FieldLocation:
		k.Location = v
	case FieldTeam:
		k.Team = v
	case FieldShift:
		k.Shift = v
	case FieldProcess:
		k.Process = v
	}
	return k
}

// Project keeps only the given fields.
func (k GroupKey) Project(fields []Field) GroupKey {
	var out GroupKey
	for _, f := range fields {
		out = out.With(f, k.Get(f))
	}
	return out
}

// Overlay returns k with every non-empty field of o substituted.
func (k GroupKey) Overlay(o GroupKey) GroupKey {
	for _, f := range Fields {
		if v := o.Get(f); v != "" {
			k = k.With(f, v)
		}
	}
	return k
}

// SetFields lists the fields with a non-empty value, in canonical order.
func (k GroupKey) SetFields() []Field {
	var out []Field
	for _, f := range Fields {
		if k.Get(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// IsZero reports whether no field is set.
func (k GroupKey) IsZero() bool { return k == GroupKey{} }

// Less orders keys field by field in canonical order.
func (k GroupKey) Less(o GroupKey) bool {
	for _, f := range Fields {
		a, b := k.Get(f), o.Get(f)
		if a != b {
			return a < b
		}
	}
	return false
}

// String renders the key as "location=JP,team=A". The zero key renders as "*".
func (k GroupKey) String() string {
	parts := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if v := k.Get(f); v != "" {
			parts = append(parts, string(f)+"="+v)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ",")
}

// ParseGroupKey parses "field:value" pairs separated by commas, e.g.
// "location:JP,shift:Day". "=" is accepted in place of ":".
func ParseGroupKey(s string) (GroupKey, error) {
	var k GroupKey
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			name, value, ok = strings.Cut(pair, "=")
		}
		if !ok || strings.TrimSpace(value) == "" {
			return GroupKey{}, fmt.Errorf("%w: %q", ErrMalformedKey, pair)
		}
		f, err := ParseField(name)
		if err != nil {
			return GroupKey{}, err
		}
		k = k.With(f, strings.TrimSpace(value))
	}
	return k, nil
}
