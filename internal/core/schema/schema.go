// Package schema validates header-keyed rows against a per-entity field list
//
// a field that is missing while required fails with "required", a value that
// cannot be read as its kind fails with "invalid format", errors follow field order
package schema

import (
	"fmt"
	"sort"
	"strings"

	"dialdesk/internal/core/normalize"

	"github.com/shopspring/decimal"
)

// Kind is the value type a field accepts
type Kind string

// Field kinds
const (
	KindString  Kind = "string"
	KindPhone   Kind = "phone"
	KindEmail   Kind = "email"
	KindDecimal Kind = "decimal"
	KindEnum    Kind = "enum"
	KindInteger Kind = "integer"
)

// Field error messages, the only two a caller ever sees
const (
	MsgRequired      = "required"
	MsgInvalidFormat = "invalid format"
)

// FieldError reports one failing field of a row
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Field describes one column
type Field struct {
	Name     string
	Aliases  []string
	Kind     Kind
	Required bool
	// Mutable fields may be changed through a bulk patch
	Mutable bool
	MaxLen  int
	Enum    []string
	Scale   int32
	Min     decimal.NullDecimal
	// Example is the value shown in the downloadable template
	Example string
}

// PhoneNormalizer canonicalizes phone numbers, phone.Normalizer satisfies it
type PhoneNormalizer interface {
	Normalize(raw string) (string, error)
}

// Schema is an immutable field list for one entity
type Schema struct {
	entity string
	fields []Field
	phone  PhoneNormalizer
	// lookup maps every accepted key (name or alias) to its field position
	lookup map[string]int
}

// New builds a schema and checks that names and aliases are unique normalized keys
func New(entity string, ph PhoneNormalizer, fields ...Field) (*Schema, error) {
	s := &Schema{entity: entity, phone: ph, lookup: map[string]int{}}
	for i, f := range fields {
		if f.Name == "" || normalize.Key(f.Name) != f.Name {
			return nil, fmt.Errorf("schema %s: field %d name %q is not a normalized key", entity, i, f.Name)
		}
		switch f.Kind {
		case KindString, KindEmail, KindDecimal, KindInteger:
		case KindPhone:
			if ph == nil {
				return nil, fmt.Errorf("schema %s: phone field %s needs a normalizer", entity, f.Name)
			}
		case KindEnum:
			if len(f.Enum) == 0 {
				return nil, fmt.Errorf("schema %s: enum field %s has no values", entity, f.Name)
			}
			enum := make([]string, len(f.Enum))
			for j, v := range f.Enum {
				enum[j] = strings.ToLower(v)
			}
			f.Enum = enum
		default:
			return nil, fmt.Errorf("schema %s: field %s has unknown kind %q", entity, f.Name, f.Kind)
		}
		for _, k := range append([]string{f.Name}, f.Aliases...) {
			k = normalize.Key(k)
			if prev, dup := s.lookup[k]; dup {
				return nil, fmt.Errorf("schema %s: key %q used by %s and %s", entity, k, fields[prev].Name, f.Name)
			}
			s.lookup[k] = i
		}
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustNew is New for package level schema tables
func MustNew(entity string, ph PhoneNormalizer, fields ...Field) *Schema {
	s, err := New(entity, ph, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Entity returns the entity name the schema was built for
func (s *Schema) Entity() string { return s.entity }

// Fields returns a copy of the field list
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field returns the field addressed by name or alias
func (s *Schema) Field(key string) (Field, bool) {
	i, ok := s.lookup[normalize.Key(key)]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Header returns canonical column names in order
func (s *Schema) Header() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Example returns one example value per column in header order
func (s *Schema) Example() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Example
	}
	return out
}

// Validate checks a header-keyed row, unknown columns are ignored
// blank optional fields are left out of the record
func (s *Schema) Validate(values map[string]string) (Record, []FieldError) {
	rec := NewRecord()
	var errs []FieldError
	for i, f := range s.fields {
		raw := s.pick(i, values)
		if raw == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: MsgRequired})
			}
			continue
		}
		v, hint, ok := s.parse(f, raw)
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: MsgInvalidFormat, Hint: hint})
			continue
		}
		rec.Set(f.Name, v)
	}
	if len(errs) > 0 {
		return Record{}, errs
	}
	return rec, nil
}

// pick returns the first non-blank value among the field's name and aliases
func (s *Schema) pick(i int, values map[string]string) string {
	f := s.fields[i]
	if v := strings.TrimSpace(values[f.Name]); v != "" {
		return v
	}
	for _, a := range f.Aliases {
		if v := strings.TrimSpace(values[normalize.Key(a)]); v != "" {
			return v
		}
	}
	return ""
}

// ValidatePatch checks a bulk update body, only mutable fields may appear
// a JSON null clears an optional field
func (s *Schema) ValidatePatch(patch map[string]any) (Record, []FieldError) {
	if len(patch) == 0 {
		return Record{}, []FieldError{{Field: "updates", Message: MsgRequired, Hint: "at least one field"}}
	}

	type entry struct {
		pos int
		key string
		raw any
	}
	var known []entry
	var errs []FieldError
	seen := map[int]string{}
	var unknown []string
	for k, v := range patch {
		i, ok := s.lookup[normalize.Key(k)]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		if other, dup := seen[i]; dup {
			errs = append(errs, FieldError{Field: s.fields[i].Name, Message: MsgInvalidFormat,
				Hint: fmt.Sprintf("given twice as %q and %q", other, k)})
			continue
		}
		seen[i] = k
		known = append(known, entry{pos: i, key: k, raw: v})
	}
	sort.Slice(known, func(a, b int) bool { return known[a].pos < known[b].pos })

	rec := NewRecord()
	for _, e := range known {
		f := s.fields[e.pos]
		if !f.Mutable {
			errs = append(errs, FieldError{Field: f.Name, Message: MsgInvalidFormat, Hint: "cannot be changed in bulk"})
			continue
		}
		if e.raw == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: MsgRequired})
				continue
			}
			rec.Set(f.Name, nil)
			continue
		}
		str, ok := scalar(e.raw)
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: MsgInvalidFormat, Hint: "must be a string or number"})
			continue
		}
		if str == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: MsgRequired})
				continue
			}
			rec.Set(f.Name, nil)
			continue
		}
		v, hint, ok := s.parse(f, str)
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: MsgInvalidFormat, Hint: hint})
			continue
		}
		rec.Set(f.Name, v)
	}

	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, FieldError{Field: k, Message: MsgInvalidFormat, Hint: "unknown field"})
	}
	if len(errs) > 0 {
		return Record{}, errs
	}
	return rec, nil
}
