package schema

// Record is a validated row, values keep schema field order
// values are string, int64, decimal.Decimal or nil (explicit clear in a patch)
type Record struct {
	names []string
	vals  map[string]any
}

// NewRecord returns an empty record
func NewRecord() Record { return Record{vals: map[string]any{}} }

// Set stores v under name, the first Set of a name fixes its position
func (r *Record) Set(name string, v any) {
	if r.vals == nil {
		r.vals = map[string]any{}
	}
	if _, ok := r.vals[name]; !ok {
		r.names = append(r.names, name)
	}
	r.vals[name] = v
}

// Get returns the value stored under name
func (r Record) Get(name string) (any, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// String returns the value under name when it is a string
func (r Record) String(name string) string {
	s, _ := r.vals[name].(string)
	return s
}

// Names returns field names in schema order
func (r Record) Names() []string { return append([]string(nil), r.names...) }

// Len is the number of fields set
func (r Record) Len() int { return len(r.names) }

// Map returns a copy suitable for JSON responses
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return out
}
