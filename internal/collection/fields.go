package collection

import "net/url"

// Fields carries the form fields of a create or update request.
//
// Presence and emptiness are distinct: a field that was omitted keeps
// its current (or default) value, while a field submitted empty clears
// it. Providers must branch on the ok result of Get, not on the value.
type Fields struct {
	values url.Values
}

// FromForm wraps parsed form values.
func FromForm(values url.Values) Fields {
	return Fields{values: values}
}

// Get returns the first value for name and whether the field was
// submitted at all.
func (f Fields) Get(name string) (string, bool) {
	if f.values == nil {
		return "", false
	}
	vs, ok := f.values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Require returns the value for name, or a ValidationError when the
// field is absent or empty.
func (f Fields) Require(name string) (string, error) {
	v, ok := f.Get(name)
	if !ok || v == "" {
		return "", Invalid(name, "required")
	}
	return v, nil
}

// Has reports whether the field was submitted, empty or not.
func (f Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}
