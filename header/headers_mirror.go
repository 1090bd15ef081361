package header

import (
	"braces.dev/errtrace"
)

// Mirror is the typed face of [Headers]. It shares values with the map it was taken from.
//
// Values added through the mirror are formatted eagerly and rejected as a whole
// when they can not be formatted. String values are added as if through the string face.
// Reads parse missing typed values on demand and cache them.
type Mirror struct {
	h *Headers
}

// Headers returns the string face.
func (m *Mirror) Headers() *Headers { return m.h }

// Add appends the typed value to the header.
func (m *Mirror) Add(name string, v any) error {
	return errtrace.Wrap(m.h.update(name, false, func(vals *values, info FieldInfo) error {
		return errtrace.Wrap(m.h.load(vals, info, vals.Len(), v))
	}))
}

// AddFirst inserts the typed value before the existing values of the header.
func (m *Mirror) AddFirst(name string, v any) error {
	return errtrace.Wrap(m.h.update(name, false, func(vals *values, info FieldInfo) error {
		return errtrace.Wrap(m.h.load(vals, info, 0, v))
	}))
}

// Set replaces all values of the header. Setting no values removes the header.
func (m *Mirror) Set(name string, vs ...any) error {
	return errtrace.Wrap(m.h.update(name, true, func(vals *values, info FieldInfo) error {
		for _, v := range vs {
			if err := m.h.load(vals, info, vals.Len(), v); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return nil
	}))
}

// Get returns the first typed value of the header or nil.
func (m *Mirror) Get(name string) (any, error) {
	e := m.h.get(name)
	if e == nil {
		return nil, nil
	}
	return errtrace.Wrap2(e.vals.Mirrored().Get(0))
}

// Values returns all typed values of the header in order.
func (m *Mirror) Values(name string) ([]any, error) {
	e := m.h.get(name)
	if e == nil {
		return nil, nil
	}
	return errtrace.Wrap2(e.vals.Mirrored().Values())
}

// Has checks whether the header is present.
func (m *Mirror) Has(name string) bool { return m.h.Has(name) }

// Del removes the header.
func (m *Mirror) Del(name string) { m.h.Del(name) }

// Clear removes all headers.
func (m *Mirror) Clear() { m.h.Clear() }

// Len returns the number of headers.
func (m *Mirror) Len() int { return m.h.Len() }

// Names returns header names in order of appearance.
func (m *Mirror) Names() []string { return m.h.Names() }

// Clone returns the typed face of a deep copy of the map.
func (m *Mirror) Clone() *Mirror { return m.h.Clone().Mirror() }
