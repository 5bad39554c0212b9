package diagram

// Property is a named, editable attribute of a diagram element. Properties
// are accessor pairs bound to the element's backing state; reading and
// writing through a Property observes and mutates the element directly.
//
// The visibility flag distinguishes properties shown in a property editor
// from internal ones that exist only for persistence.
type Property struct {
	name    string
	get     func() string
	set     func(string)
	visible bool
}

// Name returns the property's stable name, used both as the editor label key
// and as the persistence field name.
func (p Property) Name() string { return p.name }

// Get returns the current value.
func (p Property) Get() string { return p.get() }

// Set writes a new value through to the owning element.
func (p Property) Set(value string) { p.set(value) }

// IsVisible reports whether the property should appear in a property editor.
func (p Property) IsVisible() bool { return p.visible }

// Properties is an ordered collection of an element's properties. The order
// is significant: it determines the order of fields in editors and in
// persisted output.
type Properties struct {
	list []Property
}

// add appends a property backed by the given accessors.
func (ps *Properties) add(name string, get func() string, set func(string), visible bool) {
	ps.list = append(ps.list, Property{name: name, get: get, set: set, visible: visible})
}

// Get returns the property with the given name.
func (ps *Properties) Get(name string) (Property, bool) {
	for _, p := range ps.list {
		if p.name == name {
			return p, true
		}
	}
	return Property{}, false
}

// List returns the properties in declaration order. The returned slice is a
// copy; the Property values still write through to the element.
func (ps *Properties) List() []Property {
	out := make([]Property, len(ps.list))
	copy(out, ps.list)
	return out
}

// Len returns the number of properties.
func (ps *Properties) Len() int { return len(ps.list) }

// propertiesFromAttrs builds an ordered Properties view over a backing
// attribute map. Every listed key reads and writes the map directly.
func propertiesFromAttrs(attrs map[string]string, keys []string) *Properties {
	ps := &Properties{}
	for _, key := range keys {
		k := key
		ps.add(k,
			func() string { return attrs[k] },
			func(v string) { attrs[k] = v },
			true)
	}
	return ps
}
