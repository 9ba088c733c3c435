package tones

import (
	"fmt"
	"strings"
)

// Registry is an immutable lookup over a tone list. It is built once at
// startup and shared by every request.
type Registry struct {
	tones     []Tone
	byID      map[string]Tone
	defaultID string
}

// NewRegistry validates tones and builds a registry. Labels default to the id.
func NewRegistry(list []Tone, defaultID string) (*Registry, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("tone registry is empty")
	}

	r := &Registry{
		tones:     make([]Tone, 0, len(list)),
		byID:      make(map[string]Tone, len(list)),
		defaultID: defaultID,
	}
	for i, t := range list {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("tone at index %d has no id", i)
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tone id %q", t.ID)
		}
		if t.Label == "" {
			t.Label = t.ID
		}
		r.tones = append(r.tones, t)
		r.byID[t.ID] = t
	}

	if _, ok := r.byID[defaultID]; !ok {
		return nil, fmt.Errorf("default tone %q is not in the registry", defaultID)
	}
	return r, nil
}

// Default returns the registry over the built-in tones.
func Default() *Registry {
	r, err := NewRegistry(AllTones(), DefaultToneID)
	if err != nil {
		panic(fmt.Sprintf("built-in tone registry: %v", err))
	}
	return r
}

// Get looks up a tone by id
func (r *Registry) Get(id string) (Tone, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// IsValid reports whether id names a known tone
func (r *Registry) IsValid(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Instructions returns the tone's prompt guidance, empty when it has none
func (r *Registry) Instructions(id string) string {
	return r.byID[id].Instructions
}

// DefaultID returns the fallback tone id
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// IDs returns tone ids in registry order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.tones))
	for i, t := range r.tones {
		ids[i] = t.ID
	}
	return ids
}

// All returns a copy of the tone list
func (r *Registry) All() []Tone {
	out := make([]Tone, len(r.tones))
	copy(out, r.tones)
	return out
}
