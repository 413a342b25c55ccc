package layout

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"fjacquet/bankstmt/internal/parsererror"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Registry holds layouts in detection order. It is immutable after construction
// and safe for concurrent use.
type Registry struct {
	layouts []*Descriptor
	byID    map[ID]*Descriptor
}

// NewRegistry validates the descriptors and registers them in the given order.
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	r := &Registry{
		layouts: make([]*Descriptor, 0, len(descriptors)),
		byID:    make(map[ID]*Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("layout %s is registered twice", d.ID)
		}
		r.layouts = append(r.layouts, d)
		r.byID[d.ID] = d
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of built-in layouts: SBI, HDFC, UNION.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(builtins()...)
		if err != nil {
			panic(fmt.Sprintf("built-in layouts are invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// All returns the layouts in detection order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.layouts))
	copy(out, r.layouts)
	return out
}

// IDs returns the registered identifiers in detection order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.layouts))
	for i, d := range r.layouts {
		ids[i] = d.ID
	}
	return ids
}

// Get returns the layout with the exact identifier id.
func (r *Registry) Get(id ID) (*Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// minFuzzyHint is the shortest hint matched against bank names.
const minFuzzyHint = 3

// Lookup resolves a user supplied layout name. Identifiers match case
// insensitively; otherwise the hint must fuzzily match exactly one bank name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &parsererror.UnknownLayoutError{ID: name}
	}
	for _, d := range r.layouts {
		if strings.EqualFold(string(d.ID), name) {
			return d, nil
		}
	}

	names := make([]string, len(r.layouts))
	for i, d := range r.layouts {
		names[i] = d.Name
	}
	if utf8.RuneCountInString(name) < minFuzzyHint {
		return nil, &parsererror.UnknownLayoutError{ID: name}
	}
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) != 1 {
		return nil, &parsererror.UnknownLayoutError{ID: name}
	}
	return r.layouts[ranks[0].OriginalIndex], nil
}
