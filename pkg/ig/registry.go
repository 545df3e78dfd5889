package ig

import "fmt"

// Registry is the immutable table of fonts this process can serve, with each
// font bound to the source that handles its metadata shape. Built once at
// startup and read-only afterwards.
type Registry struct {
	fonts   []FontDescriptor
	byID    map[string]FontDescriptor
	sources map[string]Source
}

// NewRegistry builds a registry from a descriptor table and the sources the
// table references. Duplicate font identifiers, duplicate source names, and
// fonts referencing unregistered sources are construction errors.
func NewRegistry(fonts []FontDescriptor, sources ...Source) (*Registry, error) {
	r := &Registry{
		byID:    make(map[string]FontDescriptor),
		sources: make(map[string]Source),
	}

	for _, source := range sources {
		if source == nil {
			return nil, fmt.Errorf("cannot register nil source")
		}
		if _, exists := r.sources[source.Name()]; exists {
			return nil, fmt.Errorf("source %q is already registered", source.Name())
		}
		r.sources[source.Name()] = source
	}

	for _, font := range fonts {
		if _, exists := r.byID[font.Identifier]; exists {
			return nil, fmt.Errorf("font %q is already registered", font.Identifier)
		}
		if _, exists := r.sources[font.SourceID]; !exists {
			return nil, fmt.Errorf("font %q references unknown source %q", font.Identifier, font.SourceID)
		}
		r.fonts = append(r.fonts, font)
		r.byID[font.Identifier] = font
	}

	return r, nil
}

// DefaultRegistry returns the registry over the built-in font table with one
// source per upstream metadata shape. A nil client uses package defaults.
func DefaultRegistry(client *Client) *Registry {
	registry, err := NewRegistry(BuiltinFonts(),
		NewCodepointsSource(SourceMaterial, client),
		NewMetadataSource(SourceMDI, client),
		NewStylesheetSource(SourceFontAwesome, "fa", client),
	)
	if err != nil {
		// The built-in table is static; a construction failure is a bug.
		panic(err)
	}
	return registry
}

// All returns every registered font in natural registration order.
func (r *Registry) All() []FontDescriptor {
	fonts := make([]FontDescriptor, len(r.fonts))
	copy(fonts, r.fonts)
	return fonts
}

// Ordered returns the fonts for the given identifiers in the caller's order.
// Unknown identifiers are silently dropped. An empty list yields the full
// table in natural registration order.
func (r *Registry) Ordered(ids []string) []FontDescriptor {
	if len(ids) == 0 {
		return r.All()
	}
	var fonts []FontDescriptor
	for _, id := range ids {
		if font, ok := r.byID[id]; ok {
			fonts = append(fonts, font)
		}
	}
	return fonts
}

// Get looks up a single font by identifier.
func (r *Registry) Get(id string) (FontDescriptor, bool) {
	font, ok := r.byID[id]
	return font, ok
}

// SourceFor returns the source bound to a font's declared source identifier.
func (r *Registry) SourceFor(font FontDescriptor) (Source, bool) {
	source, ok := r.sources[font.SourceID]
	return source, ok
}
