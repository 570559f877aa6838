package attribute

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/greedflame/internal/game/measure"
)

// Template is a named starting attribute set loaded from content YAML.
//
// Precondition: ID and Name must be non-empty after loading.
type Template struct {
	ID          string                     `yaml:"id"`
	Name        string                     `yaml:"name"`
	Description string                     `yaml:"description"`
	Attributes  map[string]measure.Measure `yaml:"attributes"`
}

// Validate checks the template ID, name and attribute keys.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (t *Template) Validate() error {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	var probe Holder
	unknown := make([]string, 0)
	for name := range t.Attributes {
		if _, ok := probe.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, fmt.Sprintf("unknown attributes [%s]", strings.Join(unknown, ", ")))
	}
	if len(errs) > 0 {
		return fmt.Errorf("template %q: %s", t.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Build returns a fresh Holder populated from the template. Attributes the
// template omits are the zero Measure.
//
// Postcondition: The returned Holder shares no state with t.
func (t *Template) Build() Holder {
	var h Holder
	for name, m := range t.Attributes {
		if field, ok := h.Field(name); ok {
			*field = m
		}
	}
	return h
}

// LoadTemplates reads all .yaml files in dir and parses each as a Template.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, validated templates (may be empty) or a
// non-nil error.
func LoadTemplates(dir string) ([]*Template, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	templates := make([]*Template, 0, len(files))
	for _, path := range files {
		t, err := loadTemplate(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func loadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing attribute template file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &t, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

// ErrUnknownTemplate is returned by Registry.Build for an unregistered ID.
var ErrUnknownTemplate = errors.New("unknown attribute template")

// Registry provides lookup of attribute templates by ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds a Template to the registry.
//
// Precondition: t must be non-nil with a non-empty ID.
// Postcondition: t is retrievable via Template(t.ID); the last call wins.
func (r *Registry) Register(t *Template) {
	if t == nil {
		panic("attribute.Registry.Register: precondition violated: template must be non-nil")
	}
	if t.ID == "" {
		panic("attribute.Registry.Register: precondition violated: template ID must be non-empty")
	}
	r.templates[t.ID] = t
}

// Template returns the Template registered under id.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Build returns a new Holder from the template registered under id.
//
// Postcondition: Returns ErrUnknownTemplate (wrapped) if id is not registered.
func (r *Registry) Build(id string) (Holder, error) {
	t, ok := r.templates[id]
	if !ok {
		return Holder{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t.Build(), nil
}

// IDs returns every registered template ID in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
