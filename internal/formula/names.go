package formula

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

var ErrUnknownNameProvider = errors.New("unknown name provider")

//go:embed names/*.yaml
var embeddedNames embed.FS

// NameProvider maps canonical function names to the names of one language.
type NameProvider struct {
	Name      string            `json:"name"`
	Functions map[string]string `json:"functions"`
}

// Canonical accepts the canonical names only.
var Canonical = &NameProvider{Name: "canonical", Functions: map[string]string{}}

// ParseNameProvider reads a provider table written in YAML.
func ParseNameProvider(data []byte) (*NameProvider, error) {
	p := &NameProvider{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse name provider: %w", err)
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: name provider has no name", ErrUnknownNameProvider)
	}
	if p.Functions == nil {
		p.Functions = map[string]string{}
	}

	return p, nil
}

// LoadNameProvider reads a provider table from a YAML file.
func LoadNameProvider(path string) (*NameProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read name provider '%s': %w", path, err)
	}
	return ParseNameProvider(data)
}

// NameProviderFor returns the provider called name: "canonical", one of the
// bundled languages, or a path to a YAML table.
func NameProviderFor(name string) (*NameProvider, error) {
	if name == "" || name == Canonical.Name {
		return Canonical, nil
	}

	if data, err := embeddedNames.ReadFile("names/" + name + ".yaml"); err == nil {
		return ParseNameProvider(data)
	}

	if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
		return LoadNameProvider(name)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownNameProvider, name)
}

// Localize returns the name of a canonical function in this provider's
// language, or the canonical name when it has no translation.
func (p *NameProvider) Localize(canonical string) string {
	if localized, ok := p.Functions[canonical]; ok {
		return localized
	}
	return canonical
}
