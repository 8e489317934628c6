package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"vpn-subpage/internal/icons"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the immutable set of platforms, providers and setup steps.
type Catalog struct {
	platforms []Platform
}

type document struct {
	Platforms []Platform `yaml:"platforms"`
}

// Default returns the catalog embedded into the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(data)
}

// Load parses and validates a YAML catalog. Declaration order is preserved.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validate(doc.Platforms); err != nil {
		return nil, err
	}

	return &Catalog{platforms: doc.Platforms}, nil
}

func validate(platforms []Platform) error {
	if len(platforms) == 0 {
		return fmt.Errorf("catalog has no platforms")
	}

	if dups := lo.FindDuplicates(lo.Map(platforms, func(p Platform, _ int) string { return p.ID })); len(dups) > 0 {
		return fmt.Errorf("duplicate platform ids: %v", dups)
	}

	for _, platform := range platforms {
		if platform.ID == "" {
			return fmt.Errorf("platform %q has empty id", platform.Name)
		}
		if len(platform.Providers) == 0 {
			return fmt.Errorf("platform %s has no providers", platform.ID)
		}

		providerIDs := lo.Map(platform.Providers, func(p Provider, _ int) string { return p.ID })
		if dups := lo.FindDuplicates(providerIDs); len(dups) > 0 {
			return fmt.Errorf("platform %s: duplicate provider ids: %v", platform.ID, dups)
		}

		warnUnknownIcon(platform.Icon, "platform", platform.ID)

		for _, provider := range platform.Providers {
			if provider.ID == "" {
				return fmt.Errorf("platform %s: provider %q has empty id", platform.ID, provider.Name)
			}
			if len(provider.Instructions) == 0 {
				return fmt.Errorf("platform %s: provider %s has no instructions", platform.ID, provider.ID)
			}

			imports := 0
			for i, step := range provider.Instructions {
				if !step.Role.valid() {
					return fmt.Errorf("platform %s: provider %s: step %d has unknown role %q", platform.ID, provider.ID, i, step.Role)
				}
				if step.IsImportAction() {
					imports++
				}
				warnUnknownIcon(step.Icon, "step", provider.ID)
			}
			if imports > 1 {
				return fmt.Errorf("platform %s: provider %s has %d import steps", platform.ID, provider.ID, imports)
			}

			warnUnknownIcon(provider.Icon, "provider", provider.ID)
		}
	}

	return nil
}

// Empty icon names are allowed and render nothing.
func warnUnknownIcon(name, kind, owner string) {
	if name == "" || icons.Has(name) {
		return
	}
	slog.Warn("catalog references unknown icon",
		slog.String("icon", name),
		slog.String("kind", kind),
		slog.String("owner", owner))
}

// Platforms returns platforms in declaration order.
func (c *Catalog) Platforms() []Platform {
	return c.platforms
}

// Platform looks up a platform by id.
func (c *Catalog) Platform(id string) (*Platform, bool) {
	for i := range c.platforms {
		if c.platforms[i].ID == id {
			return &c.platforms[i], true
		}
	}
	return nil, false
}

// First returns the first declared platform.
func (c *Catalog) First() *Platform {
	return &c.platforms[0]
}

// PlatformIDs returns platform ids in declaration order.
func (c *Catalog) PlatformIDs() []string {
	return lo.Map(c.platforms, func(p Platform, _ int) string { return p.ID })
}
