package catalog

// Role tags the extra content a setup step renders.
type Role string

const (
	RolePlain         Role = "plain"
	RoleDownloadLinks Role = "download-links"
	RoleImportAction  Role = "import-action"
)

func (r Role) valid() bool {
	switch r {
	case "", RolePlain, RoleDownloadLinks, RoleImportAction:
		return true
	}
	return false
}

type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Step struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Role        Role   `yaml:"role"`
}

// IsDownloadLinks reports whether the step renders the provider's download sources.
func (s Step) IsDownloadLinks() bool { return s.Role == RoleDownloadLinks }

// IsImportAction reports whether the step renders the subscription import action.
func (s Step) IsImportAction() bool { return s.Role == RoleImportAction }

type Provider struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Icon         string   `yaml:"icon"`
	Sources      []Source `yaml:"sources"`
	Instructions []Step   `yaml:"instructions"`
}

type Platform struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Icon      string     `yaml:"icon"`
	Providers []Provider `yaml:"providers"`
}

// Provider looks up a provider of the platform by id.
func (p *Platform) Provider(id string) (*Provider, bool) {
	for i := range p.Providers {
		if p.Providers[i].ID == id {
			return &p.Providers[i], true
		}
	}
	return nil, false
}

// FirstProvider returns the first declared provider of the platform.
func (p *Platform) FirstProvider() *Provider {
	return &p.Providers[0]
}
