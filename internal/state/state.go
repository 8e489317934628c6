package state

import (
	"fmt"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/stories/subscription"
)

// UnknownCatalogKeyError is returned by the cursor mutators for ids that are
// not in the catalog. Callers log it and carry on.
type UnknownCatalogKeyError struct {
	Kind     string
	ID       string
	Platform string
}

func (e *UnknownCatalogKeyError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s %s not found for platform %s", e.Kind, e.ID, e.Platform)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// State holds the page's user display model and the selection cursor. It is
// owned by a single request and is not safe for concurrent use.
type State struct {
	catalog    *catalog.Catalog
	user       subscription.UserSubscription
	platformID string
	providerID string
}

// New builds a state pointing at the first declared platform and its first provider.
func New(c *catalog.Catalog, user subscription.UserSubscription) *State {
	first := c.First()
	return &State{
		catalog:    c,
		user:       user,
		platformID: first.ID,
		providerID: first.FirstProvider().ID,
	}
}

// SetPlatform moves the cursor to platform id and resets the provider to the
// platform's first declared one.
func (s *State) SetPlatform(id string) error {
	platform, ok := s.catalog.Platform(id)
	if !ok {
		return &UnknownCatalogKeyError{Kind: "platform", ID: id}
	}

	s.platformID = platform.ID
	s.providerID = platform.FirstProvider().ID
	return nil
}

// SetProvider moves the cursor to provider id of the current platform.
func (s *State) SetProvider(id string) error {
	if _, ok := s.CurrentPlatform().Provider(id); !ok {
		return &UnknownCatalogKeyError{Kind: "provider", ID: id, Platform: s.platformID}
	}

	s.providerID = id
	return nil
}

// SetUser replaces the display model wholesale.
func (s *State) SetUser(user subscription.UserSubscription) {
	s.user = user
}

func (s *State) User() subscription.UserSubscription {
	return s.user
}

func (s *State) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *State) PlatformID() string {
	return s.platformID
}

func (s *State) ProviderID() string {
	return s.providerID
}

func (s *State) CurrentPlatform() *catalog.Platform {
	platform, _ := s.catalog.Platform(s.platformID)
	return platform
}

func (s *State) CurrentProvider() *catalog.Provider {
	provider, _ := s.CurrentPlatform().Provider(s.providerID)
	return provider
}
