package links

import (
	"errors"
	"net/url"
	"strings"
)

var ErrMissingUserID = errors.New("user id is not defined")

// linkPlaceholder is replaced by the encoded subscription link in a template.
const linkPlaceholder = "{link}"

// DefaultDeepLinks maps provider ids to the URL scheme templates their apps accept.
var DefaultDeepLinks = map[string]string{
	"clash":    "clash://install-config?url={link}",
	"happ":     "happ://add/{link}",
	"v2raytun": "v2raytun://import?url={link}",
}

// Resolver builds subscription links for a fixed base URL.
type Resolver struct {
	baseURL   string
	deepLinks map[string]string
}

// NewResolver creates a resolver. A nil deepLinks table uses DefaultDeepLinks.
func NewResolver(baseURL string, deepLinks map[string]string) *Resolver {
	if deepLinks == nil {
		deepLinks = DefaultDeepLinks
	}
	return &Resolver{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		deepLinks: deepLinks,
	}
}

// CopyPayload is the plain subscription link written to the clipboard. It is
// deliberately not encoded, unlike the deep link payload.
func (r *Resolver) CopyPayload(userID string) string {
	return r.baseURL + "/" + userID
}

// EncodedLink is the subscription link escaped as a single URL component.
func (r *Resolver) EncodedLink(userID string) string {
	return url.QueryEscape(r.CopyPayload(userID))
}

// Import resolves the link that hands the subscription to the provider's app.
// Providers without a template get the plain subscription link.
func (r *Resolver) Import(providerID, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrMissingUserID
	}

	tmpl, ok := r.deepLinks[providerID]
	if !ok {
		return r.CopyPayload(userID), nil
	}

	return strings.ReplaceAll(tmpl, linkPlaceholder, r.EncodedLink(userID)), nil
}

// HasDeepLink reports whether providerID has an app-specific template.
func (r *Resolver) HasDeepLink(providerID string) bool {
	_, ok := r.deepLinks[providerID]
	return ok
}
