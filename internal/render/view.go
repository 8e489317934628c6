package render

import (
	"html/template"
	"net/url"
	"strconv"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/stories/subscription"
)

type base struct {
	Lang      string
	ScriptURL string

	tr translator
}

// T translates key into the view's language.
func (b *base) T(key string) string {
	return b.tr.Get(b.Lang, key, nil)
}

type optionView struct {
	ID       string
	Name     string
	URL      string
	Selected bool
}

type providerView struct {
	ID     string
	Name   string
	Icon   template.HTML
	URL    string
	Active bool
}

type stepView struct {
	Title       string
	Description string
	Icon        template.HTML
	Active      bool
	Sources     []catalog.Source
	ImportURL   template.URL
	ImportError string
}

type pageView struct {
	base

	User          subscription.UserSubscription
	StatusLabel   string
	ExpiresIn     string
	ProgressWidth string
	CopyLink      string

	Platform  *catalog.Platform
	Platforms []optionView
	Providers []providerView
	Steps     []stepView
	Languages []optionView
}

type errorView struct {
	base

	RetryURL string
}

type alertView struct {
	base

	Message string
}

// selectionURL builds the relative link that re-renders the page with the given cursor.
func selectionURL(platformID, providerID, lang string) string {
	q := url.Values{}
	if platformID != "" {
		q.Set("platform", platformID)
	}
	if providerID != "" {
		q.Set("provider", providerID)
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	return "?" + q.Encode()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
