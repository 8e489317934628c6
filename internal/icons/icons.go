package icons

import (
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strconv"
)

var paths = map[string]string{
	"star":           `<path d="M12 17.75l-6.172 3.245l1.179 -6.873l-5 -4.867l6.9 -1l3.086 -6.253l3.086 6.253l6.9 1l-5 4.867l1.179 6.873z"></path>`,
	"bolt":           `<path d="M13 3l0 7l6 0l-8 11l0 -7l-6 0l8 -11z"></path>`,
	"download":       `<path d="M4 17v2a2 2 0 0 0 2 2h12a2 2 0 0 0 2 -2v-2"></path><path d="M7 11l5 5l5 -5"></path><path d="M12 4l0 12"></path>`,
	"info-circle":    `<path d="M3 12a9 9 0 1 0 18 0a9 9 0 0 0 -18 0"></path><path d="M12 9h.01"></path><path d="M11 12h1v4h1"></path>`,
	"cloud-download": `<path d="M19 18a3.5 3.5 0 0 0 0 -7h-1a5 4.5 0 0 0 -11 -2a4.6 4.4 0 0 0 -2.1 8.4"></path><path d="M12 13l0 9"></path><path d="M9 19l3 3l3 -3"></path>`,
	"check":          `<path d="M5 12l5 5l10 -10"></path>`,
	"device-desktop": `<path d="M3 5a1 1 0 0 1 1 -1h16a1 1 0 0 1 1 1v10a1 1 0 0 1 -1 1h-16a1 1 0 0 1 -1 -1v-10z"></path><path d="M7 20h10"></path><path d="M9 16v4"></path><path d="M15 16v4"></path>`,
	"device-mobile":  `<path d="M6 5a2 2 0 0 1 2 -2h8a2 2 0 0 1 2 2v14a2 2 0 0 1 -2 2h-8a2 2 0 0 1 -2 -2v-14z"></path><path d="M11 4h2"></path><path d="M12 17v.01"></path>`,
	"external-link":  `<path d="M12 6h-6a2 2 0 0 0 -2 2v10a2 2 0 0 0 2 2h10a2 2 0 0 0 2 -2v-6"></path><path d="M11 13l9 -9"></path><path d="M15 4h5v5"></path>`,
	"user":           `<path d="M8 7a4 4 0 1 0 8 0a4 4 0 0 0 -8 0"></path><path d="M6 21v-2a4 4 0 0 1 4 -4h4a4 4 0 0 1 4 4v2"></path>`,
	"calendar":       `<path d="M4 7a2 2 0 0 1 2 -2h12a2 2 0 0 1 2 2v12a2 2 0 0 1 -2 2h-12a2 2 0 0 1 -2 -2v-12z"></path><path d="M16 3v4"></path><path d="M8 3v4"></path><path d="M4 11h16"></path><path d="M11 15h1"></path><path d="M12 15v3"></path>`,
	"arrows-up-down": `<path d="M7 3l0 18"></path><path d="M10 6l-3 -3l-3 3"></path><path d="M20 18l-3 3l-3 -3"></path><path d="M17 21l0 -18"></path>`,
	"chevron-down":   `<path d="M6 9l6 6l6 -6"></path>`,
}

// Path returns the vector path data registered under name.
func Path(name string) (string, bool) {
	p, ok := paths[name]
	return p, ok
}

// Has reports whether an icon is registered under name.
func Has(name string) bool {
	_, ok := paths[name]
	return ok
}

// Names returns registered icon names in sorted order.
func Names() []string {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SVG renders a full svg element for the icon. Empty and unknown names produce
// empty markup; only unknown ones are logged.
func SVG(name string, size int, stroke float64, color string) template.HTML {
	if name == "" {
		return ""
	}
	p, ok := paths[name]
	if !ok {
		slog.Warn("icon not found", slog.String("icon", name))
		return ""
	}
	if color == "" {
		color = "currentColor"
	}

	return template.HTML(fmt.Sprintf(
		`<svg width="%d" height="%d" viewBox="0 0 24 24" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round">%s</svg>`,
		size, size, template.HTMLEscapeString(color), strconv.FormatFloat(stroke, 'f', -1, 64), p,
	))
}
