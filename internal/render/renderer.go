package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/icons"
	"vpn-subpage/internal/state"

	"github.com/samber/lo"
)

//go:embed templates/*.html
var templatesFS embed.FS

const DefaultScriptURL = "/static/app.js"

type translator interface {
	Get(lang, key string, params map[string]interface{}) string
	Lookup(lang, key string) (string, bool)
	DaysUnit(lang string, n int) string
	Languages() []string
}

type linkResolver interface {
	CopyPayload(userID string) string
	Import(providerID, userID string) (string, error)
}

// Renderer turns page state into full HTML documents.
type Renderer struct {
	tr        translator
	links     linkResolver
	scriptURL string

	pageTmpl  *template.Template
	errorTmpl *template.Template
	alertTmpl *template.Template
}

func New(tr translator, links linkResolver, scriptURL string) (*Renderer, error) {
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}

	r := &Renderer{
		tr:        tr,
		links:     links,
		scriptURL: scriptURL,
	}

	var err error
	if r.pageTmpl, err = parse("page.html"); err != nil {
		return nil, err
	}
	if r.errorTmpl, err = parse("error.html"); err != nil {
		return nil, err
	}
	if r.alertTmpl, err = parse("alert.html"); err != nil {
		return nil, err
	}

	return r, nil
}

func parse(name string) (*template.Template, error) {
	tmpl, err := template.New(name).
		Funcs(template.FuncMap{"icon": icons.SVG}).
		ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// Page renders the whole subscription page for st. Equal state and language
// always produce identical output.
func (r *Renderer) Page(st *state.State, lang string) ([]byte, error) {
	user := st.User()
	platform := st.CurrentPlatform()
	provider := st.CurrentProvider()

	view := &pageView{
		base:          r.base(lang),
		User:          user,
		StatusLabel:   r.statusLabel(lang, user.Status),
		ExpiresIn:     r.tr.Get(lang, "page.expires_in", map[string]interface{}{"days": user.DaysLeft, "unit": r.tr.DaysUnit(lang, user.DaysLeft)}),
		ProgressWidth: formatPercent(user.TrafficPercentValue),
		CopyLink:      r.links.CopyPayload(user.UserID),
		Platform:      platform,
	}

	view.Platforms = lo.Map(st.Catalog().Platforms(), func(p catalog.Platform, _ int) optionView {
		return optionView{
			ID:       p.ID,
			Name:     p.Name,
			URL:      selectionURL(p.ID, "", lang),
			Selected: p.ID == platform.ID,
		}
	})

	view.Providers = lo.Map(platform.Providers, func(p catalog.Provider, _ int) providerView {
		active := p.ID == provider.ID
		color := "currentColor"
		if active {
			color = "gold"
		}
		return providerView{
			ID:     p.ID,
			Name:   p.Name,
			Icon:   icons.SVG(p.Icon, 16, 2, color),
			URL:    selectionURL(platform.ID, p.ID, lang),
			Active: active,
		}
	})

	for i, step := range provider.Instructions {
		sv := stepView{
			Title:       step.Title,
			Description: step.Description,
			Icon:        icons.SVG(step.Icon, 14, 2, "white"),
			Active:      i == 0,
		}
		if step.IsDownloadLinks() {
			sv.Sources = provider.Sources
		}
		if step.IsImportAction() {
			sv.ImportURL, sv.ImportError = r.importLink(lang, provider.ID, user.UserID)
		}
		view.Steps = append(view.Steps, sv)
	}

	view.Languages = lo.Map(r.tr.Languages(), func(l string, _ int) optionView {
		return optionView{
			ID:       l,
			Name:     r.tr.Get(l, "page.language", nil),
			URL:      selectionURL(platform.ID, provider.ID, l),
			Selected: l == lang,
		}
	})

	return execute(r.pageTmpl, view)
}

// Error renders the load failure view; its retry link re-runs the page load.
func (r *Renderer) Error(lang, retryURL string) ([]byte, error) {
	return execute(r.errorTmpl, &errorView{base: r.base(lang), RetryURL: retryURL})
}

// Alert renders a single translated message.
func (r *Renderer) Alert(lang, key string) ([]byte, error) {
	return execute(r.alertTmpl, &alertView{base: r.base(lang), Message: r.tr.Get(lang, key, nil)})
}

func (r *Renderer) base(lang string) base {
	return base{Lang: lang, ScriptURL: r.scriptURL, tr: r.tr}
}

// importLink resolves the deep link for the import button. A failure leaves
// the button inert and carries the message the script alerts on click.
func (r *Renderer) importLink(lang, providerID, userID string) (template.URL, string) {
	link, err := r.links.Import(providerID, userID)
	if err != nil {
		return "#", r.tr.Get(lang, "error.missing_user", nil)
	}
	// deep links use custom schemes that html/template would otherwise filter
	return template.URL(link), ""
}

func (r *Renderer) statusLabel(lang, status string) string {
	if label, ok := r.tr.Lookup(lang, "status."+strings.ToLower(status)); ok {
		return label
	}
	return status
}

func execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, tmpl.Name(), data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
