package web

import (
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/state"
	"vpn-subpage/internal/stories/subscription"

	"github.com/gorilla/mux"
)

//go:embed static/app.js
var staticFS embed.FS

// Deps are the collaborators of the page router. Overviews and Proxy are optional.
type Deps struct {
	Catalog       *catalog.Catalog
	Subscriptions SubscriptionLoader
	Renderer      Renderer
	Links         LinkResolver
	Languages     LanguageNegotiator
	Metrics       Metrics
	Overviews     OverviewProvider
	Proxy         *ConfigProxy
	Logger        *slog.Logger
}

type Handler struct {
	catalog  *catalog.Catalog
	subs     SubscriptionLoader
	renderer Renderer
	links    LinkResolver
	langs    LanguageNegotiator
	metrics  Metrics
	api      OverviewProvider
	proxy    *ConfigProxy
	logger   *slog.Logger
}

func NewHandler(deps Deps) *Handler {
	h := &Handler{
		catalog:  deps.Catalog,
		subs:     deps.Subscriptions,
		renderer: deps.Renderer,
		links:    deps.Links,
		langs:    deps.Languages,
		metrics:  deps.Metrics,
		api:      deps.Overviews,
		proxy:    deps.Proxy,
		logger:   deps.Logger,
	}
	if h.metrics == nil {
		h.metrics = noopMetrics{}
	}
	if h.proxy == nil {
		h.proxy = NewConfigProxy("", nil, deps.Logger)
	}
	return h
}

// Router wires the page routes. The subscription API is only mounted when an
// overview provider was given.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, h.logRequests, h.recoverPanics)

	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	r.HandleFunc("/static/app.js", serveScript).Methods(http.MethodGet)

	if h.api != nil {
		r.HandleFunc("/api/subscription/{userId}", h.apiSubscription).Methods(http.MethodGet)
	}

	r.HandleFunc("/{userId}/import", h.importSubscription).Methods(http.MethodGet)
	r.HandleFunc("/{userId}/link", h.copyLink).Methods(http.MethodGet)
	r.Handle("/{userId}", h.proxy.Middleware(http.HandlerFunc(h.page))).Methods(http.MethodGet)

	return r
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mux.Vars(r)["userId"]
	lang := h.language(r)

	user, err := h.subs.Load(ctx, userID)
	if err != nil {
		var netErr *subscription.NetworkError
		switch {
		case errors.Is(err, subscription.ErrMissingUserID):
			h.writeAlert(w, r, lang, http.StatusBadRequest, "error.missing_user")
		case errors.As(err, &netErr) && netErr.NotFound():
			h.writeError(w, r, lang, http.StatusNotFound)
		default:
			h.writeError(w, r, lang, http.StatusBadGateway)
		}
		return
	}

	st := state.New(h.catalog, user)
	h.applySelection(r, st)

	body, err := h.renderer.Page(st, lang)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render page", "user_id", userID, "error", err)
		h.writeError(w, r, lang, http.StatusInternalServerError)
		return
	}

	h.metrics.PageRendered(st.PlatformID())
	writeBody(w, http.StatusOK, "text/html; charset=utf-8", body)
}

// importSubscription redirects to the deep link of the selected provider. It
// needs no subscription data, only the cursor.
func (h *Handler) importSubscription(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	lang := h.language(r)

	st := state.New(h.catalog, subscription.Placeholder(userID))
	h.applySelection(r, st)

	link, err := h.links.Import(st.ProviderID(), userID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Import link not resolved", "user_id", userID, "error", err)
		h.writeAlert(w, r, lang, http.StatusBadRequest, "error.missing_user")
		return
	}

	h.metrics.ImportRedirected(st.ProviderID())
	http.Redirect(w, r, link, http.StatusFound)
}

func (h *Handler) copyLink(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(mux.Vars(r)["userId"])
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	writeBody(w, http.StatusOK, "text/plain; charset=utf-8", []byte(h.links.CopyPayload(userID)))
}

// applySelection moves the cursor from the query: platform first, then provider.
// Unknown ids are logged and leave the cursor where it was.
func (h *Handler) applySelection(r *http.Request, st *state.State) {
	q := r.URL.Query()

	if id := q.Get("platform"); id != "" {
		if err := st.SetPlatform(id); err != nil {
			h.logger.WarnContext(r.Context(), "Ignoring platform selection", "error", err)
		}
	}
	if id := q.Get("provider"); id != "" {
		if err := st.SetProvider(id); err != nil {
			h.logger.WarnContext(r.Context(), "Ignoring provider selection", "error", err)
		}
	}
}

func (h *Handler) language(r *http.Request) string {
	return h.langs.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

// writeError renders the error view; its retry link reloads the same URL.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, lang string, status int) {
	retry := (&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery}).String()

	body, err := h.renderer.Error(lang, retry)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render error view", "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeBody(w, status, "text/html; charset=utf-8", body)
}

func (h *Handler) writeAlert(w http.ResponseWriter, r *http.Request, lang string, status int, key string) {
	body, err := h.renderer.Alert(lang, key)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render alert", "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeBody(w, status, "text/html; charset=utf-8", body)
}

func serveScript(w http.ResponseWriter, _ *http.Request) {
	data, err := staticFS.ReadFile("static/app.js")
	if err != nil {
		http.Error(w, "script not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeBody(w, http.StatusOK, "application/javascript; charset=utf-8", data)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type noopMetrics struct{}

func (noopMetrics) PageRendered(string)     {}
func (noopMetrics) ImportRedirected(string) {}
