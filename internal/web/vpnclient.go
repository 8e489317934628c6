package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

// vpnClientAgents are user agent fragments of the apps that fetch the
// subscription URL directly.
var vpnClientAgents = []string{
	"happ",
	"v2raytun",
	"hiddify",
	"clash",
	"sing-box",
	"v2rayng",
	"streisand",
	"shadowrocket",
}

// forwardedHeaders are upstream response headers the apps read.
var forwardedHeaders = []string{
	"Content-Type",
	"Content-Disposition",
	"Subscription-Userinfo",
	"Profile-Update-Interval",
	"Profile-Title",
	"Profile-Web-Page-Url",
	"Support-Url",
}

const maxConfigSize = 4 << 20

// IsVPNClient reports whether the user agent belongs to a known VPN app.
func IsVPNClient(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	return lo.SomeBy(vpnClientAgents, func(agent string) bool {
		return strings.Contains(ua, agent)
	})
}

// ConfigProxy answers VPN apps opening the subscription URL with the raw
// config instead of the page.
type ConfigProxy struct {
	upstream string
	http     *http.Client
	logger   *slog.Logger
}

// NewConfigProxy creates a proxy to upstream. With an empty upstream apps get
// an empty JSON object.
func NewConfigProxy(upstream string, client *http.Client, logger *slog.Logger) *ConfigProxy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ConfigProxy{
		upstream: strings.TrimSuffix(upstream, "/"),
		http:     client,
		logger:   logger,
	}
}

// Middleware serves VPN clients from the proxy and passes browsers on to next.
func (p *ConfigProxy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsVPNClient(r.UserAgent()) {
			next.ServeHTTP(w, r)
			return
		}
		p.serve(w, r, mux.Vars(r)["userId"])
	})
}

func (p *ConfigProxy) serve(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	p.logger.InfoContext(ctx, "VPN client request, serving config",
		"user_id", userID,
		"user_agent", r.UserAgent())

	if p.upstream == "" {
		writeBody(w, http.StatusOK, "application/json", []byte("{}"))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream+"/"+url.PathEscape(userID), nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to build config request", "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", r.UserAgent())

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.ErrorContext(ctx, "Config upstream failed", "user_id", userID, "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for _, name := range forwardedHeaders {
		if v := resp.Header.Get(name); v != "" {
			w.Header().Set(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxConfigSize)); err != nil {
		p.logger.WarnContext(ctx, "Config copy interrupted", "user_id", userID, "error", err)
	}
}
