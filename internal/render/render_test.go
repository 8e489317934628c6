package render

import (
	"bytes"
	"strings"
	"testing"

	"vpn-subpage/internal/catalog"
	"vpn-subpage/internal/links"
	"vpn-subpage/internal/localization"
	"vpn-subpage/internal/state"
	"vpn-subpage/internal/stories/subscription"
)

const testBaseURL = "https://sub.example.com"

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := localization.NewService("ru")
	if err != nil {
		t.Fatalf("localization.NewService() error = %v", err)
	}
	r, err := New(loc, links.NewResolver(testBaseURL, nil), "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func testUser() subscription.UserSubscription {
	return subscription.Normalize("42", subscription.Raw{
		UserID:         "42",
		Username:       "alice",
		Status:         "active",
		ExpiresAt:      "01.12.2026",
		DaysLeft:       "5",
		TrafficUsed:    "3.5",
		TrafficLimit:   "10",
		TrafficPercent: "35",
	})
}

func newTestState(t *testing.T, user subscription.UserSubscription) *state.State {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return state.New(c, user)
}

func TestPageIsDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	st := newTestState(t, testUser())

	first, err := r.Page(st, "ru")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	second, err := r.Page(st, "ru")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("two renders of the same state differ")
	}
}

func TestPageContent(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name     string
		platform string
		provider string
		lang     string
		want     []string
		notWant  []string
	}{
		{
			name: "initial cursor",
			lang: "ru",
			want: []string{
				`<html lang="ru">`,
				`data-copy-link="https://sub.example.com/42"`,
				`id="add-subscription-btn" href="happ://add/https%3A%2F%2Fsub.example.com%2F42"`,
				`3.5 GiB / 10 GiB`,
				`width: 35%`,
				`Истекает через 5 дней`,
				`Активна`,
				`Скачать APK`,
			},
			notWant: []string{"onclick", "ZgotmplZ", "data-import-error"},
		},
		{
			name:     "second provider",
			provider: "v2raytun",
			lang:     "ru",
			want: []string{
				`href="v2raytun://import?url=https%3A%2F%2Fsub.example.com%2F42"`,
			},
			notWant: []string{"happ://add/"},
		},
		{
			name:     "desktop defaults to first provider",
			platform: "pc",
			lang:     "ru",
			want: []string{
				`<span>ПК</span>`,
				`data-provider="hiddify"`,
				`data-provider="clash"`,
			},
			notWant: []string{"Скачать APK"},
		},
		{
			name:     "clash deep link",
			platform: "pc",
			provider: "clash",
			lang:     "en",
			want: []string{
				`<html lang="en">`,
				`href="clash://install-config?url=https%3A%2F%2Fsub.example.com%2F42"`,
				`Expires in 5 days`,
				`Active`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState(t, testUser())
			if tt.platform != "" {
				if err := st.SetPlatform(tt.platform); err != nil {
					t.Fatalf("SetPlatform() error = %v", err)
				}
			}
			if tt.provider != "" {
				if err := st.SetProvider(tt.provider); err != nil {
					t.Fatalf("SetProvider() error = %v", err)
				}
			}

			out, err := r.Page(st, tt.lang)
			if err != nil {
				t.Fatalf("Page() error = %v", err)
			}
			html := string(out)

			for _, s := range tt.want {
				if !strings.Contains(html, s) {
					t.Errorf("page does not contain %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(html, s) {
					t.Errorf("page contains %q", s)
				}
			}
		})
	}
}

func TestPagePlatformOrder(t *testing.T) {
	r := newTestRenderer(t)
	st := newTestState(t, testUser())

	out, err := r.Page(st, "ru")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	html := string(out)

	prev := -1
	for _, id := range st.Catalog().PlatformIDs() {
		i := strings.Index(html, `data-platform="`+id+`"`)
		if i < 0 {
			t.Fatalf("platform %s not rendered", id)
		}
		if i < prev {
			t.Errorf("platform %s rendered out of declaration order", id)
		}
		prev = i
	}
}

func TestPageWithoutUserIDDisablesImport(t *testing.T) {
	r := newTestRenderer(t)
	st := newTestState(t, subscription.Placeholder(""))

	out, err := r.Page(st, "ru")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `id="add-subscription-btn" href="#" data-import-error="Не удалось определить ID пользователя"`) {
		t.Error("import button is not disabled for a missing user id")
	}
	if strings.Contains(html, "happ://") {
		t.Error("deep link rendered for a missing user id")
	}
}

func TestPagePlaceholderUser(t *testing.T) {
	r := newTestRenderer(t)
	st := newTestState(t, subscription.Placeholder("42"))

	out, err := r.Page(st, "ru")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	html := string(out)

	for _, s := range []string{"N/A", "Неизвестно", "0 GiB / 0 GiB", "width: 0%"} {
		if !strings.Contains(html, s) {
			t.Errorf("page does not contain %q", s)
		}
	}
}

func TestErrorAndAlert(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Error("en", "/42?platform=pc")
	if err != nil {
		t.Fatalf("Error() error = %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `id="retry-btn" href="/42?platform=pc"`) {
		t.Errorf("retry link missing in %s", html)
	}
	if !strings.Contains(html, "Loading failed") {
		t.Error("error title missing")
	}

	out, err = r.Alert("ru", "error.missing_user")
	if err != nil {
		t.Fatalf("Alert() error = %v", err)
	}
	if !strings.Contains(string(out), "Не удалось определить ID пользователя") {
		t.Error("alert message missing")
	}
}

func TestSelectionURL(t *testing.T) {
	tests := []struct {
		platform, provider, lang string
		want                     string
	}{
		{"pc", "", "ru", "?lang=ru&platform=pc"},
		{"pc", "clash", "en", "?lang=en&platform=pc&provider=clash"},
		{"", "", "", "?"},
	}

	for _, tt := range tests {
		if got := selectionURL(tt.platform, tt.provider, tt.lang); got != tt.want {
			t.Errorf("selectionURL(%q, %q, %q) = %q, want %q", tt.platform, tt.provider, tt.lang, got, tt.want)
		}
	}
}
