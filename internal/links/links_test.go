package links

import (
	"errors"
	"net/url"
	"testing"
)

const testBaseURL = "https://vite.pythonanywhere.com"

func TestImport(t *testing.T) {
	encodedBase := url.QueryEscape(testBaseURL)

	tests := []struct {
		name     string
		provider string
		userID   string
		want     string
		wantErr  error
	}{
		{
			name:     "happ",
			provider: "happ",
			userID:   "42",
			want:     "happ://add/" + encodedBase + "%2F42",
		},
		{
			name:     "clash",
			provider: "clash",
			userID:   "42",
			want:     "clash://install-config?url=" + encodedBase + "%2F42",
		},
		{
			name:     "v2raytun",
			provider: "v2raytun",
			userID:   "42",
			want:     "v2raytun://import?url=" + encodedBase + "%2F42",
		},
		{
			name:     "unmapped provider falls back to plain link",
			provider: "hiddify",
			userID:   "42",
			want:     testBaseURL + "/42",
		},
		{
			name:     "missing user id",
			provider: "happ",
			userID:   "",
			wantErr:  ErrMissingUserID,
		},
	}

	r := NewResolver(testBaseURL+"/", nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Import(tt.provider, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Import() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Import(%q, %q) = %q, want %q", tt.provider, tt.userID, got, tt.want)
			}
		})
	}
}

func TestEncodedBaseShape(t *testing.T) {
	if got := url.QueryEscape(testBaseURL); got != "https%3A%2F%2Fvite.pythonanywhere.com" {
		t.Fatalf("QueryEscape(base) = %q", got)
	}
}

func TestCopyPayloadIsNotEncoded(t *testing.T) {
	r := NewResolver(testBaseURL, nil)
	if got := r.CopyPayload("42"); got != testBaseURL+"/42" {
		t.Errorf("CopyPayload(42) = %q, want %q", got, testBaseURL+"/42")
	}
}

func TestCustomTable(t *testing.T) {
	r := NewResolver(testBaseURL, map[string]string{"hiddify": "hiddify://import/{link}"})

	got, err := r.Import("hiddify", "7")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if got != "hiddify://import/https%3A%2F%2Fvite.pythonanywhere.com%2F7" {
		t.Errorf("Import(hiddify) = %q", got)
	}
	if r.HasDeepLink("happ") {
		t.Error("HasDeepLink(happ) = true with custom table")
	}
}
