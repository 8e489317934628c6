package subapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vpn-subpage/internal/stories/subscription"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeRaw(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    subscription.Raw
		wantErr bool
	}{
		{
			name: "numbers",
			body: `{"username":"u","daysLeft":12,"trafficUsed":3.5,"trafficLimit":10,"trafficPercent":35}`,
			want: subscription.Raw{Username: "u", DaysLeft: "12", TrafficUsed: "3.5", TrafficLimit: "10", TrafficPercent: "35"},
		},
		{
			name: "strings and nulls",
			body: `{"userId":"42","status":"active","expiresAt":"01.02.2026","trafficUsed":"3.50 GiB","username":null}`,
			want: subscription.Raw{UserID: "42", Status: "active", ExpiresAt: "01.02.2026", TrafficUsed: "3.50 GiB"},
		},
		{
			name: "unknown fields skipped",
			body: `{"extra":{"nested":[1,2,3]},"daysLeft":1.0,"flag":true}`,
			want: subscription.Raw{DaysLeft: "1"},
		},
		{
			name: "empty object",
			body: `{}`,
			want: subscription.Raw{},
		},
		{
			name:    "not an object",
			body:    `[1,2]`,
			wantErr: true,
		},
		{
			name:    "broken json",
			body:    `{"username":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRaw([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeRaw(%s) error = nil, want error", tt.body)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeRaw(%s) error = %v", tt.body, err)
			}
			if got != tt.want {
				t.Errorf("DecodeRaw(%s) = %+v, want %+v", tt.body, got, tt.want)
			}
		})
	}
}

func TestFetchSubscription(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		switch r.URL.Path {
		case "/api/subscription/42":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"username":"vpnuser_42","trafficUsed":3.5}`)
		case "/api/subscription/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/", discardLogger(), WithTimeout(time.Second), WithRateLimit(100, 1))

	raw, err := client.FetchSubscription(context.Background(), "42")
	if err != nil {
		t.Fatalf("FetchSubscription(42) error = %v", err)
	}
	if raw.Username != "vpnuser_42" || raw.TrafficUsed != "3.5" {
		t.Errorf("FetchSubscription(42) = %+v", raw)
	}
	if gotPath != "/api/subscription/42" {
		t.Errorf("path = %q", gotPath)
	}

	tests := []struct {
		userID     string
		wantStatus int
	}{
		{userID: "missing", wantStatus: http.StatusNotFound},
		{userID: "boom", wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			_, err := client.FetchSubscription(context.Background(), tt.userID)
			var netErr *subscription.NetworkError
			if !errors.As(err, &netErr) {
				t.Fatalf("error = %v, want *NetworkError", err)
			}
			if netErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", netErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestFetchSubscriptionEscapesUserID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, discardLogger())
	if _, err := client.FetchSubscription(context.Background(), "a/b c"); err != nil {
		t.Fatalf("FetchSubscription error = %v", err)
	}
	if gotPath != "/subscription/a%2Fb%20c" {
		t.Errorf("path = %q, want /subscription/a%%2Fb%%20c", gotPath)
	}
}

func TestFetchSubscriptionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient(addr, discardLogger(), WithTimeout(time.Second))
	_, err := client.FetchSubscription(context.Background(), "42")

	var netErr *subscription.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", netErr.StatusCode)
	}
}

func TestWithTimeoutKeepsSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	client := NewClient("http://127.0.0.1", discardLogger(), WithHTTPClient(shared), WithTimeout(time.Second))

	if shared.Timeout != time.Minute {
		t.Errorf("shared client Timeout = %v, want %v", shared.Timeout, time.Minute)
	}
	if client.http == shared {
		t.Error("client reuses the shared *http.Client after WithTimeout")
	}
	if client.http.Timeout != time.Second {
		t.Errorf("client Timeout = %v, want %v", client.http.Timeout, time.Second)
	}
}
