package subscription

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize("42", Raw{})

	want := UserSubscription{
		UserID:         "42",
		Username:       "N/A",
		Status:         "Неизвестно",
		ExpiresAt:      "N/A",
		DaysLeft:       0,
		TrafficUsed:    "0 GiB",
		TrafficLimit:   "0 GiB",
		TrafficPercent: "0%",
	}
	if got != want {
		t.Fatalf("Normalize(empty) = %+v, want %+v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   Raw
		check func(t *testing.T, got UserSubscription)
	}{
		{
			name: "numeric traffic",
			raw:  Raw{TrafficUsed: "3.5", TrafficLimit: "10", TrafficPercent: "35"},
			check: func(t *testing.T, got UserSubscription) {
				if got.TrafficUsed != "3.5 GiB" || got.TrafficLimit != "10 GiB" {
					t.Errorf("traffic = %q / %q, want 3.5 GiB / 10 GiB", got.TrafficUsed, got.TrafficLimit)
				}
				if got.TrafficPercent != "35%" || got.TrafficPercentValue != 35 {
					t.Errorf("percent = %q (%v), want 35%%", got.TrafficPercent, got.TrafficPercentValue)
				}
			},
		},
		{
			name: "unit already present is not doubled",
			raw:  Raw{TrafficUsed: "3.50 GiB", TrafficLimit: "100.00 GiB"},
			check: func(t *testing.T, got UserSubscription) {
				if got.TrafficUsed != "3.5 GiB" || got.TrafficLimit != "100 GiB" {
					t.Errorf("traffic = %q / %q, want 3.5 GiB / 100 GiB", got.TrafficUsed, got.TrafficLimit)
				}
			},
		},
		{
			name: "zero values fall back",
			raw:  Raw{TrafficUsed: "0", TrafficPercent: "0.0", DaysLeft: "0"},
			check: func(t *testing.T, got UserSubscription) {
				if got.TrafficUsed != "0 GiB" || got.TrafficPercent != "0%" || got.DaysLeft != 0 {
					t.Errorf("got %+v, want zero defaults", got)
				}
			},
		},
		{
			name: "negative and fractional days",
			raw:  Raw{DaysLeft: "-3"},
			check: func(t *testing.T, got UserSubscription) {
				if got.DaysLeft != 0 {
					t.Errorf("DaysLeft = %d, want 0", got.DaysLeft)
				}
			},
		},
		{
			name: "fractional days truncated",
			raw:  Raw{DaysLeft: "12.9"},
			check: func(t *testing.T, got UserSubscription) {
				if got.DaysLeft != 12 {
					t.Errorf("DaysLeft = %d, want 12", got.DaysLeft)
				}
			},
		},
		{
			name: "percent over limit clamps only the bar",
			raw:  Raw{TrafficPercent: "140.5%"},
			check: func(t *testing.T, got UserSubscription) {
				if got.TrafficPercent != "140.5%" {
					t.Errorf("TrafficPercent = %q, want 140.5%%", got.TrafficPercent)
				}
				if got.TrafficPercentValue != 100 {
					t.Errorf("TrafficPercentValue = %v, want 100", got.TrafficPercentValue)
				}
			},
		},
		{
			name: "text fields kept",
			raw:  Raw{Username: " vpnuser_42 ", Status: "active", ExpiresAt: "01.02.2026"},
			check: func(t *testing.T, got UserSubscription) {
				if got.Username != "vpnuser_42" || got.Status != "active" || got.ExpiresAt != "01.02.2026" {
					t.Errorf("got %+v", got)
				}
			},
		},
		{
			name: "non numeric traffic kept verbatim",
			raw:  Raw{TrafficLimit: "unlimited"},
			check: func(t *testing.T, got UserSubscription) {
				if got.TrafficLimit != "unlimited GiB" {
					t.Errorf("TrafficLimit = %q", got.TrafficLimit)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize("42", tt.raw))
		})
	}
}
