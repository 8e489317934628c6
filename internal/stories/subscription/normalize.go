package subscription

import (
	"math"
	"strconv"
	"strings"
)

// Normalize maps a raw payload into the display model. Missing or falsy values
// fall back to the defaults; it never fails.
func Normalize(userID string, raw Raw) UserSubscription {
	used := quantity(raw.TrafficUsed)
	limit := quantity(raw.TrafficLimit)
	percent := quantity(strings.TrimSuffix(strings.TrimSpace(raw.TrafficPercent), "%"))

	return UserSubscription{
		UserID:              userID,
		Username:            text(raw.Username, DefaultText),
		Status:              text(raw.Status, DefaultStatus),
		ExpiresAt:           text(raw.ExpiresAt, DefaultText),
		DaysLeft:            days(raw.DaysLeft),
		TrafficUsed:         used + " " + TrafficUnit,
		TrafficLimit:        limit + " " + TrafficUnit,
		TrafficPercent:      percent + "%",
		TrafficPercentValue: clampPercent(percent),
	}
}

// Placeholder is the display model used before the API answered.
func Placeholder(userID string) UserSubscription {
	return Normalize(userID, Raw{})
}

func text(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// quantity strips a trailing unit and prints numbers in shortest form.
func quantity(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSpace(strings.TrimSuffix(v, TrafficUnit))
	if v == "" {
		return "0"
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func days(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func clampPercent(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}
