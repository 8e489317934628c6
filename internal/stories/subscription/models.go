package subscription

// Raw is the subscription payload as the API sent it. Every field is the textual
// form of whatever value arrived; absent or null values are empty.
type Raw struct {
	UserID         string
	Username       string
	Status         string
	ExpiresAt      string
	DaysLeft       string
	TrafficUsed    string
	TrafficLimit   string
	TrafficPercent string
}

// UserSubscription is the display model of a user's subscription.
type UserSubscription struct {
	UserID         string
	Username       string
	Status         string
	ExpiresAt      string
	DaysLeft       int
	TrafficUsed    string
	TrafficLimit   string
	TrafficPercent string

	// TrafficPercentValue is the numeric percent clamped to [0, 100], used for the progress width.
	TrafficPercentValue float64
}

const (
	DefaultText    = "N/A"
	DefaultStatus  = "Неизвестно"
	DefaultTraffic = "0 GiB"
	DefaultPercent = "0%"

	TrafficUnit = "GiB"
)
