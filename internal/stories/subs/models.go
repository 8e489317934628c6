package subs

import (
	"math"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

type Tariff string

const (
	Tariff1Month   Tariff = "1month"
	Tariff3Months  Tariff = "3months"
	Tariff6Months  Tariff = "6months"
	Tariff12Months Tariff = "12months"
)

// DefaultTrafficLimit is the limit in GiB of a subscription created without one.
const DefaultTrafficLimit = 100

type Subscription struct {
	ID           int64
	UserID       int64
	VPNUsername  string
	VPNConfig    string
	Status       Status
	Tariff       Tariff
	ExpiresAt    time.Time
	TrafficUsed  float64
	TrafficLimit float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DaysLeft counts whole days until expiry, never negative.
func (s Subscription) DaysLeft(now time.Time) int {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	days := int(s.ExpiresAt.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// TrafficPercent is used/limit as a percentage rounded to one decimal; a zero
// limit yields 0.
func (s Subscription) TrafficPercent() float64 {
	if s.TrafficLimit == 0 {
		return 0
	}
	return math.Round(s.TrafficUsed/s.TrafficLimit*1000) / 10
}

// Overview is the latest subscription of a user as the subscription API reports it.
type Overview struct {
	TelegramID     string
	Username       string
	Status         Status
	ExpiresAt      time.Time
	DaysLeft       int
	TrafficUsed    float64
	TrafficLimit   float64
	TrafficPercent float64
}

// Statistics counts subscriptions per status.
type Statistics struct {
	ByStatus    map[Status]int
	ActiveUsers int
}

// Критерии для получения подписки
type GetCriteria struct {
	IDs     []int64
	UserIDs []int64
}

// Критерии для списка подписок
type ListCriteria struct {
	UserIDs []int64
	Status  []Status
	Limit   int
	Offset  int
}

// Параметры для обновления подписки
type UpdateParams struct {
	Status       *Status
	ExpiresAt    *time.Time
	TrafficUsed  *float64
	TrafficLimit *float64
}
