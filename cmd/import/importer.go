package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"vpn-subpage/internal/stories/subs"
	"vpn-subpage/internal/stories/users"
)

// Колонки CSV: telegram_id, username, vpn_username, tariff, expires_at, traffic_used, traffic_limit
const minColumns = 5

type userUpserter interface {
	Upsert(ctx context.Context, telegramID string, profile users.Profile) (*users.User, error)
}

type subscriptionCreator interface {
	Create(ctx context.Context, subscription subs.Subscription) (*subs.Subscription, error)
}

type importer struct {
	users  userUpserter
	subs   subscriptionCreator
	now    func() time.Time
	dryRun bool
	logger *slog.Logger
}

type result struct {
	Imported int
	Skipped  int
	Errors   int
}

type record struct {
	telegramID   string
	username     string
	vpnUsername  string
	tariff       subs.Tariff
	expiresAt    time.Time
	trafficUsed  float64
	trafficLimit float64
}

func (im *importer) Import(ctx context.Context, r io.Reader) (result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return result{}, fmt.Errorf("read csv: %w", err)
	}

	var res result
	for i, row := range rows {
		if i == 0 {
			continue
		}

		rec, err := parseRecord(row)
		if err != nil {
			im.logger.Warn("Skipping row", "row", i+1, "reason", err)
			res.Skipped++
			continue
		}

		if im.dryRun {
			im.logger.Info("Dry run",
				"telegram_id", rec.telegramID,
				"tariff", rec.tariff,
				"expires_at", rec.expiresAt.Format("02.01.2006"))
			res.Imported++
			continue
		}

		if err := im.store(ctx, rec); err != nil {
			im.logger.Error("Failed to import row", "row", i+1, "error", err)
			res.Errors++
			continue
		}
		res.Imported++
	}

	return res, nil
}

func (im *importer) store(ctx context.Context, rec record) error {
	var username *string
	if rec.username != "" {
		username = &rec.username
	}

	user, err := im.users.Upsert(ctx, rec.telegramID, users.Profile{Username: username})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", rec.telegramID, err)
	}

	status := subs.StatusActive
	if !rec.expiresAt.After(im.now()) {
		status = subs.StatusExpired
	}

	_, err = im.subs.Create(ctx, subs.Subscription{
		UserID:       user.ID,
		VPNUsername:  rec.vpnUsername,
		Status:       status,
		Tariff:       rec.tariff,
		ExpiresAt:    rec.expiresAt,
		TrafficUsed:  rec.trafficUsed,
		TrafficLimit: rec.trafficLimit,
	})
	if err != nil {
		return fmt.Errorf("create subscription for %s: %w", rec.telegramID, err)
	}
	return nil
}

func parseRecord(row []string) (record, error) {
	if len(row) < minColumns {
		return record{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	col := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	telegramID := col(0)
	if _, err := strconv.ParseInt(telegramID, 10, 64); err != nil {
		return record{}, fmt.Errorf("invalid telegram id %q", telegramID)
	}

	tariff, ok := parseTariff(col(3))
	if !ok {
		return record{}, fmt.Errorf("unknown tariff %q", col(3))
	}

	expiresAt, err := parseDate(col(4))
	if err != nil {
		return record{}, err
	}

	used, err := parseTraffic(col(5))
	if err != nil {
		return record{}, fmt.Errorf("invalid traffic_used: %w", err)
	}
	limit, err := parseTraffic(col(6))
	if err != nil {
		return record{}, fmt.Errorf("invalid traffic_limit: %w", err)
	}

	vpnUsername := col(2)
	if vpnUsername == "" {
		vpnUsername = "tg" + telegramID
	}

	return record{
		telegramID:   telegramID,
		username:     col(1),
		vpnUsername:  vpnUsername,
		tariff:       tariff,
		expiresAt:    expiresAt,
		trafficUsed:  used,
		trafficLimit: limit,
	}, nil
}

func parseTariff(tariff string) (subs.Tariff, bool) {
	tariff = strings.ToLower(tariff)

	switch {
	case strings.Contains(tariff, "1г"), strings.Contains(tariff, "12м"), strings.Contains(tariff, "12m"):
		return subs.Tariff12Months, true
	case strings.Contains(tariff, "6м"), strings.Contains(tariff, "6m"):
		return subs.Tariff6Months, true
	case strings.Contains(tariff, "3м"), strings.Contains(tariff, "3m"):
		return subs.Tariff3Months, true
	case strings.Contains(tariff, "1м"), strings.Contains(tariff, "1m"):
		return subs.Tariff1Month, true
	}
	return "", false
}

// parseDate reads dd.mm.yyyy dates and stores them as the end of that day, UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	formats := []string{
		"02.01.2006",
		"2.1.2006",
		"02.1.2006",
		"2.01.2006",
	}

	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t.Add(24*time.Hour - time.Second), nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date: %s", s)
}

// parseTraffic accepts "12.5", "12,5" or "12.5 GiB". Empty means zero.
func parseTraffic(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "GiB"))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value %v", f)
	}
	return f, nil
}
