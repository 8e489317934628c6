package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vpn-subpage/internal/stories/subs"

	sq "github.com/Masterminds/squirrel"
)

const subscriptionsTable = "subscriptions"

var subscriptionRowFields = fields(subscriptionRow{})

type subscriptionRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	VPNUsername  string    `db:"vpn_username"`
	VPNConfig    string    `db:"vpn_config"`
	Status       string    `db:"status"`
	Tariff       string    `db:"tariff"`
	ExpiresAt    time.Time `db:"expires_at"`
	TrafficUsed  float64   `db:"traffic_used"`
	TrafficLimit float64   `db:"traffic_limit"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (s subscriptionRow) ToModel() *subs.Subscription {
	return &subs.Subscription{
		ID:           s.ID,
		UserID:       s.UserID,
		VPNUsername:  s.VPNUsername,
		VPNConfig:    s.VPNConfig,
		Status:       subs.Status(s.Status),
		Tariff:       subs.Tariff(s.Tariff),
		ExpiresAt:    s.ExpiresAt,
		TrafficUsed:  s.TrafficUsed,
		TrafficLimit: s.TrafficLimit,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (s *storageImpl) CreateSubscription(ctx context.Context, subscription subs.Subscription) (*subs.Subscription, error) {
	now := s.now()

	params := map[string]interface{}{
		"user_id":       subscription.UserID,
		"vpn_username":  subscription.VPNUsername,
		"vpn_config":    subscription.VPNConfig,
		"status":        string(subscription.Status),
		"tariff":        string(subscription.Tariff),
		"expires_at":    subscription.ExpiresAt.UTC(),
		"traffic_used":  subscription.TrafficUsed,
		"traffic_limit": subscription.TrafficLimit,
		"created_at":    now,
		"updated_at":    now,
	}

	q, args, err := s.stmpBuilder().
		Insert(subscriptionsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	return s.GetSubscription(ctx, subs.GetCriteria{IDs: []int64{id}})
}

func (s *storageImpl) GetSubscription(ctx context.Context, criteria subs.GetCriteria) (*subs.Subscription, error) {
	query := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable).
		Limit(1)

	if len(criteria.IDs) > 0 {
		query = query.Where(sq.Eq{"id": criteria.IDs})
	}
	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var sub subscriptionRow
	err = s.db.GetContext(ctx, &sub, q, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return sub.ToModel(), nil
}

// GetLatestSubscriptionByTelegramID returns the subscription with the latest
// expiry of the user, or nil when there is none.
func (s *storageImpl) GetLatestSubscriptionByTelegramID(ctx context.Context, telegramID string) (*subs.Subscription, error) {
	q, args, err := s.stmpBuilder().
		Select(prefixWithTable("s", subscriptionRowFields)).
		From(subscriptionsTable + " s").
		Join(usersTable + " u ON u.id = s.user_id").
		Where(sq.Eq{"u.telegram_id": telegramID}).
		OrderBy("s.expires_at DESC", "s.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var sub subscriptionRow
	err = s.db.GetContext(ctx, &sub, q, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return sub.ToModel(), nil
}

func (s *storageImpl) ListSubscriptions(ctx context.Context, criteria subs.ListCriteria) ([]*subs.Subscription, error) {
	query := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable)

	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}
	if len(criteria.Status) > 0 {
		query = query.Where(sq.Eq{"status": criteria.Status})
	}

	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	query = query.OrderBy("expires_at DESC")

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []subscriptionRow
	err = s.db.SelectContext(ctx, &rows, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	var subscriptions []*subs.Subscription
	for _, row := range rows {
		subscriptions = append(subscriptions, row.ToModel())
	}

	return subscriptions, nil
}

// ListExpiredSubscriptions returns active subscriptions whose expiry has passed.
func (s *storageImpl) ListExpiredSubscriptions(ctx context.Context) ([]*subs.Subscription, error) {
	q, args, err := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable).
		Where(sq.Eq{"status": string(subs.StatusActive)}).
		Where(sq.LtOrEq{"expires_at": s.now()}).
		OrderBy("expires_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []subscriptionRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*subs.Subscription, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}
	return result, nil
}

func (s *storageImpl) UpdateSubscription(ctx context.Context, criteria subs.GetCriteria, params subs.UpdateParams) (*subs.Subscription, error) {
	query := s.stmpBuilder().
		Update(subscriptionsTable).
		Set("updated_at", s.now())

	if len(criteria.IDs) > 0 {
		query = query.Where(sq.Eq{"id": criteria.IDs})
	}
	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}

	if params.Status != nil {
		query = query.Set("status", string(*params.Status))
	}
	if params.ExpiresAt != nil {
		query = query.Set("expires_at", params.ExpiresAt.UTC())
	}
	if params.TrafficUsed != nil {
		query = query.Set("traffic_used", *params.TrafficUsed)
	}
	if params.TrafficLimit != nil {
		query = query.Set("traffic_limit", *params.TrafficLimit)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetSubscription(ctx, criteria)
}
