package storage

import (
	"context"
	"fmt"

	"vpn-subpage/internal/stories/subs"

	sq "github.com/Masterminds/squirrel"
)

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (s *storageImpl) GetSubscriptionCountsByStatus(ctx context.Context) (map[subs.Status]int, error) {
	query := s.stmpBuilder().
		Select("status", "COUNT(*) AS count").
		From(subscriptionsTable).
		GroupBy("status")

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []statusCount
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	counts := make(map[subs.Status]int, len(rows))
	for _, row := range rows {
		counts[subs.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (s *storageImpl) GetActiveUsersCount(ctx context.Context) (int, error) {
	query := s.stmpBuilder().
		Select("COUNT(DISTINCT user_id)").
		From(subscriptionsTable).
		Where(sq.Eq{"status": string(subs.StatusActive)})

	q, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var count int
	err = s.db.GetContext(ctx, &count, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return count, nil
}

// GetStatistics собирает срез по подпискам для метрик
func (s *storageImpl) GetStatistics(ctx context.Context) (*subs.Statistics, error) {
	byStatus, err := s.GetSubscriptionCountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("get subscription counts: %w", err)
	}

	activeUsers, err := s.GetActiveUsersCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active users count: %w", err)
	}

	return &subs.Statistics{
		ByStatus:    byStatus,
		ActiveUsers: activeUsers,
	}, nil
}
