package users

import (
	"context"
	"fmt"
)

// Service provides business logic for user operations
type Service struct {
	storage Storage
}

// NewService creates a new user service
func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Upsert создает пользователя или обновляет профиль существующего
func (s *Service) Upsert(ctx context.Context, telegramID string, profile Profile) (*User, error) {
	if telegramID == "" {
		return nil, fmt.Errorf("empty telegram id")
	}

	existing, err := s.storage.GetUser(ctx, GetCriteria{TelegramID: &telegramID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if existing == nil {
		created, err := s.storage.CreateUser(ctx, User{
			TelegramID: telegramID,
			Username:   profile.Username,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return created, nil
	}

	updated, err := s.storage.UpdateUser(ctx, GetCriteria{ID: &existing.ID}, UpdateParams{
		Username:  profile.Username,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
