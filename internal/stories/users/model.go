package users

import "time"

// User is a Telegram account that owns VPN subscriptions. TelegramID is the
// public id used in page and API paths.
type User struct {
	ID         int64
	TelegramID string
	Username   *string
	FirstName  *string
	LastName   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the username, or the first name when there is none.
func (u User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.FirstName != nil {
		return *u.FirstName
	}
	return ""
}

// Критерии для получения пользователя
type GetCriteria struct {
	ID         *int64
	TelegramID *string
}

// Критерии для удаления пользователя
type DeleteCriteria struct {
	ID         *int64
	TelegramID *string
}

// Критерии для списка пользователей
type ListCriteria struct {
	Limit  int
	Offset int
}

// Параметры для обновления пользователя
type UpdateParams struct {
	Username  *string
	FirstName *string
	LastName  *string
}

// Profile is what Telegram tells us about a user.
type Profile struct {
	Username  *string
	FirstName *string
	LastName  *string
}
