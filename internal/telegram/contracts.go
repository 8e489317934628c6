package telegram

import (
	"context"

	"vpn-subpage/internal/stories/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type translator interface {
	Get(lang, key string, params map[string]interface{}) string
	Lookup(lang, key string) (string, bool)
	Negotiate(explicit, acceptLanguage string) string
}

type userRegistrar interface {
	Upsert(ctx context.Context, telegramID string, profile users.Profile) (*users.User, error)
}
