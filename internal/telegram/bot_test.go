package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"vpn-subpage/internal/localization"
	"vpn-subpage/internal/stories/subscription"
	"vpn-subpage/internal/stories/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeFetcher struct {
	raw subscription.Raw
	err error
}

func (f fakeFetcher) FetchSubscription(context.Context, string) (subscription.Raw, error) {
	return f.raw, f.err
}

type fakeRegistrar struct {
	telegramIDs []string
	err         error
}

func (f *fakeRegistrar) Upsert(_ context.Context, telegramID string, _ users.Profile) (*users.User, error) {
	f.telegramIDs = append(f.telegramIDs, telegramID)
	if f.err != nil {
		return nil, f.err
	}
	return &users.User{TelegramID: telegramID}, nil
}

func newTranslator(t *testing.T) *localization.Service {
	t.Helper()
	tr, err := localization.NewService("ru")
	if err != nil {
		t.Fatalf("localization: %v", err)
	}
	return tr
}

func startUpdate(lang string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Text:     "/start",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
			Chat:     &tgbotapi.Chat{ID: 100},
			From: &tgbotapi.User{
				ID:           42,
				FirstName:    "Иван",
				LastName:     "<Петров>",
				UserName:     "ivan",
				LanguageCode: lang,
			},
		},
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{name: "empty", percent: 0, want: "[□□□□□□□□□□]"},
		{name: "rounds down", percent: 35, want: "[■■■□□□□□□□]"},
		{name: "almost full", percent: 99.9, want: "[■■■■■■■■■□]"},
		{name: "full", percent: 100, want: "[■■■■■■■■■■]"},
		{name: "over", percent: 250, want: "[■■■■■■■■■■]"},
		{name: "negative", percent: -5, want: "[□□□□□□□□□□]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progressBar(tt.percent); got != tt.want {
				t.Errorf("progressBar(%v) = %q, want %q", tt.percent, got, tt.want)
			}
		})
	}
}

func TestFormatProfile(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		name     string
		lang     string
		raw      subscription.Raw
		contains []string
	}{
		{
			name: "active",
			lang: "ru",
			raw: subscription.Raw{
				Username: "ivan", Status: "active", DaysLeft: "5",
				TrafficUsed: "3.5", TrafficLimit: "10",
			},
			contains: []string{
				"👤 <b>Имя пользователя:</b> ivan",
				"🔄 <b>Статус:</b> Активна",
				"📅 <b>Осталось дней:</b> 5",
				"[■■■□□□□□□□] 35.0%",
				"▸ 3.50 GiB из 10.00 GiB",
			},
		},
		{
			name: "over limit is clamped",
			lang: "ru",
			raw:  subscription.Raw{TrafficUsed: "30 GiB", TrafficLimit: "10 GiB"},
			contains: []string{
				"[■■■■■■■■■■] 100.0%",
				"▸ 30.00 GiB из 10.00 GiB",
				"<b>Имя пользователя:</b> N/A",
			},
		},
		{
			name: "zero limit",
			lang: "en",
			raw:  subscription.Raw{Status: "weird<b>", TrafficUsed: "0.5", TrafficLimit: "0"},
			contains: []string{
				"[■■■■■□□□□□] 50.0%",
				"▸ 0.50 GiB of 1.00 GiB",
				"<b>Status:</b> weird&lt;b&gt;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatProfile(tr, tt.lang, tt.raw)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatProfile() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestHandleStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		fetcher    fakeFetcher
		lang       string
		wantButton bool
		contains   []string
	}{
		{
			name:       "with subscription",
			fetcher:    fakeFetcher{raw: subscription.Raw{Username: "ivan", Status: "active", TrafficUsed: "1", TrafficLimit: "10"}},
			lang:       "ru",
			wantButton: true,
			contains:   []string{"👤 Профиль: Иван &lt;Петров&gt;\n\n", "[■□□□□□□□□□] 10.0%"},
		},
		{
			name:     "unknown user",
			fetcher:  fakeFetcher{err: &subscription.NetworkError{UserID: "42", StatusCode: 404}},
			lang:     "en",
			contains: []string{"👤 Profile: Иван", "You have no active subscription yet."},
		},
		{
			name:     "api down",
			fetcher:  fakeFetcher{err: &subscription.NetworkError{UserID: "42", Err: errors.New("connection refused")}},
			lang:     "",
			contains: []string{"У вас пока нет активной подписки."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			registrar := &fakeRegistrar{}
			bot := NewBot(api, tt.fetcher, newTranslator(t), registrar, "https://sub.example.com/", logger)

			if err := bot.Handle(context.Background(), startUpdate(tt.lang)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if len(api.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(api.sent))
			}
			msg := api.sent[0]
			if msg.ChatID != 100 {
				t.Errorf("chat id = %d, want 100", msg.ChatID)
			}
			if msg.ParseMode != tgbotapi.ModeHTML {
				t.Errorf("parse mode = %q", msg.ParseMode)
			}
			for _, want := range tt.contains {
				if !strings.Contains(msg.Text, want) {
					t.Errorf("text missing %q in:\n%s", want, msg.Text)
				}
			}

			markup, hasButton := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
			if hasButton != tt.wantButton {
				t.Fatalf("button present = %v, want %v", hasButton, tt.wantButton)
			}
			if hasButton {
				btn := markup.InlineKeyboard[0][0]
				if btn.URL == nil || *btn.URL != "https://sub.example.com/42" {
					t.Errorf("button url = %v, want https://sub.example.com/42", btn.URL)
				}
			}

			if len(registrar.telegramIDs) != 1 || registrar.telegramIDs[0] != "42" {
				t.Errorf("registered = %v, want [42]", registrar.telegramIDs)
			}
		})
	}
}

func TestHandleIgnoresOtherUpdates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeAPI{}
	bot := NewBot(api, fakeFetcher{}, newTranslator(t), nil, "", logger)

	updates := []*tgbotapi.Update{
		{UpdateID: 1},
		{UpdateID: 2, Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}, From: &tgbotapi.User{ID: 1}}},
		{UpdateID: 3, Message: &tgbotapi.Message{
			Text:     "/help",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 5}},
			Chat:     &tgbotapi.Chat{ID: 1},
			From:     &tgbotapi.User{ID: 1},
		}},
	}
	for _, u := range updates {
		if err := bot.Handle(context.Background(), u); err != nil {
			t.Fatalf("Handle(%d) error = %v", u.UpdateID, err)
		}
	}
	if len(api.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(api.sent))
	}
}

func TestRegistrationFailureDoesNotBlockReply(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeAPI{}
	registrar := &fakeRegistrar{err: errors.New("db locked")}
	bot := NewBot(api, fakeFetcher{raw: subscription.Raw{Status: "active"}}, newTranslator(t), registrar, "https://sub.example.com", logger)

	if err := bot.Handle(context.Background(), startUpdate("ru")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
}
