package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"vpn-subpage/internal/stories/subscription"
	"vpn-subpage/internal/stories/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const progressBlocks = 10

// Bot answers /start with the subscription summary and a button opening the
// subscription page.
type Bot struct {
	api        botAPI
	fetcher    subscription.Fetcher
	tr         translator
	users      userRegistrar
	miniAppURL string
	logger     *slog.Logger
}

// NewBot creates the bot. registrar may be nil when no database is configured.
func NewBot(
	api botAPI,
	fetcher subscription.Fetcher,
	tr translator,
	registrar userRegistrar,
	miniAppURL string,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		api:        api,
		fetcher:    fetcher,
		tr:         tr,
		users:      registrar,
		miniAppURL: strings.TrimSuffix(miniAppURL, "/"),
		logger:     logger,
	}
}

// SetupCommands публикует меню команд бота
func (b *Bot) SetupCommands() error {
	cfg := tgbotapi.NewSetMyCommands(tgbotapi.BotCommand{
		Command:     "start",
		Description: "Профиль и подписка",
	})
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Run обрабатывает обновления до закрытия канала или отмены контекста
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.Handle(ctx, &update); err != nil {
				b.logger.Error("Failed to handle update",
					slog.Int("update_id", update.UpdateID),
					slog.Any("error", err))
			}
		}
	}
}

// Handle routes a single update. Everything except /start is ignored.
func (b *Bot) Handle(ctx context.Context, update *tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return nil
	}

	switch msg.Command() {
	case "start":
		return b.start(ctx, msg)
	default:
		return nil
	}
}

func (b *Bot) start(ctx context.Context, msg *tgbotapi.Message) error {
	from := msg.From
	telegramID := strconv.FormatInt(from.ID, 10)
	lang := b.tr.Negotiate(from.LanguageCode, "")

	b.register(ctx, telegramID, from)

	var raw *subscription.Raw
	data, err := b.fetcher.FetchSubscription(ctx, telegramID)
	if err != nil {
		var netErr *subscription.NetworkError
		if !errors.As(err, &netErr) || !netErr.NotFound() {
			b.logger.ErrorContext(ctx, "Failed to fetch subscription for bot",
				slog.String("telegram_id", telegramID),
				slog.Any("error", err))
		}
	} else {
		raw = &data
	}

	text := b.tr.Get(lang, "bot.profile", map[string]interface{}{
		"name": html.EscapeString(fullName(from)),
	}) + "\n\n"

	reply := tgbotapi.NewMessage(msg.Chat.ID, "")
	reply.ParseMode = tgbotapi.ModeHTML

	if raw != nil {
		text += formatProfile(b.tr, lang, *raw)
		if b.miniAppURL != "" {
			reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonURL(
						b.tr.Get(lang, "bot.manage", nil),
						b.miniAppURL+"/"+telegramID,
					),
				),
			)
		}
	} else {
		text += b.tr.Get(lang, "bot.no_subscription", nil)
	}

	reply.Text = text
	if _, err := b.api.Send(reply); err != nil {
		return fmt.Errorf("send profile: %w", err)
	}
	return nil
}

// register сохраняет профиль пользователя; ошибки не мешают ответу
func (b *Bot) register(ctx context.Context, telegramID string, from *tgbotapi.User) {
	if b.users == nil {
		return
	}

	_, err := b.users.Upsert(ctx, telegramID, users.Profile{
		Username:  optional(from.UserName),
		FirstName: optional(from.FirstName),
		LastName:  optional(from.LastName),
	})
	if err != nil {
		b.logger.WarnContext(ctx, "Failed to save telegram user",
			slog.String("telegram_id", telegramID),
			slog.Any("error", err))
	}
}

// formatProfile renders the subscription summary as Telegram HTML.
func formatProfile(tr translator, lang string, raw subscription.Raw) string {
	sub := subscription.Normalize(raw.UserID, raw)

	status := sub.Status
	if localized, ok := tr.Lookup(lang, "status."+strings.ToLower(status)); ok {
		status = localized
	}

	used := trafficValue(raw.TrafficUsed)
	limit := trafficValue(raw.TrafficLimit)
	if limit == 0 {
		limit = 1
	}
	percent := math.Min(100, used/limit*100)

	lines := []string{
		tr.Get(lang, "bot.username", map[string]interface{}{"value": html.EscapeString(sub.Username)}),
		tr.Get(lang, "bot.status", map[string]interface{}{"value": html.EscapeString(status)}),
		tr.Get(lang, "bot.days_left", map[string]interface{}{"value": sub.DaysLeft}),
		"",
		tr.Get(lang, "bot.traffic_title", nil),
		fmt.Sprintf("%s %.1f%%", progressBar(percent), percent),
		tr.Get(lang, "bot.traffic_line", map[string]interface{}{
			"used":  fmt.Sprintf("%.2f %s", used, subscription.TrafficUnit),
			"limit": fmt.Sprintf("%.2f %s", limit, subscription.TrafficUnit),
		}),
	}
	return strings.Join(lines, "\n")
}

// progressBar draws percent as ten filled or empty blocks.
func progressBar(percent float64) string {
	if percent < 0 || math.IsNaN(percent) {
		percent = 0
	}
	filled := int(percent / 10)
	if filled > progressBlocks {
		filled = progressBlocks
	}
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", progressBlocks-filled) + "]"
}

func trafficValue(v string) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), subscription.TrafficUnit))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func fullName(u *tgbotapi.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.UserName
	}
	return name
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
