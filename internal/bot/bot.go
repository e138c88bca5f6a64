// Package bot implements the Telegram command and keyboard layer.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"morning_bot/internal/config"
	"morning_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot handles user commands and sends messages, including scheduled
// deliveries on behalf of the worker pool.
type Bot struct {
	api       telegramAPI
	store     storage.Storage
	cfg       *config.Config
	defaultTZ *time.Location
	log       *slog.Logger
}

// New creates a Bot with the given Telegram token, storage, and config.
func New(token string, store storage.Storage, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load default timezone: %w", err)
	}

	return &Bot{
		api:       api,
		store:     store,
		cfg:       cfg,
		defaultTZ: loc,
		log:       log,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// Send implements delivery.Sender. asHTML selects Telegram's HTML parse
// mode; formatting failures are returned to the caller so the worker can
// retry with markup stripped.
func (b *Bot) Send(chatID int64, text string, asHTML bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if asHTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.Send(chatID, text, true); err != nil {
		b.log.Error("reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID, msg.From.LanguageCode)
	case "help":
		b.handleHelp(ctx, chatID)
	case "book":
		b.handleBook(ctx, chatID)
	case "language":
		b.handleLanguage(ctx, chatID, args)
	case "time":
		b.handleTime(ctx, chatID, args)
	case "timezone":
		b.handleTimezone(ctx, chatID, args)
	case "today":
		b.handleToday(ctx, chatID)
	case "random":
		b.handleRandom(ctx, chatID)
	case "pause":
		b.handleSetActive(ctx, chatID, false)
	case "resume":
		b.handleSetActive(ctx, chatID, true)
	default:
		lang := b.userLanguage(ctx, chatID)
		b.reply(chatID, textFor(lang, "unknown_command"))
	}
}
