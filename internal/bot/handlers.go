package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"time"

	"morning_bot/internal/content"
	"morning_bot/internal/model"
	"morning_bot/internal/storage"
	"morning_bot/internal/window"
)

// textFor is a thin alias so handlers read naturally.
func textFor(lang, key string, args ...any) string {
	return content.Text(lang, key, args...)
}

// userLanguage returns the user's configured language, or Ukrainian when the
// user has no settings yet.
func (b *Bot) userLanguage(ctx context.Context, chatID int64) string {
	settings, err := b.store.GetSettings(ctx, chatID)
	if err != nil {
		return model.LangUkrainian
	}
	return settings.Language
}

// guessTimezone maps a Telegram client language code onto a plausible IANA
// timezone for the first-run default. The user can correct it via /timezone.
func guessTimezone(languageCode string) string {
	switch languageCode {
	case model.LangUkrainian:
		return "Europe/Kyiv"
	case model.LangRussian:
		return "Europe/Moscow"
	default:
		return ""
	}
}

func normalizeLanguage(code string) string {
	switch code {
	case model.LangUkrainian, model.LangRussian, model.LangEnglish:
		return code
	default:
		return model.LangUkrainian
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, languageCode string) {
	if err := b.store.EnsureUser(ctx, chatID); err != nil {
		b.log.Error("ensure user", "chat_id", chatID, "error", err)
		return
	}

	lang := normalizeLanguage(languageCode)

	// Settings are created once; a returning user keeps theirs.
	if _, err := b.store.GetSettings(ctx, chatID); errors.Is(err, storage.ErrNotFound) {
		notify, _ := model.ParseDayTime("08:00")
		settings := &model.UserSettings{
			UserID:           chatID,
			Language:         lang,
			Timezone:         guessTimezone(languageCode),
			NotificationTime: notify,
			IsActive:         true,
		}
		if err := b.store.SaveSettings(ctx, settings); err != nil {
			b.log.Error("save settings", "chat_id", chatID, "error", err)
			return
		}
	} else if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	b.reply(chatID, textFor(b.userLanguage(ctx, chatID), "welcome"))
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	b.reply(chatID, textFor(b.userLanguage(ctx, chatID), "help"))
}

func (b *Bot) handleBook(ctx context.Context, chatID int64) {
	lang := b.userLanguage(ctx, chatID)

	books, err := b.store.ListActiveBooks(ctx)
	if err != nil {
		b.log.Error("list books", "error", err)
		return
	}
	if len(books) == 0 {
		b.reply(chatID, textFor(lang, "no_inspirations"))
		return
	}

	b.sendBookKeyboard(chatID, textFor(lang, "choose_book"), books)
}

func (b *Bot) handleLanguage(ctx context.Context, chatID int64, args string) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	switch args {
	case model.LangUkrainian, model.LangRussian, model.LangEnglish:
		settings.Language = args
		if err := b.store.SaveSettings(ctx, settings); err != nil {
			b.log.Error("save settings", "chat_id", chatID, "error", err)
			return
		}
		b.reply(chatID, textFor(args, "language_set", args))
	default:
		b.reply(chatID, textFor(settings.Language, "bad_language"))
	}
}

func (b *Bot) handleTime(ctx context.Context, chatID int64, args string) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	notify, err := model.ParseDayTime(args)
	if err != nil {
		b.reply(chatID, textFor(settings.Language, "bad_time"))
		return
	}

	settings.NotificationTime = notify
	if err := b.store.SaveSettings(ctx, settings); err != nil {
		b.log.Error("save settings", "chat_id", chatID, "error", err)
		return
	}
	b.reply(chatID, textFor(settings.Language, "time_set", notify.String()))
}

func (b *Bot) handleTimezone(ctx context.Context, chatID int64, args string) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	if _, err := time.LoadLocation(args); err != nil || args == "" {
		b.reply(chatID, textFor(settings.Language, "bad_timezone"))
		return
	}

	settings.Timezone = args
	if err := b.store.SaveSettings(ctx, settings); err != nil {
		b.log.Error("save settings", "chat_id", chatID, "error", err)
		return
	}
	b.reply(chatID, textFor(settings.Language, "timezone_set", args))
}

// handleToday sends today's reading immediately, using the same rich-first
// resolution the scheduled delivery uses. No sent record is written: an
// explicit request must not consume the day's scheduled delivery.
func (b *Bot) handleToday(ctx context.Context, chatID int64) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}
	if settings.BookID == nil {
		b.reply(chatID, textFor(settings.Language, "no_book"))
		return
	}

	loc := window.ResolveLocation(settings.Timezone, b.defaultTZ)
	today := window.LocalDate(time.Now(), loc)

	insp, err := b.store.GetInspirationByDate(ctx, *settings.BookID, today)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(settings.Language, "no_content"))
		return
	}
	if err != nil {
		b.log.Error("lookup inspiration", "chat_id", chatID, "error", err)
		return
	}

	book, err := b.store.GetBook(ctx, insp.BookID)
	if err != nil {
		b.log.Error("load book", "book_id", insp.BookID, "error", err)
		return
	}

	body := content.ResolveDelivery(insp, settings.Language)
	if body == "" {
		b.reply(chatID, textFor(settings.Language, "no_content"))
		return
	}

	b.sendFormatted(chatID, content.InspirationMessage(settings.Language, html.EscapeString(book.Title), body))
}

// handleRandom sends a random excerpt using the browsing resolution: rich
// content only when the book's language matches the user's.
func (b *Bot) handleRandom(ctx context.Context, chatID int64) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	insps, err := b.store.ListInspirationsByBookLanguage(ctx, settings.Language)
	if err != nil {
		b.log.Error("list inspirations", "chat_id", chatID, "error", err)
		return
	}
	if len(insps) == 0 {
		b.reply(chatID, textFor(settings.Language, "no_inspirations"))
		return
	}

	insp := insps[rand.Intn(len(insps))]

	book, err := b.store.GetBook(ctx, insp.BookID)
	if err != nil {
		b.log.Error("load book", "book_id", insp.BookID, "error", err)
		return
	}

	body := content.ResolveBrowse(&insp, book.Language, settings.Language)
	if body == "" {
		b.reply(chatID, textFor(settings.Language, "no_content"))
		return
	}

	b.sendFormatted(chatID, content.RandomDayMessage(
		settings.Language,
		html.EscapeString(book.Title),
		insp.Date.Format("02.01.2006"),
		body,
	))
}

func (b *Bot) handleSetActive(ctx context.Context, chatID int64, active bool) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	settings.IsActive = active
	if err := b.store.SaveSettings(ctx, settings); err != nil {
		b.log.Error("save settings", "chat_id", chatID, "error", err)
		return
	}

	key := "paused"
	if active {
		key = "resumed"
	}
	b.reply(chatID, textFor(settings.Language, key))
}

// sendFormatted mirrors the delivery worker's fallback: HTML first, then a
// stripped retry when Telegram rejects the markup.
func (b *Bot) sendFormatted(chatID int64, msg string) {
	if err := b.Send(chatID, msg, true); err != nil {
		b.log.Warn("formatted send failed, retrying without markup",
			"chat_id", chatID, "error", err)
		if err := b.Send(chatID, content.StripTags(msg), false); err != nil {
			b.log.Error("send message", "chat_id", chatID, "error", err)
		}
	}
}

func bookButtonLabel(book model.Book) string {
	return fmt.Sprintf("%s (%s)", book.Title, book.Language)
}
