package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"morning_bot/internal/model"
	"morning_bot/internal/storage"
)

func (b *Bot) sendBookKeyboard(chatID int64, prompt string, books []model.Book) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, book := range books {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(bookButtonLabel(book), "book:"+strconv.FormatInt(book.ID, 10)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send book keyboard", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(ack); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}

	action := parts[0]
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}

	b.log.Info("callback", "action", action, "id", id, "chat_id", chatID)

	switch action {
	case "book":
		b.selectBook(ctx, chatID, id)
	}
}

func (b *Bot) selectBook(ctx context.Context, chatID, bookID int64) {
	settings, err := b.store.GetSettings(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, textFor(model.LangUkrainian, "not_registered"))
		return
	}
	if err != nil {
		b.log.Error("get settings", "chat_id", chatID, "error", err)
		return
	}

	book, err := b.store.GetBook(ctx, bookID)
	if err != nil {
		b.log.Error("get book", "book_id", bookID, "error", err)
		return
	}

	settings.BookID = &book.ID
	if err := b.store.SaveSettings(ctx, settings); err != nil {
		b.log.Error("save settings", "chat_id", chatID, "error", err)
		return
	}

	b.reply(chatID, textFor(settings.Language, "book_selected", book.Title, settings.NotificationTime.String()))
}
