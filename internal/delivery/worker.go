// Package delivery executes enqueued dispatch jobs: resolve content, send
// the message, record the delivery.
package delivery

import (
	"context"
	"html"
	"log/slog"
	"strings"

	"morning_bot/internal/content"
	"morning_bot/internal/queue"
	"morning_bot/internal/storage"
)

// Sender delivers a message to a Telegram chat. asHTML selects Telegram's
// HTML parse mode.
type Sender interface {
	Send(chatID int64, text string, asHTML bool) error
}

// IsFormattingError reports whether a send failure was caused by malformed
// markup, as opposed to a network or API problem. Telegram reports these as
// entity parse errors.
func IsFormattingError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "can't parse entities") || strings.Contains(msg, "parse")
}

// Worker consumes delivery jobs. Each job touches only its own
// (user, inspiration, language) triple, so workers need no shared locks;
// the sent ledger's unique constraint resolves commit races.
type Worker struct {
	store  storage.Storage
	sender Sender
	log    *slog.Logger
	debug  bool
}

// NewWorker creates a delivery worker.
func NewWorker(store storage.Storage, sender Sender, log *slog.Logger, debug bool) *Worker {
	return &Worker{store: store, sender: sender, log: log, debug: debug}
}

// Deliver runs one job end to end. Failures are logged, never propagated:
// one user's broken delivery must not affect the rest of the pool.
func (w *Worker) Deliver(ctx context.Context, job queue.Job) {
	insp, err := w.store.GetInspiration(ctx, job.InspirationID)
	if err != nil {
		w.log.Error("load inspiration", "inspiration_id", job.InspirationID, "error", err)
		return
	}
	book, err := w.store.GetBook(ctx, insp.BookID)
	if err != nil {
		w.log.Error("load book", "book_id", insp.BookID, "error", err)
		return
	}

	body := content.ResolveDelivery(insp, job.Language)
	if body == "" {
		w.log.Error("inspiration has no content",
			"inspiration_id", insp.ID, "language", job.Language)
		return
	}

	msg := content.InspirationMessage(job.Language, html.EscapeString(book.Title), body)

	if err := w.send(job.UserID, msg); err != nil {
		w.log.Error("send inspiration",
			"user_id", job.UserID, "inspiration_id", insp.ID, "error", err)
		return
	}

	if w.debug {
		w.log.Debug("debug mode, skipping sent record",
			"user_id", job.UserID, "inspiration_id", insp.ID, "language", job.Language)
		return
	}

	created, err := w.store.RecordSent(ctx, job.UserID, insp.ID, job.Language)
	if err != nil {
		w.log.Error("record sent",
			"user_id", job.UserID, "inspiration_id", insp.ID, "error", err)
		return
	}
	if !created {
		// Lost a race with a concurrent job for the same triple; the
		// other one committed, which is fine.
		w.log.Warn("sent record already exists",
			"user_id", job.UserID, "inspiration_id", insp.ID, "language", job.Language)
		return
	}
	w.log.Info("inspiration delivered",
		"user_id", job.UserID, "inspiration_id", insp.ID, "language", job.Language)
}

// send attempts the formatted message and retries once with markup stripped
// when Telegram rejects the formatting.
func (w *Worker) send(chatID int64, msg string) error {
	err := w.sender.Send(chatID, msg, true)
	if err == nil {
		return nil
	}
	if !IsFormattingError(err) {
		return err
	}

	w.log.Warn("formatted send failed, retrying without markup",
		"chat_id", chatID, "error", err)
	return w.sender.Send(chatID, content.StripTags(msg), false)
}
