// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"morning_bot/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListActiveBooks(ctx context.Context) ([]model.Book, error)

	UpsertInspiration(ctx context.Context, insp *model.Inspiration) error
	GetInspiration(ctx context.Context, id int64) (*model.Inspiration, error)
	GetInspirationByDate(ctx context.Context, bookID int64, date time.Time) (*model.Inspiration, error)
	ListInspirationsByBookLanguage(ctx context.Context, language string) ([]model.Inspiration, error)

	EnsureUser(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (*model.User, error)

	GetSettings(ctx context.Context, userID int64) (*model.UserSettings, error)
	SaveSettings(ctx context.Context, s *model.UserSettings) error
	ListDispatchTargets(ctx context.Context) ([]model.DispatchTarget, error)

	RecordSent(ctx context.Context, userID, inspirationID int64, language string) (bool, error)
	WasSent(ctx context.Context, userID, inspirationID int64, language string) (bool, error)

	Close() error
}
