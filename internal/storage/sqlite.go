package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"morning_bot/internal/model"
	"morning_bot/migrations"
)

const (
	timeLayout = "2006-01-02T15:04:05Z"
	dateLayout = "2006-01-02"
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps writes serialized and makes ":memory:"
	// databases behave: every pooled connection would otherwise get its
	// own empty in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateBook inserts a new book and populates its ID and CreatedAt.
func (s *SQLite) CreateBook(ctx context.Context, book *model.Book) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, language, is_active, source_url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		book.Title, book.Language, boolToInt(book.IsActive), book.SourceURL, now,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	book.ID = id
	book.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetBook returns a single book by its ID.
func (s *SQLite) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, language, is_active, source_url, created_at
		 FROM books WHERE id = ?`, id,
	)
	return scanBook(row)
}

// ListActiveBooks returns all active books ordered by ID.
func (s *SQLite) ListActiveBooks(ctx context.Context) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, language, is_active, source_url, created_at
		 FROM books WHERE is_active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// UpsertInspiration inserts an inspiration or replaces the content fields of
// the existing row for the same (book, date). The importer relies on this to
// be re-runnable.
func (s *SQLite) UpsertInspiration(ctx context.Context, insp *model.Inspiration) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inspirations
		   (book_id, date, original_text, translation_uk, translation_ru, translation_en, html_content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (book_id, date) DO UPDATE SET
		   original_text = excluded.original_text,
		   translation_uk = excluded.translation_uk,
		   translation_ru = excluded.translation_ru,
		   translation_en = excluded.translation_en,
		   html_content = excluded.html_content`,
		insp.BookID, insp.Date.Format(dateLayout),
		insp.OriginalText, insp.TranslationUK, insp.TranslationRU, insp.TranslationEN,
		insp.HTMLContent, now,
	)
	if err != nil {
		return fmt.Errorf("upsert inspiration: %w", err)
	}

	// LastInsertId is unreliable when the conflict branch fires, so read
	// the row ID back by its natural key.
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM inspirations WHERE book_id = ? AND date = ?`,
		insp.BookID, insp.Date.Format(dateLayout),
	).Scan(&insp.ID)
	if err != nil {
		return fmt.Errorf("read inspiration id: %w", err)
	}
	return nil
}

// GetInspiration returns a single inspiration by its ID.
func (s *SQLite) GetInspiration(ctx context.Context, id int64) (*model.Inspiration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, book_id, date, original_text, translation_uk, translation_ru, translation_en, html_content, created_at
		 FROM inspirations WHERE id = ?`, id,
	)
	return scanInspiration(row)
}

// GetInspirationByDate returns the inspiration for a book on a calendar date.
func (s *SQLite) GetInspirationByDate(ctx context.Context, bookID int64, date time.Time) (*model.Inspiration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, book_id, date, original_text, translation_uk, translation_ru, translation_en, html_content, created_at
		 FROM inspirations WHERE book_id = ? AND date = ?`,
		bookID, date.Format(dateLayout),
	)
	return scanInspiration(row)
}

// ListInspirationsByBookLanguage returns all inspirations whose book is
// active and written in the given language.
func (s *SQLite) ListInspirationsByBookLanguage(ctx context.Context, language string) ([]model.Inspiration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.book_id, i.date, i.original_text, i.translation_uk, i.translation_ru, i.translation_en, i.html_content, i.created_at
		 FROM inspirations i
		 JOIN books b ON b.id = i.book_id
		 WHERE b.language = ? AND b.is_active = 1
		 ORDER BY i.id`,
		language,
	)
	if err != nil {
		return nil, fmt.Errorf("query inspirations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var insps []model.Inspiration
	for rows.Next() {
		i, err := scanInspiration(rows)
		if err != nil {
			return nil, err
		}
		insps = append(insps, *i)
	}
	return insps, rows.Err()
}

// EnsureUser creates the user row if it does not exist yet.
func (s *SQLite) EnsureUser(ctx context.Context, userID int64) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, is_active, created_at) VALUES (?, 1, ?)`,
		userID, now,
	)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// GetUser returns a single user by its Telegram chat ID.
func (s *SQLite) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	var isActive int
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, is_active, created_at FROM users WHERE id = ?`, userID,
	).Scan(&u.ID, &isActive, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = isActive == 1
	u.CreatedAt, _ = time.Parse(timeLayout, created)
	return &u, nil
}

// GetSettings returns the settings row for a user.
func (s *SQLite) GetSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	var us model.UserSettings
	var bookID sql.NullInt64
	var notify, updated string
	var isActive int
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, book_id, language, timezone, notification_time, is_active, updated_at
		 FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&us.UserID, &bookID, &us.Language, &us.Timezone, &notify, &isActive, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	if bookID.Valid {
		us.BookID = &bookID.Int64
	}
	us.NotificationTime, err = model.ParseDayTime(notify)
	if err != nil {
		return nil, fmt.Errorf("settings for user %d: %w", userID, err)
	}
	us.IsActive = isActive == 1
	us.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &us, nil
}

// SaveSettings inserts or replaces the settings row for a user.
func (s *SQLite) SaveSettings(ctx context.Context, us *model.UserSettings) error {
	now := time.Now().UTC().Format(timeLayout)
	var bookID any
	if us.BookID != nil {
		bookID = *us.BookID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, book_id, language, timezone, notification_time, is_active, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   book_id = excluded.book_id,
		   language = excluded.language,
		   timezone = excluded.timezone,
		   notification_time = excluded.notification_time,
		   is_active = excluded.is_active,
		   updated_at = excluded.updated_at`,
		us.UserID, bookID, us.Language, us.Timezone, us.NotificationTime.String(),
		boolToInt(us.IsActive), now,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	us.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// ListDispatchTargets returns settings eligible for dispatch: active user,
// active settings, book selected.
func (s *SQLite) ListDispatchTargets(ctx context.Context) ([]model.DispatchTarget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.user_id, s.book_id, s.language, s.timezone, s.notification_time
		 FROM user_settings s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.is_active = 1 AND u.is_active = 1 AND s.book_id IS NOT NULL
		 ORDER BY s.user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query dispatch targets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var targets []model.DispatchTarget
	for rows.Next() {
		var t model.DispatchTarget
		var notify string
		if err := rows.Scan(&t.UserID, &t.BookID, &t.Language, &t.Timezone, &notify); err != nil {
			return nil, fmt.Errorf("scan dispatch target: %w", err)
		}
		t.NotificationTime, err = model.ParseDayTime(notify)
		if err != nil {
			return nil, fmt.Errorf("target for user %d: %w", t.UserID, err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// RecordSent atomically records a delivery. It returns true if the record was
// created, false if it already existed. The unique constraint on
// (user_id, inspiration_id, language) makes concurrent commits safe.
func (s *SQLite) RecordSent(ctx context.Context, userID, inspirationID int64, language string) (bool, error) {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sent_inspirations (user_id, inspiration_id, language, sent_at)
		 VALUES (?, ?, ?, ?)`,
		userID, inspirationID, language, now,
	)
	if err != nil {
		return false, fmt.Errorf("record sent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// WasSent checks whether a delivery was already recorded.
func (s *SQLite) WasSent(ctx context.Context, userID, inspirationID int64, language string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sent_inspirations WHERE user_id = ? AND inspiration_id = ? AND language = ?`,
		userID, inspirationID, language,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check sent: %w", err)
	}
	return count > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBook(row scannable) (*model.Book, error) {
	var b model.Book
	var isActive int
	var created string
	err := row.Scan(&b.ID, &b.Title, &b.Language, &isActive, &b.SourceURL, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}
	b.IsActive = isActive == 1
	b.CreatedAt, _ = time.Parse(timeLayout, created)
	return &b, nil
}

func scanInspiration(row scannable) (*model.Inspiration, error) {
	var i model.Inspiration
	var date, created string
	err := row.Scan(&i.ID, &i.BookID, &date, &i.OriginalText,
		&i.TranslationUK, &i.TranslationRU, &i.TranslationEN, &i.HTMLContent, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inspiration: %w", err)
	}
	i.Date, _ = time.Parse(dateLayout, date)
	i.CreatedAt, _ = time.Parse(timeLayout, created)
	return &i, nil
}
