// Package importer scrapes daily-reading pages of a book and stores them as
// inspirations.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"morning_bot/internal/model"
	"morning_bot/internal/storage"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Stats summarizes one import run.
type Stats struct {
	Pages    int
	Imported int
	Skipped  int
	Errors   int
}

// Importer walks a book's reading pages, one page per calendar date,
// following next-page links until none remain or MaxPages is hit.
type Importer struct {
	client   HTTPClient
	store    storage.Storage
	log      *slog.Logger
	delay    time.Duration
	maxPages int
}

// New creates an Importer. delay throttles requests to the source site.
func New(client HTTPClient, store storage.Storage, log *slog.Logger, delay time.Duration, maxPages int) *Importer {
	if maxPages <= 0 {
		maxPages = 400
	}
	return &Importer{
		client:   client,
		store:    store,
		log:      log,
		delay:    delay,
		maxPages: maxPages,
	}
}

// ImportBook imports all reading pages of a book starting from its source
// URL. Re-running is safe: inspirations are upserted by (book, date).
func (im *Importer) ImportBook(ctx context.Context, book *model.Book) (Stats, error) {
	var stats Stats

	if book.SourceURL == "" {
		return stats, fmt.Errorf("book %q has no source URL", book.Title)
	}

	pageURL := book.SourceURL
	for stats.Pages < im.maxPages && pageURL != "" {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		page, err := im.fetchPage(ctx, pageURL)
		if err != nil {
			stats.Errors++
			return stats, fmt.Errorf("fetch %s: %w", pageURL, err)
		}
		stats.Pages++

		reading, next, err := ParsePage(page, pageURL)
		if err != nil {
			im.log.Warn("skip unparseable page", "url", pageURL, "error", err)
			stats.Skipped++
			pageURL = next
			continue
		}

		insp := &model.Inspiration{
			BookID:       book.ID,
			Date:         reading.Date,
			OriginalText: reading.Text,
			HTMLContent:  reading.HTML,
		}
		if err := im.store.UpsertInspiration(ctx, insp); err != nil {
			im.log.Error("store inspiration", "url", pageURL, "error", err)
			stats.Errors++
		} else {
			stats.Imported++
		}

		pageURL = next
		if pageURL != "" && im.delay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(im.delay):
			}
		}
	}

	return stats, nil
}

func (im *Importer) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "MorningBotImporter/1.0")

	resp, err := im.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// Reading is one parsed daily-reading page.
type Reading struct {
	Date time.Time
	Text string
	HTML string
}

// ParsePage extracts the reading and the next-page link from a page.
// The layout: the reading sits in a .reading element with a date heading
// (e.g. "January 1") and the excerpt body; the next page is linked with
// rel="next".
func ParsePage(pageHTML, pageURL string) (Reading, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return Reading{}, "", fmt.Errorf("parse html: %w", err)
	}

	next := resolveLink(doc.Find(`a[rel="next"]`).First().AttrOr("href", ""), pageURL)

	article := doc.Find(".reading").First()
	if article.Length() == 0 {
		return Reading{}, next, fmt.Errorf("no reading element")
	}

	dateText := strings.TrimSpace(article.Find(".reading-date").First().Text())
	date, err := parseReadingDate(dateText)
	if err != nil {
		return Reading{}, next, err
	}

	body := article.Find(".reading-body").First()
	if body.Length() == 0 {
		return Reading{}, next, fmt.Errorf("no reading body")
	}

	bodyHTML, err := body.Html()
	if err != nil {
		return Reading{}, next, fmt.Errorf("extract body html: %w", err)
	}

	text := strings.TrimSpace(body.Text())
	if text == "" {
		return Reading{}, next, fmt.Errorf("empty reading body")
	}

	return Reading{
		Date: date,
		Text: text,
		HTML: strings.TrimSpace(bodyHTML),
	}, next, nil
}

// parseReadingDate accepts "January 2" and "January 2, 2006" headings.
// Dates without a year are pinned to the current year.
func parseReadingDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("no date heading")
	}
	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t, nil
	}
	t, err := time.Parse("January 2", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func resolveLink(href, base string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
