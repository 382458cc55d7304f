package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"posawiki/internal/validation"
)

var scrapeValidator = validation.New()

// Scrape is the channel dump produced by the scraper.
type Scrape struct {
	Info   ScrapeInfo     `json:"scrape_info"`
	Videos []ScrapedVideo `json:"videos" validate:"required,dive"`
}

// ScrapeInfo describes when the dump was taken.
type ScrapeInfo struct {
	Timestamp string `json:"timestamp"`
}

// ScrapedVideo mirrors the YouTube Data API video resource fields we keep.
type ScrapedVideo struct {
	ID             string         `json:"id" validate:"required"`
	Snippet        Snippet        `json:"snippet"`
	ContentDetails ContentDetails `json:"contentDetails"`
	Statistics     Statistics     `json:"statistics"`
}

// Snippet holds the descriptive video fields.
type Snippet struct {
	Title       string     `json:"title" validate:"required"`
	PublishedAt string     `json:"publishedAt"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// Thumbnails keeps the high resolution thumbnail only.
type Thumbnails struct {
	High Thumbnail `json:"high"`
}

// Thumbnail is one thumbnail rendition.
type Thumbnail struct {
	URL string `json:"url"`
}

// ContentDetails carries the ISO-8601 duration.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Statistics carries the view counter, which the API encodes as a string.
type Statistics struct {
	ViewCount string `json:"viewCount"`
}

// Views parses the view counter. Missing or malformed values count as zero.
func (s Statistics) Views() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s.ViewCount), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// LoadScrape reads and validates a scrape file. Structural problems fail the
// whole load; nothing is imported from a malformed file.
func LoadScrape(path string) (*Scrape, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("scrape file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scrape file: %w", err)
	}
	var scrape Scrape
	if err := json.Unmarshal(data, &scrape); err != nil {
		return nil, fmt.Errorf("decode scrape file %s: %w", path, err)
	}
	if err := scrapeValidator.Validate("scrape file", &scrape); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(scrape.Videos))
	for i, v := range scrape.Videos {
		if _, dup := seen[v.ID]; dup {
			return nil, fmt.Errorf("scrape file %s: video %d repeats id %q", path, i, v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return &scrape, nil
}
