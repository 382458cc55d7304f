package search

import (
	"strconv"

	"posawiki/internal/catalog"
)

// Document is the indexed form of one video.
type Document struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	UploadDate  string
	Year        int
}

// DocumentFromVideo converts a catalog row.
func DocumentFromVideo(v *catalog.Video) *Document {
	doc := &Document{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Tags:        append([]string{}, v.ValidatedTags...),
		UploadDate:  v.UploadDate,
	}
	if len(v.UploadDate) >= 4 {
		if year, err := strconv.Atoi(v.UploadDate[:4]); err == nil {
			doc.Year = year
		}
	}
	return doc
}

// toMap keeps field names aligned with the mapping.
func (d *Document) toMap() map[string]any {
	m := map[string]any{
		"title":       d.Title,
		"description": d.Description,
		"tags":        d.Tags,
		"tag_text":    d.Tags,
		"upload_date": d.UploadDate,
	}
	if d.Year > 0 {
		m["year"] = float64(d.Year)
	}
	return m
}
