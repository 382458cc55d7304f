package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const videoColumns = "video_id, title, upload_date, duration, view_count, description, thumbnail_url, youtube_tags, validated_tags, unvalidated_tags, created_at, updated_at"

const tripColumns = "trip_id, trip_name, start_date, end_date, description, series_type, created_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanVideo(scanner rowScanner) (*Video, error) {
	var (
		id          string
		title       string
		uploadDate  sql.NullString
		duration    sql.NullString
		viewCount   sql.NullInt64
		description sql.NullString
		thumbnail   sql.NullString
		original    sql.NullString
		validated   sql.NullString
		unvalidated sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&title,
		&uploadDate,
		&duration,
		&viewCount,
		&description,
		&thumbnail,
		&original,
		&validated,
		&unvalidated,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	video := &Video{
		ID:           id,
		Title:        title,
		UploadDate:   uploadDate.String,
		Duration:     duration.String,
		ViewCount:    viewCount.Int64,
		Description:  description.String,
		ThumbnailURL: thumbnail.String,
	}
	var err error
	if video.OriginalTags, err = decodeTags(original.String); err != nil {
		return nil, fmt.Errorf("video %s youtube_tags: %w", id, err)
	}
	if video.ValidatedTags, err = decodeTags(validated.String); err != nil {
		return nil, fmt.Errorf("video %s validated_tags: %w", id, err)
	}
	if video.UnvalidatedTags, err = decodeTags(unvalidated.String); err != nil {
		return nil, fmt.Errorf("video %s unvalidated_tags: %w", id, err)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		video.UpdatedAt = updated
	}
	return video, nil
}

func scanTrip(scanner rowScanner, extra ...any) (*Trip, error) {
	var (
		id          int64
		name        string
		startDate   sql.NullString
		endDate     sql.NullString
		description sql.NullString
		seriesType  string
		createdRaw  sql.NullString
	)
	dest := append([]any{&id, &name, &startDate, &endDate, &description, &seriesType, &createdRaw}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	trip := &Trip{
		ID:          id,
		Name:        name,
		StartDate:   startDate.String,
		EndDate:     endDate.String,
		Description: description.String,
		SeriesType:  SeriesType(seriesType),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		trip.CreatedAt = created
	}
	return trip, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
