package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested video or trip does not exist.
var ErrNotFound = errors.New("not found")

// SeriesType separates recurring shows from one-off multi-part trips.
type SeriesType string

const (
	SeriesTypeSeries SeriesType = "series"
	SeriesTypeTrip   SeriesType = "trip"
)

// ParseSeriesType validates a stored or user-supplied series type.
func ParseSeriesType(value string) (SeriesType, error) {
	switch st := SeriesType(strings.ToLower(strings.TrimSpace(value))); st {
	case SeriesTypeSeries, SeriesTypeTrip:
		return st, nil
	default:
		return "", fmt.Errorf("unknown series type %q", value)
	}
}

// VersionType describes how a video is labelled within its trip.
type VersionType string

const (
	VersionPart     VersionType = "part"
	VersionEpisode  VersionType = "episode"
	VersionNight    VersionType = "night"
	VersionExtended VersionType = "extended"
	VersionDay      VersionType = "day"
)

// ParseVersionType validates a version type.
func ParseVersionType(value string) (VersionType, error) {
	switch vt := VersionType(strings.ToLower(strings.TrimSpace(value))); vt {
	case VersionPart, VersionEpisode, VersionNight, VersionExtended, VersionDay:
		return vt, nil
	default:
		return "", fmt.Errorf("unknown version type %q", value)
	}
}

// Video is one catalogued upload with its tag split.
type Video struct {
	ID              string    `json:"video_id"`
	Title           string    `json:"title"`
	UploadDate      string    `json:"upload_date"`
	Duration        string    `json:"duration,omitempty"`
	ViewCount       int64     `json:"view_count"`
	Description     string    `json:"description,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	OriginalTags    []string  `json:"youtube_tags"`
	ValidatedTags   []string  `json:"validated_tags"`
	UnvalidatedTags []string  `json:"unvalidated_tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Trip is a persisted group of related videos.
type Trip struct {
	ID          int64      `json:"trip_id"`
	Name        string     `json:"trip_name"`
	StartDate   string     `json:"start_date,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
	SeriesType  SeriesType `json:"series_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TripPart links a video to a trip. Title and UploadDate are filled from the
// videos table when parts are read back.
type TripPart struct {
	ID          int64       `json:"version_id,omitempty"`
	TripID      int64       `json:"trip_id"`
	VideoID     string      `json:"video_id"`
	VersionType VersionType `json:"version_type"`
	PartNumber  int         `json:"part_number"`
	TotalParts  int         `json:"total_parts"`
	Title       string      `json:"title,omitempty"`
	UploadDate  string      `json:"upload_date,omitempty"`
}

// TripSummary is a trip with its current membership counts.
type TripSummary struct {
	Trip
	PartCount  int `json:"part_count"`
	TotalParts int `json:"total_parts"`
}

// DuplicateLink is a video linked to more than one trip.
type DuplicateLink struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	TripCount int    `json:"trip_count"`
}

// PartMismatch is a trip whose member count differs from its recorded total.
type PartMismatch struct {
	TripID        int64  `json:"trip_id"`
	TripName      string `json:"trip_name"`
	ActualParts   int    `json:"actual_parts"`
	ExpectedParts int    `json:"expected_parts"`
}

// DatabaseHealth describes catalog database diagnostics.
type DatabaseHealth struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    int      `json:"schema_version"`
	MissingTables    []string `json:"missing_tables,omitempty"`
	MissingColumns   []string `json:"missing_columns,omitempty"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalVideos      int      `json:"total_videos"`
	TotalTrips       int      `json:"total_trips"`
	TotalParts       int      `json:"total_parts"`
	Error            string   `json:"error,omitempty"`
}
