package trips

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"posawiki/internal/catalog"
	"posawiki/internal/config"
	"posawiki/internal/logging"
	"posawiki/internal/tripdetect"
)

// ImportPolicy decides which reviewed groups are persisted.
type ImportPolicy struct {
	MinGroupSize        int
	ImportLowConfidence bool
}

// ImportPolicyFromConfig converts the [import] config section.
func ImportPolicyFromConfig(c config.Import) ImportPolicy {
	return ImportPolicy{MinGroupSize: c.MinGroupSize, ImportLowConfidence: c.ImportLowConfidence}
}

// ImportedTrip describes a trip written by an import pass.
type ImportedTrip struct {
	TripID     int64              `json:"trip_id"`
	Name       string             `json:"trip_name"`
	SeriesType catalog.SeriesType `json:"series_type"`
	Parts      int                `json:"parts"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
}

// SkippedGroup is a group the pass chose not to persist.
type SkippedGroup struct {
	BaseTitle string `json:"base_title"`
	Reason    string `json:"reason"`
}

// FailedGroup is a group whose write failed.
type FailedGroup struct {
	BaseTitle string `json:"base_title"`
	Error     string `json:"error"`
}

// ImportResult tallies an import pass.
type ImportResult struct {
	Imported []ImportedTrip `json:"imported"`
	Skipped  []SkippedGroup `json:"skipped"`
	Errored  []FailedGroup  `json:"errored"`
}

// Importer persists reviewed candidate groups.
type Importer struct {
	store  *catalog.Store
	policy ImportPolicy
	logger *slog.Logger
}

// NewImporter builds an importer. A nil logger discards output.
func NewImporter(store *catalog.Store, policy ImportPolicy, logger *slog.Logger) *Importer {
	if policy.MinGroupSize < 2 {
		policy.MinGroupSize = 2
	}
	return &Importer{store: store, policy: policy, logger: logging.NewComponentLogger(logger, "trips")}
}

// Import writes each eligible group as one trip. Groups are independent: a
// failed write is logged and counted and the pass moves on.
func (im *Importer) Import(ctx context.Context, groups []tripdetect.Group) (ImportResult, error) {
	logger := logging.WithContext(ctx, im.logger)
	result := ImportResult{Imported: []ImportedTrip{}, Skipped: []SkippedGroup{}, Errored: []FailedGroup{}}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if reason := im.skipReason(group); reason != "" {
			result.Skipped = append(result.Skipped, SkippedGroup{BaseTitle: group.BaseTitle, Reason: reason})
			logger.Info("group skipped", logging.String("base_title", group.BaseTitle), logging.String("reason", reason))
			continue
		}

		linked, err := im.linkedMembers(ctx, group)
		if err != nil {
			result.Errored = append(result.Errored, FailedGroup{BaseTitle: group.BaseTitle, Error: err.Error()})
			logging.WarnWithContext(logger, "trip link lookup failed", "trip_import_failed",
				logging.String("base_title", group.BaseTitle),
				logging.Error(err),
				logging.String(logging.FieldImpact, "group not imported; remaining groups continue"),
			)
			continue
		}
		if len(linked) > 0 {
			reason := fmt.Sprintf("videos already linked to a trip: %v", linked)
			result.Skipped = append(result.Skipped, SkippedGroup{BaseTitle: group.BaseTitle, Reason: reason})
			logging.WarnWithContext(logger, "group skipped", "trip_import_duplicate",
				logging.String("base_title", group.BaseTitle),
				logging.Strings("video_ids", linked),
				logging.String(logging.FieldErrorHint, "remove the group from the review file or unlink the videos"),
			)
			continue
		}

		trip, parts, err := buildTrip(group)
		if err != nil {
			result.Errored = append(result.Errored, FailedGroup{BaseTitle: group.BaseTitle, Error: err.Error()})
			logging.WarnWithContext(logger, "group rejected", "trip_import_invalid",
				logging.String("base_title", group.BaseTitle),
				logging.Error(err),
			)
			continue
		}
		tripID, err := im.store.CreateTrip(ctx, trip, parts)
		if err != nil {
			result.Errored = append(result.Errored, FailedGroup{BaseTitle: group.BaseTitle, Error: err.Error()})
			logging.WarnWithContext(logger, "trip import failed", "trip_import_failed",
				logging.String("base_title", group.BaseTitle),
				logging.Error(err),
				logging.String(logging.FieldImpact, "group not imported; remaining groups continue"),
			)
			continue
		}

		result.Imported = append(result.Imported, ImportedTrip{
			TripID:     tripID,
			Name:       trip.Name,
			SeriesType: trip.SeriesType,
			Parts:      len(parts),
			StartDate:  trip.StartDate,
			EndDate:    trip.EndDate,
		})
		logger.Info("trip imported",
			logging.Int64(logging.FieldTripID, tripID),
			logging.String("trip_name", trip.Name),
			logging.Int("parts", len(parts)),
			logging.String("series_type", string(trip.SeriesType)),
		)
	}

	logger.Info("trip import complete",
		logging.Int("imported", len(result.Imported)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Int("errored", len(result.Errored)),
	)
	return result, nil
}

func (im *Importer) skipReason(group tripdetect.Group) string {
	if group.Confidence == tripdetect.ConfidenceLow && !im.policy.ImportLowConfidence {
		return "low confidence"
	}
	if len(group.Videos) < im.policy.MinGroupSize {
		return fmt.Sprintf("only %d videos", len(group.Videos))
	}
	return ""
}

func (im *Importer) linkedMembers(ctx context.Context, group tripdetect.Group) ([]string, error) {
	ids := make([]string, 0, len(group.Videos))
	for _, m := range group.Videos {
		ids = append(ids, m.VideoID)
	}
	links, err := im.store.TripIDsForVideos(ctx, ids)
	if err != nil {
		return nil, err
	}
	linked := make([]string, 0, len(links))
	for id := range links {
		linked = append(linked, id)
	}
	sort.Strings(linked)
	return linked, nil
}

// buildTrip derives the trip row and its parts from a reviewed group.
func buildTrip(group tripdetect.Group) (*catalog.Trip, []catalog.TripPart, error) {
	total := len(group.Videos)
	parts := make([]catalog.TripPart, 0, total)
	versions := make([]catalog.VersionType, 0, total)
	var start, end string
	for i, m := range group.Videos {
		date := datePortion(m.UploadDate)
		if _, err := tripdetect.ParseDate(date); err != nil {
			return nil, nil, fmt.Errorf("video %s: %w", m.VideoID, err)
		}
		if start == "" || date < start {
			start = date
		}
		if end == "" || date > end {
			end = date
		}
		number := i + 1
		if m.PartNumber != nil {
			number = *m.PartNumber
		}
		version := InferVersionType(m.Title)
		versions = append(versions, version)
		parts = append(parts, catalog.TripPart{
			VideoID:     m.VideoID,
			VersionType: version,
			PartNumber:  number,
			TotalParts:  total,
		})
	}
	trip := &catalog.Trip{
		Name:      group.BaseTitle,
		StartDate: start,
		EndDate:   end,
		Description: fmt.Sprintf("Multi-part %s with %d videos. Auto-detected with %s confidence.",
			group.Type, total, group.Confidence),
		SeriesType: ClassifySeriesType(group.BaseTitle, versions),
	}
	return trip, parts, nil
}

func datePortion(value string) string {
	if len(value) > 10 {
		return value[:10]
	}
	return value
}
