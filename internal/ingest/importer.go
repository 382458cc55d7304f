package ingest

import (
	"context"
	"log/slog"

	"posawiki/internal/authority"
	"posawiki/internal/catalog"
	"posawiki/internal/logging"
)

// Options controls an import pass.
type Options struct {
	// MissingOnly leaves already catalogued videos untouched.
	MissingOnly bool
}

// ImportStats tallies one import pass.
type ImportStats struct {
	Seen            int `json:"seen"`
	Imported        int `json:"imported"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
	VideosWithTags  int `json:"videos_with_tags"`
	OriginalTags    int `json:"original_tags"`
	ValidatedTags   int `json:"validated_tags"`
	UnvalidatedTags int `json:"unvalidated_tags"`
}

// ValidationRate is validated tags as a percentage of original tags.
func (s ImportStats) ValidationRate() float64 {
	if s.OriginalTags == 0 {
		return 0
	}
	return float64(s.ValidatedTags) * 100 / float64(s.OriginalTags)
}

// Importer writes scraped videos into the catalog with their tag split.
type Importer struct {
	store    *catalog.Store
	resolver *authority.Resolver
	logger   *slog.Logger
}

// NewImporter builds an importer. A nil logger discards output.
func NewImporter(store *catalog.Store, resolver *authority.Resolver, logger *slog.Logger) *Importer {
	return &Importer{
		store:    store,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "ingest"),
	}
}

// Import resolves and stores each video. A failed write is logged and
// counted; the pass continues with the next video. Only context cancellation
// aborts the pass.
func (im *Importer) Import(ctx context.Context, videos []ScrapedVideo, opts Options) (ImportStats, error) {
	logger := logging.WithContext(ctx, im.logger)
	stats := ImportStats{}
	for _, sv := range videos {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Seen++

		assignment := im.resolver.Resolve(sv.Snippet.Tags)
		video := ToVideo(sv, assignment)

		if opts.MissingOnly {
			inserted, err := im.store.InsertVideoIfMissing(ctx, video)
			if err != nil {
				stats.Failed++
				logging.WarnWithContext(logger, "video import failed", "video_import_failed",
					logging.String(logging.FieldVideoID, video.ID),
					logging.Error(err),
					logging.String(logging.FieldImpact, "video left out of the catalog"),
				)
				continue
			}
			if !inserted {
				stats.Skipped++
				continue
			}
		} else if err := im.store.UpsertVideo(ctx, video); err != nil {
			stats.Failed++
			logging.WarnWithContext(logger, "video import failed", "video_import_failed",
				logging.String(logging.FieldVideoID, video.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "video left out of the catalog"),
			)
			continue
		}

		stats.Imported++
		if len(assignment.Original) > 0 {
			stats.VideosWithTags++
			stats.OriginalTags += len(assignment.Original)
			stats.ValidatedTags += len(assignment.Validated)
			stats.UnvalidatedTags += len(assignment.Unvalidated)
		}
		logger.Debug("video imported",
			logging.String(logging.FieldVideoID, video.ID),
			logging.Int("validated", len(assignment.Validated)),
			logging.Int("unvalidated", len(assignment.Unvalidated)),
		)
	}

	logger.Info("video import complete",
		logging.Int("seen", stats.Seen),
		logging.Int("imported", stats.Imported),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Float64("validation_rate", stats.ValidationRate()),
	)
	return stats, nil
}

// ToVideo converts a scraped record and its resolved tags into a catalog row.
func ToVideo(sv ScrapedVideo, assignment authority.Assignment) *catalog.Video {
	return &catalog.Video{
		ID:              sv.ID,
		Title:           sv.Snippet.Title,
		UploadDate:      sv.Snippet.PublishedAt,
		Duration:        sv.ContentDetails.Duration,
		ViewCount:       sv.Statistics.Views(),
		Description:     sv.Snippet.Description,
		ThumbnailURL:    sv.Snippet.Thumbnails.High.URL,
		OriginalTags:    assignment.Original,
		ValidatedTags:   assignment.Validated,
		UnvalidatedTags: assignment.Unvalidated,
	}
}
