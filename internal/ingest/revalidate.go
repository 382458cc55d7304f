package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"posawiki/internal/authority"
	"posawiki/internal/catalog"
	"posawiki/internal/logging"
)

const maxRevalidateExamples = 5

// RevalidateStats compares the stored tag split before and after a pass.
type RevalidateStats struct {
	Processed      int              `json:"processed"`
	Updated        int              `json:"updated"`
	Failed         int              `json:"failed"`
	OldValidated   int              `json:"old_validated"`
	NewValidated   int              `json:"new_validated"`
	OldUnvalidated int              `json:"old_unvalidated"`
	NewUnvalidated int              `json:"new_unvalidated"`
	NewlyValidated []NewlyValidated `json:"newly_validated"`
}

// NewlyValidated lists canonical names a video gained during re-validation.
type NewlyValidated struct {
	VideoID string   `json:"video_id"`
	Title   string   `json:"title"`
	Names   []string `json:"names"`
}

// OldCoverage is the validated share of tag entries before the pass.
func (s RevalidateStats) OldCoverage() float64 {
	return coverage(s.OldValidated, s.OldUnvalidated)
}

// NewCoverage is the validated share of tag entries after the pass.
func (s RevalidateStats) NewCoverage() float64 {
	return coverage(s.NewValidated, s.NewUnvalidated)
}

func coverage(validated, unvalidated int) float64 {
	total := validated + unvalidated
	if total == 0 {
		return 0
	}
	return float64(validated) * 100 / float64(total)
}

// Revalidator recomputes every video's tag split from its original tags.
type Revalidator struct {
	store    *catalog.Store
	resolver *authority.Resolver
	logger   *slog.Logger
}

// NewRevalidator builds a revalidator. A nil logger discards output.
func NewRevalidator(store *catalog.Store, resolver *authority.Resolver, logger *slog.Logger) *Revalidator {
	return &Revalidator{
		store:    store,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "revalidate"),
	}
}

// Run resolves each stored video's original tags again and writes back only
// rows whose validated or unvalidated set changed. Running it twice with the
// same authority table updates nothing the second time.
func (r *Revalidator) Run(ctx context.Context) (RevalidateStats, error) {
	logger := logging.WithContext(ctx, r.logger)
	stats := RevalidateStats{NewlyValidated: []NewlyValidated{}}

	videos, err := r.store.ListVideos(ctx)
	if err != nil {
		return stats, fmt.Errorf("load videos: %w", err)
	}

	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Processed++

		current := authority.Assignment{
			Original:    video.OriginalTags,
			Validated:   video.ValidatedTags,
			Unvalidated: video.UnvalidatedTags,
		}
		next := r.resolver.Resolve(video.OriginalTags)

		stats.OldValidated += len(current.Validated)
		stats.OldUnvalidated += len(current.Unvalidated)
		stats.NewValidated += len(next.Validated)
		stats.NewUnvalidated += len(next.Unvalidated)

		if next.SameSets(current) {
			continue
		}
		if err := r.store.UpdateVideoTags(ctx, video.ID, next.Validated, next.Unvalidated); err != nil {
			stats.Failed++
			logging.WarnWithContext(logger, "tag update failed", "revalidate_update_failed",
				logging.String(logging.FieldVideoID, video.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "video keeps its previous tag split"),
			)
			continue
		}
		stats.Updated++

		gained := difference(next.Validated, current.Validated)
		if len(gained) > 0 && len(stats.NewlyValidated) < maxRevalidateExamples {
			stats.NewlyValidated = append(stats.NewlyValidated, NewlyValidated{
				VideoID: video.ID,
				Title:   video.Title,
				Names:   gained,
			})
		}
		logger.Debug("video tags updated",
			logging.String(logging.FieldVideoID, video.ID),
			logging.Strings("gained", gained),
		)
	}

	logger.Info("re-validation complete",
		logging.Int("processed", stats.Processed),
		logging.Int("updated", stats.Updated),
		logging.Int("failed", stats.Failed),
		logging.Float64("coverage_before", stats.OldCoverage()),
		logging.Float64("coverage_after", stats.NewCoverage()),
	)
	return stats, nil
}

func difference(values, remove []string) []string {
	skip := make(map[string]struct{}, len(remove))
	for _, v := range remove {
		skip[v] = struct{}{}
	}
	out := []string{}
	for _, v := range values {
		if _, ok := skip[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
