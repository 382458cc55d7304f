package trips

import (
	"context"
	"log/slog"

	"posawiki/internal/catalog"
	"posawiki/internal/logging"
)

// CheckReport lists integrity problems across all trips.
type CheckReport struct {
	DuplicateVideoLinks []catalog.DuplicateLink `json:"duplicate_video_links"`
	IncompleteTrips     []catalog.PartMismatch  `json:"incomplete_trips"`
}

// Clean reports whether no problem was found.
func (r CheckReport) Clean() bool {
	return len(r.DuplicateVideoLinks) == 0 && len(r.IncompleteTrips) == 0
}

// Check runs the duplicate-link and part-count checks.
func Check(ctx context.Context, store *catalog.Store) (CheckReport, error) {
	dups, err := store.DuplicateVideoLinks(ctx)
	if err != nil {
		return CheckReport{}, err
	}
	incomplete, err := store.IncompleteTrips(ctx)
	if err != nil {
		return CheckReport{}, err
	}
	return CheckReport{DuplicateVideoLinks: dups, IncompleteTrips: incomplete}, nil
}

// Reclassification is one trip whose series type changed.
type Reclassification struct {
	TripID   int64              `json:"trip_id"`
	TripName string             `json:"trip_name"`
	From     catalog.SeriesType `json:"from"`
	To       catalog.SeriesType `json:"to"`
}

// ClassifyResult tallies a reclassify pass.
type ClassifyResult struct {
	Series  int                `json:"series"`
	Trips   int                `json:"trips"`
	Changed []Reclassification `json:"changed"`
}

// Reclassify recomputes the series type of every trip from its name and
// member version types, writing only trips whose type changed.
func Reclassify(ctx context.Context, store *catalog.Store, logger *slog.Logger) (ClassifyResult, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "trips"))
	result := ClassifyResult{Changed: []Reclassification{}}

	summaries, err := store.ListTrips(ctx)
	if err != nil {
		return result, err
	}
	for _, summary := range summaries {
		parts, err := store.PartsForTrip(ctx, summary.ID)
		if err != nil {
			return result, err
		}
		versions := make([]catalog.VersionType, 0, len(parts))
		for _, p := range parts {
			versions = append(versions, p.VersionType)
		}
		next := ClassifySeriesType(summary.Name, versions)
		if next == catalog.SeriesTypeSeries {
			result.Series++
		} else {
			result.Trips++
		}
		if next == summary.SeriesType {
			continue
		}
		if err := store.SetSeriesType(ctx, summary.ID, next); err != nil {
			return result, err
		}
		result.Changed = append(result.Changed, Reclassification{
			TripID:   summary.ID,
			TripName: summary.Name,
			From:     summary.SeriesType,
			To:       next,
		})
		logger.Info("trip reclassified",
			logging.Int64(logging.FieldTripID, summary.ID),
			logging.String("from", string(summary.SeriesType)),
			logging.String("to", string(next)),
		)
	}
	return result, nil
}
