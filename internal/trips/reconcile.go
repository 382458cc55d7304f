package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"posawiki/internal/catalog"
	"posawiki/internal/logging"
)

// DefaultMarker is the title word that precedes a part number.
const DefaultMarker = "Episode"

// ErrAmbiguousTrip is returned when a trip name fragment matches several trips.
var ErrAmbiguousTrip = errors.New("ambiguous trip name")

// Target selects the trip to reconcile and how new members are recognised.
type Target struct {
	TripID   int64
	TripName string
	// Match is the identifying title substring; the trip name when empty.
	Match string
	// Marker precedes the part number in titles; DefaultMarker when empty.
	Marker string
}

// AddedPart is a video linked during reconciliation.
type AddedPart struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	PartNumber int    `json:"part_number"`
}

// PassedVideo is a title match that was not linked.
type PassedVideo struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Reason  string `json:"reason"`
}

// ReconcileReport describes one reconcile pass.
type ReconcileReport struct {
	TripID              int64                   `json:"trip_id"`
	TripName            string                  `json:"trip_name"`
	Added               []AddedPart             `json:"added"`
	Passed              []PassedVideo           `json:"passed"`
	Failed              []PassedVideo           `json:"failed"`
	TotalParts          int                     `json:"total_parts"`
	PartNumbers         []int                   `json:"part_numbers"`
	Gaps                []int                   `json:"gaps"`
	DuplicateVideoLinks []catalog.DuplicateLink `json:"duplicate_video_links"`
}

// Reconciler links newly catalogued videos to an existing trip.
type Reconciler struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewReconciler builds a reconciler. A nil logger discards output.
func NewReconciler(store *catalog.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logging.NewComponentLogger(logger, "trips")}
}

// Reconcile finds videos whose title contains the match text and the marker
// followed by a number, links those not yet in the trip, then sets
// total_parts on every row to the new member count. Gaps and system-wide
// duplicate links are reported, not repaired.
func (r *Reconciler) Reconcile(ctx context.Context, target Target) (ReconcileReport, error) {
	logger := logging.WithContext(ctx, r.logger)

	trip, err := r.resolveTrip(ctx, target)
	if err != nil {
		return ReconcileReport{}, err
	}
	match := strings.TrimSpace(target.Match)
	if match == "" {
		match = trip.Name
	}
	marker := strings.TrimSpace(target.Marker)
	if marker == "" {
		marker = DefaultMarker
	}
	numberPattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(marker) + `\s+(\d+)`)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("marker pattern: %w", err)
	}
	version, err := catalog.ParseVersionType(marker)
	if err != nil {
		version = catalog.VersionPart
	}

	report := ReconcileReport{
		TripID:   trip.ID,
		TripName: trip.Name,
		Added:    []AddedPart{},
		Passed:   []PassedVideo{},
		Failed:   []PassedVideo{},
	}
	logger = logger.With(logging.Int64(logging.FieldTripID, trip.ID))

	candidates, err := r.store.FindVideosByTitle(ctx, match, marker)
	if err != nil {
		return report, err
	}
	ids := make([]string, 0, len(candidates))
	for _, v := range candidates {
		ids = append(ids, v.ID)
	}
	links, err := r.store.TripIDsForVideos(ctx, ids)
	if err != nil {
		return report, err
	}

	for _, video := range candidates {
		if tripIDs, ok := links[video.ID]; ok {
			if !containsID(tripIDs, trip.ID) {
				report.Passed = append(report.Passed, PassedVideo{
					VideoID: video.ID,
					Title:   video.Title,
					Reason:  fmt.Sprintf("linked to trip %d", tripIDs[0]),
				})
			}
			continue
		}
		m := numberPattern.FindStringSubmatch(video.Title)
		if m == nil {
			report.Passed = append(report.Passed, PassedVideo{VideoID: video.ID, Title: video.Title, Reason: "no part number"})
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil || number <= 0 {
			report.Passed = append(report.Passed, PassedVideo{VideoID: video.ID, Title: video.Title, Reason: "invalid part number"})
			continue
		}
		part := catalog.TripPart{
			TripID:      trip.ID,
			VideoID:     video.ID,
			VersionType: version,
			PartNumber:  number,
			TotalParts:  number,
		}
		if err := r.store.AddPart(ctx, part); err != nil {
			reason := err.Error()
			if catalog.IsConstraintViolation(err) {
				reason = fmt.Sprintf("part %d already taken", number)
			}
			report.Failed = append(report.Failed, PassedVideo{VideoID: video.ID, Title: video.Title, Reason: reason})
			logging.WarnWithContext(logger, "part not added", "reconcile_add_failed",
				logging.String(logging.FieldVideoID, video.ID),
				logging.Int("part", number),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check for another video already holding this part number"),
			)
			continue
		}
		report.Added = append(report.Added, AddedPart{VideoID: video.ID, Title: video.Title, PartNumber: number})
		logger.Info("added part", logging.String(logging.FieldVideoID, video.ID), logging.Int("part", number))
	}

	parts, err := r.store.PartsForTrip(ctx, trip.ID)
	if err != nil {
		return report, err
	}
	report.TotalParts = len(parts)
	if _, err := r.store.SetTotalParts(ctx, trip.ID, report.TotalParts); err != nil {
		return report, err
	}
	report.PartNumbers = make([]int, 0, len(parts))
	for _, p := range parts {
		report.PartNumbers = append(report.PartNumbers, p.PartNumber)
	}
	sort.Ints(report.PartNumbers)
	report.Gaps = Gaps(report.PartNumbers)

	report.DuplicateVideoLinks, err = r.store.DuplicateVideoLinks(ctx)
	if err != nil {
		return report, err
	}

	if len(report.Gaps) > 0 {
		logging.WarnWithContext(logger, "part sequence has gaps", "reconcile_gaps",
			logging.Any("gaps", report.Gaps),
			logging.String(logging.FieldImpact, "trip is incomplete"),
			logging.String(logging.FieldErrorHint, "import the missing videos and reconcile again"),
		)
	}
	logger.Info("reconcile complete",
		logging.Int("added", len(report.Added)),
		logging.Int("failed", len(report.Failed)),
		logging.Int("total_parts", report.TotalParts),
	)
	return report, nil
}

func (r *Reconciler) resolveTrip(ctx context.Context, target Target) (*catalog.Trip, error) {
	if target.TripID > 0 {
		return r.store.GetTrip(ctx, target.TripID)
	}
	name := strings.TrimSpace(target.TripName)
	if name == "" {
		return nil, errors.New("trip id or name is required")
	}
	// A numeric name that is not a trip id may still be a trip name.
	if id, err := strconv.ParseInt(name, 10, 64); err == nil && id > 0 {
		trip, err := r.store.GetTrip(ctx, id)
		if !errors.Is(err, catalog.ErrNotFound) {
			return trip, err
		}
	}
	trips, err := r.store.FindTripsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("trip %q: %w", name, catalog.ErrNotFound)
	}
	if len(trips) > 1 && !strings.EqualFold(trips[0].Name, name) {
		names := make([]string, 0, len(trips))
		for _, t := range trips {
			names = append(names, t.Name)
		}
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousTrip, name, strings.Join(names, ", "))
	}
	return trips[0], nil
}

func containsID(ids []int64, target int64) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
