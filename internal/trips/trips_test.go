package trips_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posawiki/internal/catalog"
	"posawiki/internal/config"
	"posawiki/internal/testsupport"
	"posawiki/internal/tripdetect"
	"posawiki/internal/trips"
)

func intPtr(v int) *int { return &v }

func member(id, title, date string, part *int) tripdetect.Member {
	return tripdetect.Member{VideoID: id, Title: title, UploadDate: date, PartNumber: part}
}

func defaultImporter(store *catalog.Store) *trips.Importer {
	return trips.NewImporter(store, trips.ImportPolicyFromConfig(config.Default().Import), nil)
}

func TestInferVersionTypePrecedence(t *testing.T) {
	cases := map[string]catalog.VersionType{
		"Night 2 Episode 3 [Extended Version]": catalog.VersionExtended,
		"Fishing Show Episode 3 - Night":       catalog.VersionEpisode,
		"Canoe Trip - Night 2":                 catalog.VersionNight,
		"Winter Trip - Part 1 of 3":            catalog.VersionPart,
		"winter night":                         catalog.VersionPart,
	}
	for title, want := range cases {
		assert.Equal(t, want, trips.InferVersionType(title), title)
	}
}

func TestClassifySeriesType(t *testing.T) {
	assert.Equal(t, catalog.SeriesTypeSeries, trips.ClassifySeriesType("Unsuccessful Fishing Show", nil))
	assert.Equal(t, catalog.SeriesTypeSeries, trips.ClassifySeriesType("Cooking Series", nil))
	assert.Equal(t, catalog.SeriesTypeSeries, trips.ClassifySeriesType("Backyard", []catalog.VersionType{catalog.VersionPart, catalog.VersionEpisode}))
	assert.Equal(t, catalog.SeriesTypeTrip, trips.ClassifySeriesType("Winter Trip", []catalog.VersionType{catalog.VersionPart}))
}

func TestGaps(t *testing.T) {
	assert.Equal(t, []int{3}, trips.Gaps([]int{1, 2, 4}))
	assert.Equal(t, []int{1, 2}, trips.Gaps([]int{3}))
	assert.Empty(t, trips.Gaps([]int{1, 2, 3}))
	assert.Empty(t, trips.Gaps(nil))
}

func TestImportPersistsEligibleGroups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedVideo(t, store, "wt1", "Winter Trip - Part 1 of 2", "2024-01-01T15:00:00Z")
	testsupport.SeedVideo(t, store, "wt2", "Winter Trip - Part 2 of 2", "2024-01-03T15:00:00Z")
	testsupport.SeedVideo(t, store, "wc1", "Wilderness Canoe Camping - Spring", "2023-05-01T10:00:00Z")
	testsupport.SeedVideo(t, store, "wc2", "Wilderness Canoe Camping - Summer", "2023-06-01T10:00:00Z")
	testsupport.SeedVideo(t, store, "low1", "Winter Camping in a Snowstorm", "2023-01-10T10:00:00Z")
	testsupport.SeedVideo(t, store, "low2", "Winter Camping with Monty", "2023-01-20T10:00:00Z")

	groups := []tripdetect.Group{
		{
			BaseTitle:  "Winter Trip",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos: []tripdetect.Member{
				member("wt2", "Winter Trip - Part 2 of 2", "2024-01-03T15:00:00Z", intPtr(2)),
				member("wt1", "Winter Trip - Part 1 of 2", "2024-01-01T15:00:00Z", intPtr(1)),
			},
		},
		{
			BaseTitle:  "Wilderness Canoe Camping",
			Type:       tripdetect.GroupPotential,
			Confidence: tripdetect.ConfidenceMedium,
			Videos: []tripdetect.Member{
				member("wc1", "Wilderness Canoe Camping - Spring", "2023-05-01T10:00:00Z", nil),
				member("wc2", "Wilderness Canoe Camping - Summer", "2023-06-01T10:00:00Z", nil),
			},
		},
		{
			BaseTitle:  "Winter Camping",
			Type:       tripdetect.GroupPotential,
			Confidence: tripdetect.ConfidenceLow,
			Videos: []tripdetect.Member{
				member("low1", "Winter Camping in a Snowstorm", "2023-01-10T10:00:00Z", nil),
				member("low2", "Winter Camping with Monty", "2023-01-20T10:00:00Z", nil),
			},
		},
		{
			BaseTitle:  "Lonely",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos:     []tripdetect.Member{member("wt1", "Lonely Part 1", "2024-01-01T15:00:00Z", intPtr(1))},
		},
	}

	result, err := defaultImporter(store).Import(ctx, groups)
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)
	assert.Len(t, result.Skipped, 2)
	assert.Empty(t, result.Errored)
	assert.Equal(t, "low confidence", result.Skipped[0].Reason)
	assert.Equal(t, "only 1 videos", result.Skipped[1].Reason)

	winter := result.Imported[0]
	assert.Equal(t, "Winter Trip", winter.Name)
	assert.Equal(t, "2024-01-01", winter.StartDate)
	assert.Equal(t, "2024-01-03", winter.EndDate)
	assert.Equal(t, catalog.SeriesTypeTrip, winter.SeriesType)

	parts, err := store.PartsForTrip(ctx, winter.TripID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "wt1", parts[0].VideoID)
	assert.Equal(t, 1, parts[0].PartNumber)
	assert.Equal(t, 2, parts[1].TotalParts)
	assert.Equal(t, catalog.VersionPart, parts[0].VersionType)

	canoe, err := store.PartsForTrip(ctx, result.Imported[1].TripID)
	require.NoError(t, err)
	require.Len(t, canoe, 2)
	assert.Equal(t, []int{1, 2}, []int{canoe[0].PartNumber, canoe[1].PartNumber})

	trip, err := store.GetTrip(ctx, winter.TripID)
	require.NoError(t, err)
	assert.Equal(t, "Multi-part explicit_series with 2 videos. Auto-detected with high confidence.", trip.Description)
}

func TestImportContinuesAfterGroupFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedVideo(t, store, "a1", "Alpha Part 1", "2024-01-01T00:00:00Z")
	testsupport.SeedVideo(t, store, "a2", "Alpha Part 2", "2024-01-02T00:00:00Z")

	groups := []tripdetect.Group{
		{
			BaseTitle:  "Ghost",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos: []tripdetect.Member{
				member("missing1", "Ghost Part 1", "2024-01-01T00:00:00Z", intPtr(1)),
				member("missing2", "Ghost Part 2", "2024-01-02T00:00:00Z", intPtr(2)),
			},
		},
		{
			BaseTitle:  "Alpha",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos: []tripdetect.Member{
				member("a1", "Alpha Part 1", "2024-01-01T00:00:00Z", intPtr(1)),
				member("a2", "Alpha Part 2", "2024-01-02T00:00:00Z", intPtr(2)),
			},
		},
	}

	result, err := defaultImporter(store).Import(ctx, groups)
	require.NoError(t, err)
	require.Len(t, result.Errored, 1)
	assert.Equal(t, "Ghost", result.Errored[0].BaseTitle)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "Alpha", result.Imported[0].Name)

	summaries, err := store.ListTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestImportCountsLookupFailuresPerGroup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	require.NoError(t, store.Close())

	groups := []tripdetect.Group{
		{
			BaseTitle:  "Alpha",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos: []tripdetect.Member{
				member("a1", "Alpha Part 1", "2024-01-01T00:00:00Z", intPtr(1)),
				member("a2", "Alpha Part 2", "2024-01-02T00:00:00Z", intPtr(2)),
			},
		},
		{
			BaseTitle:  "Beta",
			Type:       tripdetect.GroupExplicit,
			Confidence: tripdetect.ConfidenceHigh,
			Videos: []tripdetect.Member{
				member("b1", "Beta Part 1", "2024-02-01T00:00:00Z", intPtr(1)),
				member("b2", "Beta Part 2", "2024-02-02T00:00:00Z", intPtr(2)),
			},
		},
	}

	result, err := defaultImporter(store).Import(context.Background(), groups)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.Errored, 2)
	assert.Equal(t, "Alpha", result.Errored[0].BaseTitle)
	assert.Equal(t, "Beta", result.Errored[1].BaseTitle)
}

func TestImportSkipsAlreadyLinkedVideos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedVideo(t, store, "a1", "Alpha Part 1", "2024-01-01T00:00:00Z")
	testsupport.SeedVideo(t, store, "a2", "Alpha Part 2", "2024-01-02T00:00:00Z")
	group := tripdetect.Group{
		BaseTitle:  "Alpha",
		Type:       tripdetect.GroupExplicit,
		Confidence: tripdetect.ConfidenceHigh,
		Videos: []tripdetect.Member{
			member("a1", "Alpha Part 1", "2024-01-01T00:00:00Z", intPtr(1)),
			member("a2", "Alpha Part 2", "2024-01-02T00:00:00Z", intPtr(2)),
		},
	}

	importer := defaultImporter(store)
	first, err := importer.Import(ctx, []tripdetect.Group{group})
	require.NoError(t, err)
	require.Len(t, first.Imported, 1)

	second, err := importer.Import(ctx, []tripdetect.Group{group})
	require.NoError(t, err)
	assert.Empty(t, second.Imported)
	require.Len(t, second.Skipped, 1)
	assert.Contains(t, second.Skipped[0].Reason, "already linked")

	dups, err := store.DuplicateVideoLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestImportLowConfidenceWhenAllowed(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithImportLowConfidence())
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedVideo(t, store, "l1", "Fishing Show Spring", "2023-01-10T10:00:00Z")
	testsupport.SeedVideo(t, store, "l2", "Fishing Show Summer", "2023-01-20T10:00:00Z")

	result, err := trips.NewImporter(store, trips.ImportPolicyFromConfig(cfg.Import), nil).Import(ctx, []tripdetect.Group{{
		BaseTitle:  "Fishing Show",
		Type:       tripdetect.GroupPotential,
		Confidence: tripdetect.ConfidenceLow,
		Videos: []tripdetect.Member{
			member("l1", "Fishing Show Spring", "2023-01-10T10:00:00Z", nil),
			member("l2", "Fishing Show Summer", "2023-01-20T10:00:00Z", nil),
		},
	}})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, catalog.SeriesTypeSeries, result.Imported[0].SeriesType)
}

func seedEpisodeTrip(t *testing.T, store *catalog.Store, episodes ...int) int64 {
	t.Helper()
	ctx := context.Background()
	parts := make([]catalog.TripPart, 0, len(episodes))
	for _, n := range episodes {
		id := "ep" + string(rune('0'+n))
		testsupport.SeedVideo(t, store, id, "Unsuccessful Fishing Show Episode "+string(rune('0'+n)), "2023-0"+string(rune('0'+n))+"-01T00:00:00Z")
		parts = append(parts, catalog.TripPart{VideoID: id, VersionType: catalog.VersionEpisode, PartNumber: n, TotalParts: len(episodes)})
	}
	tripID, err := store.CreateTrip(ctx, &catalog.Trip{Name: "Unsuccessful Fishing Show", SeriesType: catalog.SeriesTypeSeries}, parts)
	require.NoError(t, err)
	return tripID
}

func TestReconcilePropagatesTotalParts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	tripID := seedEpisodeTrip(t, store, 1, 2, 3)
	testsupport.SeedVideo(t, store, "ep4", "Unsuccessful Fishing Show Episode 4", "2023-04-01T00:00:00Z")
	testsupport.SeedVideo(t, store, "trailer", "Unsuccessful Fishing Show trailer", "2023-04-02T00:00:00Z")

	report, err := trips.NewReconciler(store, nil).Reconcile(ctx, trips.Target{TripID: tripID})
	require.NoError(t, err)

	require.Len(t, report.Added, 1)
	assert.Equal(t, "ep4", report.Added[0].VideoID)
	assert.Equal(t, 4, report.Added[0].PartNumber)
	assert.Equal(t, 4, report.TotalParts)
	assert.Equal(t, []int{1, 2, 3, 4}, report.PartNumbers)
	assert.Empty(t, report.Gaps)
	assert.Empty(t, report.DuplicateVideoLinks)

	parts, err := store.PartsForTrip(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, parts, 4)
	for _, p := range parts {
		assert.Equal(t, 4, p.TotalParts, p.VideoID)
	}
	assert.Equal(t, catalog.VersionEpisode, parts[3].VersionType)

	again, err := trips.NewReconciler(store, nil).Reconcile(ctx, trips.Target{TripID: tripID})
	require.NoError(t, err)
	assert.Empty(t, again.Added)
	assert.Equal(t, 4, again.TotalParts)
}

func TestReconcileReportsGaps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seedEpisodeTrip(t, store, 1, 2)
	testsupport.SeedVideo(t, store, "ep4", "Unsuccessful Fishing Show Episode 4", "2023-04-01T00:00:00Z")

	report, err := trips.NewReconciler(store, nil).Reconcile(ctx, trips.Target{TripName: "unsuccessful fishing"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, report.PartNumbers)
	assert.Equal(t, []int{3}, report.Gaps)
	assert.Equal(t, 3, report.TotalParts)
}

func TestReconcileReportsConflictsWithoutStopping(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	tripID := seedEpisodeTrip(t, store, 1, 2)
	testsupport.SeedVideo(t, store, "dup2", "Unsuccessful Fishing Show Episode 2 (reupload)", "2023-05-01T00:00:00Z")
	testsupport.SeedVideo(t, store, "ep3", "Unsuccessful Fishing Show Episode 3", "2023-05-02T00:00:00Z")

	report, err := trips.NewReconciler(store, nil).Reconcile(ctx, trips.Target{TripID: tripID, Match: "Fishing Show", Marker: "episode"})
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "dup2", report.Failed[0].VideoID)
	assert.Equal(t, "part 2 already taken", report.Failed[0].Reason)
	require.Len(t, report.Added, 1)
	assert.Equal(t, "ep3", report.Added[0].VideoID)
	assert.Equal(t, 3, report.TotalParts)
}

func TestReconcileUnknownTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := trips.NewReconciler(store, nil).Reconcile(context.Background(), trips.Target{TripName: "nothing"})
	assert.True(t, errors.Is(err, catalog.ErrNotFound), "got %v", err)

	_, err = trips.NewReconciler(store, nil).Reconcile(context.Background(), trips.Target{})
	assert.Error(t, err)
}

func TestReconcileNumericTripName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.CreateTrip(ctx, &catalog.Trip{Name: "Canoe Trip Spring"}, nil)
	require.NoError(t, err)
	numeric, err := store.CreateTrip(ctx, &catalog.Trip{Name: "2023"}, nil)
	require.NoError(t, err)

	reconciler := trips.NewReconciler(store, nil)
	report, err := reconciler.Reconcile(ctx, trips.Target{TripName: "2023", Match: "Fishing Show"})
	require.NoError(t, err)
	assert.Equal(t, numeric, report.TripID)
	assert.Equal(t, "2023", report.TripName)

	report, err = reconciler.Reconcile(ctx, trips.Target{TripName: strconv.FormatInt(first, 10), Match: "Fishing Show"})
	require.NoError(t, err)
	assert.Equal(t, first, report.TripID)
}

func TestReconcileAmbiguousName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	_, err := store.CreateTrip(ctx, &catalog.Trip{Name: "Canoe Trip Spring"}, nil)
	require.NoError(t, err)
	_, err = store.CreateTrip(ctx, &catalog.Trip{Name: "Canoe Trip Fall"}, nil)
	require.NoError(t, err)

	_, err = trips.NewReconciler(store, nil).Reconcile(ctx, trips.Target{TripName: "Canoe Trip"})
	assert.ErrorIs(t, err, trips.ErrAmbiguousTrip)
}

func TestCheckAndReclassify(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedVideo(t, store, "v1", "Backyard Episode 1", "2023-01-01T00:00:00Z")
	testsupport.SeedVideo(t, store, "v2", "Backyard Episode 2", "2023-01-02T00:00:00Z")
	backyard, err := store.CreateTrip(ctx, &catalog.Trip{Name: "Backyard"}, []catalog.TripPart{
		{VideoID: "v1", VersionType: catalog.VersionEpisode, PartNumber: 1, TotalParts: 3},
		{VideoID: "v2", VersionType: catalog.VersionEpisode, PartNumber: 2, TotalParts: 3},
	})
	require.NoError(t, err)
	_, err = store.CreateTrip(ctx, &catalog.Trip{Name: "Copy"}, []catalog.TripPart{
		{VideoID: "v1", VersionType: catalog.VersionPart, PartNumber: 1, TotalParts: 1},
	})
	require.NoError(t, err)

	check, err := trips.Check(ctx, store)
	require.NoError(t, err)
	assert.False(t, check.Clean())
	require.Len(t, check.DuplicateVideoLinks, 1)
	assert.Equal(t, "v1", check.DuplicateVideoLinks[0].VideoID)
	require.Len(t, check.IncompleteTrips, 1)
	assert.Equal(t, backyard, check.IncompleteTrips[0].TripID)

	result, err := trips.Reclassify(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Series)
	assert.Equal(t, 1, result.Trips)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, catalog.SeriesTypeSeries, result.Changed[0].To)

	again, err := trips.Reclassify(ctx, store, nil)
	require.NoError(t, err)
	assert.Empty(t, again.Changed)
}
