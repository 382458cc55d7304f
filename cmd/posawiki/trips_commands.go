package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"posawiki/internal/catalog"
	"posawiki/internal/tripdetect"
	"posawiki/internal/trips"
)

func newTripsCommand(ctx *commandContext) *cobra.Command {
	tripsCmd := &cobra.Command{
		Use:   "trips",
		Short: "Detect, import and maintain multi-part trips and series",
	}

	tripsCmd.AddCommand(newTripsDetectCommand(ctx))
	tripsCmd.AddCommand(newTripsImportCommand(ctx))
	tripsCmd.AddCommand(newTripsReconcileCommand(ctx))
	tripsCmd.AddCommand(newTripsListCommand(ctx))
	tripsCmd.AddCommand(newTripsShowCommand(ctx))
	tripsCmd.AddCommand(newTripsCheckCommand(ctx))
	tripsCmd.AddCommand(newTripsClassifyCommand(ctx))

	return tripsCmd
}

func newTripsDetectCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Find candidate trip groups in catalogued titles",
		Long: "Scan every catalogued title for explicit part markers and trip-like titles.\n" +
			"The catalog is not modified; use --out to write the groups for review and\n" +
			"then `posawiki trips import` to persist the confirmed ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			var videos []tripdetect.Video
			err = ctx.withStore(func(store *catalog.Store) error {
				rows, err := store.ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				videos = make([]tripdetect.Video, 0, len(rows))
				for _, v := range rows {
					videos = append(videos, tripdetect.Video{ID: v.ID, Title: v.Title, UploadDate: v.UploadDate})
				}
				return nil
			})
			if err != nil {
				return err
			}

			policy := tripdetect.PolicyFromConfig(ctx.configValue().Detection)
			report := tripdetect.NewDetector(policy, logger).Detect(videos)

			if strings.TrimSpace(outPath) != "" {
				if err := tripdetect.WriteGroups(outPath, report.Groups); err != nil {
					return err
				}
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			renderGroups(out, report.Groups)
			s := report.Summary
			fmt.Fprintf(out, "Scanned: %d videos\n", s.Scanned)
			fmt.Fprintf(out, "Explicit series: %d\n", s.ExplicitSeries)
			fmt.Fprintf(out, "Potential series: %d\n", s.PotentialSeries)
			fmt.Fprintf(out, "Videos in series: %d\n", s.VideosInSeries)
			if s.Rejected > 0 {
				fmt.Fprintf(out, "Rejected groups: %d\n", s.Rejected)
			}
			if outPath != "" {
				fmt.Fprintf(out, "Wrote %d groups to %s\n", len(report.Groups), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write candidate groups as JSON for review")
	return cmd
}

func renderGroups(out io.Writer, groups []tripdetect.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No candidate groups found")
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		span := ""
		if g.DateSpanDays != nil {
			span = itoa(*g.DateSpanDays) + "d"
		}
		kind := string(g.Pattern)
		if kind == "" {
			kind = "heuristic"
		}
		rows = append(rows, []string{
			g.BaseTitle,
			string(g.Confidence),
			kind,
			itoa(len(g.Videos)),
			span,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Base title", "Confidence", "Pattern", "Videos", "Span"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}

func newTripsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <groups.json>",
		Short: "Persist reviewed candidate groups as trips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := tripdetect.LoadGroups(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			policy := trips.ImportPolicyFromConfig(ctx.configValue().Import)

			var result trips.ImportResult
			err = ctx.withWriter(func(store *catalog.Store) error {
				result, err = trips.NewImporter(store, policy, logger).Import(passContext(cmd, "trip-import"), groups)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if len(result.Imported) > 0 {
				rows := make([][]string, 0, len(result.Imported))
				for _, t := range result.Imported {
					rows = append(rows, []string{
						strconv.FormatInt(t.TripID, 10),
						t.Name,
						string(t.SeriesType),
						itoa(t.Parts),
						t.StartDate,
						t.EndDate,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Type", "Parts", "Start", "End"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				))
			}
			for _, s := range result.Skipped {
				fmt.Fprintf(out, "Skipped %q: %s\n", s.BaseTitle, s.Reason)
			}
			for _, e := range result.Errored {
				fmt.Fprintf(out, "Failed %q: %s\n", e.BaseTitle, e.Error)
			}
			fmt.Fprintf(out, "Imported: %d, skipped: %d, errored: %d\n",
				len(result.Imported), len(result.Skipped), len(result.Errored))
			return nil
		},
	}
}

func newTripsReconcileCommand(ctx *commandContext) *cobra.Command {
	var tripRef string
	var match string
	var marker string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Link newly catalogued episodes to an existing trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(tripRef) == "" {
				return errors.New("--trip is required")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var report trips.ReconcileReport
			err = ctx.withWriter(func(store *catalog.Store) error {
				report, err = trips.NewReconciler(store, logger).Reconcile(passContext(cmd, "reconcile"), trips.Target{
					TripName: tripRef,
					Match:    match,
					Marker:   marker,
				})
				return err
			})
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("no trip matches %q", tripRef)
			}
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}
			renderReconcile(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&tripRef, "trip", "", "Trip id or name")
	cmd.Flags().StringVar(&match, "match", "", "Title text identifying the trip's videos (defaults to the trip name)")
	cmd.Flags().StringVar(&marker, "marker", trips.DefaultMarker, "Word preceding the part number in titles")
	return cmd
}

func renderReconcile(out io.Writer, report trips.ReconcileReport) {
	colorize := shouldColorize(out)
	fmt.Fprintf(out, "Trip %d: %s\n", report.TripID, report.TripName)
	for _, p := range report.Added {
		fmt.Fprintf(out, "  added part %d: %s (%s)\n", p.PartNumber, p.Title, p.VideoID)
	}
	for _, p := range report.Passed {
		fmt.Fprintf(out, "  passed %s: %s\n", p.VideoID, p.Reason)
	}
	for _, p := range report.Failed {
		fmt.Fprintf(out, "  failed %s: %s\n", p.VideoID, p.Reason)
	}
	fmt.Fprintf(out, "Total parts: %d\n", report.TotalParts)
	if len(report.Gaps) == 0 {
		fmt.Fprintln(out, renderStatusLine("Part sequence", statusOK, "no gaps", colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Part sequence", statusWarn, "missing "+joinInts(report.Gaps), colorize))
	}
	renderDuplicateLinks(out, report.DuplicateVideoLinks, colorize)
}

func renderDuplicateLinks(out io.Writer, links []catalog.DuplicateLink, colorize bool) {
	if len(links) == 0 {
		fmt.Fprintln(out, renderStatusLine("Duplicate links", statusOK, "none", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Duplicate links", statusWarn, fmt.Sprintf("%d videos", len(links)), colorize))
	for _, d := range links {
		fmt.Fprintf(out, "    %s in %d trips: %s\n", d.VideoID, d.TripCount, d.Title)
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, itoa(v))
	}
	return strings.Join(parts, ", ")
}

func newTripsListCommand(ctx *commandContext) *cobra.Command {
	var seriesType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips and series",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter catalog.SeriesType
			if strings.TrimSpace(seriesType) != "" {
				parsed, err := catalog.ParseSeriesType(seriesType)
				if err != nil {
					return err
				}
				filter = parsed
			}
			return ctx.withStore(func(store *catalog.Store) error {
				summaries, err := store.ListTrips(cmd.Context())
				if err != nil {
					return err
				}
				filtered := make([]catalog.TripSummary, 0, len(summaries))
				for _, s := range summaries {
					if filter == "" || s.SeriesType == filter {
						filtered = append(filtered, s)
					}
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, filtered)
				}

				out := cmd.OutOrStdout()
				if len(filtered) == 0 {
					fmt.Fprintln(out, "No trips recorded")
					return nil
				}
				rows := make([][]string, 0, len(filtered))
				for _, s := range filtered {
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						s.Name,
						string(s.SeriesType),
						fmt.Sprintf("%d/%d", s.PartCount, s.TotalParts),
						s.StartDate,
						s.EndDate,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Type", "Parts", "Start", "End"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&seriesType, "type", "", "Only list trips of this type (series or trip)")
	return cmd
}

type tripView struct {
	*catalog.Trip
	Parts []catalog.TripPart `json:"parts"`
	Gaps  []int              `json:"gaps"`
}

func newTripsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a trip with its parts in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid trip id %q", args[0])
			}
			return ctx.withStore(func(store *catalog.Store) error {
				trip, err := store.GetTrip(cmd.Context(), id)
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("trip %d not found", id)
				}
				if err != nil {
					return err
				}
				parts, err := store.PartsForTrip(cmd.Context(), id)
				if err != nil {
					return err
				}
				numbers := make([]int, 0, len(parts))
				for _, p := range parts {
					numbers = append(numbers, p.PartNumber)
				}
				view := tripView{Trip: trip, Parts: parts, Gaps: trips.Gaps(numbers)}
				if ctx.JSONMode() {
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Trip %d: %s\n", trip.ID, trip.Name)
				fmt.Fprintf(out, "Type: %s\n", trip.SeriesType)
				if trip.StartDate != "" {
					fmt.Fprintf(out, "Dates: %s to %s\n", trip.StartDate, trip.EndDate)
				}
				if trip.Description != "" {
					fmt.Fprintf(out, "Description: %s\n", trip.Description)
				}
				rows := make([][]string, 0, len(parts))
				for _, p := range parts {
					rows = append(rows, []string{
						fmt.Sprintf("%d/%d", p.PartNumber, p.TotalParts),
						string(p.VersionType),
						p.VideoID,
						datePortion(p.UploadDate),
						p.Title,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Part", "Version", "Video", "Uploaded", "Title"},
					rows,
					[]columnAlignment{alignRight},
				))
				if len(view.Gaps) > 0 {
					fmt.Fprintf(out, "Missing parts: %s\n", joinInts(view.Gaps))
				}
				return nil
			})
		},
	}
}

func newTripsCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report duplicate video links and trips with inconsistent part counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				report, err := trips.Check(cmd.Context(), store)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				renderDuplicateLinks(out, report.DuplicateVideoLinks, colorize)
				if len(report.IncompleteTrips) == 0 {
					fmt.Fprintln(out, renderStatusLine("Part counts", statusOK, "all trips consistent", colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine("Part counts", statusWarn, fmt.Sprintf("%d trips", len(report.IncompleteTrips)), colorize))
					for _, m := range report.IncompleteTrips {
						fmt.Fprintf(out, "    trip %d %s: %d parts, expected %d\n", m.TripID, m.TripName, m.ActualParts, m.ExpectedParts)
					}
				}
				return nil
			})
		},
	}
}

func newTripsClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Recompute series versus trip for every stored trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			var result trips.ClassifyResult
			err = ctx.withWriter(func(store *catalog.Store) error {
				result, err = trips.Reclassify(passContext(cmd, "classify"), store, logger)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			for _, c := range result.Changed {
				fmt.Fprintf(out, "Trip %d %s: %s -> %s\n", c.TripID, c.TripName, c.From, c.To)
			}
			fmt.Fprintf(out, "Series: %d, trips: %d, changed: %d\n", result.Series, result.Trips, len(result.Changed))
			return nil
		},
	}
}
