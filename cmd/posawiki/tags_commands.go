package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"posawiki/internal/catalog"
	"posawiki/internal/ingest"
	"posawiki/internal/tagstats"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Re-validate tags and report tag statistics",
	}

	tagsCmd.AddCommand(newTagsRevalidateCommand(ctx))
	tagsCmd.AddCommand(newTagsStatsCommand(ctx))
	tagsCmd.AddCommand(newTagsReviewCommand(ctx))
	tagsCmd.AddCommand(newTagsCoverageCommand(ctx))

	return tagsCmd
}

func newTagsRevalidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revalidate",
		Short: "Recompute every video's tag split from its original tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := passContext(cmd, "revalidate")

			var stats ingest.RevalidateStats
			err = ctx.withWriter(func(store *catalog.Store) error {
				stats, err = ingest.NewRevalidator(store, resolver, logger).Run(runCtx)
				if err != nil {
					return err
				}
				if stats.Updated == 0 {
					return nil
				}
				return ctx.refreshSearch(runCtx, store)
			})
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, struct {
					ingest.RevalidateStats
					OldCoverage float64 `json:"old_coverage"`
					NewCoverage float64 `json:"new_coverage"`
				}{stats, stats.OldCoverage(), stats.NewCoverage()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed: %d\n", stats.Processed)
			fmt.Fprintf(out, "Updated: %d\n", stats.Updated)
			if stats.Failed > 0 {
				fmt.Fprintf(out, "Failed: %d (see log)\n", stats.Failed)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "Before", "After"},
				[][]string{
					{"Validated", itoa(stats.OldValidated), itoa(stats.NewValidated)},
					{"Unvalidated", itoa(stats.OldUnvalidated), itoa(stats.NewUnvalidated)},
					{"Coverage", percent(stats.OldCoverage()), percent(stats.NewCoverage())},
				},
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			if len(stats.NewlyValidated) > 0 {
				rows := make([][]string, 0, len(stats.NewlyValidated))
				for _, nv := range stats.NewlyValidated {
					rows = append(rows, []string{nv.VideoID, strings.Join(nv.Names, ", "), nv.Title})
				}
				printSection(out, "Newly validated", renderTable([]string{"ID", "Gained", "Title"}, rows, nil))
			}
			return nil
		},
	}
}

type statsView struct {
	Source        string                  `json:"source"`
	Videos        int                     `json:"videos"`
	UniqueTags    int                     `json:"unique_tags"`
	TotalUses     int                     `json:"total_uses"`
	Top           []tagstats.TagCount     `json:"top_tags"`
	VariantGroups []tagstats.VariantGroup `json:"variant_groups"`
	Buckets       bucketSizes             `json:"buckets"`
	ByYear        []tagstats.KeyCount     `json:"uploads_by_year"`
	ByMonth       []tagstats.KeyCount     `json:"uploads_by_month"`
	Durations     tagstats.DurationStats  `json:"durations"`
}

type bucketSizes struct {
	Authority int `json:"authority"`
	Candidate int `json:"candidate"`
	Noise     int `json:"noise"`
}

// statsInput is the subset of a video the dataset report reads.
type statsInput struct {
	records   []tagstats.Record
	dates     []string
	durations []time.Duration
}

func (in *statsInput) add(id, title, uploadDate, duration string, tags []string) {
	in.records = append(in.records, tagstats.Record{VideoID: id, Title: title, Tags: tags})
	in.dates = append(in.dates, uploadDate)
	if d, err := ingest.ParseISODuration(duration); err == nil {
		in.durations = append(in.durations, d)
	}
}

func newTagsStatsCommand(ctx *commandContext) *cobra.Command {
	var scrapePath string
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Tag frequencies, variant groups and upload timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input statsInput
			source := "catalog"
			if strings.TrimSpace(scrapePath) != "" {
				scrape, err := ingest.LoadScrape(scrapePath)
				if err != nil {
					return err
				}
				source = scrapePath
				for _, sv := range scrape.Videos {
					input.add(sv.ID, sv.Snippet.Title, sv.Snippet.PublishedAt, sv.ContentDetails.Duration, sv.Snippet.Tags)
				}
			} else {
				err := ctx.withStore(func(store *catalog.Store) error {
					videos, err := store.ListVideos(cmd.Context())
					if err != nil {
						return err
					}
					for _, v := range videos {
						input.add(v.ID, v.Title, v.UploadDate, v.Duration, v.OriginalTags)
					}
					return nil
				})
				if err != nil {
					return err
				}
			}

			thresholds := tagstats.ThresholdsFromConfig(ctx.configValue().Stats)
			freqs := tagstats.Frequencies(input.records)
			buckets := tagstats.Bucketize(freqs, thresholds)
			view := statsView{
				Source:        source,
				Videos:        len(input.records),
				UniqueTags:    len(freqs),
				TotalUses:     tagstats.TotalUses(freqs),
				Top:           headTagCounts(freqs, top),
				VariantGroups: tagstats.PrefixGroups(freqs, thresholds.PrefixLength, thresholds.VariantMinUses),
				Buckets: bucketSizes{
					Authority: len(buckets.Authority),
					Candidate: len(buckets.Candidate),
					Noise:     len(buckets.Noise),
				},
				ByYear:    tagstats.UploadsByYear(input.dates),
				ByMonth:   tagstats.UploadsByMonth(input.dates),
				Durations: tagstats.Durations(input.durations),
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}
			renderStats(cmd.OutOrStdout(), view, thresholds)
			return nil
		},
	}

	cmd.Flags().StringVar(&scrapePath, "scrape", "", "Read videos from a scrape file instead of the catalog")
	cmd.Flags().IntVar(&top, "top", 30, "Number of most used tags to list")
	return cmd
}

func renderStats(out io.Writer, view statsView, t tagstats.Thresholds) {
	fmt.Fprintf(out, "Source: %s\n", view.Source)
	fmt.Fprintf(out, "Videos: %d\n", view.Videos)
	fmt.Fprintf(out, "Unique tags: %d (%d uses)\n", view.UniqueTags, view.TotalUses)
	fmt.Fprintf(out, "Authority candidates (>= %d uses): %d\n", t.AuthorityThreshold, view.Buckets.Authority)
	fmt.Fprintf(out, "Review candidates (%d-%d uses): %d\n", t.CandidateThreshold, t.AuthorityThreshold-1, view.Buckets.Candidate)
	fmt.Fprintf(out, "Noise (< %d uses): %d\n", t.CandidateThreshold, view.Buckets.Noise)

	countAligns := []columnAlignment{alignLeft, alignRight}
	if len(view.Top) > 0 {
		rows := tagCountRows(view.Top, func(c tagstats.TagCount) string { return c.Tag }, func(c tagstats.TagCount) int { return c.Count })
		printSection(out, "Most used tags", renderTable([]string{"Tag", "Uses"}, rows, countAligns))
	}
	if len(view.VariantGroups) > 0 {
		rows := make([][]string, 0, len(view.VariantGroups))
		for _, g := range view.VariantGroups {
			variants := make([]string, 0, len(g.Variants))
			for _, v := range g.Variants {
				variants = append(variants, fmt.Sprintf("%s (%d)", v.Tag, v.Count))
			}
			rows = append(rows, []string{g.Prefix, strings.Join(variants, ", ")})
		}
		printSection(out, "Possible variants", renderTable([]string{"Prefix", "Variants"}, rows, nil))
	}
	if len(view.ByYear) > 0 {
		rows := tagCountRows(view.ByYear, func(k tagstats.KeyCount) string { return k.Key }, func(k tagstats.KeyCount) int { return k.Count })
		printSection(out, "Uploads by year", renderTable([]string{"Year", "Videos"}, rows, countAligns))
	}
	if len(view.ByMonth) > 0 {
		rows := tagCountRows(view.ByMonth, func(k tagstats.KeyCount) string { return k.Key }, func(k tagstats.KeyCount) int { return k.Count })
		printSection(out, "Uploads by month", renderTable([]string{"Month", "Videos"}, rows, countAligns))
	}
	if d := view.Durations; d.Count > 0 {
		printSection(out, "Durations", "")
		fmt.Fprintf(out, "Videos with length: %d\n", d.Count)
		fmt.Fprintf(out, "Average: %s\n", ingest.FormatClock(d.Average))
		fmt.Fprintf(out, "Shortest: %s\n", ingest.FormatClock(d.Shortest))
		fmt.Fprintf(out, "Longest: %s\n", ingest.FormatClock(d.Longest))
		fmt.Fprintf(out, "Total: %s\n", ingest.FormatClock(d.Total))
	}
}

func headTagCounts(freqs []tagstats.TagCount, n int) []tagstats.TagCount {
	if n <= 0 || len(freqs) <= n {
		return freqs
	}
	return freqs[:n]
}

func newTagsReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Bucket unvalidated tags by use with example videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []tagstats.Record
			err := ctx.withStore(func(store *catalog.Store) error {
				videos, err := store.ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				for _, v := range videos {
					records = append(records, tagstats.Record{VideoID: v.ID, Title: v.Title, Tags: v.UnvalidatedTags})
				}
				return nil
			})
			if err != nil {
				return err
			}

			thresholds := tagstats.ThresholdsFromConfig(ctx.configValue().Stats)
			review := tagstats.ReviewUnvalidated(records, thresholds)
			if ctx.JSONMode() {
				return writeJSON(cmd, review)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unvalidated tags: %d unique, %d uses\n", review.UniqueTags, review.TotalInstances)
			fmt.Fprintf(out, "Noise (< %d uses): %d tags\n", thresholds.CandidateThreshold, len(review.Noise))
			renderReviewBucket(out, fmt.Sprintf("Likely authorities (>= %d uses)", thresholds.AuthorityThreshold), review.Authority)
			renderReviewBucket(out, fmt.Sprintf("Review (%d-%d uses)", thresholds.CandidateThreshold, thresholds.AuthorityThreshold-1), review.Candidate)
			if len(review.VariantGroups) > 0 {
				rows := make([][]string, 0, len(review.VariantGroups))
				for _, g := range review.VariantGroups {
					tags := make([]string, 0, len(g.Variants))
					for _, v := range g.Variants {
						tags = append(tags, v.Tag)
					}
					rows = append(rows, []string{g.Prefix, strings.Join(tags, ", ")})
				}
				printSection(out, "Possible variants", renderTable([]string{"Prefix", "Variants"}, rows, nil))
			}
			return nil
		},
	}
}

func renderReviewBucket(out io.Writer, title string, entries []tagstats.ReviewEntry) {
	if len(entries) == 0 {
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		examples := make([]string, 0, len(e.Examples))
		for _, ex := range e.Examples {
			examples = append(examples, ex.Title)
		}
		rows = append(rows, []string{e.Tag, itoa(e.Count), strings.Join(examples, " | ")})
	}
	printSection(out, title, renderTable([]string{"Tag", "Uses", "Examples"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
}

func newTagsCoverageCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Measure how much of the catalog's tag vocabulary the authorities resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			var records []tagstats.Record
			err = ctx.withStore(func(store *catalog.Store) error {
				videos, err := store.ListVideos(cmd.Context())
				if err != nil {
					return err
				}
				for _, v := range videos {
					records = append(records, tagstats.Record{VideoID: v.ID, Title: v.Title, Tags: v.OriginalTags})
				}
				return nil
			})
			if err != nil {
				return err
			}

			thresholds := tagstats.ThresholdsFromConfig(ctx.configValue().Stats)
			coverage := tagstats.CoverageOf(tagstats.Frequencies(records), resolver.Index(), thresholds.CandidateThreshold, limit)
			if ctx.JSONMode() {
				return writeJSON(cmd, coverage)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unique tags mapped: %d/%d (%s)\n", coverage.MappedTags, coverage.UniqueTags, percent(coverage.UniquePercent))
			fmt.Fprintf(out, "Tag uses mapped: %d/%d (%s)\n", coverage.MappedInstances, coverage.TotalInstances, percent(coverage.InstancePercent))
			if len(coverage.TopUnmapped) > 0 {
				rows := tagCountRows(coverage.TopUnmapped, func(c tagstats.TagCount) string { return c.Tag }, func(c tagstats.TagCount) int { return c.Count })
				printSection(out, fmt.Sprintf("Unmapped tags used %d+ times", thresholds.CandidateThreshold),
					renderTable([]string{"Tag", "Uses"}, rows, []columnAlignment{alignLeft, alignRight}))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum unmapped tags to list (0 for all)")
	return cmd
}
