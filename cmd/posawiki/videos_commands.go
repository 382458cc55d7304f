package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"posawiki/internal/catalog"
	"posawiki/internal/ingest"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Import and list catalogued videos",
	}

	videosCmd.AddCommand(newVideosImportCommand(ctx))
	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosShowCommand(ctx))

	return videosCmd
}

func newVideosImportCommand(ctx *commandContext) *cobra.Command {
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "import <scrape.json>",
		Short: "Import scraped videos and split their tags against the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scrape, err := ingest.LoadScrape(args[0])
			if err != nil {
				return err
			}
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := passContext(cmd, "import")

			var stats ingest.ImportStats
			err = ctx.withWriter(func(store *catalog.Store) error {
				importer := ingest.NewImporter(store, resolver, logger)
				stats, err = importer.Import(runCtx, scrape.Videos, ingest.Options{MissingOnly: missingOnly})
				if err != nil {
					return err
				}
				return ctx.refreshSearch(runCtx, store)
			})
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, struct {
					ingest.ImportStats
					ValidationRate float64 `json:"validation_rate"`
				}{stats, stats.ValidationRate()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Videos in file: %d\n", stats.Seen)
			fmt.Fprintf(out, "Imported: %d\n", stats.Imported)
			if missingOnly {
				fmt.Fprintf(out, "Already catalogued: %d\n", stats.Skipped)
			}
			if stats.Failed > 0 {
				fmt.Fprintf(out, "Failed: %d (see log)\n", stats.Failed)
			}
			fmt.Fprintf(out, "Videos with tags: %d\n", stats.VideosWithTags)
			fmt.Fprintf(out, "Tags: %d original, %d validated, %d unvalidated\n",
				stats.OriginalTags, stats.ValidatedTags, stats.UnvalidatedTags)
			fmt.Fprintf(out, "Validation rate: %s\n", percent(stats.ValidationRate()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&missingOnly, "missing-only", false, "Only add videos not already in the catalog")
	return cmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var titleFilter string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued videos by upload date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				var (
					videos []*catalog.Video
					err    error
				)
				if strings.TrimSpace(titleFilter) != "" {
					videos, err = store.FindVideosByTitle(cmd.Context(), titleFilter)
				} else {
					videos, err = store.ListVideos(cmd.Context())
				}
				if err != nil {
					return err
				}
				if limit > 0 && len(videos) > limit {
					videos = videos[len(videos)-limit:]
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, videos)
				}

				out := cmd.OutOrStdout()
				if len(videos) == 0 {
					fmt.Fprintln(out, "No videos catalogued")
					return nil
				}
				rows := make([][]string, 0, len(videos))
				for _, v := range videos {
					rows = append(rows, []string{
						v.ID,
						datePortion(v.UploadDate),
						ingest.DisplayDuration(v.Duration),
						itoa(len(v.ValidatedTags)),
						itoa(len(v.UnvalidatedTags)),
						v.Title,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Uploaded", "Length", "Valid", "Unvalid", "Title"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&titleFilter, "title", "", "Only list videos whose title contains this text")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only list the most recent N videos")
	return cmd
}

type videoView struct {
	*catalog.Video
	Trips []int64 `json:"trip_ids"`
}

func newVideosShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show one video with its tag split and trip links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				video, err := store.GetVideo(cmd.Context(), args[0])
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("video %s is not in the catalog", args[0])
				}
				if err != nil {
					return err
				}
				links, err := store.TripIDsForVideos(cmd.Context(), []string{video.ID})
				if err != nil {
					return err
				}
				view := videoView{Video: video, Trips: append([]int64{}, links[video.ID]...)}
				if ctx.JSONMode() {
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %s\n", video.ID)
				fmt.Fprintf(out, "Title: %s\n", video.Title)
				fmt.Fprintf(out, "Uploaded: %s\n", video.UploadDate)
				if video.Duration != "" {
					fmt.Fprintf(out, "Length: %s\n", ingest.DisplayDuration(video.Duration))
				}
				fmt.Fprintf(out, "Views: %d\n", video.ViewCount)
				fmt.Fprintf(out, "Original tags: %s\n", joinOrNone(video.OriginalTags))
				fmt.Fprintf(out, "Validated: %s\n", joinOrNone(video.ValidatedTags))
				fmt.Fprintf(out, "Unvalidated: %s\n", joinOrNone(video.UnvalidatedTags))
				if len(view.Trips) == 0 {
					fmt.Fprintln(out, "Trips: none")
				} else {
					ids := make([]string, 0, len(view.Trips))
					for _, id := range view.Trips {
						ids = append(ids, fmt.Sprintf("%d", id))
					}
					fmt.Fprintf(out, "Trips: %s\n", strings.Join(ids, ", "))
				}
				return nil
			})
		},
	}
}

func datePortion(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}
