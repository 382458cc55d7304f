package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"posawiki/internal/catalog"
	"posawiki/internal/logging"
	"posawiki/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Full-text search over titles, descriptions and validated tags",
	}

	searchCmd.AddCommand(newSearchRebuildCommand(ctx))
	searchCmd.AddCommand(newSearchQueryCommand(ctx))

	return searchCmd
}

func newSearchRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the search index from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.Search.Enabled {
				return errSearchDisabled
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			var count int
			err = ctx.withWriter(func(store *catalog.Store) error {
				count, err = rebuildSearchIndex(passContext(cmd, "search"), cfg.Search.IndexDir, store, logger)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]int{"documents": count})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d videos into %s\n", count, cfg.Search.IndexDir)
			return nil
		},
	}
}

func newSearchQueryCommand(ctx *commandContext) *cobra.Command {
	var tags []string
	var limit int

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.Search.Enabled {
				return errSearchDisabled
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			index, err := search.Open(cfg.Search.IndexDir, logger)
			if err != nil {
				return err
			}
			defer index.Close()

			result, err := index.Search(cmd.Context(), search.Params{
				Query: strings.Join(args, " "),
				Tags:  tags,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if len(result.Hits) == 0 {
				fmt.Fprintf(out, "No matches for %q\n", result.Query)
				return nil
			}
			rows := make([][]string, 0, len(result.Hits))
			for _, hit := range result.Hits {
				rows = append(rows, []string{
					hit.VideoID,
					datePortion(hit.UploadDate),
					fmt.Sprintf("%.2f", hit.Score),
					hit.Title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Uploaded", "Score", "Title"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d of %d matches\n", len(result.Hits), result.Total)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require a validated tag (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of hits")
	return cmd
}

func rebuildSearchIndex(ctx context.Context, dir string, store *catalog.Store, logger *slog.Logger) (int, error) {
	videos, err := store.ListVideos(ctx)
	if err != nil {
		return 0, err
	}
	index, err := search.Open(dir, logging.WithContext(ctx, logger))
	if err != nil {
		return 0, err
	}
	defer index.Close()

	docs := make([]*search.Document, 0, len(videos))
	for _, v := range videos {
		docs = append(docs, search.DocumentFromVideo(v))
	}
	if err := index.Rebuild(docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// refreshSearch rebuilds the index after a catalog write when search is
// enabled. A failed refresh is logged; the catalog write already succeeded.
func (c *commandContext) refreshSearch(ctx context.Context, store *catalog.Store) error {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Search.Enabled {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	count, err := rebuildSearchIndex(ctx, cfg.Search.IndexDir, store, logger)
	if err != nil {
		logging.WarnWithContext(logger, "search index refresh failed", "search_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'posawiki search rebuild'"),
			logging.String(logging.FieldImpact, "search results are stale"),
		)
		return nil
	}
	logger.Debug("search index refreshed", logging.Int("documents", count))
	return nil
}
