package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"posawiki/internal/authority"
	"posawiki/internal/config"
	"posawiki/internal/fileutil"
	"posawiki/internal/textutil"
)

func newAuthorityCommand(ctx *commandContext) *cobra.Command {
	authorityCmd := &cobra.Command{
		Use:   "authority",
		Short: "Inspect the tag authority vocabulary",
	}

	authorityCmd.AddCommand(newAuthorityInitCommand(ctx))
	authorityCmd.AddCommand(newAuthorityShowCommand(ctx))
	authorityCmd.AddCommand(newAuthorityResolveCommand(ctx))

	return authorityCmd
}

func newAuthorityInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in vocabulary to an editable file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = cfg.Authority.Path
			}
			if target == "" {
				target = filepath.Join(cfg.Paths.DataDir, "authorities.yaml")
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve authority path: %w", err)
			}
			var backup string
			if _, err := os.Stat(expanded); err == nil {
				if !overwrite {
					return fmt.Errorf("authority file already exists at %s (use --overwrite to replace it)", expanded)
				}
				backup = expanded + ".bak"
				if err := fileutil.CopyFile(expanded, backup); err != nil {
					return fmt.Errorf("back up authority file: %w", err)
				}
			}

			snap, err := authority.Seed()
			if err != nil {
				return err
			}
			if err := authority.Write(expanded, snap); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backup != "" {
				fmt.Fprintf(out, "Previous file saved to %s\n", backup)
			}
			fmt.Fprintf(out, "Wrote %d authorities to %s\n", snap.Len(), expanded)
			if cfg.Authority.Path != expanded {
				fmt.Fprintln(out, "Set [authority] path in your configuration to use it.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}

type authorityShowView struct {
	Source        string                     `json:"source"`
	Authorities   []authority.Authority      `json:"authorities"`
	AliasCount    int                        `json:"alias_count"`
	Categories    map[authority.Category]int `json:"categories"`
	SharedAliases []authority.MultiMapping   `json:"shared_aliases"`
}

func newAuthorityShowCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List authorities, alias counts and shared aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadAuthorities()
			if err != nil {
				return err
			}
			var filter authority.Category
			if strings.TrimSpace(category) != "" {
				filter, err = authority.ParseCategory(category)
				if err != nil {
					return err
				}
			}

			source := ctx.configValue().Authority.Path
			if source == "" {
				source = "built-in"
			}
			view := authorityShowView{
				Source:        source,
				AliasCount:    snap.AliasCount(),
				Categories:    snap.CategoryCounts(),
				SharedAliases: authority.BuildIndex(snap).MultiMapped(),
			}
			for _, auth := range snap.Authorities() {
				if filter != "" && auth.Category != filter {
					continue
				}
				view.Authorities = append(view.Authorities, auth)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", view.Source)
			fmt.Fprintf(out, "Authorities: %d (%d aliases)\n", snap.Len(), view.AliasCount)

			rows := make([][]string, 0, len(view.Authorities))
			for _, auth := range view.Authorities {
				rows = append(rows, []string{auth.CanonicalName, string(auth.Category), strings.Join(auth.Aliases, ", ")})
			}
			printSection(out, "Authorities", renderTable([]string{"Name", "Category", "Aliases"}, rows, nil))

			catRows := make([][]string, 0, len(view.Categories))
			for _, c := range authority.Categories() {
				if n := view.Categories[c]; n > 0 {
					catRows = append(catRows, []string{textutil.Label(string(c)), itoa(n)})
				}
			}
			printSection(out, "Categories", renderTable([]string{"Category", "Authorities"}, catRows, []columnAlignment{alignLeft, alignRight}))

			if len(view.SharedAliases) > 0 {
				sharedRows := make([][]string, 0, len(view.SharedAliases))
				for _, m := range view.SharedAliases {
					sharedRows = append(sharedRows, []string{m.Alias, strings.Join(m.Names, ", ")})
				}
				printSection(out, "Shared aliases", renderTable([]string{"Alias", "Resolves to"}, sharedRows, nil))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list authorities of this category")
	return cmd
}

func newAuthorityResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <tag>...",
		Short: "Show how raw tags resolve against the vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			assignment := resolver.Resolve(args)
			if ctx.JSONMode() {
				return writeJSON(cmd, assignment)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(args))
			for _, tag := range args {
				names, ok := resolver.Index().Lookup(tag)
				result := "(unvalidated)"
				if ok {
					result = strings.Join(names, ", ")
				}
				rows = append(rows, []string{tag, result})
			}
			fmt.Fprintln(out, renderTable([]string{"Tag", "Canonical"}, rows, nil))
			fmt.Fprintf(out, "Validated: %s\n", joinOrNone(assignment.Validated))
			fmt.Fprintf(out, "Unvalidated: %s\n", joinOrNone(assignment.Unvalidated))
			return nil
		},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
