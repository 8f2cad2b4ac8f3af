package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediadepot/internal/media"
	"mediadepot/internal/media/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var tableFlag string
	var fieldFlag string
	var fileTypeFlag string
	var genreFlag string
	var pageFlag int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the media catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tbl, err := media.ParseTable(tableFlag)
			if err != nil {
				return err
			}
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}

			var query string
			if len(args) > 0 {
				query = args[0]
			}

			return ctx.withMediaStore(cmd.Context(), func(store *media.Store) error {
				engine := search.New(store, resolver)
				result, err := engine.Search(cmd.Context(), search.Params{
					Table:    tbl,
					Query:    query,
					Field:    fieldFlag,
					FileType: fileTypeFlag,
					Genre:    genreFlag,
					Page:     pageFlag,
					PageSize: cfg.Search.TablePageSize,
				})
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(result.Rows))
				for _, row := range result.Rows {
					rows = append(rows, []string{
						row.FileID,
						row.FileName,
						row.FileType,
						row.Genre,
						row.Subject,
						row.Category,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"id", "name", "type", "genre", "subject", "category"},
					rows, nil))
				fmt.Fprintf(out, "Page %d of %d (%d total)\n",
					result.Page, result.TotalPages, result.TotalCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tableFlag, "table", "t", media.TableProject.String(), "Catalog table to search")
	cmd.Flags().StringVarP(&fieldFlag, "field", "f", "", "Restrict the query to one field")
	cmd.Flags().StringVar(&fileTypeFlag, "file-type", "", "Exact file type filter")
	cmd.Flags().StringVar(&genreFlag, "genre", "", "Exact genre filter")
	cmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "Result page")
	return cmd
}

func newTopicsCommand(ctx *commandContext) *cobra.Command {
	var tableFlag string
	var fieldFlag string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Show the most frequent values of a field",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tbl, err := media.ParseTable(tableFlag)
			if err != nil {
				return err
			}

			return ctx.withMediaStore(cmd.Context(), func(store *media.Store) error {
				counts, err := store.CountByField(cmd.Context(), tbl, fieldFlag, cfg.Search.TopTopics)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(counts))
				for _, count := range counts {
					rows = append(rows, []string{count.Value, fmt.Sprintf("%d", count.Count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{strings.ToLower(fieldFlag), "count"},
					rows,
					[]columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tableFlag, "table", "t", media.TableProject.String(), "Catalog table")
	cmd.Flags().StringVarP(&fieldFlag, "field", "f", media.FieldGenre.String(), "Field to count")
	return cmd
}
