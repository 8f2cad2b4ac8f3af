package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediadepot/internal/ingest"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/probe"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Manage the ingestion queue",
	}

	ingestCmd.AddCommand(newIngestAddCommand(ctx))
	ingestCmd.AddCommand(newIngestListCommand(ctx))
	ingestCmd.AddCommand(newIngestSubmitCommand(ctx))
	ingestCmd.AddCommand(newIngestSkipCommand(ctx))
	ingestCmd.AddCommand(newIngestRetryCommand(ctx))
	ingestCmd.AddCommand(newIngestUndoCommand(ctx))
	ingestCmd.AddCommand(newIngestClearCommand(ctx))

	return ingestCmd
}

// withQueue restores the persisted queue session for one command and
// saves it back through the queue's own persistence.
func withQueue(ctx *commandContext, cmd *cobra.Command, fn func(*ingest.Queue) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	resolver, err := ctx.resolver()
	if err != nil {
		return err
	}
	return ctx.withMediaStore(cmd.Context(), func(store *media.Store) error {
		queue, err := ingest.NewQueue(ingest.Options{
			Store:     store,
			Resolver:  resolver,
			Extractor: probe.NewFFmpeg(),
			StateDir:  cfg.Paths.StateDir,
			Logger:    logging.NewNop(),
		})
		if err != nil {
			return err
		}
		return fn(queue)
	})
}

func newIngestAddCommand(ctx *commandContext) *cobra.Command {
	var folderFlag string

	cmd := &cobra.Command{
		Use:   "add [files...]",
		Short: "Queue files or a folder for cataloging",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && folderFlag == "" {
				return fmt.Errorf("provide files or --folder")
			}
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				added := 0
				if folderFlag != "" {
					n, err := queue.AddFolder(cmd.Context(), folderFlag)
					if err != nil {
						return err
					}
					added += n
				}
				if len(args) > 0 {
					n, err := queue.AddFiles(cmd.Context(), args)
					if err != nil {
						return err
					}
					added += n
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d file(s)\n", added)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderFlag, "folder", "", "Queue every file under a directory")
	return cmd
}

func newIngestListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the ingestion queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				items := queue.Items()
				rows := make([][]string, 0, len(items))
				for i, item := range items {
					detail := item.ErrorMessage
					rows = append(rows, []string{
						strconv.Itoa(i),
						item.SourcePath,
						item.Category,
						string(item.Status),
						detail,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "source", "category", "status", "detail"},
					rows,
					[]columnAlignment{alignRight}))

				stats := queue.Stats()
				fmt.Fprintf(cmd.OutOrStdout(),
					"%d total: %d pending, %d completed, %d skipped, %d duplicate, %d error\n",
					stats.Total, stats.Pending, stats.Completed,
					stats.Skipped, stats.Duplicate, stats.Error)
				return nil
			})
		},
	}
}

func newIngestSubmitCommand(ctx *commandContext) *cobra.Command {
	var indexFlag int
	var fieldFlags []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Catalog one queued file with metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(fieldFlags)
			if err != nil {
				return err
			}
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				if err := queue.Submit(cmd.Context(), indexFlag, fields); err != nil {
					return err
				}
				item, err := queue.Item(indexFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cataloged %s -> %s\n",
					item.SourcePath, item.DestPath)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&indexFlag, "index", "i", 0, "Queue position to submit")
	cmd.Flags().StringArrayVarP(&fieldFlags, "set", "s", nil, "Metadata field as name=value (repeatable)")
	return cmd
}

func newIngestSkipCommand(ctx *commandContext) *cobra.Command {
	var indexFlag int

	cmd := &cobra.Command{
		Use:   "skip",
		Short: "Skip one queued file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				return queue.Skip(indexFlag)
			})
		},
	}

	cmd.Flags().IntVarP(&indexFlag, "index", "i", 0, "Queue position to skip")
	return cmd
}

func newIngestRetryCommand(ctx *commandContext) *cobra.Command {
	var indexFlag int

	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Return a failed item to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				return queue.Retry(indexFlag)
			})
		},
	}

	cmd.Flags().IntVarP(&indexFlag, "index", "i", 0, "Queue position to retry")
	return cmd
}

func newIngestUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Roll back the most recent submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				record, err := queue.Undo(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n",
					record.FileID, record.Table)
				return nil
			})
		},
	}
}

func newIngestClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the ingestion queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(ctx, cmd, func(queue *ingest.Queue) error {
				if completedOnly {
					return queue.ClearCompleted()
				}
				return queue.Clear()
			})
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Remove only completed and skipped items")
	return cmd
}

// parseFieldArgs turns repeated name=value flags into a field map.
func parseFieldArgs(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q, expected name=value", pair)
		}
		fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return fields, nil
}
