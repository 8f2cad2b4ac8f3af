package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediadepot/internal/archive"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/probe"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive maintenance",
	}
	archiveCmd.AddCommand(newArchiveMigrateCommand(ctx))
	return archiveCmd
}

func newArchiveMigrateCommand(ctx *commandContext) *cobra.Command {
	var extFlags []string

	cmd := &cobra.Command{
		Use:   "migrate <file-ids...>",
		Short: "Copy project assets into the archive tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}
			return ctx.withMediaStore(cmd.Context(), func(store *media.Store) error {
				ffmpeg := probe.NewFFmpeg()
				migrator := archive.New(archive.Options{
					Store:      store,
					Resolver:   resolver,
					Transcoder: ffmpeg,
					Capturer:   ffmpeg,
					ArchiveDir: cfg.Paths.ArchiveDir,
					ThumbsDir:  cfg.Paths.ThumbsDir,
					Logger:     logging.NewNop(),
				})
				stats := migrator.Migrate(cmd.Context(), args, extFlags)
				fmt.Fprintf(cmd.OutOrStdout(),
					"%d processed: %d copied, %d skipped, %d failed\n",
					stats.Total, stats.Copied, stats.Skipped, stats.Failed)
				for _, detail := range stats.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", detail)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&extFlags, "ext", nil, "Restrict migration to these extensions (repeatable)")
	return cmd
}
