package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediadepot/internal/deps"
	"mediadepot/internal/probe"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Short:       "Check the external tools mediadepot depends on",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ffmpeg := probe.NewFFmpeg()
			statuses := deps.CheckBinaries(deps.Requirements(ffmpeg.FFprobeBin, ffmpeg.FFmpegBin))

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						missingRequired = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"tool", "state", "detail", "purpose"},
				rows, nil))

			if missingRequired {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
