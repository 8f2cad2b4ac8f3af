package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediadepot/internal/jobs"
)

func newJobCommand(ctx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Manage the project registry",
	}

	jobCmd.AddCommand(newJobNewCommand(ctx))
	jobCmd.AddCommand(newJobListCommand(ctx))
	jobCmd.AddCommand(newJobCheckCommand(ctx))
	jobCmd.AddCommand(newJobUpdateCommand(ctx))
	jobCmd.AddCommand(newJobYearsCommand(ctx))

	return jobCmd
}

func newJobNewCommand(ctx *commandContext) *cobra.Command {
	var creatorFlag string
	var dueFlag string
	var tagsFlag string
	var notesFlag string
	var appsFlag []string

	cmd := &cobra.Command{
		Use:   "new <base-name>",
		Short: "Create a project with the next free revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(cmd.Context(), func(registry *jobs.Registry) error {
				result, err := registry.Create(cmd.Context(), jobs.CreateParams{
					Base:    args[0],
					Creator: creatorFlag,
					DateDue: dueFlag,
					Tags:    tagsFlag,
					Notes:   notesFlag,
					Apps:    appsFlag,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created %s (alias %s)\n",
					result.Job.JobName, result.Job.JobAlias)
				for _, step := range result.Steps {
					status := "ok"
					if !step.OK {
						status = "failed"
					}
					if step.Detail != "" {
						fmt.Fprintf(out, "  %-12s %s (%s)\n", step.Name, status, step.Detail)
					} else {
						fmt.Fprintf(out, "  %-12s %s\n", step.Name, status)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&creatorFlag, "creator", "", "Creator recorded on the job")
	cmd.Flags().StringVar(&dueFlag, "due", "", "Due date")
	cmd.Flags().StringVar(&tagsFlag, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&notesFlag, "notes", "", "Free-form notes")
	cmd.Flags().StringArrayVar(&appsFlag, "app", nil, "Application to scaffold (repeatable)")
	return cmd
}

func newJobListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(cmd.Context(), func(registry *jobs.Registry) error {
				list, err := registry.Store().List(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(list))
				for _, job := range list {
					rows = append(rows, []string{
						job.JobID,
						job.JobName,
						job.JobAlias,
						job.JobState,
						job.Creator,
						job.DateDue,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"id", "name", "alias", "state", "creator", "due"},
					rows, nil))
				return nil
			})
		},
	}
}

func newJobCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <base-name>",
		Short: "Validate a base name and preview the next revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, reason := jobs.ValidateBaseName(args[0]); !ok {
				return fmt.Errorf("invalid base name: %s", reason)
			}
			return ctx.withRegistry(cmd.Context(), func(registry *jobs.Registry) error {
				name, alias, err := registry.NextName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Next: %s (alias %s)\n", name, alias)
				return nil
			})
		},
	}
}

func newJobUpdateCommand(ctx *commandContext) *cobra.Command {
	var editorFlag string
	var fieldFlags []string

	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Edit a project's mutable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(fieldFlags)
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to update, pass --set name=value")
			}
			return ctx.withRegistry(cmd.Context(), func(registry *jobs.Registry) error {
				return registry.Store().Update(cmd.Context(), args[0], editorFlag, fields)
			})
		},
	}

	cmd.Flags().StringVar(&editorFlag, "editor", "", "Editor recorded on the change")
	cmd.Flags().StringArrayVarP(&fieldFlags, "set", "s", nil, "Field as name=value (repeatable)")
	return cmd
}

func newJobYearsCommand(ctx *commandContext) *cobra.Command {
	var yearFlag string

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List registry years, or the projects of one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(cmd.Context(), func(registry *jobs.Registry) error {
				out := cmd.OutOrStdout()
				if yearFlag == "" {
					years, err := registry.Years(cmd.Context())
					if err != nil {
						return err
					}
					for _, year := range years {
						fmt.Fprintln(out, year)
					}
					return nil
				}

				projects, err := registry.ProjectsForYear(cmd.Context(), yearFlag)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(projects))
				for _, project := range projects {
					rows = append(rows, []string{project.Name, project.Path})
				}
				fmt.Fprintln(out, renderTable([]string{"name", "path"}, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&yearFlag, "year", "y", "", "Show the projects of one year")
	return cmd
}
