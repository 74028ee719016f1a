package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robby/lpi/internal/domain"
)

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the Linear projects the API key can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			return runProjectsWithDeps(cmd, e.client)
		},
	}
}

// projectsClient defines the API methods used by projects.
type projectsClient interface {
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
}

// runProjectsWithDeps is the testable implementation of projects
func runProjectsWithDeps(cmd *cobra.Command, client projectsClient) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects found")
		return nil
	}
	return writeProjects(cmd.OutOrStdout(), projects)
}

// writeProjects prints projects as an aligned ID/NAME/STATE table.
func writeProjects(w io.Writer, projects []domain.ProjectSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.State)
	}
	return tw.Flush()
}
