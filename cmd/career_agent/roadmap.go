package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-recommender/internal/presenter"
	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [role]",
	Short: "Show the growth roadmap for a role",
	Long: `Show the month-by-month growth roadmap for a role, e.g.

  career_agent roadmap Frontend Developer

Without a role, lists the roles that have a roadmap.`,
	RunE: runRoadmap,
}

func init() {
	rootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	return printRoadmap(cmd.OutOrStdout(), strings.Join(args, " "))
}

func printRoadmap(out io.Writer, role string) error {
	if role == "" {
		fmt.Fprintln(out, "Roles with a roadmap:")
		for _, r := range roadmap.Roles() {
			fmt.Fprintf(out, "  %s\n", r)
		}
		return nil
	}

	plan, ok := roadmap.Lookup(role)
	if !ok {
		return fmt.Errorf("no roadmap for %q (known roles: %s)", role, strings.Join(roadmap.Roles(), ", "))
	}
	presenter.NewPrinter(out).PrintPlan(plan)
	return nil
}
