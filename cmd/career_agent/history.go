package main

import (
	"fmt"

	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/presenter"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your saved recommendations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.provider.Current()
	if !s.Authenticated() {
		return fmt.Errorf("not signed in; run `career_agent login` first")
	}

	entries, err := a.store.ListAll(ctx, s.UID)
	if err != nil {
		if history.IsUnauthorized(err) {
			return fmt.Errorf("session expired; run `career_agent login` again: %w", err)
		}
		return fmt.Errorf("failed to load history: %w", err)
	}
	presenter.NewPrinter(a.out).PrintHistory(session.ListHistory(entries))
	return nil
}
