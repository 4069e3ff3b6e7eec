package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-recommender/internal/presenter"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <skills...>",
	Short: "Recommend careers for a list of skills",
	Long: `Recommend careers for comma or space separated skills, e.g.

  career_agent recommend react, python

When signed in, the result is saved to your history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	return recommendOnce(ctx, ctrl, strings.Join(args, " "), a.out)
}

// recommendOnce submits raw, prints the result, and waits for the history
// save when one was started.
func recommendOnce(ctx context.Context, ctrl *session.Controller, raw string, out io.Writer) error {
	if err := ctrl.Submit(raw); err != nil {
		return err
	}

	n, err := awaitNotice(ctx, ctrl.Notices(), nil, session.NoticeResultReady, session.NoticeFetchFailed)
	if err != nil {
		return err
	}
	if n.Kind == session.NoticeFetchFailed {
		return n.Err
	}

	state := ctrl.Snapshot()
	presenter.NewPrinter(out).PrintView(presenter.BuildView(state.Result))

	if state.Save == session.SaveIdle {
		if !state.Session.Authenticated() {
			fmt.Fprintln(out, "Sign in with `career_agent login` to keep a history of your results.")
		}
		return nil
	}

	n, err = awaitNotice(ctx, ctrl.Notices(), nil, session.NoticeSaved, session.NoticeSaveFailed)
	if err != nil {
		return err
	}
	if n.Kind == session.NoticeSaveFailed {
		fmt.Fprintf(out, "Warning: %v\n", n.Err)
		return nil
	}
	fmt.Fprintln(out, "Saved to history.")
	return nil
}
