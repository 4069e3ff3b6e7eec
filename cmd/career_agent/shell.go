package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jonathan/career-recommender/internal/presenter"
	"github.com/jonathan/career-recommender/internal/recommend"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/jonathan/career-recommender/internal/skills"
	"github.com/spf13/cobra"
)

const shellHelp = `Type skills separated by commas or spaces to get recommendations.
Commands:
  :history        show saved history
  :results        show the last result again
  :roadmap <role> show a growth roadmap
  :login          sign in
  :logout         sign out
  :help           show this help
  :quit           exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session: recommendations, history, and sign-in",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	sh := &shell{app: a, ctrl: ctrl, printer: presenter.NewPrinter(a.out)}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sh.watch()
	}()

	err = sh.loop(ctx)
	ctrl.Close()
	wg.Wait()
	return err
}

// shell reads commands and reacts to controller notices. Output from the
// two goroutines is serialized by mu.
type shell struct {
	app     *app
	ctrl    *session.Controller
	printer *presenter.Printer
	mu      sync.Mutex
}

func (sh *shell) printf(format string, args ...any) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	fmt.Fprintf(sh.app.out, format, args...)
}

func (sh *shell) loop(ctx context.Context) error {
	sh.printf("%s\n", shellHelp)
	for {
		sh.printf("> ")
		line, err := sh.app.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := sh.handle(ctx, line); quit {
			return nil
		}
	}
}

// handle runs one input line and reports whether the shell should exit.
func (sh *shell) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		sh.submit(line)
		return false
	}

	command, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch command {
	case "quit", "q", "exit":
		return true
	case "help":
		sh.printf("%s\n", shellHelp)
	case "history":
		sh.ctrl.ShowHistory()
		if state := sh.ctrl.Snapshot(); state.HistoryState == session.HistorySignedOut {
			sh.printf("Sign in with :login to see your history.\n")
		}
	case "results":
		if !sh.ctrl.ShowResults() {
			sh.printf("No results yet.\n")
			return false
		}
		sh.printResult()
	case "roadmap":
		sh.mu.Lock()
		err := printRoadmap(sh.app.out, strings.TrimSpace(arg))
		sh.mu.Unlock()
		if err != nil {
			sh.printf("%v\n", err)
		}
	case "login":
		if sh.ctrl.Snapshot().Session.Authenticated() {
			sh.printf("Already signed in.\n")
			return false
		}
		creds, err := sh.app.creds.prompt.Credentials(ctx)
		if err != nil {
			sh.printf("%v\n", err)
			return false
		}
		sh.app.creds.Preset(creds)
		sh.ctrl.SignIn()
	case "logout":
		sh.ctrl.SignOut()
		sh.printf("Signed out.\n")
	default:
		sh.printf("Unknown command %q. Type :help for commands.\n", command)
	}
	return false
}

func (sh *shell) submit(raw string) {
	err := sh.ctrl.Submit(raw)
	var inputErr *skills.InputError
	switch {
	case err == nil:
		sh.printf("Finding careers...\n")
	case errors.As(err, &inputErr):
		// Reported through the input_rejected notice.
	case errors.Is(err, recommend.ErrRequestInFlight):
		sh.printf("Still working on the previous request.\n")
	default:
		sh.printf("%v\n", err)
	}
}

func (sh *shell) printResult() {
	state := sh.ctrl.Snapshot()
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.printer.PrintView(presenter.BuildView(state.Result))
}

// watch prints notices until the controller closes the channel.
func (sh *shell) watch() {
	for n := range sh.ctrl.Notices() {
		switch n.Kind {
		case session.NoticeResultReady:
			sh.printResult()
		case session.NoticeHistoryLoaded:
			state := sh.ctrl.Snapshot()
			sh.mu.Lock()
			sh.printer.PrintHistory(state.History)
			sh.mu.Unlock()
		case session.NoticeSaved:
			sh.printf("Saved to history.\n")
		case session.NoticeInputRejected:
			sh.printf("%v\n", n.Err)
		case session.NoticeFetchFailed:
			sh.printf("Could not get recommendations: %v\n", n.Err)
		case session.NoticeSaveFailed:
			sh.printf("Warning: %v\n", n.Err)
		case session.NoticeHistoryFailed:
			sh.printf("Could not load history: %v\n", n.Err)
		case session.NoticeAuthError:
			sh.printf("Sign-in problem: %v\n", n.Err)
		}
	}
}
