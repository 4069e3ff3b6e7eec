package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/identity"
	"github.com/jonathan/career-recommender/internal/recommend"
	"github.com/jonathan/career-recommender/internal/session"
	"golang.org/x/term"
)

func defaultConfig() config.Config {
	return config.Config{
		APIBaseURL:     recommend.DefaultBaseURL,
		TimeoutSeconds: int(recommend.DefaultTimeout / time.Second),
		HistoryBackend: config.HistoryRemote,
		SQLitePath:     history.DefaultSQLitePath(),
		SessionPath:    identity.DefaultTokenPath(),
	}
}

// loadCLIConfig layers the config file, CAREER_* variables, and flags over
// the defaults.
func loadCLIConfig(path string, verboseFlag bool) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(defaultConfig()), nil
}

// app holds the client-side collaborators shared by the commands.
type app struct {
	cfg      config.Config
	in       *bufio.Reader
	out      io.Writer
	creds    *credentialSource
	provider *identity.TokenProvider
	client   *recommend.Client
	store    session.Store
	closers  []func()
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*app, error) {
	reader := bufio.NewReader(in)
	a := &app{
		cfg: cfg,
		in:  reader,
		out: out,
		creds: &credentialSource{prompt: &prompter{
			in:           reader,
			out:          out,
			defaultEmail: cfg.Email,
			readPassword: terminalPassword(in),
		}},
		client: recommend.NewClient(recommend.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.Timeout()}),
	}
	a.provider = identity.NewTokenProvider(identity.Options{
		BaseURL:     cfg.APIBaseURL,
		TokenPath:   cfg.SessionPath,
		Credentials: a.creds.Get,
	})

	store, closeStore, err := openStore(ctx, cfg, a.provider)
	if err != nil {
		return nil, err
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
}

func (a *app) newController() *session.Controller {
	return session.NewController(session.Deps{
		Provider:    a.provider,
		Recommender: a.client,
		Store:       a.store,
	}, session.Options{})
}

// openStore returns the history backend named by cfg and, for backends that
// hold resources, a function releasing them.
func openStore(ctx context.Context, cfg config.Config, tokens history.TokenSource) (session.Store, func(), error) {
	switch cfg.HistoryBackend {
	case config.HistoryMemory:
		return history.NewMemoryStore(), nil, nil
	case config.HistorySQLite:
		store, err := history.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.HistoryRemote, "":
		return history.NewRemoteStore(cfg.APIBaseURL, tokens), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

// credentialSource hands the identity provider credentials. The shell
// collects them up front with Preset so the prompt never races its own
// input loop; one-shot commands prompt on demand.
type credentialSource struct {
	mu     sync.Mutex
	preset *identity.Credentials
	prompt *prompter
}

func (s *credentialSource) Preset(c identity.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = &c
}

func (s *credentialSource) Get(ctx context.Context) (identity.Credentials, error) {
	s.mu.Lock()
	preset := s.preset
	s.preset = nil
	s.mu.Unlock()

	if preset != nil {
		return *preset, nil
	}
	return s.prompt.Credentials(ctx)
}

// prompter asks for an email and password on the terminal.
type prompter struct {
	in           *bufio.Reader
	out          io.Writer
	defaultEmail string
	readPassword func() (string, error)
}

func (p *prompter) Credentials(_ context.Context) (identity.Credentials, error) {
	email := p.defaultEmail
	if email != "" {
		fmt.Fprintf(p.out, "Email [%s]: ", email)
	} else {
		fmt.Fprint(p.out, "Email: ")
	}
	line, err := p.readLine()
	if err != nil {
		return identity.Credentials{}, err
	}
	if line != "" {
		email = line
	}
	if email == "" {
		return identity.Credentials{}, fmt.Errorf("email is required")
	}

	password := os.Getenv("CAREER_PASSWORD")
	if password == "" {
		fmt.Fprint(p.out, "Password: ")
		if p.readPassword != nil {
			password, err = p.readPassword()
			fmt.Fprintln(p.out)
		} else {
			password, err = p.readLine()
		}
		if err != nil {
			return identity.Credentials{}, err
		}
	}
	if password == "" {
		return identity.Credentials{}, fmt.Errorf("password is required")
	}
	return identity.Credentials{Email: email, Password: password}, nil
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// terminalPassword reads without echo when in is an interactive terminal.
// Otherwise it returns nil and the password is read as a plain line.
func terminalPassword(in io.Reader) func() (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
}

// awaitNotice blocks until a notice of one of kinds arrives. Other notices
// are passed to other, which may be nil.
func awaitNotice(ctx context.Context, notices <-chan session.Notice, other func(session.Notice), kinds ...session.NoticeKind) (session.Notice, error) {
	for {
		select {
		case <-ctx.Done():
			return session.Notice{}, ctx.Err()
		case n, ok := <-notices:
			if !ok {
				return session.Notice{}, session.ErrClosed
			}
			for _, k := range kinds {
				if n.Kind == k {
					return n, nil
				}
			}
			if other != nil {
				other(n)
			}
		}
	}
}
