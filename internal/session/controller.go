// Package session ties the user session, the recommendation fetch, and
// history persistence together.
//
// All state is owned by a single loop goroutine. Public calls, provider
// notifications, and I/O completions are posted to the loop as events, so
// state changes are applied one at a time in arrival order.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/recommend"
	"github.com/jonathan/career-recommender/internal/skills"
	"github.com/jonathan/career-recommender/internal/types"
)

// Provider is the identity capability the controller consumes.
type Provider interface {
	// Subscribe registers fn for session changes and returns a function that
	// removes it. Providers may call fn from any goroutine.
	Subscribe(fn func(types.Session)) (unsubscribe func())
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// Recommender fetches recommendations for a profile.
type Recommender interface {
	FetchRecommendations(ctx context.Context, profile skills.Profile) (*types.RecommendationResult, error)
}

// Store persists history entries.
type Store interface {
	Append(ctx context.Context, uid string, entry types.HistoryEntry) error
	ListAll(ctx context.Context, uid string) ([]types.HistoryEntry, error)
}

// Deps are the collaborators of a Controller. Clock and NewID are optional.
type Deps struct {
	Provider    Provider
	Recommender Recommender
	Store       Store
	Clock       func() time.Time
	NewID       func() string
}

// Options tunes a Controller.
type Options struct {
	// NoticeBuffer is the capacity of the Notices channel. Notices that do
	// not fit are dropped.
	NoticeBuffer int
}

const defaultNoticeBuffer = 32

// Controller is the session/history state machine.
type Controller struct {
	deps Deps

	events  chan func()
	stop    chan struct{}
	done    chan struct{}
	notices chan Notice

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce   sync.Once
	unsubscribe func()

	// Owned by the loop goroutine.
	state      State
	resultGen  uint64
	historyGen uint64
	signingIn  bool

	// Written by the loop just before it exits.
	final State
}

// NewController starts the controller loop and subscribes to the provider.
// The session is AuthPending until the provider first reports.
func NewController(deps Deps, opts Options) *Controller {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = history.NewID
	}
	buffer := opts.NoticeBuffer
	if buffer <= 0 {
		buffer = defaultNoticeBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		deps:    deps,
		events:  make(chan func()),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		notices: make(chan Notice, buffer),
		ctx:     ctx,
		cancel:  cancel,
		state: State{
			Session:      types.Session{State: types.SessionPending},
			View:         ViewInput,
			Fetch:        FetchIdle,
			Save:         SaveIdle,
			HistoryState: HistoryIdle,
		},
	}

	go c.loop()

	unsubscribe := deps.Provider.Subscribe(func(s types.Session) {
		c.post(func() { c.sessionChanged(s) })
	})
	c.do(func() { c.unsubscribe = unsubscribe })

	return c
}

// Notices returns the channel of user-facing events. It is closed by Close.
func (c *Controller) Notices() <-chan Notice {
	return c.notices
}

// Close cancels in-flight I/O, unsubscribes from the provider, and stops the
// loop. Completions arriving afterwards are dropped. Close is idempotent.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		c.cancel()
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		close(c.notices)
	})
}

// Snapshot returns a copy of the state after every earlier event has been
// applied. After Close it returns the final state.
func (c *Controller) Snapshot() State {
	var snap State
	if !c.do(func() { snap = c.state.clone() }) {
		<-c.done
		return c.final.clone()
	}
	return snap
}

// Submit tokenizes raw and starts a fetch. It returns *skills.InputError for
// input with no skills and recommend.ErrRequestInFlight while a fetch runs.
func (c *Controller) Submit(raw string) error {
	var err error
	if !c.do(func() { err = c.submit(raw) }) {
		return ErrClosed
	}
	return err
}

// SignIn asks the provider to sign in. Failures surface as NoticeAuthError.
func (c *Controller) SignIn() {
	c.do(c.signIn)
}

// SignOut clears the local session and history, then asks the provider to
// sign out. Failures surface as NoticeAuthError.
func (c *Controller) SignOut() {
	c.do(c.signOut)
}

// ShowHistory switches to the history view and loads it when signed in.
func (c *Controller) ShowHistory() {
	c.do(c.showHistory)
}

// ShowInput switches to the input view.
func (c *Controller) ShowInput() {
	c.do(func() { c.state.View = ViewInput })
}

// ShowResults switches to the results view. It reports false when there is
// no result to show.
func (c *Controller) ShowResults() bool {
	var ok bool
	c.do(func() {
		if c.state.Result != nil {
			c.state.View = ViewResults
			ok = true
		}
	})
	return ok
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.stop:
			c.final = c.state.clone()
			return
		}
	}
}

// post hands fn to the loop. It reports false once the controller is closed.
func (c *Controller) post(fn func()) bool {
	select {
	case <-c.stop:
		return false
	default:
	}

	// The loop may pick this event after stop has closed; skip it then.
	guarded := func() {
		select {
		case <-c.stop:
		default:
			fn()
		}
	}
	select {
	case c.events <- guarded:
		return true
	case <-c.stop:
		return false
	}
}

// do runs fn on the loop and waits for it.
func (c *Controller) do(fn func()) bool {
	finished := make(chan struct{})
	if !c.post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) emit(n Notice) {
	select {
	case c.notices <- n:
	default:
		log.Printf("[session] notice dropped: %s", n)
	}
}

func (c *Controller) submit(raw string) error {
	profile := skills.Tokenize(raw)
	if err := profile.Validate(); err != nil {
		c.emit(Notice{Kind: NoticeInputRejected, Err: err})
		return err
	}
	if c.state.Fetch == FetchRunning {
		return recommend.ErrRequestInFlight
	}

	c.resultGen++
	gen := c.resultGen
	c.state.Result = nil
	c.state.Fetch = FetchRunning
	c.state.FetchErr = nil
	c.state.Save = SaveIdle
	c.state.SavedEntryID = ""
	if c.state.View == ViewResults {
		c.state.View = ViewInput
	}

	go func() {
		result, err := c.deps.Recommender.FetchRecommendations(c.ctx, profile)
		c.post(func() { c.fetchDone(gen, result, err) })
	}()
	return nil
}

func (c *Controller) fetchDone(gen uint64, result *types.RecommendationResult, err error) {
	if gen != c.resultGen {
		return
	}

	if err != nil {
		log.Printf("[session] fetch failed: %v", err)
		c.state.Fetch = FetchFailed
		c.state.FetchErr = err
		c.emit(Notice{Kind: NoticeFetchFailed, Err: err})
		return
	}

	c.state.Fetch = FetchSucceeded
	c.state.Result = result
	c.state.View = ViewResults
	c.state.Save = SaveIdle
	c.emit(Notice{Kind: NoticeResultReady})
	c.maybeSave()
}

// maybeSave starts the one save allowed per result. It runs when a result
// arrives and when the session changes, whichever completes the pair last.
func (c *Controller) maybeSave() {
	if c.state.Result == nil || !c.state.Session.Authenticated() {
		return
	}
	if !canTransition(c.state.Save, SaveSaving) {
		return
	}

	c.state.Save = SaveSaving
	gen := c.resultGen
	uid := c.state.Session.UID
	entry := history.NewEntry(c.deps.NewID(), c.state.Result, c.deps.Clock())

	go func() {
		err := c.deps.Store.Append(c.ctx, uid, entry)
		c.post(func() { c.saveDone(gen, uid, entry, err) })
	}()
}

func (c *Controller) saveDone(gen uint64, uid string, entry types.HistoryEntry, err error) {
	if gen != c.resultGen || c.state.Save != SaveSaving {
		log.Printf("[session] ignoring stale save of %s", entry.ID)
		return
	}

	if err != nil && !errors.Is(err, history.ErrDuplicateEntry) {
		log.Printf("[session] save failed: %v", err)
		c.state.Save = SaveFailed
		c.emit(Notice{Kind: NoticeSaveFailed, Err: &SaveError{EntryID: entry.ID, Cause: err}})
		return
	}

	c.state.Save = SaveSaved
	c.state.SavedEntryID = entry.ID
	if c.state.HistoryState == HistoryLoaded && c.state.Session.UID == uid {
		c.state.History = ListHistory(append(c.state.History, entry))
	}
	c.emit(Notice{Kind: NoticeSaved})
}

func (c *Controller) sessionChanged(s types.Session) {
	prev := c.state.Session
	c.state.Session = s
	if s.State != types.SessionPending {
		c.signingIn = false
	}

	if prev.UID != s.UID || !s.Authenticated() {
		c.historyGen++
		c.state.History = nil
		if s.Authenticated() {
			c.state.HistoryState = HistoryIdle
		} else if s.State == types.SessionAnonymous {
			c.state.HistoryState = HistorySignedOut
		}
		if c.state.View == ViewHistory && s.Authenticated() {
			c.loadHistory()
		}
	}

	c.maybeSave()
}

func (c *Controller) signIn() {
	if c.state.Session.Authenticated() {
		return
	}
	if c.state.Session.State == types.SessionAnonymous {
		c.state.Session = types.Session{State: types.SessionPending}
		c.signingIn = true
	}

	go func() {
		if err := c.deps.Provider.SignIn(c.ctx); err != nil {
			c.post(func() { c.authFailed("sign in", err) })
		}
	}()
}

func (c *Controller) signOut() {
	c.state.Session = types.AnonymousSession()
	c.signingIn = false
	c.historyGen++
	c.state.History = nil
	c.state.HistoryState = HistorySignedOut

	go func() {
		if err := c.deps.Provider.SignOut(c.ctx); err != nil {
			c.post(func() { c.authFailed("sign out", err) })
		}
	}()
}

func (c *Controller) authFailed(op string, err error) {
	log.Printf("[session] %s failed: %v", op, err)
	if c.signingIn && c.state.Session.State == types.SessionPending {
		c.state.Session = types.AnonymousSession()
		c.state.HistoryState = HistorySignedOut
	}
	c.signingIn = false
	c.emit(Notice{Kind: NoticeAuthError, Err: err})
}

func (c *Controller) showHistory() {
	c.state.View = ViewHistory
	if !c.state.Session.Authenticated() {
		c.state.History = nil
		c.state.HistoryState = HistorySignedOut
		return
	}
	c.loadHistory()
}

func (c *Controller) loadHistory() {
	c.historyGen++
	gen := c.historyGen
	uid := c.state.Session.UID
	c.state.HistoryState = HistoryLoading

	go func() {
		entries, err := c.deps.Store.ListAll(c.ctx, uid)
		c.post(func() { c.historyDone(gen, entries, err) })
	}()
}

func (c *Controller) historyDone(gen uint64, entries []types.HistoryEntry, err error) {
	if gen != c.historyGen {
		return
	}
	if err != nil {
		log.Printf("[session] history load failed: %v", err)
		c.state.HistoryState = HistoryFailed
		c.emit(Notice{Kind: NoticeHistoryFailed, Err: err})
		return
	}
	c.state.History = ListHistory(entries)
	c.state.HistoryState = HistoryLoaded
	c.emit(Notice{Kind: NoticeHistoryLoaded})
}
