package session

import (
	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/types"
)

// View is the screen the user is looking at.
type View string

const (
	ViewInput   View = "input"
	ViewResults View = "results"
	ViewHistory View = "history"
)

// FetchState tracks the current recommendation request.
type FetchState string

const (
	FetchIdle      FetchState = "idle"
	FetchRunning   FetchState = "fetching"
	FetchSucceeded FetchState = "succeeded"
	FetchFailed    FetchState = "failed"
)

// SaveState tracks persistence of the current result.
type SaveState string

const (
	SaveIdle   SaveState = "idle"
	SaveSaving SaveState = "saving"
	SaveSaved  SaveState = "saved"
	SaveFailed SaveState = "save_failed"
)

// saveTransitions lists the legal moves of the per-result save state. A new
// result resets to idle from any state.
var saveTransitions = map[SaveState][]SaveState{
	SaveIdle:   {SaveSaving},
	SaveSaving: {SaveSaved, SaveFailed},
	SaveSaved:  {},
	SaveFailed: {},
}

func canTransition(from, to SaveState) bool {
	for _, allowed := range saveTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// HistoryState tracks the history list.
type HistoryState string

const (
	HistoryIdle      HistoryState = "idle"
	HistoryLoading   HistoryState = "loading"
	HistoryLoaded    HistoryState = "loaded"
	HistorySignedOut HistoryState = "signed_out"
	HistoryFailed    HistoryState = "failed"
)

// State is a read-only copy of the controller state.
type State struct {
	Session types.Session
	View    View

	Fetch    FetchState
	FetchErr error
	Result   *types.RecommendationResult

	Save         SaveState
	SavedEntryID string

	History      []types.HistoryEntry
	HistoryState HistoryState
}

func (s State) clone() State {
	out := s
	if s.History != nil {
		out.History = make([]types.HistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// ListHistory orders entries newest first by createdAt. Entries without a
// createdAt sort last; ties keep their order.
func ListHistory(entries []types.HistoryEntry) []types.HistoryEntry {
	return history.SortNewestFirst(entries)
}
