package session

import (
	"errors"
	"fmt"
)

// NoticeKind names an observable controller event.
type NoticeKind string

const (
	NoticeInputRejected NoticeKind = "input_rejected"
	NoticeFetchFailed   NoticeKind = "fetch_failed"
	NoticeResultReady   NoticeKind = "result_ready"
	NoticeAuthError     NoticeKind = "auth_error"
	NoticeSaved         NoticeKind = "saved"
	NoticeSaveFailed    NoticeKind = "save_failed"
	NoticeHistoryLoaded NoticeKind = "history_loaded"
	NoticeHistoryFailed NoticeKind = "history_failed"
)

// Notice is a non-blocking message for the user interface.
type Notice struct {
	Kind NoticeKind
	Err  error
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Kind, n.Err)
	}
	return string(n.Kind)
}

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("session controller is closed")

// SaveError reports that a result could not be written to history.
type SaveError struct {
	EntryID string
	Cause   error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save history entry %s: %v", e.EntryID, e.Cause)
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}
