package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HistoryEntry is one persisted recommendation request. Entries are written
// once and never mutated.
type HistoryEntry struct {
	ID              string                 `json:"id"`
	Skills          string                 `json:"skills" validate:"required"`
	Recommendations HistoryRecommendations `json:"recommendations"`
	CreatedAt       string                 `json:"createdAt"`
}

// CareerScore is a single career→score pair from a history entry.
type CareerScore struct {
	Career string
	Score  *int
}

// HistoryRecommendations holds the recommendations stored with a history entry.
// Older entries store a career→score object; newer ones store the full list.
// Both decode into Careers, and encoding always produces the list form.
type HistoryRecommendations struct {
	Careers []CareerRecommendation
}

// MarshalJSON encodes the recommendations as an ordered array.
func (h HistoryRecommendations) MarshalJSON() ([]byte, error) {
	if h.Careers == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.Careers)
}

// UnmarshalJSON accepts either an array of recommendations or a
// career→score object. Object key order is preserved.
func (h *HistoryRecommendations) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		h.Careers = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var careers []CareerRecommendation
		if err := json.Unmarshal(trimmed, &careers); err != nil {
			return fmt.Errorf("failed to decode recommendation list: %w", err)
		}
		h.Careers = careers
		return nil
	case '{':
		careers, err := decodeScoreMap(trimmed)
		if err != nil {
			return err
		}
		h.Careers = careers
		return nil
	default:
		return fmt.Errorf("recommendations must be an array or an object, got %q", trimmed[:1])
	}
}

// decodeScoreMap walks the object token by token so entries keep their stored order.
func decodeScoreMap(data []byte) ([]CareerRecommendation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read score map: %w", err)
	}

	var careers []CareerRecommendation
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read career name: %w", err)
		}
		career, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to read score for %s: %w", career, err)
		}

		rec := CareerRecommendation{Role: career}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if v, err := n.Int64(); err == nil {
				rec.MatchScore = IntPtr(int(v))
			} else if f, err := n.Float64(); err == nil {
				rec.MatchScore = IntPtr(int(f))
			}
		}
		careers = append(careers, rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to close score map: %w", err)
	}
	return careers, nil
}

// Scores returns the career→score pairs in stored order.
func (h HistoryRecommendations) Scores() []CareerScore {
	out := make([]CareerScore, 0, len(h.Careers))
	for _, c := range h.Careers {
		cs := CareerScore{Career: c.Role}
		if score, ok := c.AssociatedScore(); ok {
			cs.Score = IntPtr(score)
		}
		out = append(out, cs)
	}
	return out
}

// AppendHistoryRequest is the body of POST /me/history. A client-chosen ID
// makes the write idempotent.
type AppendHistoryRequest struct {
	ID              string                 `json:"id,omitempty" validate:"omitempty,uuid"`
	Skills          string                 `json:"skills" validate:"required"`
	Recommendations []CareerRecommendation `json:"recommendations" validate:"dive"`
	CreatedAt       string                 `json:"createdAt,omitempty"`
}

// HistoryListResponse is the body of GET /me/history.
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
}
