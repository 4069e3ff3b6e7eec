package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecommendations_DecodesLegacyScoreMapInOrder(t *testing.T) {
	raw := `{"id":"a","skills":"python, react","recommendations":{"Backend Developer":88,"Frontend Developer":90,"Data Analyst":72.5},"createdAt":"2024-01-01T00:00:00Z"}`

	var entry HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))

	scores := entry.Recommendations.Scores()
	require.Len(t, scores, 3)
	assert.Equal(t, "Backend Developer", scores[0].Career)
	assert.Equal(t, 88, *scores[0].Score)
	assert.Equal(t, "Frontend Developer", scores[1].Career)
	assert.Equal(t, "Data Analyst", scores[2].Career)
	assert.Equal(t, 72, *scores[2].Score)
}

func TestHistoryRecommendations_DecodesList(t *testing.T) {
	raw := `[{"role":"Frontend Developer","salary":"$80k-$120k","matchScore":90},{"role":"Software Engineer","salary":"$60k-$100k"}]`

	var recs HistoryRecommendations
	require.NoError(t, json.Unmarshal([]byte(raw), &recs))

	require.Len(t, recs.Careers, 2)
	assert.Equal(t, "Frontend Developer", recs.Careers[0].Role)

	scores := recs.Scores()
	assert.Equal(t, 90, *scores[0].Score)
	assert.Nil(t, scores[1].Score)
}

func TestHistoryRecommendations_NonNumericScoreKeepsCareer(t *testing.T) {
	var recs HistoryRecommendations
	require.NoError(t, json.Unmarshal([]byte(`{"Designer":"n/a"}`), &recs))

	require.Len(t, recs.Careers, 1)
	assert.Equal(t, "Designer", recs.Careers[0].Role)
	assert.Nil(t, recs.Careers[0].MatchScore)
}

func TestHistoryRecommendations_RejectsScalar(t *testing.T) {
	var recs HistoryRecommendations
	err := json.Unmarshal([]byte(`42`), &recs)
	require.Error(t, err)
}

func TestHistoryRecommendations_EncodesAsList(t *testing.T) {
	entry := HistoryEntry{ID: "x", Skills: "go", CreatedAt: "2024-06-01T00:00:00Z"}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendations":[]`)
}

func TestCareerRecommendation_AssociatedScore(t *testing.T) {
	rec := CareerRecommendation{Role: "A", Score: IntPtr(70)}
	score, ok := rec.AssociatedScore()
	require.True(t, ok)
	assert.Equal(t, 70, score)

	rec.MatchScore = IntPtr(95)
	score, _ = rec.AssociatedScore()
	assert.Equal(t, 95, score, "matchScore takes precedence over the legacy score")

	_, ok = CareerRecommendation{Role: "B"}.AssociatedScore()
	assert.False(t, ok)
}

func TestInsight_Empty(t *testing.T) {
	var nilInsight *Insight
	assert.True(t, nilInsight.Empty())
	assert.True(t, (&Insight{}).Empty())
	assert.False(t, (&Insight{CareerPath: "Junior → Senior"}).Empty())
}
