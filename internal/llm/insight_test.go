package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func sampleRecs() []types.CareerRecommendation {
	return []types.CareerRecommendation{
		{Role: "Frontend Developer", Salary: "$80k-$120k"},
		{Role: "Backend Developer", Salary: "$85k-$130k", Insight: &types.Insight{Overview: "already written"}},
		{Role: "Data Scientist", Salary: "$90k-$140k"},
	}
}

func TestEnrich_FillsMissingInsights(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{"insights":[
		{"role":"frontend developer","overview":"Builds UIs.","advantages":["react"],"careerPath":"Senior FE"},
		{"role":"Backend Developer","overview":"should not be used"}
	]}` + "\n```"}

	recs := sampleRecs()
	out, err := NewInsightWriter(client).Enrich(context.Background(), []string{"react"}, recs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.NotNil(t, out[0].Insight)
	assert.Equal(t, "Builds UIs.", out[0].Insight.Overview)
	assert.Equal(t, []string{"react"}, out[0].Insight.Advantages)
	assert.Equal(t, "Senior FE", out[0].Insight.CareerPath)

	assert.Equal(t, "already written", out[1].Insight.Overview)
	assert.Nil(t, out[2].Insight, "role the model skipped")

	assert.Nil(t, recs[0].Insight, "input is not mutated")

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "- Frontend Developer")
	assert.Contains(t, client.prompts[0], "- Data Scientist")
	assert.NotContains(t, client.prompts[0], "- Backend Developer")
	assert.Contains(t, client.prompts[0], "Skills: react")
}

func TestEnrich_NothingToDoSkipsModel(t *testing.T) {
	client := &fakeClient{}
	recs := []types.CareerRecommendation{{Role: "A", Insight: &types.Insight{Overview: "x"}}}

	out, err := NewInsightWriter(client).Enrich(context.Background(), nil, recs)
	require.NoError(t, err)
	assert.Equal(t, recs, out)
	assert.Empty(t, client.prompts)
}

func TestEnrich_FailuresReturnInputUnchanged(t *testing.T) {
	cases := map[string]*fakeClient{
		"client error":   {err: errors.New("quota")},
		"not json":       {response: "sorry, I can't"},
		"missing field":  {response: `{"insights":[{"role":"Frontend Developer"}]}`},
		"wrong key type": {response: `{"insights":{"role":"x"}}`},
	}

	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			recs := sampleRecs()
			out, err := NewInsightWriter(client).Enrich(context.Background(), []string{"go"}, recs)
			assert.Error(t, err)
			assert.Equal(t, recs, out)
		})
	}
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"other language tag", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"preamble", "Here you go:\n{\"a\": 1}", `{"a": 1}`},
		{"trailing chatter", "{\"a\": {\"b\": 2}} hope this helps", `{"a": {"b": 2}}`},
		{"array", "result: [1, 2]", `[1, 2]`},
		{"no json", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
