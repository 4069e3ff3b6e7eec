package presenter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintView(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	view := BuildView(&types.RecommendationResult{
		SkillsLabel: "react",
		Recommendations: []types.CareerRecommendation{
			{
				Role:          "Frontend Developer",
				Salary:        "$80k-$120k",
				MatchScore:    types.IntPtr(90),
				MatchedSkills: []string{"react"},
				Jobs: []types.JobOpening{
					{Title: "React Developer", Company: "TechSoft", Location: "Remote"},
				},
			},
		},
	})

	p.PrintView(view)
	output := buf.String()

	assert.Contains(t, output, "CAREER RECOMMENDATIONS")
	assert.Contains(t, output, "Top:     Frontend Developer")
	assert.Contains(t, output, "FRONTEND DEVELOPER")
	assert.Contains(t, output, "$80k-$120k")
	assert.Contains(t, output, "90%")
	assert.Contains(t, output, "React Developer at TechSoft (Remote)")
	assert.Contains(t, output, "ROADMAP: FRONTEND DEVELOPER")
	assert.NotContains(t, output, "Companies:")
	assert.NotContains(t, output, "Courses:")
}

func TestPrintView_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintView(View{Empty: true, SkillsLabel: "cobol"})

	assert.Contains(t, buf.String(), "No recommendations found for: cobol")
}

func TestPrintCard_OmitsAbsentSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCard(BuildCard(types.CareerRecommendation{Role: "Software Engineer", Salary: "$60k-$100k"}))
	output := buf.String()

	assert.Contains(t, output, "SOFTWARE ENGINEER")
	for _, label := range []string{"Match:", "Tools:", "Roadmap:", "Advantages:", "Openings:"} {
		assert.NotContains(t, output, label)
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	entries := []types.HistoryEntry{
		{
			ID:     "1",
			Skills: "go, sql",
			Recommendations: types.HistoryRecommendations{Careers: []types.CareerRecommendation{
				{Role: "Backend Developer", MatchScore: types.IntPtr(88)},
				{Role: "Unscored"},
			}},
			CreatedAt: "2024-06-01T00:00:00Z",
		},
		{ID: "2", Skills: "react"},
	}

	p.PrintHistory(entries)
	output := buf.String()

	assert.Contains(t, output, "HISTORY (2)")
	assert.Contains(t, output, "2024-06-01T00:00:00Z  go, sql")
	assert.Contains(t, output, "Backend Developer (88%)")
	assert.Contains(t, output, "• Unscored")
	assert.Contains(t, output, "unknown date  react")
	assert.Less(t, strings.Index(output, "go, sql"), strings.Index(output, "react"))
}

func TestPrintCard_ClampsOutOfRangeScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
		not   string
	}{
		{120, "100%", "120%"},
		{-5, " 0%", "-5%"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintCard(BuildCard(types.CareerRecommendation{Role: "Edge", MatchScore: types.IntPtr(tt.score)}))
		assert.Contains(t, buf.String(), tt.want)
		assert.NotContains(t, buf.String(), tt.not)
	}
}

func TestPrintHistory_ClampsOutOfRangeScore(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHistory([]types.HistoryEntry{{
		ID:     "1",
		Skills: "go",
		Recommendations: types.HistoryRecommendations{Careers: []types.CareerRecommendation{
			{Role: "High", MatchScore: types.IntPtr(150)},
			{Role: "Low", MatchScore: types.IntPtr(-20)},
		}},
	}})

	output := buf.String()
	assert.Contains(t, output, "High (100%)")
	assert.Contains(t, output, "Low (0%)")
	assert.NotContains(t, output, "150%")
	assert.NotContains(t, output, "-20%")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHistory(nil)
	assert.Contains(t, buf.String(), "No history yet.")
}

func TestPrintPlan(t *testing.T) {
	plan, ok := roadmap.Lookup("Backend Developer")
	require.True(t, ok)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintPlan(plan)

	assert.Contains(t, buf.String(), "ROADMAP: BACKEND DEVELOPER")
	assert.Contains(t, buf.String(), plan.Steps[0].Month)
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("T", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("·", barWidth)+"]", Bar(0))
	assert.Equal(t, "["+strings.Repeat("█", barWidth)+"]", Bar(100))
	assert.Equal(t, "["+strings.Repeat("█", barWidth)+"]", Bar(250))
	assert.Equal(t, "["+strings.Repeat("█", 10)+strings.Repeat("·", 10)+"]", Bar(50))
}
