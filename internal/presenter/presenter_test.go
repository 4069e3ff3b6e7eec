package presenter

import (
	"testing"

	"github.com/jonathan/career-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBarHeight(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchBarHeight(tt.score), "score %d", tt.score)
	}
}

func TestSelectTopCareer(t *testing.T) {
	recs := []types.CareerRecommendation{
		{Role: "Frontend Developer", Salary: "$80k-$120k", MatchScore: types.IntPtr(90)},
		{Role: "Backend Developer", Salary: "$85k-$130k", MatchScore: types.IntPtr(88)},
	}

	top, ok := SelectTopCareer(recs)
	require.True(t, ok)
	assert.Equal(t, "Frontend Developer", top)
}

func TestSelectTopCareer_FirstWinsTie(t *testing.T) {
	recs := []types.CareerRecommendation{
		{Role: "A", MatchScore: types.IntPtr(80)},
		{Role: "B", MatchScore: types.IntPtr(80)},
	}

	top, ok := SelectTopCareer(recs)
	require.True(t, ok)
	assert.Equal(t, "A", top)
}

func TestSelectTopCareer_SkipsUnscoredAndUsesLegacyScore(t *testing.T) {
	recs := []types.CareerRecommendation{
		{Role: "Unscored"},
		{Role: "Legacy", Score: types.IntPtr(70)},
		{Role: "Current", MatchScore: types.IntPtr(65), Score: types.IntPtr(99)},
	}

	top, ok := SelectTopCareer(recs)
	require.True(t, ok)
	assert.Equal(t, "Legacy", top)
}

func TestSelectTopCareer_NoScores(t *testing.T) {
	_, ok := SelectTopCareer([]types.CareerRecommendation{{Role: "A"}, {Role: "B"}})
	assert.False(t, ok)

	_, ok = SelectTopCareer(nil)
	assert.False(t, ok)
}

func TestBuildCard_MinimalHasNoOptionalSections(t *testing.T) {
	card := BuildCard(types.CareerRecommendation{Role: "Software Engineer", Salary: "$60k-$100k"})

	assert.Equal(t, "Software Engineer", card.Role)
	assert.Equal(t, "$60k-$100k", card.Salary)
	assert.Empty(t, card.Sections())
	assert.False(t, card.HasScore)
	assert.Nil(t, card.Insight)
}

func TestBuildCard_AllSections(t *testing.T) {
	rec := types.CareerRecommendation{
		Role:            "Frontend Developer",
		Salary:          "$80k-$120k",
		Companies:       []string{"Google"},
		MatchedSkills:   []string{"react"},
		UnmatchedSkills: []string{"css"},
		MatchScore:      types.IntPtr(120),
		Tools:           []string{"React", "Vite"},
		RoadmapURL:      "https://roadmap.sh/frontend",
		CoursesURL:      "https://www.coursera.org/search?query=frontend",
		Insight: &types.Insight{
			Overview:   "Builds user interfaces.",
			Advantages: []string{"High demand"},
			Challenges: []string{"Fast-moving ecosystem"},
			CareerPath: "Junior → Senior → Staff",
		},
		Jobs: []types.JobOpening{{Title: "React Developer", Company: "TechSoft"}},
	}

	card := BuildCard(rec)

	assert.Equal(t, []Section{
		SectionCompanies, SectionMatched, SectionUnmatched, SectionScore, SectionTools,
		SectionRoadmap, SectionCourses, SectionInsight, SectionAdvantages,
		SectionChallenges, SectionCareerPath, SectionJobs,
	}, card.Sections())
	assert.Equal(t, 120, card.Score)
	assert.Equal(t, 100, card.BarHeight)
}

func TestBuildCard_PartialInsight(t *testing.T) {
	card := BuildCard(types.CareerRecommendation{
		Role:    "Data Scientist",
		Insight: &types.Insight{Challenges: []string{"Messy data"}},
	})

	assert.True(t, card.Has(SectionChallenges))
	assert.False(t, card.Has(SectionInsight))
	assert.False(t, card.Has(SectionAdvantages))
	assert.False(t, card.Has(SectionCareerPath))
}

func TestBuildCard_EmptyInsightIsDropped(t *testing.T) {
	card := BuildCard(types.CareerRecommendation{Role: "A", Insight: &types.Insight{}})
	assert.Nil(t, card.Insight)
	assert.False(t, card.Has(SectionInsight))
}

func TestBuildCard_BlankListItemsIgnored(t *testing.T) {
	card := BuildCard(types.CareerRecommendation{Role: "A", Companies: []string{""}})
	assert.False(t, card.Has(SectionCompanies))
}

func TestBuildView(t *testing.T) {
	result := &types.RecommendationResult{
		SkillsLabel: "react, python",
		Recommendations: []types.CareerRecommendation{
			{Role: "Frontend Developer", Salary: "$80k-$120k", MatchScore: types.IntPtr(90)},
			{Role: "Backend Developer", Salary: "$85k-$130k", MatchScore: types.IntPtr(88)},
		},
	}

	view := BuildView(result)

	assert.False(t, view.Empty)
	assert.Equal(t, "react, python", view.SkillsLabel)
	require.Len(t, view.Cards, 2)
	assert.True(t, view.HasTopCareer)
	assert.Equal(t, "Frontend Developer", view.TopCareer)
	require.NotNil(t, view.Plan)
	assert.Equal(t, "Frontend Developer", view.Plan.Role)
	assert.NotEmpty(t, view.Plan.Steps)
}

func TestBuildView_TopCareerWithoutPlan(t *testing.T) {
	view := BuildView(&types.RecommendationResult{
		Recommendations: []types.CareerRecommendation{{Role: "Astronaut", MatchScore: types.IntPtr(50)}},
	})

	assert.True(t, view.HasTopCareer)
	assert.Nil(t, view.Plan)
}

func TestBuildView_Empty(t *testing.T) {
	view := BuildView(&types.RecommendationResult{SkillsLabel: "cobol", Recommendations: []types.CareerRecommendation{}})
	assert.True(t, view.Empty)
	assert.Empty(t, view.Cards)
	assert.False(t, view.HasTopCareer)
	assert.Nil(t, view.Plan)

	assert.True(t, BuildView(nil).Empty)
}
