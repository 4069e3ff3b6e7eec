// Package presenter derives display facts from recommendation results.
// Everything here is pure; rendering to a terminal lives in printer.go.
package presenter

import (
	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/jonathan/career-recommender/internal/types"
)

// Section names an optional part of a recommendation card.
type Section string

// Optional card sections, in display order.
const (
	SectionCompanies  Section = "companies"
	SectionMatched    Section = "matched_skills"
	SectionUnmatched  Section = "unmatched_skills"
	SectionScore      Section = "score"
	SectionTools      Section = "tools"
	SectionRoadmap    Section = "roadmap_link"
	SectionCourses    Section = "courses_link"
	SectionInsight    Section = "insight"
	SectionAdvantages Section = "insight_advantages"
	SectionChallenges Section = "insight_challenges"
	SectionCareerPath Section = "insight_career_path"
	SectionJobs       Section = "jobs"
)

// Card holds what is shown for one recommendation.
type Card struct {
	Role   string
	Salary string

	Companies       []string
	MatchedSkills   []string
	UnmatchedSkills []string
	Tools           []string

	HasScore  bool
	Score     int
	BarHeight int

	RoadmapURL string
	CoursesURL string
	Insight    *types.Insight
	Jobs       []types.JobOpening
}

// Sections lists the optional sections present on the card, in display order.
func (c Card) Sections() []Section {
	var out []Section
	add := func(present bool, s Section) {
		if present {
			out = append(out, s)
		}
	}

	add(len(c.Companies) > 0, SectionCompanies)
	add(len(c.MatchedSkills) > 0, SectionMatched)
	add(len(c.UnmatchedSkills) > 0, SectionUnmatched)
	add(c.HasScore, SectionScore)
	add(len(c.Tools) > 0, SectionTools)
	add(c.RoadmapURL != "", SectionRoadmap)
	add(c.CoursesURL != "", SectionCourses)
	if c.Insight != nil {
		add(c.Insight.Overview != "", SectionInsight)
		add(len(c.Insight.Advantages) > 0, SectionAdvantages)
		add(len(c.Insight.Challenges) > 0, SectionChallenges)
		add(c.Insight.CareerPath != "", SectionCareerPath)
	}
	add(len(c.Jobs) > 0, SectionJobs)
	return out
}

// Has reports whether section s is present on the card.
func (c Card) Has(s Section) bool {
	for _, got := range c.Sections() {
		if got == s {
			return true
		}
	}
	return false
}

// View is the full results screen.
type View struct {
	SkillsLabel string
	Empty       bool
	Cards       []Card

	TopCareer    string
	HasTopCareer bool
	Plan         *roadmap.Plan
}

// MatchBarHeight converts a score into a bar height in [0, 100].
func MatchBarHeight(score int) int {
	return max(0, min(100, score))
}

// SelectTopCareer returns the role with the highest associated score. The
// first entry wins a tie. Entries without a score are skipped, and false is
// returned when none has one.
func SelectTopCareer(recs []types.CareerRecommendation) (string, bool) {
	var (
		top   string
		best  int
		found bool
	)
	for _, rec := range recs {
		score, ok := rec.AssociatedScore()
		if !ok {
			continue
		}
		if !found || score > best {
			top, best, found = rec.Role, score, true
		}
	}
	return top, found
}

// BuildCard derives the display facts for a single recommendation.
func BuildCard(rec types.CareerRecommendation) Card {
	card := Card{
		Role:            rec.Role,
		Salary:          rec.Salary,
		Companies:       nonEmpty(rec.Companies),
		MatchedSkills:   nonEmpty(rec.MatchedSkills),
		UnmatchedSkills: nonEmpty(rec.UnmatchedSkills),
		Tools:           nonEmpty(rec.Tools),
		RoadmapURL:      rec.RoadmapURL,
		CoursesURL:      rec.CoursesURL,
	}

	if score, ok := rec.AssociatedScore(); ok {
		card.HasScore = true
		card.Score = score
		card.BarHeight = MatchBarHeight(score)
	}

	if !rec.Insight.Empty() {
		insight := *rec.Insight
		card.Insight = &insight
	}

	if len(rec.Jobs) > 0 {
		card.Jobs = append([]types.JobOpening(nil), rec.Jobs...)
	}
	return card
}

// BuildView derives the results screen. A result with no recommendations
// produces an empty view and no top career.
func BuildView(result *types.RecommendationResult) View {
	if result == nil || len(result.Recommendations) == 0 {
		view := View{Empty: true}
		if result != nil {
			view.SkillsLabel = result.SkillsLabel
		}
		return view
	}

	view := View{
		SkillsLabel: result.SkillsLabel,
		Cards:       make([]Card, 0, len(result.Recommendations)),
	}
	for _, rec := range result.Recommendations {
		view.Cards = append(view.Cards, BuildCard(rec))
	}

	view.TopCareer, view.HasTopCareer = SelectTopCareer(result.Recommendations)
	if view.HasTopCareer {
		if plan, ok := roadmap.Lookup(view.TopCareer); ok {
			view.Plan = &plan
		}
	}
	return view
}

func nonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
