// Package types provides type definitions for structured data shared by the career recommender packages.
package types

// SkillsRequest is the request body for POST /recommend-careers.
type SkillsRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}

// Insight is the long-form career write-up attached to a recommendation.
type Insight struct {
	Overview   string   `json:"overview"`
	Advantages []string `json:"advantages,omitempty"`
	Challenges []string `json:"challenges,omitempty"`
	CareerPath string   `json:"careerPath,omitempty"`
}

// Empty reports whether the insight carries nothing worth rendering.
func (i *Insight) Empty() bool {
	return i == nil || (i.Overview == "" && len(i.Advantages) == 0 && len(i.Challenges) == 0 && i.CareerPath == "")
}

// JobOpening is a sample opening returned alongside a recommendation.
type JobOpening struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
}

// CareerRecommendation is one career suggestion. Only Role and Salary are
// always present; every other field may be absent.
type CareerRecommendation struct {
	Role            string       `json:"role" validate:"required"`
	Salary          string       `json:"salary"`
	Companies       []string     `json:"companies,omitempty"`
	MatchedSkills   []string     `json:"matchedSkills,omitempty"`
	UnmatchedSkills []string     `json:"unmatchedSkills,omitempty"`
	MatchScore      *int         `json:"matchScore,omitempty"`
	Score           *int         `json:"score,omitempty"` // legacy backend field
	Tools           []string     `json:"tools,omitempty"`
	RoadmapURL      string       `json:"roadmap,omitempty"`
	CoursesURL      string       `json:"courses,omitempty"`
	Insight         *Insight     `json:"insight,omitempty"`
	Jobs            []JobOpening `json:"jobs,omitempty" validate:"omitempty,dive"`
}

// AssociatedScore returns the score used for ranking: matchScore when set,
// otherwise the legacy score.
func (c CareerRecommendation) AssociatedScore() (int, bool) {
	if c.MatchScore != nil {
		return *c.MatchScore, true
	}
	if c.Score != nil {
		return *c.Score, true
	}
	return 0, false
}

// RecommendationsResponse is the wire shape returned by POST /recommend-careers.
type RecommendationsResponse struct {
	Recommendations []CareerRecommendation `json:"recommendations" validate:"dive"`
}

// RecommendationResult is a fetched set of recommendations together with the
// label of the skills that produced it.
type RecommendationResult struct {
	SkillsLabel     string                 `json:"skills"`
	Recommendations []CareerRecommendation `json:"recommendations"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
