// Package roadmap holds the static, role-keyed learning plans shown next to
// the top recommended career. The table is read-only reference data.
package roadmap

import "strings"

// Resource is a named learning link.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Step is one month of a plan.
type Step struct {
	Month     string     `json:"month"`
	Skills    []string   `json:"skills"`
	Resources []Resource `json:"resources"`
}

// Plan is the ordered learning plan for a role.
type Plan struct {
	Role       string `json:"role"`
	RoadmapURL string `json:"roadmapUrl,omitempty"`
	CoursesURL string `json:"coursesUrl,omitempty"`
	Steps      []Step `json:"steps"`
}

// Guide is the condensed form served by GET /growth-guides.
type Guide struct {
	Role      string   `json:"role"`
	Roadmap   string   `json:"roadmap"`
	Resources []string `json:"resources"`
}

var plans = map[string]Plan{
	"Frontend Developer": {
		Role:       "Frontend Developer",
		RoadmapURL: "https://roadmap.sh/frontend",
		CoursesURL: "https://www.freecodecamp.org/learn/front-end-development-libraries/",
		Steps: []Step{
			{Month: "Month 1", Skills: []string{"HTML", "CSS", "JavaScript"}, Resources: []Resource{
				{Name: "MDN Web Docs", URL: "https://developer.mozilla.org/"},
			}},
			{Month: "Month 2", Skills: []string{"React", "Vite"}, Resources: []Resource{
				{Name: "react.dev", URL: "https://react.dev/learn"},
				{Name: "vitejs.dev", URL: "https://vitejs.dev/guide/"},
			}},
			{Month: "Month 3", Skills: []string{"Testing", "Accessibility", "Performance"}, Resources: []Resource{
				{Name: "web.dev", URL: "https://web.dev/learn"},
			}},
		},
	},
	"Backend Developer": {
		Role:       "Backend Developer",
		RoadmapURL: "https://roadmap.sh/backend",
		CoursesURL: "https://www.freecodecamp.org/learn/back-end-development-and-apis/",
		Steps: []Step{
			{Month: "Month 1", Skills: []string{"Python", "HTTP", "SQL"}, Resources: []Resource{
				{Name: "realpython.com", URL: "https://realpython.com/"},
			}},
			{Month: "Month 2", Skills: []string{"FastAPI", "Databases"}, Resources: []Resource{
				{Name: "fastapi.tiangolo.com", URL: "https://fastapi.tiangolo.com/tutorial/"},
			}},
			{Month: "Month 3", Skills: []string{"Docker", "Caching", "Observability"}, Resources: []Resource{
				{Name: "Docker Docs", URL: "https://docs.docker.com/get-started/"},
			}},
		},
	},
	"Software Engineer": {
		Role:       "Software Engineer",
		RoadmapURL: "https://roadmap.sh/computer-science",
		CoursesURL: "https://cs50.harvard.edu/x/",
		Steps: []Step{
			{Month: "Month 1", Skills: []string{"Data Structures", "Algorithms"}, Resources: []Resource{
				{Name: "CS50", URL: "https://cs50.harvard.edu/x/"},
			}},
			{Month: "Month 2", Skills: []string{"Git", "Testing"}, Resources: []Resource{
				{Name: "Pro Git", URL: "https://git-scm.com/book"},
			}},
			{Month: "Month 3", Skills: []string{"System Design"}, Resources: []Resource{
				{Name: "System Design Primer", URL: "https://github.com/donnemartin/system-design-primer"},
			}},
		},
	},
	"Data Scientist": {
		Role:       "Data Scientist",
		RoadmapURL: "https://roadmap.sh/ai-data-scientist",
		CoursesURL: "https://www.kaggle.com/learn",
		Steps: []Step{
			{Month: "Month 1", Skills: []string{"Python", "Statistics"}, Resources: []Resource{
				{Name: "Kaggle Learn", URL: "https://www.kaggle.com/learn"},
			}},
			{Month: "Month 2", Skills: []string{"Pandas", "SQL"}, Resources: []Resource{
				{Name: "pandas docs", URL: "https://pandas.pydata.org/docs/getting_started/"},
			}},
			{Month: "Month 3", Skills: []string{"Machine Learning"}, Resources: []Resource{
				{Name: "scikit-learn", URL: "https://scikit-learn.org/stable/tutorial/"},
			}},
		},
	},
}

// guideOrder fixes the order of GET /growth-guides.
var guideOrder = []string{"Frontend Developer", "Backend Developer", "Software Engineer", "Data Scientist"}

// Lookup returns the plan for role by exact name. A missing plan means
// "no roadmap available", not an error.
func Lookup(role string) (Plan, bool) {
	plan, ok := plans[role]
	if !ok {
		return Plan{}, false
	}
	return clonePlan(plan), true
}

// Roles lists the roles that have a plan, in display order.
func Roles() []string {
	out := make([]string, len(guideOrder))
	copy(out, guideOrder)
	return out
}

// Guides returns the condensed growth guides for every plan.
func Guides() []Guide {
	guides := make([]Guide, 0, len(guideOrder))
	for _, role := range guideOrder {
		plan := plans[role]

		var skills []string
		var resources []string
		for _, step := range plan.Steps {
			skills = append(skills, step.Skills...)
			for _, r := range step.Resources {
				resources = append(resources, r.Name)
			}
		}
		guides = append(guides, Guide{
			Role:      role,
			Roadmap:   "Learn " + strings.Join(skills, ", "),
			Resources: resources,
		})
	}
	return guides
}

// clonePlan copies the slices so callers cannot mutate the table.
func clonePlan(p Plan) Plan {
	out := p
	out.Steps = make([]Step, len(p.Steps))
	for i, s := range p.Steps {
		out.Steps[i] = Step{
			Month:     s.Month,
			Skills:    append([]string(nil), s.Skills...),
			Resources: append([]Resource(nil), s.Resources...),
		}
	}
	return out
}
