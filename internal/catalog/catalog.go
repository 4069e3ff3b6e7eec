// Package catalog maps skills to career recommendations for the server.
package catalog

import (
	"sort"
	"strings"

	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/jonathan/career-recommender/internal/types"
)

// FallbackRole is recommended when no input skill is known.
const FallbackRole = "Software Engineer"

const (
	fallbackScore  = 70
	fallbackSalary = "$60k-$100k"
)

// Entry is what a known skill contributes.
type Entry struct {
	Role   string
	Score  int
	Tools  []string
	Salary string
	Jobs   []types.JobOpening
}

// Catalog is a fixed skill → career table.
type Catalog struct {
	entries map[string]Entry
}

// New builds a catalog. Skill keys are matched case-insensitively.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for skill, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(skill))
		c.entries[key] = entry
	}
	return c
}

// Default returns the built-in table.
func Default() *Catalog {
	return New(map[string]Entry{
		"react": {
			Role:   "Frontend Developer",
			Score:  90,
			Tools:  []string{"React", "Vite", "JavaScript"},
			Salary: "$80k-$120k",
			Jobs: []types.JobOpening{
				{Title: "React Developer", Company: "TechSoft", Location: "Remote", Link: "https://example.com/job/react-dev"},
				{Title: "Frontend Engineer", Company: "WebWorks", Location: "Bangalore", Link: "https://example.com/job/frontend-eng"},
			},
		},
		"python": {
			Role:   "Backend Developer",
			Score:  88,
			Tools:  []string{"Python", "FastAPI", "SQL"},
			Salary: "$85k-$130k",
			Jobs: []types.JobOpening{
				{Title: "Python Backend Developer", Company: "DataCore", Location: "Remote", Link: "https://example.com/job/python-backend"},
				{Title: "API Engineer", Company: "CloudNet", Location: "Delhi", Link: "https://example.com/job/api-eng"},
			},
		},
		"fastapi": {
			Role:   "Backend Developer",
			Score:  85,
			Tools:  []string{"Python", "FastAPI", "Docker"},
			Salary: "$85k-$130k",
			Jobs: []types.JobOpening{
				{Title: "FastAPI Developer", Company: "APISolutions", Location: "Remote", Link: "https://example.com/job/fastapi-dev"},
			},
		},
		"vite": {
			Role:   "Frontend Developer",
			Score:  80,
			Tools:  []string{"Vite", "React", "JavaScript"},
			Salary: "$75k-$110k",
			Jobs: []types.JobOpening{
				{Title: "Vite Frontend Developer", Company: "SpeedyWeb", Location: "Remote", Link: "https://example.com/job/vite-dev"},
			},
		},
	})
}

// Skills lists the known skills in sorted order.
func (c *Catalog) Skills() []string {
	out := make([]string, 0, len(c.entries))
	for skill := range c.entries {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// Known reports whether skill is in the table.
func (c *Catalog) Known(skill string) bool {
	_, ok := c.entries[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}

// Recommend returns one recommendation per role reached by the input skills,
// in order of first appearance. Skills reaching the same role are merged: the
// first score and salary win, and tools, matches, and jobs are unioned. When
// no skill is known, a single generic recommendation is returned whose tools
// are the input skills.
func (c *Catalog) Recommend(skills []string) []types.CareerRecommendation {
	var (
		normalized []string
		raw        []string
		seenSkill  = make(map[string]struct{}, len(skills))
	)
	for _, s := range skills {
		trimmed := strings.TrimSpace(s)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, dup := seenSkill[key]; dup {
			continue
		}
		seenSkill[key] = struct{}{}
		normalized = append(normalized, key)
		raw = append(raw, trimmed)
	}

	var (
		recs   []types.CareerRecommendation
		byRole = make(map[string]int)
	)
	for _, skill := range normalized {
		entry, ok := c.entries[skill]
		if !ok {
			continue
		}

		idx, seen := byRole[entry.Role]
		if !seen {
			recs = append(recs, types.CareerRecommendation{
				Role:       entry.Role,
				Salary:     entry.Salary,
				MatchScore: types.IntPtr(entry.Score),
				Score:      types.IntPtr(entry.Score),
			})
			idx = len(recs) - 1
			byRole[entry.Role] = idx
		}

		rec := &recs[idx]
		rec.Tools = union(rec.Tools, entry.Tools)
		rec.MatchedSkills = union(rec.MatchedSkills, []string{skill})
		rec.Jobs = append(rec.Jobs, entry.Jobs...)
	}

	if len(recs) == 0 {
		recs = []types.CareerRecommendation{{
			Role:       FallbackRole,
			Salary:     fallbackSalary,
			MatchScore: types.IntPtr(fallbackScore),
			Score:      types.IntPtr(fallbackScore),
			Tools:      raw,
		}}
	}

	for i := range recs {
		finish(&recs[i], normalized)
	}
	return recs
}

// finish derives the fields that depend on the merged entry.
func finish(rec *types.CareerRecommendation, input []string) {
	have := make(map[string]struct{}, len(input))
	for _, s := range input {
		have[s] = struct{}{}
	}
	for _, tool := range rec.Tools {
		if _, ok := have[strings.ToLower(tool)]; !ok {
			rec.UnmatchedSkills = union(rec.UnmatchedSkills, []string{tool})
		}
	}

	for _, job := range rec.Jobs {
		if job.Company != "" {
			rec.Companies = union(rec.Companies, []string{job.Company})
		}
	}

	if plan, ok := roadmap.Lookup(rec.Role); ok {
		rec.RoadmapURL = plan.RoadmapURL
		rec.CoursesURL = plan.CoursesURL
	}
}

// union appends the items of add not already in base, keeping order.
func union(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		base = append(base, s)
	}
	return base
}
