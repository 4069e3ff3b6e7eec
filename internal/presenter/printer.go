package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-recommender/internal/roadmap"
	"github.com/jonathan/career-recommender/internal/types"
)

const (
	// boxWidth is the width of every printed box
	boxWidth = 72
	// barWidth is the number of cells in a full match bar
	barWidth = 20
	// maxJobsToShow caps the job openings listed per card
	maxJobsToShow = 3
)

// Printer renders views as plain-text boxes for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintView outputs the results screen: one box per card, then the roadmap
// for the top career when one is known.
func (p *Printer) PrintView(view View) {
	if view.Empty {
		msg := "No recommendations found."
		if view.SkillsLabel != "" {
			msg = fmt.Sprintf("No recommendations found for: %s", view.SkillsLabel)
		}
		p.printBox("CAREER RECOMMENDATIONS", msg)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills:  %s\n", view.SkillsLabel))
	sb.WriteString(fmt.Sprintf("Careers: %d", len(view.Cards)))
	if view.HasTopCareer {
		sb.WriteString(fmt.Sprintf("\nTop:     %s", view.TopCareer))
	}
	p.printBox("CAREER RECOMMENDATIONS", sb.String())

	for _, card := range view.Cards {
		p.PrintCard(card)
	}

	if view.Plan != nil {
		p.PrintPlan(*view.Plan)
	}
}

// PrintCard outputs a single recommendation. Sections with no data print nothing.
func (p *Printer) PrintCard(card Card) {
	var sb strings.Builder
	if card.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", card.Salary))
	}
	if card.HasScore {
		sb.WriteString(fmt.Sprintf("Match:    %s %d%%\n", Bar(card.BarHeight), card.BarHeight))
	}
	writeList(&sb, "Companies", card.Companies)
	writeList(&sb, "Matched", card.MatchedSkills)
	writeList(&sb, "Missing", card.UnmatchedSkills)
	writeList(&sb, "Tools", card.Tools)
	if card.RoadmapURL != "" {
		sb.WriteString(fmt.Sprintf("Roadmap:  %s\n", card.RoadmapURL))
	}
	if card.CoursesURL != "" {
		sb.WriteString(fmt.Sprintf("Courses:  %s\n", card.CoursesURL))
	}

	if card.Insight != nil {
		if card.Insight.Overview != "" {
			sb.WriteString("\n")
			sb.WriteString(card.Insight.Overview)
			sb.WriteString("\n")
		}
		writeBullets(&sb, "Advantages", card.Insight.Advantages)
		writeBullets(&sb, "Challenges", card.Insight.Challenges)
		if card.Insight.CareerPath != "" {
			sb.WriteString(fmt.Sprintf("Career path: %s\n", card.Insight.CareerPath))
		}
	}

	if len(card.Jobs) > 0 {
		sb.WriteString("\nOpenings:\n")
		count := min(len(card.Jobs), maxJobsToShow)
		for i := 0; i < count; i++ {
			job := card.Jobs[i]
			line := fmt.Sprintf("  • %s at %s", job.Title, job.Company)
			if job.Location != "" {
				line += fmt.Sprintf(" (%s)", job.Location)
			}
			sb.WriteString(line + "\n")
		}
		if len(card.Jobs) > maxJobsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(card.Jobs)-maxJobsToShow))
		}
	}

	p.printBox(strings.ToUpper(card.Role), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs a month-by-month roadmap.
func (p *Printer) PrintPlan(plan roadmap.Plan) {
	var sb strings.Builder
	for i, step := range plan.Steps {
		sb.WriteString(fmt.Sprintf("%s: %s\n", step.Month, strings.Join(step.Skills, ", ")))
		for _, r := range step.Resources {
			sb.WriteString(fmt.Sprintf("  • %s  %s\n", r.Name, r.URL))
		}
		if i < len(plan.Steps)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ROADMAP: "+strings.ToUpper(plan.Role), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs stored entries in the order given.
func (p *Printer) PrintHistory(entries []types.HistoryEntry) {
	if len(entries) == 0 {
		p.printBox("HISTORY", "No history yet.")
		return
	}

	var sb strings.Builder
	for i, entry := range entries {
		when := entry.CreatedAt
		if when == "" {
			when = "unknown date"
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", when, entry.Skills))
		for _, cs := range entry.Recommendations.Scores() {
			if cs.Score != nil {
				sb.WriteString(fmt.Sprintf("  • %s (%d%%)\n", cs.Career, MatchBarHeight(*cs.Score)))
			} else {
				sb.WriteString(fmt.Sprintf("  • %s\n", cs.Career))
			}
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("HISTORY (%d)", len(entries)), strings.TrimSuffix(sb.String(), "\n"))
}

// Bar draws a match bar for a height in [0, 100].
func Bar(height int) string {
	filled := MatchBarHeight(height) * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled) + "]"
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%-9s %s\n", label+":", strings.Join(items, ", ")))
}

func writeBullets(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
}

func truncate(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width-3]) + "..."
}
