// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobQuery outputs a human-readable summary of the analyzed job
// description.
func (p *Printer) PrintJobQuery(query *types.JobQuery) {
	if query == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:       %s\n", query.RoleTitle))
	sb.WriteString(fmt.Sprintf("Seniority:  %s\n", query.Seniority))
	sb.WriteString("\n")

	if len(query.Requirements) > 0 {
		sb.WriteString("Requirements:\n")
		count := min(len(query.Requirements), maxItemsToShow)
		for i := 0; i < count; i++ {
			req := query.Requirements[i]
			sb.WriteString(fmt.Sprintf("  • %s", req.Skill))
			if req.Level != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", req.Level))
			}
			sb.WriteString("\n")
		}
		if len(query.Requirements) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(query.Requirements)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(query.Keywords) > 0 {
		keywords := strings.Join(query.Keywords, ", ")
		if len(keywords) > 45 {
			keywords = keywords[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", keywords))
	}

	p.printBox("ANALYZED JOB QUERY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRetrieval outputs the top retrieved fragments with scores and the
// query terms that matched them.
func (p *Printer) PrintRetrieval(result *types.RetrievalResult) {
	if result.IsEmpty() {
		p.printBox("RETRIEVED FRAGMENTS", "No fragments matched the job query.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total fragments retrieved: %d\n\n", len(result.Fragments)))

	count := min(len(result.Fragments), maxItemsToShow)
	for i := 0; i < count; i++ {
		scored := result.Fragments[i]
		text := scored.Fragment.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  [%s] %s\n", i+1, scored.Fragment.Section, text))
		sb.WriteString(fmt.Sprintf("    Score: %.3f", scored.Score))
		if len(scored.MatchedTerms) > 0 {
			terms := strings.Join(scored.MatchedTerms, ", ")
			if len(terms) > 35 {
				terms = terms[:32] + "..."
			}
			sb.WriteString(fmt.Sprintf("  (%s)", terms))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Fragments) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more fragments", len(result.Fragments)-maxItemsToShow))
	}

	p.printBox("RETRIEVED FRAGMENTS", sb.String())
}

// PrintResume outputs a section-by-section overview of the assembled
// document.
func (p *Printer) PrintResume(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder

	if doc.Basics.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:  %s\n", doc.Basics.Name))
		if doc.Basics.Label != "" {
			sb.WriteString(fmt.Sprintf("Label: %s\n", doc.Basics.Label))
		}
		sb.WriteString("\n")
	}

	if len(doc.Work) > 0 {
		sb.WriteString(fmt.Sprintf("Work (%d):\n", len(doc.Work)))
		for _, entry := range doc.Work {
			sb.WriteString(fmt.Sprintf("  • %s — %s\n", entry.Name, entry.Position))
		}
		sb.WriteString("\n")
	}
	if len(doc.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("Projects (%d):\n", len(doc.Projects)))
		for _, entry := range doc.Projects {
			sb.WriteString(fmt.Sprintf("  • %s\n", entry.Name))
		}
		sb.WriteString("\n")
	}
	if len(doc.Skills) > 0 {
		names := make([]string, len(doc.Skills))
		for i, entry := range doc.Skills {
			names[i] = entry.Name
		}
		skills := strings.Join(names, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills: %s\n", skills))
	}
	if len(doc.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(doc.Education)))
		for _, entry := range doc.Education {
			sb.WriteString(fmt.Sprintf("  • %s\n", entry.Institution))
		}
	}

	p.printBox("ASSEMBLED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUpdateStats outputs the effect of an applied resume update.
func (p *Printer) PrintUpdateStats(stats *types.UpdateStats) {
	if stats == nil {
		return
	}

	var sb strings.Builder

	if len(stats.UpdatedSections) > 0 {
		names := make([]string, len(stats.UpdatedSections))
		for i, section := range stats.UpdatedSections {
			names[i] = string(section)
		}
		sb.WriteString(fmt.Sprintf("Sections:  %s\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("New entries:       %d\n", stats.NewEntries))
	sb.WriteString(fmt.Sprintf("Modified entries:  %d\n", stats.ModifiedEntries))
	sb.WriteString(fmt.Sprintf("Fragments stored:  %d", stats.FragmentsStored))

	p.printBox("UPDATE APPLIED", sb.String())
}

// PrintStoreSummary outputs per-section fragment counts for the stored
// resume.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStoreSummary(summary *retrieval.Summary) {
	if summary == nil || summary.TotalFragments == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "STORE IS EMPTY")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total fragments: %d\n\n", summary.TotalFragments))

	for _, section := range types.SectionOrder {
		counts, ok := summary.Sections[section]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-10s %d entries", section, counts.Entries))
		if counts.Highlights > 0 {
			sb.WriteString(fmt.Sprintf(", %d highlights", counts.Highlights))
		}
		sb.WriteString("\n")
	}

	p.printBox("STORED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}
