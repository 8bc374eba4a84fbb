// Package observability provides logging setup and formatted output for
// the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/listing"
	"github.com/jonathan/job-copilot/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
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

// PrintSearchResult outputs one page of listings with its paging summary.
func (p *Printer) PrintSearchResult(res *jobs.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s", res.Source))
	if res.Degraded {
		sb.WriteString(" (provider unavailable)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:    %d\n", res.Total))
	sb.WriteString(fmt.Sprintf("Page:     %d (size %d)\n", res.Page, res.PageSize))

	if len(res.Listings) == 0 {
		sb.WriteString("\nNo listings match.")
	}
	for i, l := range res.Listings {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %s\n", (res.Page-1)*res.PageSize+i+1, l.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", l.Company, l.Location))
		sb.WriteString(fmt.Sprintf("    %s", l.JobType))
		if salary := l.Salary.Display(); salary != "" {
			sb.WriteString(" · " + salary)
		}
		if i < len(res.Listings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB SEARCH RESULTS", sb.String())
}

// PrintListing outputs a single listing in full.
func (p *Printer) PrintListing(l *listing.Listing) {
	if l == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", l.Company))
	sb.WriteString(fmt.Sprintf("Location: %s\n", l.Location))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", l.JobType))
	if salary := l.Salary.Display(); salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", salary))
	}
	if len(l.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(l.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Apply:    %s\n", l.ApplyURL))
	if l.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(truncate(l.Description, 3*(boxWidth-4)))
	}

	p.printBox(l.Title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFragment outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintFragment(name string, f *resume.ParsedProfileFragment) {
	if f == nil {
		return
	}

	var sb strings.Builder
	fullName := strings.TrimSpace(f.Personal.FirstName + " " + f.Personal.LastName)
	if fullName != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", fullName))
	}
	if f.Personal.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", f.Personal.Email))
	}
	if f.Personal.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", f.Personal.Phone))
	}
	if f.Mock {
		sb.WriteString("Parser:   keyword fallback\n")
	}

	if len(f.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(f.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := f.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", e.Title))
			if e.Company != "" {
				sb.WriteString(" @ " + e.Company)
			}
			sb.WriteString("\n")
		}
		if len(f.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(f.Experience)-maxItemsToShow))
		}
	}

	if len(f.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, e := range f.Education {
			sb.WriteString(fmt.Sprintf("  • %s", e.Institution))
			if e.Degree != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Degree))
			}
			sb.WriteString("\n")
		}
	}

	if len(f.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", len(f.Skills)))
		sb.WriteString("  " + truncate(strings.Join(f.Skills, ", "), boxWidth-6) + "\n")
	}

	if f.Message != "" {
		sb.WriteString("\n" + f.Message + "\n")
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		content = "Nothing recognized."
	}
	p.printBox("PARSED RESUME: "+name, content)
}
