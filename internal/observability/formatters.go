// Package observability provides formatted output utilities for verbose
// CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/position-enricher/internal/db"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

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

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPosition outputs a human-readable summary of an enriched record.
func (p *Printer) PrintPosition(pos *db.JobPosition) {
	if pos == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s\n", pos.ProcessingStatus))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orUnset(pos.CompanyName)))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orUnset(pos.JobTitle)))
	sb.WriteString(fmt.Sprintf("Website:  %s\n", orUnset(pos.CompanyWebsite)))
	sb.WriteString(fmt.Sprintf("Logo:     %s\n", orUnset(pos.CompanyLogo)))
	sb.WriteString(fmt.Sprintf("Salary:   %s\n", orUnset(pos.SalaryRange)))
	if pos.JobDescription != nil {
		sb.WriteString(fmt.Sprintf("Description: %d chars of markdown", len(*pos.JobDescription)))
	}

	p.printBox(fmt.Sprintf("Position %s", pos.ID), sb.String())
}

func orUnset(s *string) string {
	if s == nil || *s == "" {
		return "(not set)"
	}
	return *s
}
