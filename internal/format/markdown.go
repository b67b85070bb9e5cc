package format

import (
	"fmt"
	"io"
	"strings"

	"reviewlens/internal/model"
)

// MarkdownRenderer writes the analysis as a markdown report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, analyzed *model.AnalyzedComments) error {
	var b strings.Builder

	meta := analyzed.Metadata
	fmt.Fprintf(&b, "# Review Analysis: %s/%s #%d\n\n", meta.Owner, meta.Repo, meta.PRNumber)
	if meta.PRTitle != "" {
		fmt.Fprintf(&b, "**%s**\n\n", meta.PRTitle)
	}

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total comments | %d |\n", meta.TotalComments)
	fmt.Fprintf(&b, "| Bot comments | %d |\n", meta.BotComments)
	fmt.Fprintf(&b, "| Resolved | %d |\n", meta.ResolvedComments)
	fmt.Fprintf(&b, "| Actionable | %d |\n", meta.ActionableComments)
	fmt.Fprintf(&b, "| Resolution rate | %.0f%% |\n", meta.ResolutionRate()*100)
	fmt.Fprintf(&b, "| Actionable rate | %.0f%% |\n\n", meta.ActionableRate()*100)

	for _, summary := range analyzed.SummaryComments {
		b.WriteString("## PR Summary\n\n")
		if summary.Walkthrough != "" {
			b.WriteString(summary.Walkthrough + "\n\n")
		}
		writeBulletSection(&b, "New Features", summary.NewFeatures)
		writeBulletSection(&b, "Documentation", summary.DocumentationChanges)
		writeBulletSection(&b, "Tests", summary.TestChanges)
		if len(summary.ChangesTable) > 0 {
			b.WriteString("### Changes\n\n| Files | Summary |\n|---|---|\n")
			for _, entry := range summary.ChangesTable {
				fmt.Fprintf(&b, "| %s | %s |\n", entry.CohortOrFiles, entry.Summary)
			}
			b.WriteString("\n")
		}
	}

	if len(analyzed.ReviewComments) > 0 {
		b.WriteString("## Review Findings\n\n")
		for _, review := range analyzed.ReviewComments {
			for _, ac := range review.ActionableComments {
				fmt.Fprintf(&b, "- **%s:%s** [%s/%s] %s\n", ac.FilePath, ac.LineRange, ac.Priority, ac.CommentType, ac.IssueDescription)
			}
			for _, nit := range review.NitpickComments {
				fmt.Fprintf(&b, "- *nitpick* `%s:%s` %s\n", nit.FilePath, nit.LineRange, nit.Suggestion)
			}
			for _, od := range review.OutsideDiffComments {
				fmt.Fprintf(&b, "- *outside diff* `%s:%s` %s\n", od.FilePath, od.LineRange, od.Content)
			}
		}
		b.WriteString("\n")
	}

	if len(analyzed.UnresolvedThreads) > 0 {
		b.WriteString("## Unresolved Threads\n\n")
		for _, thread := range analyzed.UnresolvedThreads {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", thread.ThreadID, thread.ContextualSummary)
			for _, c := range thread.ChronologicalOrder {
				fmt.Fprintf(&b, "- **%s** (%s): %s\n", c.Author, c.CreatedAt, firstLine(c.Body))
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBulletSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// firstLine truncates a body to its first non-empty line for list display.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 120 {
				return line[:117] + "..."
			}
			return line
		}
	}
	return ""
}
