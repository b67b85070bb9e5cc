package format

import (
	"fmt"
	"io"
	"strings"

	"reviewlens/internal/model"
)

// PromptRenderer writes a structured prompt for a downstream AI agent:
// the unresolved findings, their threads, and any bot-provided agent
// prompt blocks, in a directly consumable order.
type PromptRenderer struct{}

func (r *PromptRenderer) Render(w io.Writer, analyzed *model.AnalyzedComments) error {
	var b strings.Builder

	meta := analyzed.Metadata
	fmt.Fprintf(&b, "You are resolving code review feedback on %s/%s PR #%d.\n\n", meta.Owner, meta.Repo, meta.PRNumber)
	fmt.Fprintf(&b, "There are %d unresolved review thread(s) and %d actionable finding(s).\n",
		len(analyzed.UnresolvedThreads), meta.ActionableComments)
	b.WriteString("Address each finding below, then reply on its thread with the resolution marker.\n\n")

	n := 0
	for _, review := range analyzed.ReviewComments {
		for _, ac := range review.ActionableComments {
			n++
			fmt.Fprintf(&b, "## Finding %d\n\n", n)
			fmt.Fprintf(&b, "File: %s:%s\n", ac.FilePath, ac.LineRange)
			fmt.Fprintf(&b, "Priority: %s\n", ac.Priority)
			fmt.Fprintf(&b, "Issue: %s\n", ac.IssueDescription)
			if ac.AIAgentPrompt != nil {
				fmt.Fprintf(&b, "\nSuggested change (%s):\n\n```\n%s\n```\n", ac.AIAgentPrompt.Language(), ac.AIAgentPrompt.CodeBlock)
			}
			b.WriteString("\n")
		}
		for _, prompt := range review.AIAgentPrompts {
			n++
			fmt.Fprintf(&b, "## Finding %d\n\n%s\n\n```\n%s\n```\n\n", n, prompt.Description, prompt.CodeBlock)
		}
	}

	if len(analyzed.UnresolvedThreads) > 0 {
		b.WriteString("## Open threads\n\n")
		for _, thread := range analyzed.UnresolvedThreads {
			fmt.Fprintf(&b, "### %s\n\n", thread.ThreadID)
			if thread.AISummary != "" {
				b.WriteString(thread.AISummary + "\n\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
