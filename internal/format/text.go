package format

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"reviewlens/internal/model"
)

// Color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// TextRenderer writes a compact plain-text report. Color is applied only
// when writing to a terminal, unless overridden.
type TextRenderer struct {
	// Color forces color on ("always") or off ("never"); "auto" and empty
	// detect from the writer.
	Color string
}

func (r *TextRenderer) colorize(w io.Writer, text, color string) string {
	switch r.Color {
	case "always":
		return color + text + colorReset
	case "never":
		return text
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return color + text + colorReset
	}
	return text
}

func (r *TextRenderer) Render(w io.Writer, analyzed *model.AnalyzedComments) error {
	meta := analyzed.Metadata

	fmt.Fprintf(w, "%s #%d", r.colorize(w, fmt.Sprintf("%s/%s", meta.Owner, meta.Repo), colorBold), meta.PRNumber)
	if meta.PRTitle != "" {
		fmt.Fprintf(w, ": %s", meta.PRTitle)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  comments: %d total, %d from bot, %d resolved, %d actionable\n",
		meta.TotalComments, meta.BotComments, meta.ResolvedComments, meta.ActionableComments)
	fmt.Fprintf(w, "  resolution rate: %.0f%%  actionable rate: %.0f%%\n",
		meta.ResolutionRate()*100, meta.ActionableRate()*100)

	for _, review := range analyzed.ReviewComments {
		for _, ac := range review.ActionableComments {
			label := r.colorize(w, string(ac.Priority), priorityColor(ac.Priority))
			fmt.Fprintf(w, "  [%s] %s:%s %s\n", label, ac.FilePath, ac.LineRange, ac.IssueDescription)
		}
	}

	if len(analyzed.UnresolvedThreads) > 0 {
		fmt.Fprintf(w, "%s\n", r.colorize(w, fmt.Sprintf("unresolved threads: %d", len(analyzed.UnresolvedThreads)), colorYellow))
		for _, thread := range analyzed.UnresolvedThreads {
			fmt.Fprintf(w, "  %s: %s\n", thread.ThreadID, thread.ContextualSummary)
		}
	} else {
		fmt.Fprintf(w, "%s\n", r.colorize(w, "no unresolved threads", colorGreen))
	}

	return nil
}

func priorityColor(p model.Priority) string {
	switch p {
	case model.PriorityCritical, model.PriorityHigh:
		return colorRed
	case model.PriorityMedium:
		return colorYellow
	default:
		return colorCyan
	}
}
