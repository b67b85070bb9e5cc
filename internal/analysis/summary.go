package analysis

import (
	"strings"

	"reviewlens/internal/model"
)

// summarySectionKind identifies a sub-section inside the bot's PR summary.
type summarySectionKind int

const (
	summaryNone summarySectionKind = iota
	summaryFeatures
	summaryDocs
	summaryTests
	summaryWalkthrough
	summaryChanges
)

// ParseSummaryComment parses the bot's PR summary body: release-note style
// bullet lists, the walkthrough prose, the changes table, and an optional
// sequence diagram. Missing sections resolve to empty values.
func (p *SectionParser) ParseSummaryComment(body string) *model.SummaryComment {
	sc := &model.SummaryComment{
		NewFeatures:          []string{},
		DocumentationChanges: []string{},
		TestChanges:          []string{},
		ChangesTable:         []model.ChangeEntry{},
		RawContent:           body,
	}
	if strings.TrimSpace(body) == "" {
		return sc
	}

	for kind, content := range splitSummarySections(body) {
		switch kind {
		case summaryFeatures:
			sc.NewFeatures = parseBulletList(content)
		case summaryDocs:
			sc.DocumentationChanges = parseBulletList(content)
		case summaryTests:
			sc.TestChanges = parseBulletList(content)
		case summaryWalkthrough:
			sc.Walkthrough = strings.TrimSpace(removeFencedBlocks(content))
		case summaryChanges:
			sc.ChangesTable = parseChangesTable(content)
		}
	}

	for _, block := range extractFencedBlocks(body) {
		if block.lang == "mermaid" || block.lang == "sequence" || block.lang == "flow" {
			sc.SequenceDiagram = block.content
			break
		}
	}

	return sc
}

// splitSummarySections maps each recognized summary sub-header to the text
// that follows it, up to the next recognized header.
func splitSummarySections(body string) map[summarySectionKind]string {
	lines := strings.Split(body, "\n")
	sections := make(map[summarySectionKind]string)

	current := summaryNone
	var buf []string
	inFence := false

	flush := func() {
		if current != summaryNone {
			// First header of each kind wins; summaries repeat headers in
			// collapsed detail blocks.
			if _, seen := sections[current]; !seen {
				sections[current] = strings.Join(buf, "\n")
			}
		}
		buf = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		if !inFence {
			if kind := summaryHeaderKind(trimmed); kind != summaryNone {
				flush()
				current = kind
				continue
			}
		}

		if current != summaryNone {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}

// summaryHeaderKind classifies a summary sub-header line. Headers appear as
// markdown headings, bold lines, or bold list entries.
func summaryHeaderKind(line string) summarySectionKind {
	if line == "" || len(line) > 80 {
		return summaryNone
	}

	text := strings.TrimLeft(line, "#*-+ \t")
	text = strings.ToLower(strings.TrimSpace(stripMarkdown(text)))
	text = strings.TrimSuffix(text, ":")

	switch {
	case text == "new features" || text == "features" || text == "new feature":
		return summaryFeatures
	case text == "documentation" || text == "docs" || text == "documentation changes":
		return summaryDocs
	case text == "tests" || text == "test changes" || text == "testing":
		return summaryTests
	case text == "walkthrough":
		return summaryWalkthrough
	case text == "changes":
		return summaryChanges
	default:
		return summaryNone
	}
}

// parseBulletList extracts bullet items from text, accepting -, *, +,
// numbered, and common unicode bullet glyphs, with markdown wrapping
// stripped from each item.
func parseBulletList(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		if !bulletLineRegex.MatchString(line) {
			continue
		}
		item := bulletLineRegex.ReplaceAllString(line, "")
		item = strings.TrimSpace(stripMarkdown(item))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseChangesTable parses a pipe-delimited changes table into entries of
// cohort/files and change summary, skipping the header and separator rows.
func parseChangesTable(text string) []model.ChangeEntry {
	entries := []model.ChangeEntry{}

	first := true
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(trimmed, "|") {
			continue
		}

		cells := splitTableRow(trimmed)
		if len(cells) < 2 {
			continue
		}
		if isTableSeparator(cells) {
			continue
		}
		// Only the table's first row can be the header; data rows routinely
		// carry "file" in their cohort/files cell.
		if first {
			first = false
			if isTableHeader(cells) {
				continue
			}
		}

		entries = append(entries, model.ChangeEntry{
			CohortOrFiles: stripMarkdown(cells[0]),
			Summary:       stripMarkdown(cells[1]),
		})
	}

	return entries
}

// splitTableRow splits a markdown table row into trimmed cells, dropping the
// empty leading/trailing cells produced by boundary pipes.
func splitTableRow(row string) []string {
	parts := strings.Split(row, "|")
	var cells []string
	for i, part := range parts {
		cell := strings.TrimSpace(part)
		if (i == 0 || i == len(parts)-1) && cell == "" {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}

// isTableSeparator reports whether cells form the |---|---| divider row.
func isTableSeparator(cells []string) bool {
	for _, cell := range cells {
		stripped := strings.Trim(cell, ":- ")
		if stripped != "" {
			return false
		}
	}
	return true
}

// isTableHeader reports whether cells look like the changes table header row.
// Checked on the first row only.
func isTableHeader(cells []string) bool {
	first := strings.ToLower(stripMarkdown(cells[0]))
	return strings.Contains(first, "cohort") || strings.Contains(first, "file")
}
