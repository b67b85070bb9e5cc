package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"reviewlens/internal/model"
)

// DefaultMinDescriptionLen filters out single-word or punctuation-only item
// fragments during section parsing.
const DefaultMinDescriptionLen = 5

// SectionParser extracts structured entities from a single bot comment body:
// actionable items, nitpicks, outside-diff findings, AI agent prompts, and
// summary sections. All extraction is best-effort: malformed or partial
// markdown yields empty results, never an error. The only error path is a
// structurally missing body, which is an integration bug.
type SectionParser struct {
	minDescriptionLen int
	scorer            *PriorityScorer
}

// NewSectionParser creates a parser with the given minimum item description
// length (0 selects the default) and priority scorer (nil selects the default
// keyword rules).
func NewSectionParser(minDescriptionLen int, scorer *PriorityScorer) *SectionParser {
	if minDescriptionLen <= 0 {
		minDescriptionLen = DefaultMinDescriptionLen
	}
	if scorer == nil {
		scorer = NewPriorityScorer(nil)
	}
	return &SectionParser{
		minDescriptionLen: minDescriptionLen,
		scorer:            scorer,
	}
}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionActionable
	sectionNitpick
	sectionOutsideDiff
	sectionAIPrompt
	sectionSummary
)

// section is a recognized header plus the text up to the next header.
type section struct {
	kind    sectionKind
	heading string
	content string
}

var (
	// Stated actionable total in bot prose, e.g. "**Actionable comments posted: 3**".
	statedActionableRegex = regexp.MustCompile(`(?i)actionable comments? posted:?\s*(\d+)`)

	// File reference with optional line or line range, optionally wrapped in
	// bold or backticks: **src/a.py:10**, `x.go:3-7`, y.py:2. The path must
	// carry a dot extension of at least two letters to count as a file
	// token, so prose fragments like "e.g" or "1.2" do not qualify.
	fileRefRegex = regexp.MustCompile("(?:\\*\\*|`)?([A-Za-z0-9_][A-Za-z0-9_./-]*\\.[A-Za-z][A-Za-z0-9]+)(?::(\\d+)(?:-(\\d+))?)?(?:\\*\\*|`)?")

	bulletLineRegex = regexp.MustCompile(`^\s*(?:[-*+\x{2022}\x{2023}\x{25AA}]|\d+[.)])\s+`)

	linkRegex     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTagRegex  = regexp.MustCompile(`<[^>]+>`)
	emphasisRegex = regexp.MustCompile("(\\*\\*|__|\\*|_|`)")
)

// ParseReviewComment parses one bot top-level review body into its structured
// form. An empty body is a CommentParsingError: review bodies are structurally
// required to carry text, so absence indicates a caller bug rather than
// bot-authored variance.
func (p *SectionParser) ParseReviewComment(body string) (*model.ReviewComment, error) {
	if body == "" {
		return nil, newParsingError("body", "non-empty review body", "empty")
	}

	rc := &model.ReviewComment{
		ActionableComments:  []model.ActionableComment{},
		NitpickComments:     []model.NitpickComment{},
		OutsideDiffComments: []model.OutsideDiffComment{},
		AIAgentPrompts:      []model.AIAgentPrompt{},
		RawContent:          body,
	}

	// The bot's stated total and the structurally parsed items are
	// independent signals and are not reconciled.
	if m := statedActionableRegex.FindStringSubmatch(body); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			rc.ActionableCount = n
		}
	}

	sections := splitSections(body)
	if len(sections) == 0 {
		if implicit := p.implicitSection(body); implicit != nil {
			sections = []section{*implicit}
		}
	}

	for _, sec := range sections {
		switch sec.kind {
		case sectionActionable:
			for _, item := range p.parseItems(sec.content) {
				rc.ActionableComments = append(rc.ActionableComments, p.buildActionable(item))
			}
		case sectionNitpick:
			for _, item := range p.parseItems(sec.content) {
				rc.NitpickComments = append(rc.NitpickComments, model.NitpickComment{
					FilePath:   item.filePath,
					LineRange:  item.lineRange,
					Suggestion: item.description,
				})
			}
		case sectionOutsideDiff:
			reason := strings.TrimSpace(stripMarkdown(sec.heading))
			for _, item := range p.parseItems(sec.content) {
				rc.OutsideDiffComments = append(rc.OutsideDiffComments, model.OutsideDiffComment{
					FilePath:  item.filePath,
					LineRange: item.lineRange,
					Content:   item.description,
					Reason:    reason,
				})
			}
		case sectionAIPrompt:
			rc.AIAgentPrompts = append(rc.AIAgentPrompts, extractAIAgentPrompts(sec.content, sec.heading)...)
		}
	}

	return rc, nil
}

// implicitSection maps a body without recognized section headers to a single
// section based on its category markers, so inline bot comments that carry a
// bare category tag still parse.
func (p *SectionParser) implicitSection(body string) *section {
	switch {
	case strings.Contains(body, "🧹") || containsFold(body, "nitpick"):
		return &section{kind: sectionNitpick, content: body}
	case containsFold(body, "outside diff range"):
		return &section{kind: sectionOutsideDiff, content: body}
	case containsFold(body, "prompt for ai agents"):
		return &section{kind: sectionAIPrompt, content: body}
	case strings.Contains(body, "⚠️") || strings.Contains(body, "🛠️"):
		return &section{kind: sectionActionable, content: body}
	default:
		return &section{kind: sectionActionable, content: body}
	}
}

// buildActionable converts a parsed item into an ActionableComment, scoring
// priority from the description and attaching an embedded AI agent prompt
// when the item carries a non-empty fenced block.
func (p *SectionParser) buildActionable(item parsedItem) model.ActionableComment {
	ac := model.ActionableComment{
		FilePath:         item.filePath,
		LineRange:        item.lineRange,
		IssueDescription: item.description,
		RawContent:       item.raw,
		Priority:         p.scorer.Score(item.description),
		CommentType:      itemCommentType(item.raw),
	}

	for _, block := range extractFencedBlocks(item.raw) {
		if strings.TrimSpace(block.content) == "" {
			continue
		}
		ac.AIAgentPrompt = &model.AIAgentPrompt{
			CodeBlock:   block.content,
			Description: item.description,
		}
		break
	}

	return ac
}

// itemCommentType derives the structural type of an actionable item from its
// own markers.
func itemCommentType(raw string) model.CommentType {
	switch {
	case strings.Contains(raw, "🧹") || containsFold(raw, "nitpick"):
		return model.TypeNitpick
	case strings.Contains(raw, "⚠️") || containsFold(raw, "potential issue"):
		return model.TypePotentialIssue
	case strings.Contains(raw, "🛠️") || containsFold(raw, "refactor"):
		return model.TypeRefactor
	case containsFold(raw, "outside diff"):
		return model.TypeOutsideDiff
	default:
		return model.TypeGeneral
	}
}

// splitSections slices a body into recognized sections. A line counts as a
// header when it carries one of the known section phrases outside a fenced
// code block; the text until the next header belongs to that section.
func splitSections(body string) []section {
	lines := strings.Split(body, "\n")

	var sections []section
	var current *section
	var buf []string
	inFence := false

	flush := func() {
		if current != nil {
			current.content = strings.Join(buf, "\n")
			sections = append(sections, *current)
		}
		buf = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		if !inFence {
			if kind := headerKind(trimmed); kind != sectionNone {
				flush()
				current = &section{kind: kind, heading: trimmed}
				continue
			}
		}

		if current != nil {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}

// headerKind classifies a section header line, or returns sectionNone.
func headerKind(line string) sectionKind {
	if line == "" || len(line) > 120 {
		return sectionNone
	}
	switch {
	case containsFold(line, "actionable comment"):
		return sectionActionable
	case containsFold(line, "nitpick comment") || strings.Contains(line, "🧹"):
		return sectionNitpick
	case containsFold(line, "outside diff range"):
		return sectionOutsideDiff
	case containsFold(line, "prompt for ai agents"):
		return sectionAIPrompt
	case containsFold(line, "summary by coderabbit"):
		return sectionSummary
	default:
		return sectionNone
	}
}

// parsedItem is one bullet or file-referenced entry within a section.
type parsedItem struct {
	filePath    string
	lineRange   string
	description string
	raw         string
}

// parseItems splits section content into items and keeps only those with a
// recognizable file token and a description above the minimum length.
// Everything else is noise and silently dropped.
func (p *SectionParser) parseItems(content string) []parsedItem {
	var items []parsedItem
	for _, raw := range splitItemBlocks(content) {
		item, ok := p.parseItem(raw)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// splitItemBlocks groups section lines into per-item blocks. A new block
// starts at a bullet line or a line leading with a bold/backtick file
// reference; continuation lines stay with their item.
func splitItemBlocks(content string) []string {
	lines := strings.Split(content, "\n")

	var blocks []string
	var buf []string
	inFence := false

	flush := func() {
		if len(buf) > 0 {
			blocks = append(blocks, strings.Join(buf, "\n"))
			buf = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			buf = append(buf, line)
			continue
		}
		if !inFence && (bulletLineRegex.MatchString(line) || leadsWithFileRef(trimmed)) {
			flush()
		}
		if trimmed == "" && len(buf) == 0 {
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return blocks
}

// leadsWithFileRef reports whether a line opens with a wrapped file:line
// reference, the item shape used when the bot omits bullet markers.
func leadsWithFileRef(line string) bool {
	if !strings.HasPrefix(line, "**") && !strings.HasPrefix(line, "`") {
		return false
	}
	loc := fileRefRegex.FindStringIndex(line)
	return loc != nil && loc[0] <= 2
}

// parseItem extracts the file path, line range, and description from one item
// block. Items without a file token or with a too-short description do not
// survive.
func (p *SectionParser) parseItem(raw string) (parsedItem, bool) {
	m := fileRefRegex.FindStringSubmatch(raw)
	if m == nil {
		return parsedItem{}, false
	}

	item := parsedItem{
		filePath:  m[1],
		lineRange: "0",
		raw:       raw,
	}
	if m[2] != "" {
		item.lineRange = m[2]
		if m[3] != "" {
			item.lineRange = m[2] + "-" + m[3]
		}
	}

	item.description = p.itemDescription(raw, m[0])
	if len(item.description) < p.minDescriptionLen {
		return parsedItem{}, false
	}

	return item, true
}

// itemDescription strips the bullet marker, the file reference token, fenced
// blocks, and markdown wrapping from an item, leaving its prose.
func (p *SectionParser) itemDescription(raw, fileRef string) string {
	text := removeFencedBlocks(raw)
	text = strings.Replace(text, fileRef, "", 1)

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = bulletLineRegex.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, ":-–—")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}

	return strings.TrimSpace(stripMarkdown(strings.Join(out, " ")))
}

// fencedBlock is one fenced code block with its language tag.
type fencedBlock struct {
	lang    string
	content string
}

// extractFencedBlocks returns all closed fenced code blocks in the text. An
// unterminated trailing fence is ignored rather than reported.
func extractFencedBlocks(text string) []fencedBlock {
	lines := strings.Split(text, "\n")

	var blocks []fencedBlock
	var buf []string
	var lang string
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				blocks = append(blocks, fencedBlock{lang: lang, content: strings.Join(buf, "\n")})
				buf = nil
				inFence = false
			} else {
				lang = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
				inFence = true
			}
			continue
		}
		if inFence {
			buf = append(buf, line)
		}
	}

	return blocks
}

// removeFencedBlocks drops fenced code blocks (including an unterminated
// trailing fence) from the text.
func removeFencedBlocks(text string) string {
	lines := strings.Split(text, "\n")

	var out []string
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if !inFence {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// extractAIAgentPrompts converts the fenced blocks of a prompt section into
// AIAgentPrompt values. Empty blocks never produce a prompt.
func extractAIAgentPrompts(content, heading string) []model.AIAgentPrompt {
	description := strings.TrimSpace(stripMarkdown(strings.TrimSpace(removeFencedBlocks(content))))
	if description == "" {
		description = strings.TrimSpace(stripMarkdown(heading))
	}

	var prompts []model.AIAgentPrompt
	for _, block := range extractFencedBlocks(content) {
		if strings.TrimSpace(block.content) == "" {
			continue
		}
		prompts = append(prompts, model.AIAgentPrompt{
			CodeBlock:   block.content,
			Description: description,
		})
	}
	return prompts
}

// stripMarkdown reduces link syntax to its label and removes emphasis and
// code wrapping from the text.
func stripMarkdown(s string) string {
	s = linkRegex.ReplaceAllString(s, "$1")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = emphasisRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
