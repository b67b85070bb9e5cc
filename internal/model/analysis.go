package model

import (
	"strings"
	"time"
)

// CommentCategory classifies what kind of review-bot content a body carries.
type CommentCategory string

const (
	CategoryNitpick        CommentCategory = "nitpick"
	CategoryPotentialIssue CommentCategory = "potential_issue"
	CategoryRefactor       CommentCategory = "refactor_suggestion"
	CategoryOutsideDiff    CommentCategory = "outside_diff"
	CategoryAIAgentPrompt  CommentCategory = "ai_agent_prompt"
	CategorySummary        CommentCategory = "summary"
	CategoryGeneral        CommentCategory = "general"
)

// Priority is the severity assigned to an actionable finding.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// CommentType distinguishes the structural origin of an actionable item.
type CommentType string

const (
	TypeNitpick        CommentType = "nitpick"
	TypePotentialIssue CommentType = "potential_issue"
	TypeRefactor       CommentType = "refactor"
	TypeOutsideDiff    CommentType = "outside_diff"
	TypeGeneral        CommentType = "general"
)

// ResolutionStatus is the resolution state of a reconstructed thread.
type ResolutionStatus string

const (
	StatusResolved   ResolutionStatus = "resolved"
	StatusUnresolved ResolutionStatus = "unresolved"
)

// AIAgentPrompt is a fenced code block the bot emits for downstream AI agents,
// together with the prose that introduced it.
type AIAgentPrompt struct {
	CodeBlock   string `json:"code_block"`
	Description string `json:"description"`
}

// minCompleteSuggestionLen is the threshold above which a prompt's code block
// is considered a complete, directly applicable suggestion.
const minCompleteSuggestionLen = 80

// Language guesses the language of the prompt's code block from its content.
func (p *AIAgentPrompt) Language() string {
	code := p.CodeBlock
	switch {
	case strings.Contains(code, "def ") || strings.Contains(code, "import ") && strings.Contains(code, ":"):
		return "python"
	case strings.Contains(code, "func ") && strings.Contains(code, "{"):
		return "go"
	case strings.Contains(code, "function ") || strings.Contains(code, "=>") || strings.Contains(code, "const "):
		return "javascript"
	case strings.Contains(code, "public ") && strings.Contains(code, "class "):
		return "java"
	case strings.Contains(code, "fn ") && strings.Contains(code, "->"):
		return "rust"
	default:
		return "text"
	}
}

// IsCompleteSuggestion reports whether the code block is substantial enough
// to stand alone as an applicable change.
func (p *AIAgentPrompt) IsCompleteSuggestion() bool {
	trimmed := strings.TrimSpace(p.CodeBlock)
	return len(trimmed) >= minCompleteSuggestionLen && strings.Count(trimmed, "\n") >= 1
}

// ActionableComment is one concrete finding the bot asked to be addressed.
type ActionableComment struct {
	CommentID        int64          `json:"comment_id"`
	FilePath         string         `json:"file_path"`
	LineRange        string         `json:"line_range"`
	IssueDescription string         `json:"issue_description"`
	RawContent       string         `json:"raw_content"`
	Priority         Priority       `json:"priority"`
	CommentType      CommentType    `json:"comment_type"`
	AIAgentPrompt    *AIAgentPrompt `json:"ai_agent_prompt,omitempty"`
}

// NitpickComment is a minor style-level suggestion.
type NitpickComment struct {
	FilePath   string `json:"file_path"`
	LineRange  string `json:"line_range,omitempty"`
	Suggestion string `json:"suggestion"`
}

// OutsideDiffComment is a finding on code outside the changed diff range.
type OutsideDiffComment struct {
	FilePath  string `json:"file_path"`
	LineRange string `json:"line_range,omitempty"`
	Content   string `json:"content"`
	Reason    string `json:"reason,omitempty"`
}

// ChangeEntry is one row of the bot summary's changes table.
type ChangeEntry struct {
	CohortOrFiles string `json:"cohort_or_files"`
	Summary       string `json:"summary"`
}

// SummaryComment is the parsed form of the bot's PR summary body.
type SummaryComment struct {
	NewFeatures          []string      `json:"new_features"`
	DocumentationChanges []string      `json:"documentation_changes"`
	TestChanges          []string      `json:"test_changes"`
	Walkthrough          string        `json:"walkthrough"`
	ChangesTable         []ChangeEntry `json:"changes_table"`
	SequenceDiagram      string        `json:"sequence_diagram,omitempty"`
	RawContent           string        `json:"raw_content"`
}

// ReviewComment is the parsed form of one bot top-level review body.
type ReviewComment struct {
	ActionableCount     int                  `json:"actionable_count"`
	ActionableComments  []ActionableComment  `json:"actionable_comments"`
	NitpickComments     []NitpickComment     `json:"nitpick_comments"`
	OutsideDiffComments []OutsideDiffComment `json:"outside_diff_comments"`
	AIAgentPrompts      []AIAgentPrompt      `json:"ai_agent_prompts"`
	RawContent          string               `json:"raw_content"`
}

// ThreadContext is a reconstructed conversation rooted at one comment.
type ThreadContext struct {
	ThreadID           string           `json:"thread_id"`
	MainComment        RawComment       `json:"main_comment"`
	Replies            []RawComment     `json:"replies"`
	Participants       []string         `json:"participants"`
	ResolutionStatus   ResolutionStatus `json:"resolution_status"`
	ContextualSummary  string           `json:"contextual_summary"`
	AISummary          string           `json:"ai_summary,omitempty"`
	ChronologicalOrder []RawComment     `json:"chronological_order"`
}

// CommentMetadata carries the aggregate counters for one analysis run.
type CommentMetadata struct {
	PRNumber              int       `json:"pr_number"`
	PRTitle               string    `json:"pr_title"`
	Owner                 string    `json:"owner"`
	Repo                  string    `json:"repo"`
	TotalComments         int       `json:"total_comments"`
	BotComments           int       `json:"bot_comments"`
	ResolvedComments      int       `json:"resolved_comments"`
	ActionableComments    int       `json:"actionable_comments"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	ProcessedAt           time.Time `json:"processed_at"`
}

// ResolutionRate returns the share of bot comment threads that are resolved,
// or 0 when there are no bot comments.
func (m *CommentMetadata) ResolutionRate() float64 {
	if m.BotComments == 0 {
		return 0
	}
	return float64(m.ResolvedComments) / float64(m.BotComments)
}

// ActionableRate returns the share of bot comments that carried actionable
// findings, or 0 when there are no bot comments.
func (m *CommentMetadata) ActionableRate() float64 {
	if m.BotComments == 0 {
		return 0
	}
	return float64(m.ActionableComments) / float64(m.BotComments)
}

// AnalyzedComments is the complete result of one analysis run. It is built
// once per invocation and not mutated afterwards.
type AnalyzedComments struct {
	SummaryComments   []SummaryComment `json:"summary_comments"`
	ReviewComments    []ReviewComment  `json:"review_comments"`
	UnresolvedThreads []ThreadContext  `json:"unresolved_threads"`
	Metadata          CommentMetadata  `json:"metadata"`
}
