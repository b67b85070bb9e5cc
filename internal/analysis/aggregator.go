package analysis

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"reviewlens/internal/model"
)

// Options configures one analysis run. The resolution marker and bot login
// are threaded explicitly through every stage; there is no process-wide
// mutable state in the pipeline.
type Options struct {
	BotLogin           string
	ResolutionMarker   string
	MinDescriptionLen  int
	ClassifierStrategy string
	PriorityKeywords   *PriorityKeywords

	// Streaming enables the batched, worker-pool parsing path for large
	// comment sets. Thread reconstruction always runs single-threaded over
	// the complete set afterwards.
	Streaming         bool
	BatchSize         int
	WorkerCount       int
	MemoryThresholdMB int

	Logger *slog.Logger
}

// Analyzer orchestrates classification, section parsing, thread
// reconstruction, and metric aggregation over one PR's comment set.
type Analyzer struct {
	opts        Options
	classifier  *Classifier
	scorer      *PriorityScorer
	parser      *SectionParser
	categorizer CategoryClassifier
	threads     *ThreadReconstructor
	batch       *BatchProcessor
	logger      *slog.Logger
}

// NewAnalyzer creates an analyzer from options; zero values select defaults.
func NewAnalyzer(opts Options) *Analyzer {
	if opts.ResolutionMarker == "" {
		opts.ResolutionMarker = DefaultResolutionMarker
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	classifier := NewClassifier(opts.BotLogin)
	scorer := NewPriorityScorer(opts.PriorityKeywords)
	parser := NewSectionParser(opts.MinDescriptionLen, scorer)

	return &Analyzer{
		opts:        opts,
		classifier:  classifier,
		scorer:      scorer,
		parser:      parser,
		categorizer: NewCategoryClassifier(opts.ClassifierStrategy, classifier, scorer),
		threads:     NewThreadReconstructor(opts.ResolutionMarker, classifier, parser),
		batch:       NewBatchProcessor(opts.BatchSize, opts.WorkerCount, opts.MemoryThresholdMB, opts.Logger),
		logger:      opts.Logger,
	}
}

// AnalyzeComments validates and decodes a raw JSON-shaped record set, then
// runs the full pipeline. A present key with a non-list value is a
// CommentParsingError; absent keys are treated as empty. Either a complete
// result is returned or an error; never a partial result.
func (a *Analyzer) AnalyzeComments(raw map[string]any) (*model.AnalyzedComments, error) {
	input, err := DecodeCommentInput(raw)
	if err != nil {
		return nil, err
	}
	return a.Analyze(input)
}

// commentListKeys are the record-set keys the aggregator consumes. Only
// inline_comments is expected on every host; the other two are optional.
var commentListKeys = []string{"inline_comments", "review_comments", "pr_comments"}

// DecodeCommentInput converts a JSON-shaped map into a typed CommentInput,
// enforcing the integration contract: every present comment key must be a
// list of records.
func DecodeCommentInput(raw map[string]any) (*model.CommentInput, error) {
	input := &model.CommentInput{}

	for _, key := range commentListKeys {
		value, present := raw[key]
		if !present || value == nil {
			continue
		}

		list, ok := value.([]any)
		if !ok {
			return nil, newParsingError(key, "list of comment records", fmt.Sprintf("%T", value))
		}

		comments, err := decodeCommentList(key, list)
		if err != nil {
			return nil, err
		}

		switch key {
		case "inline_comments":
			input.InlineComments = comments
		case "review_comments":
			input.ReviewComments = comments
		case "pr_comments":
			input.PRComments = comments
		}
	}

	if n, ok := raw["pr_number"].(float64); ok {
		input.PRNumber = int(n)
	}
	if s, ok := raw["pr_title"].(string); ok {
		input.PRTitle = s
	}
	if s, ok := raw["owner"].(string); ok {
		input.Owner = s
	}
	if s, ok := raw["repo"].(string); ok {
		input.Repo = s
	}

	return input, nil
}

// decodeCommentList round-trips a decoded JSON list through the RawComment
// type so the author union and field types normalize in one place.
func decodeCommentList(key string, list []any) ([]model.RawComment, error) {
	encoded, err := json.Marshal(list)
	if err != nil {
		return nil, newParsingError(key, "list of comment records", err.Error())
	}

	var comments []model.RawComment
	if err := json.Unmarshal(encoded, &comments); err != nil {
		return nil, newParsingError(key, "list of comment records", err.Error())
	}
	return comments, nil
}

// Analyze runs the pipeline over a typed input: filter bot comments, parse
// top-level bot bodies into summaries and reviews, reconstruct threads over
// the complete set, drop resolved threads, and compute metrics.
func (a *Analyzer) Analyze(input *model.CommentInput) (*model.AnalyzedComments, error) {
	start := time.Now()

	all := input.AllComments()
	bots := a.classifier.FilterBotComments(all)

	summaries, reviews := a.parseTopLevel(input)

	// Threads are grouped over every comment, bot and human alike; human
	// replies decide resolution state.
	var unresolved []model.ThreadContext
	resolvedBot := 0
	for _, group := range a.threads.GroupIntoThreads(all) {
		ctx := a.threads.ProcessThread(group)
		if ctx.ResolutionStatus == model.StatusResolved {
			resolvedBot += len(a.classifier.FilterBotComments(group))
			continue
		}
		unresolved = append(unresolved, ctx)
	}
	if unresolved == nil {
		unresolved = []model.ThreadContext{}
	}

	metadata := model.CommentMetadata{
		PRNumber:              input.PRNumber,
		PRTitle:               input.PRTitle,
		Owner:                 input.Owner,
		Repo:                  input.Repo,
		TotalComments:         len(all),
		BotComments:           len(bots),
		ResolvedComments:      resolvedBot,
		ActionableComments:    a.countActionable(bots),
		ProcessingTimeSeconds: time.Since(start).Seconds(),
		ProcessedAt:           time.Now().UTC(),
	}

	return &model.AnalyzedComments{
		SummaryComments:   summaries,
		ReviewComments:    reviews,
		UnresolvedThreads: unresolved,
		Metadata:          metadata,
	}, nil
}

// parseTopLevel classifies and parses each bot top-level body into zero or
// one summary or one review. Empty bodies (e.g. approvals without text) are
// skipped, and a body that fails to parse skips only that comment.
func (a *Analyzer) parseTopLevel(input *model.CommentInput) ([]model.SummaryComment, []model.ReviewComment) {
	topLevel := a.classifier.FilterBotComments(input.TopLevelComments())

	parse := func(c model.RawComment) (*ParsedComment, error) {
		if c.Body == "" {
			return nil, nil
		}
		category, _ := a.categorizer.CategorizeWithConfidence(c.Body)
		if category == model.CategorySummary {
			return &ParsedComment{Summary: a.parser.ParseSummaryComment(c.Body)}, nil
		}
		review, err := a.parser.ParseReviewComment(c.Body)
		if err != nil {
			return nil, err
		}
		return &ParsedComment{Review: review}, nil
	}

	var parsed []ParsedComment
	if a.opts.Streaming {
		parsed = a.batch.Process(topLevel, parse)
		if skipped := a.batch.Skipped(); skipped > 0 {
			a.logger.Warn("skipped comments during batched parsing", "count", skipped)
		}
	} else {
		for i, c := range topLevel {
			p, err := parse(c)
			if err != nil {
				a.logger.Warn("skipping unparseable comment", "comment_id", c.ID, "error", err)
				continue
			}
			if p != nil {
				p.Index = i
				p.Comment = c
				parsed = append(parsed, *p)
			}
		}
	}

	summaries := []model.SummaryComment{}
	reviews := []model.ReviewComment{}
	for _, p := range parsed {
		switch {
		case p.Summary != nil:
			summaries = append(summaries, *p.Summary)
		case p.Review != nil:
			reviews = append(reviews, *p.Review)
		}
	}
	return summaries, reviews
}

// countActionable counts bot comments carrying actionable content: a body
// categorized as a finding, or a review whose sections yielded at least one
// actionable item.
func (a *Analyzer) countActionable(bots []model.RawComment) int {
	count := 0
	for _, c := range bots {
		if c.Body == "" {
			continue
		}
		switch a.classifier.Categorize(c.Body) {
		case model.CategoryPotentialIssue, model.CategoryRefactor, model.CategoryOutsideDiff:
			count++
			continue
		}
		if review, err := a.parser.ParseReviewComment(c.Body); err == nil && len(review.ActionableComments) > 0 {
			count++
		}
	}
	return count
}
