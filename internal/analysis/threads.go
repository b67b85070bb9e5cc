package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewlens/internal/model"
)

// ThreadReconstructor rebuilds conversation threads from a flat comment list
// using reply pointers, with an implicit location key as fallback for hosts
// that do not expose reply linkage on inline comments.
type ThreadReconstructor struct {
	marker     string
	classifier *Classifier
	parser     *SectionParser
}

// NewThreadReconstructor creates a reconstructor judging resolution with the
// given marker. Nil collaborators select defaults.
func NewThreadReconstructor(marker string, classifier *Classifier, parser *SectionParser) *ThreadReconstructor {
	if marker == "" {
		marker = DefaultResolutionMarker
	}
	if classifier == nil {
		classifier = NewClassifier("")
	}
	if parser == nil {
		parser = NewSectionParser(0, nil)
	}
	return &ThreadReconstructor{
		marker:     marker,
		classifier: classifier,
		parser:     parser,
	}
}

// GroupIntoThreads partitions comments into reply trees. Each comment walks
// its in_reply_to pointers up to a root; comments sharing a root form one
// group. Roots without reply linkage that carry a file location are merged
// by (file, line, position) equality. Input order is preserved within and
// across groups.
func (tr *ThreadReconstructor) GroupIntoThreads(comments []model.RawComment) [][]model.RawComment {
	if len(comments) == 0 {
		return nil
	}

	index := make(map[int64]model.RawComment, len(comments))
	for _, c := range comments {
		if c.ID != 0 {
			index[c.ID] = c
		}
	}

	keys := make([]string, len(comments))
	for i, c := range comments {
		root := tr.resolveRoot(c, index)
		keys[i] = threadKey(root, i)
	}

	groups := make(map[string][]model.RawComment)
	var order []string
	for i, c := range comments {
		if _, seen := groups[keys[i]]; !seen {
			order = append(order, keys[i])
		}
		groups[keys[i]] = append(groups[keys[i]], c)
	}

	result := make([][]model.RawComment, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key])
	}
	return result
}

// resolveRoot walks reply pointers iteratively up to the thread root: the
// first ancestor with no parent or whose parent is not in the set. A cycle
// makes the starting comment a self-rooted singleton.
func (tr *ThreadReconstructor) resolveRoot(c model.RawComment, index map[int64]model.RawComment) model.RawComment {
	current := c
	visited := make(map[int64]bool)
	if current.ID != 0 {
		visited[current.ID] = true
	}

	for current.InReplyToID != 0 {
		parent, ok := index[current.InReplyToID]
		if !ok {
			break
		}
		if visited[parent.ID] {
			return c
		}
		visited[parent.ID] = true
		current = parent
	}

	return current
}

// threadKey derives the grouping key for a root comment. Roots without
// reply linkage fall back to their file location; roots with neither an id
// nor a location are singletons keyed by position.
func threadKey(root model.RawComment, position int) string {
	if root.InReplyToID == 0 && root.FilePath != "" {
		return fmt.Sprintf("loc:%s:%d:%d", root.FilePath, root.Line, root.Position)
	}
	if root.ID != 0 {
		return "id:" + strconv.FormatInt(root.ID, 10)
	}
	return "pos:" + strconv.Itoa(position)
}

// SortChronologically returns the comments ordered by created_at ascending.
// The sort is stable: ties and unparseable timestamps (which order as the
// minimum time) preserve their original relative order.
func SortChronologically(comments []model.RawComment) []model.RawComment {
	sorted := make([]model.RawComment, len(comments))
	copy(sorted, comments)

	sort.SliceStable(sorted, func(i, j int) bool {
		return parseCommentTime(sorted[i].CreatedAt).Before(parseCommentTime(sorted[j].CreatedAt))
	})

	return sorted
}

// parseCommentTime parses an ISO-8601 timestamp, tolerating the space-
// separated variant. Unparseable values resolve to the zero time so the
// sort stays total.
func parseCommentTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t
	}
	return time.Time{}
}

// AnalyzeParticipants returns the sorted set of distinct author logins in
// the group.
func AnalyzeParticipants(comments []model.RawComment) []string {
	seen := make(map[string]bool)
	var participants []string
	for _, c := range comments {
		login := c.Author.String()
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		participants = append(participants, login)
	}
	sort.Strings(participants)
	return participants
}

// ProcessThread builds the full ThreadContext for one comment group:
// chronological ordering, participants, resolution state, and summaries.
// An empty group yields the sentinel context rather than an error.
func (tr *ThreadReconstructor) ProcessThread(comments []model.RawComment) model.ThreadContext {
	if len(comments) == 0 {
		return model.ThreadContext{
			ThreadID:         "empty",
			ResolutionStatus: model.StatusUnresolved,
		}
	}

	sorted := SortChronologically(comments)

	ids := make(map[int64]bool, len(sorted))
	for _, c := range sorted {
		if c.ID != 0 {
			ids[c.ID] = true
		}
	}

	// The main comment is the earliest one whose parent does not resolve
	// inside this group.
	main := sorted[0]
	mainIdx := 0
	for i, c := range sorted {
		if c.InReplyToID == 0 || !ids[c.InReplyToID] {
			main = c
			mainIdx = i
			break
		}
	}

	replies := make([]model.RawComment, 0, len(sorted)-1)
	for i, c := range sorted {
		if i == mainIdx {
			continue
		}
		replies = append(replies, c)
	}

	status := model.StatusUnresolved
	if IsResolved(sorted, tr.marker) {
		status = model.StatusResolved
	}

	threadID := uuid.NewString()
	if main.ID != 0 {
		threadID = fmt.Sprintf("thread-%d", main.ID)
	}

	ctx := model.ThreadContext{
		ThreadID:           threadID,
		MainComment:        main,
		Replies:            replies,
		Participants:       AnalyzeParticipants(sorted),
		ResolutionStatus:   status,
		ChronologicalOrder: sorted,
	}
	ctx.ContextualSummary = tr.contextualSummary(sorted, main)
	ctx.AISummary = tr.aiSummary(sorted, status)

	return ctx
}

// contextualSummary renders a short human-readable description of the thread.
func (tr *ThreadReconstructor) contextualSummary(sorted []model.RawComment, main model.RawComment) string {
	botCount := 0
	for _, c := range sorted {
		if tr.classifier.IsBotComment(c) {
			botCount++
		}
	}

	summary := fmt.Sprintf("Thread with %d comment(s) from %d participant(s), %d from the review bot",
		len(sorted), len(AnalyzeParticipants(sorted)), botCount)
	if main.FilePath != "" {
		summary += " on " + main.FilePath
	}
	return summary
}

// aiSummary renders the AI-oriented thread block: resolution state plus the
// action items extracted from the bot comments in the thread.
func (tr *ThreadReconstructor) aiSummary(sorted []model.RawComment, status model.ResolutionStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Comments: %d\n", len(sorted))

	var items []string
	for _, c := range sorted {
		if !tr.classifier.IsBotComment(c) || c.Body == "" {
			continue
		}
		parsed, err := tr.parser.ParseReviewComment(c.Body)
		if err != nil {
			continue
		}
		for _, ac := range parsed.ActionableComments {
			items = append(items, fmt.Sprintf("- %s:%s %s", ac.FilePath, ac.LineRange, ac.IssueDescription))
		}
	}

	if len(items) > 0 {
		b.WriteString("Action items:\n")
		b.WriteString(strings.Join(items, "\n"))
	}

	return strings.TrimRight(b.String(), "\n")
}
