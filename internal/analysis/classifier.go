package analysis

import (
	"strings"

	"reviewlens/internal/model"
)

// DefaultBotLogin is the review bot identity the classifier matches when no
// override is configured. The bracketed app-suffix form is accepted too.
const DefaultBotLogin = "coderabbitai"

// Classifier decides which comments originate from the review bot and what
// kind of content a bot body carries.
type Classifier struct {
	botLogin string
	rules    []categoryRule
}

// categoryRule pairs a body predicate with the category it selects.
// Rules are evaluated in order; the first match wins.
type categoryRule struct {
	category model.CommentCategory
	match    func(body string) bool
}

// NewClassifier creates a classifier for the given bot login. An empty login
// selects DefaultBotLogin.
func NewClassifier(botLogin string) *Classifier {
	if botLogin == "" {
		botLogin = DefaultBotLogin
	}

	c := &Classifier{botLogin: botLogin}

	// Precedence is fixed and intentional. The summary header is checked
	// before everything else: a summary body may embed nitpick-styled
	// sub-sections and must still classify as a summary.
	c.rules = []categoryRule{
		{model.CategorySummary, func(body string) bool {
			return strings.Contains(body, "Summary by CodeRabbit")
		}},
		{model.CategoryNitpick, func(body string) bool {
			return strings.Contains(body, "🧹") || containsFold(body, "nitpick comment")
		}},
		{model.CategoryPotentialIssue, func(body string) bool {
			return strings.Contains(body, "⚠️") || containsFold(body, "potential issue")
		}},
		{model.CategoryRefactor, func(body string) bool {
			return strings.Contains(body, "🛠️") || containsFold(body, "refactor suggestion")
		}},
		{model.CategoryOutsideDiff, func(body string) bool {
			return containsFold(body, "outside diff range")
		}},
		{model.CategoryAIAgentPrompt, func(body string) bool {
			return containsFold(body, "prompt for ai agents")
		}},
	}

	return c
}

// BotLogin returns the login the classifier matches against.
func (c *Classifier) BotLogin() string {
	return c.botLogin
}

// IsBotComment reports whether the comment was authored by the review bot.
// Both the exact login and the bracketed app form ("login[bot]") match.
func (c *Classifier) IsBotComment(comment model.RawComment) bool {
	login := strings.TrimSpace(comment.Author.String())
	if login == "" {
		return false
	}
	if strings.EqualFold(login, c.botLogin) {
		return true
	}
	return strings.EqualFold(login, c.botLogin+"[bot]")
}

// Categorize maps a comment body to its content category using the ordered
// rule table. Bodies matching no rule are general.
func (c *Classifier) Categorize(body string) model.CommentCategory {
	for _, rule := range c.rules {
		if rule.match(body) {
			return rule.category
		}
	}
	return model.CategoryGeneral
}

// FilterBotComments returns the subset of comments authored by the review
// bot, preserving input order.
func (c *Classifier) FilterBotComments(comments []model.RawComment) []model.RawComment {
	var bots []model.RawComment
	for _, comment := range comments {
		if c.IsBotComment(comment) {
			bots = append(bots, comment)
		}
	}
	return bots
}

// containsFold reports whether s contains substr ignoring ASCII case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
