package analysis

import (
	"strings"

	"reviewlens/internal/model"
)

// PriorityScorer assigns a priority to a finding description using ordered
// keyword rules, highest severity first.
type PriorityScorer struct {
	rules []priorityRule
}

// priorityRule maps a keyword set to the priority it selects.
type priorityRule struct {
	priority model.Priority
	keywords []string
}

// PriorityKeywords overrides the built-in keyword sets per priority level.
// Empty entries keep the defaults.
type PriorityKeywords struct {
	Critical []string
	High     []string
	Medium   []string
	Low      []string
}

var defaultPriorityKeywords = PriorityKeywords{
	Critical: []string{
		"security", "vulnerability", "injection", "auth bypass",
		"data exposure", "credential", "secret leak", "crash", "panic",
	},
	High: []string{
		"race condition", "deadlock", "memory leak", "performance",
		"null pointer", "nil pointer", "data loss", "bug", "incorrect",
	},
	Medium: []string{
		"error handling", "validation", "edge case", "refactor",
		"logic", "missing check", "deprecated",
	},
	Low: []string{
		"style", "naming", "typo", "comment", "formatting", "readability",
	},
}

// NewPriorityScorer creates a scorer with the given keyword overrides, or the
// default keyword rules when nil.
func NewPriorityScorer(keywords *PriorityKeywords) *PriorityScorer {
	kw := defaultPriorityKeywords
	if keywords != nil {
		if len(keywords.Critical) > 0 {
			kw.Critical = keywords.Critical
		}
		if len(keywords.High) > 0 {
			kw.High = keywords.High
		}
		if len(keywords.Medium) > 0 {
			kw.Medium = keywords.Medium
		}
		if len(keywords.Low) > 0 {
			kw.Low = keywords.Low
		}
	}

	return &PriorityScorer{
		rules: []priorityRule{
			{model.PriorityCritical, kw.Critical},
			{model.PriorityHigh, kw.High},
			{model.PriorityMedium, kw.Medium},
			{model.PriorityLow, kw.Low},
		},
	}
}

// Score returns the priority for a finding description. Descriptions matching
// no keyword set default to low.
func (s *PriorityScorer) Score(text string) model.Priority {
	lower := strings.ToLower(text)
	for _, rule := range s.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.priority
			}
		}
	}
	return model.PriorityLow
}

// FeatureVector extracts a numeric feature vector from a comment body for
// the statistical classification path: body length, word count, fenced block
// count, file token count, and per-level keyword hit counts.
func (s *PriorityScorer) FeatureVector(body string) []float64 {
	lower := strings.ToLower(body)

	features := []float64{
		float64(len(body)),
		float64(len(strings.Fields(body))),
		float64(len(extractFencedBlocks(body))),
		float64(len(fileRefRegex.FindAllString(body, -1))),
	}

	for _, rule := range s.rules {
		hits := 0
		for _, keyword := range rule.keywords {
			hits += strings.Count(lower, keyword)
		}
		features = append(features, float64(hits))
	}

	return features
}

// CategoryClassifier categorizes a comment body with a confidence score.
// The rule-based and statistical implementations are interchangeable; the
// aggregator selects one from configuration.
type CategoryClassifier interface {
	CategorizeWithConfidence(body string) (model.CommentCategory, float64)
}

// RuleBasedCategorizer wraps the ordered-rule Classifier. Matches are fully
// confident; the general fallback is not.
type RuleBasedCategorizer struct {
	classifier *Classifier
}

// NewRuleBasedCategorizer creates the default rule-based strategy.
func NewRuleBasedCategorizer(classifier *Classifier) *RuleBasedCategorizer {
	return &RuleBasedCategorizer{classifier: classifier}
}

func (r *RuleBasedCategorizer) CategorizeWithConfidence(body string) (model.CommentCategory, float64) {
	category := r.classifier.Categorize(body)
	if category == model.CategoryGeneral {
		return category, 0.5
	}
	return category, 1.0
}

// StatisticalCategorizer scores the feature vector against per-category
// keyword weights. It is a lightweight alternate strategy; bodies with weak
// evidence fall through to the rule-based result.
type StatisticalCategorizer struct {
	scorer   *PriorityScorer
	fallback *RuleBasedCategorizer
}

// NewStatisticalCategorizer creates the statistical strategy over the given
// scorer, falling back to rule-based classification on weak signals.
func NewStatisticalCategorizer(scorer *PriorityScorer, fallback *RuleBasedCategorizer) *StatisticalCategorizer {
	return &StatisticalCategorizer{scorer: scorer, fallback: fallback}
}

// statisticalCategories are scored in a fixed order; a tie breaks toward the
// earlier entry. Summary leads, mirroring the rule table precedence, so the
// same body always routes the same way.
var statisticalCategories = []struct {
	category model.CommentCategory
	keywords []string
}{
	{model.CategorySummary, []string{"summary", "walkthrough", "changes"}},
	{model.CategoryNitpick, []string{"nit", "style", "minor", "consider"}},
	{model.CategoryPotentialIssue, []string{"issue", "bug", "error", "fail", "incorrect"}},
	{model.CategoryRefactor, []string{"refactor", "simplify", "extract", "rename"}},
}

func (s *StatisticalCategorizer) CategorizeWithConfidence(body string) (model.CommentCategory, float64) {
	var best model.CommentCategory
	var bestScore, total float64
	for _, entry := range statisticalCategories {
		score := keywordScore(body, entry.keywords)
		total += score
		if score > bestScore {
			best, bestScore = entry.category, score
		}
	}

	if bestScore == 0 {
		return s.fallback.CategorizeWithConfidence(body)
	}

	return best, bestScore / total
}

func keywordScore(body string, keywords []string) float64 {
	lower := strings.ToLower(body)
	score := 0.0
	for _, keyword := range keywords {
		score += float64(strings.Count(lower, keyword))
	}
	return score
}

// NewCategoryClassifier selects a classification strategy by name. Unknown
// strategies select the rule-based default.
func NewCategoryClassifier(strategy string, classifier *Classifier, scorer *PriorityScorer) CategoryClassifier {
	ruleBased := NewRuleBasedCategorizer(classifier)
	if strings.EqualFold(strategy, "statistical") {
		return NewStatisticalCategorizer(scorer, ruleBased)
	}
	return ruleBased
}
