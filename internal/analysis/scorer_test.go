package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/model"
)

func TestPriorityScorerDefaults(t *testing.T) {
	scorer := NewPriorityScorer(nil)

	tests := []struct {
		name string
		text string
		want model.Priority
	}{
		{"security finding", "Possible SQL injection through unescaped input", model.PriorityCritical},
		{"panic finding", "This nil dereference will panic at runtime", model.PriorityCritical},
		{"race condition", "Race condition between the writer goroutines", model.PriorityHigh},
		{"memory leak", "The ticker is never stopped, causing a memory leak", model.PriorityHigh},
		{"validation gap", "Missing validation of the port range", model.PriorityMedium},
		{"deprecated call", "ioutil.ReadAll is deprecated, use io.ReadAll", model.PriorityMedium},
		{"naming nit", "Inconsistent naming between exported fields", model.PriorityLow},
		{"no keyword match", "Please take another look at this block", model.PriorityLow},
		{"empty", "", model.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.text))
		})
	}
}

func TestPriorityScorerHighestSeverityWins(t *testing.T) {
	scorer := NewPriorityScorer(nil)

	// Matches both critical ("security") and low ("style") sets.
	got := scorer.Score("security issue hidden behind a style nit")
	assert.Equal(t, model.PriorityCritical, got)
}

func TestPriorityScorerCaseInsensitive(t *testing.T) {
	scorer := NewPriorityScorer(nil)
	assert.Equal(t, model.PriorityCritical, scorer.Score("SECURITY: token logged in plaintext"))
}

func TestPriorityScorerCustomKeywords(t *testing.T) {
	scorer := NewPriorityScorer(&PriorityKeywords{
		Critical: []string{"outage"},
	})

	assert.Equal(t, model.PriorityCritical, scorer.Score("this caused an outage last week"))
	// Non-overridden levels keep their defaults.
	assert.Equal(t, model.PriorityHigh, scorer.Score("deadlock on shutdown"))
	// Default critical keywords are replaced, so "security" no longer matches
	// the critical set and falls through to lower rules.
	assert.NotEqual(t, model.PriorityCritical, scorer.Score("security hardening"))
}

func TestFeatureVector(t *testing.T) {
	scorer := NewPriorityScorer(nil)

	body := "Potential security bug in `pkg/db.go:14`\n\n```go\ndefer closeRows(rows)\n```\n"
	features := scorer.FeatureVector(body)

	assert.Len(t, features, 8)
	assert.Equal(t, float64(len(body)), features[0])
	assert.Greater(t, features[1], 0.0)              // words
	assert.Equal(t, 1.0, features[2])                // fenced blocks
	assert.Equal(t, 1.0, features[3])                // file tokens
	assert.Equal(t, 1.0, features[4], "critical keyword hits")
	assert.Equal(t, 1.0, features[5], "high keyword hits")
}

func TestRuleBasedCategorizerConfidence(t *testing.T) {
	categorizer := NewRuleBasedCategorizer(NewClassifier(""))

	category, confidence := categorizer.CategorizeWithConfidence("🧹 Nitpick comment\n\ntrailing whitespace")
	assert.Equal(t, model.CategoryNitpick, category)
	assert.Equal(t, 1.0, confidence)

	category, confidence = categorizer.CategorizeWithConfidence("just some prose")
	assert.Equal(t, model.CategoryGeneral, category)
	assert.Equal(t, 0.5, confidence)
}

func TestStatisticalCategorizer(t *testing.T) {
	classifier := NewClassifier("")
	scorer := NewPriorityScorer(nil)
	categorizer := NewStatisticalCategorizer(scorer, NewRuleBasedCategorizer(classifier))

	category, confidence := categorizer.CategorizeWithConfidence(
		"This looks like a bug: the error path fails to close the file, an issue under load")
	assert.Equal(t, model.CategoryPotentialIssue, category)
	assert.Greater(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestStatisticalCategorizerDeterministicOnTies(t *testing.T) {
	classifier := NewClassifier("")
	scorer := NewPriorityScorer(nil)
	categorizer := NewStatisticalCategorizer(scorer, NewRuleBasedCategorizer(classifier))

	// "refactor" and "issue" each score once; the result must be the same
	// category and confidence on every call.
	body := "please refactor this; there is an issue here"

	first, firstConfidence := categorizer.CategorizeWithConfidence(body)
	assert.Equal(t, model.CategoryPotentialIssue, first)
	for i := 0; i < 200; i++ {
		category, confidence := categorizer.CategorizeWithConfidence(body)
		require.Equal(t, first, category)
		require.Equal(t, firstConfidence, confidence)
	}
}

func TestStatisticalCategorizerFallsBackOnWeakSignal(t *testing.T) {
	classifier := NewClassifier("")
	scorer := NewPriorityScorer(nil)
	categorizer := NewStatisticalCategorizer(scorer, NewRuleBasedCategorizer(classifier))

	// No statistical keywords, but the rule table recognizes the marker.
	category, confidence := categorizer.CategorizeWithConfidence("⚠️ Potential problem on this line")
	assert.Equal(t, model.CategoryPotentialIssue, category)
	assert.Equal(t, 1.0, confidence)
}

func TestNewCategoryClassifierStrategySelection(t *testing.T) {
	classifier := NewClassifier("")
	scorer := NewPriorityScorer(nil)

	_, ok := NewCategoryClassifier("statistical", classifier, scorer).(*StatisticalCategorizer)
	assert.True(t, ok)

	_, ok = NewCategoryClassifier("", classifier, scorer).(*RuleBasedCategorizer)
	assert.True(t, ok)

	_, ok = NewCategoryClassifier("rule_based", classifier, scorer).(*RuleBasedCategorizer)
	assert.True(t, ok)
}
