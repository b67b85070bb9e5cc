package analysis

import (
	"strings"

	"reviewlens/internal/model"
)

// DefaultResolutionMarker is the sentinel string the reply bot appends to a
// thread once a finding has been addressed. Callers may override it per run.
const DefaultResolutionMarker = "🔒 CODERABBIT_RESOLVED 🔒"

// resolutionConfirmedPrefix is the bracketed confirmation token some agents
// post instead of the plain sentinel, e.g. "[CR_RESOLUTION_CONFIRMED:abc123]".
const resolutionConfirmedPrefix = "[CR_RESOLUTION_CONFIRMED:"

// resolutionPhrases are natural-language fallbacks checked case-insensitively
// when the configured marker is absent. They are deliberately narrow phrases;
// a bare "fixed" in conversation must not resolve a thread.
var resolutionPhrases = []string{
	"issue resolved",
	"addressed in commit",
	"fixed in commit",
	"resolved in commit",
	"implemented the suggestion",
}

// IsResolved reports whether any comment body in the thread carries the
// given resolution marker (exact, case-sensitive substring) or one of the
// recognized fallback resolution phrases. An empty thread is never resolved.
func IsResolved(thread []model.RawComment, marker string) bool {
	if len(thread) == 0 {
		return false
	}

	for _, comment := range thread {
		if marker != "" && strings.Contains(comment.Body, marker) {
			return true
		}
		if strings.Contains(comment.Body, resolutionConfirmedPrefix) {
			return true
		}

		lower := strings.ToLower(comment.Body)
		for _, phrase := range resolutionPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}

	return false
}
