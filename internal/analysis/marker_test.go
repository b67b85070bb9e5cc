package analysis

import (
	"testing"

	"reviewlens/internal/model"
)

func TestIsResolved(t *testing.T) {
	tests := []struct {
		name     string
		bodies   []string
		marker   string
		expected bool
	}{
		{
			name:     "empty thread is never resolved",
			bodies:   nil,
			marker:   DefaultResolutionMarker,
			expected: false,
		},
		{
			name:     "default marker in reply",
			bodies:   []string{"Please fix the nil check", "Fixed! 🔒 CODERABBIT_RESOLVED 🔒"},
			marker:   DefaultResolutionMarker,
			expected: true,
		},
		{
			name:     "default marker body does not match custom marker",
			bodies:   []string{"Please fix the nil check", "Fixed! 🔒 CODERABBIT_RESOLVED 🔒"},
			marker:   "CUSTOM_TAG",
			expected: false,
		},
		{
			name:     "custom marker matches",
			bodies:   []string{"CUSTOM_TAG done"},
			marker:   "CUSTOM_TAG",
			expected: true,
		},
		{
			name:     "marker match is case-sensitive",
			bodies:   []string{"custom_tag done"},
			marker:   "CUSTOM_TAG",
			expected: false,
		},
		{
			name:     "marker scanned in every comment, not just the last",
			bodies:   []string{"🔒 CODERABBIT_RESOLVED 🔒", "thanks", "one more thing"},
			marker:   DefaultResolutionMarker,
			expected: true,
		},
		{
			name:     "bracketed confirmation token",
			bodies:   []string{"[CR_RESOLUTION_CONFIRMED:a1b2c3]"},
			marker:   "CUSTOM_TAG",
			expected: true,
		},
		{
			name:     "resolution phrase fallback",
			bodies:   []string{"Addressed in commit abc123"},
			marker:   DefaultResolutionMarker,
			expected: true,
		},
		{
			name:     "implemented the suggestion phrase",
			bodies:   []string{"I implemented the suggestion, thanks"},
			marker:   DefaultResolutionMarker,
			expected: true,
		},
		{
			name:     "bare fixed does not resolve",
			bodies:   []string{"Fixed!"},
			marker:   DefaultResolutionMarker,
			expected: false,
		},
		{
			name:     "unrelated conversation stays unresolved",
			bodies:   []string{"Can you clarify?", "Sure, the loop bound is off by one"},
			marker:   DefaultResolutionMarker,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var thread []model.RawComment
			for i, body := range tt.bodies {
				thread = append(thread, model.RawComment{ID: int64(i + 1), Body: body})
			}

			if got := IsResolved(thread, tt.marker); got != tt.expected {
				t.Errorf("IsResolved() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsResolvedMarkerChangeStability(t *testing.T) {
	// A thread containing neither marker variant must classify identically
	// under different markers.
	thread := []model.RawComment{
		{ID: 1, Body: "Consider extracting this helper"},
		{ID: 2, Body: "Will do in a follow-up"},
	}

	if IsResolved(thread, DefaultResolutionMarker) != IsResolved(thread, "ANOTHER_MARKER") {
		t.Error("resolution changed with marker for a thread containing no marker")
	}
}
