// Package analysis implements the review-bot comment analysis pipeline:
// classification, section parsing, thread reconstruction, and aggregation.
package analysis

import "fmt"

// CommentParsingError reports a structurally invalid input handed to the
// analysis pipeline. It indicates a broken contract with the fetch layer,
// not unusual bot-authored text, and always aborts the run.
type CommentParsingError struct {
	Field    string
	Expected string
	Got      string
}

func (e *CommentParsingError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("comment parsing: field %q: expected %s", e.Field, e.Expected)
	}
	return fmt.Sprintf("comment parsing: field %q: expected %s, got %s", e.Field, e.Expected, e.Got)
}

// newParsingError builds a CommentParsingError for a field/expectation pair.
func newParsingError(field, expected, got string) *CommentParsingError {
	return &CommentParsingError{Field: field, Expected: expected, Got: got}
}
