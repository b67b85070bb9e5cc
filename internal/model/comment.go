package model

import (
	"encoding/json"
	"fmt"
)

// Author is the normalized author login of a comment.
//
// Review hosts return the author either as a structured object
// ({"login": "coderabbitai[bot]"}) or as a bare string. The shape is
// resolved once during decoding so the rest of the pipeline only ever
// sees a plain login string.
type Author string

// UnmarshalJSON accepts both the structured and the bare-string author forms.
func (a *Author) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*a = Author(plain)
		return nil
	}

	var structured struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(data, &structured); err == nil {
		*a = Author(structured.Login)
		return nil
	}

	return fmt.Errorf("author field is neither a string nor an object with login")
}

// String returns the login as a plain string.
func (a Author) String() string {
	return string(a)
}

// RawComment is one review comment record as delivered by the fetch layer.
// It is never mutated by the analysis pipeline.
type RawComment struct {
	ID          int64  `json:"id"`
	Author      Author `json:"author"`
	CreatedAt   string `json:"created_at"`
	Body        string `json:"body"`
	FilePath    string `json:"file_path,omitempty"`
	Line        int    `json:"line,omitempty"`
	StartLine   int    `json:"start_line,omitempty"`
	EndLine     int    `json:"end_line,omitempty"`
	Position    int    `json:"position,omitempty"`
	InReplyToID int64  `json:"in_reply_to_id,omitempty"`
}

// CommentInput is the full record set for one PR, as produced by the fetch
// layer: inline (diff-anchored) comments, top-level review bodies, and
// issue-style PR comments.
type CommentInput struct {
	PRNumber       int          `json:"pr_number,omitempty"`
	PRTitle        string       `json:"pr_title,omitempty"`
	Owner          string       `json:"owner,omitempty"`
	Repo           string       `json:"repo,omitempty"`
	InlineComments []RawComment `json:"inline_comments"`
	ReviewComments []RawComment `json:"review_comments"`
	PRComments     []RawComment `json:"pr_comments"`
}

// AllComments returns every comment in the input in a single slice,
// inline first, then review bodies, then PR comments.
func (in *CommentInput) AllComments() []RawComment {
	all := make([]RawComment, 0, len(in.InlineComments)+len(in.ReviewComments)+len(in.PRComments))
	all = append(all, in.InlineComments...)
	all = append(all, in.ReviewComments...)
	all = append(all, in.PRComments...)
	return all
}

// TopLevelComments returns the comments that carry whole review bodies
// rather than single diff-anchored remarks: review submissions and
// issue-style PR comments.
func (in *CommentInput) TopLevelComments() []RawComment {
	top := make([]RawComment, 0, len(in.ReviewComments)+len(in.PRComments))
	top = append(top, in.ReviewComments...)
	top = append(top, in.PRComments...)
	return top
}
