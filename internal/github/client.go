// Package github is the fetch collaborator: it wraps the GitHub API and
// produces the raw comment record set the analysis pipeline consumes. The
// pipeline itself performs no network calls.
package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"reviewlens/internal/model"
)

// Client fetches PR comment data for one repository.
type Client struct {
	api   *gogithub.Client
	owner string
	repo  string
}

// NewClient creates a client for owner/repo, discovering the token from the
// environment or the gh CLI.
func NewClient(ctx context.Context, owner, repo string) (*Client, error) {
	token, err := GetGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}
	return NewClientWithToken(ctx, owner, repo, token), nil
}

// NewClientWithToken creates a client with an explicit token.
func NewClientWithToken(ctx context.Context, owner, repo, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		api:   gogithub.NewClient(tc),
		owner: owner,
		repo:  repo,
	}
}

// FetchCommentInput fetches the complete comment record set for a PR:
// inline review comments, top-level review bodies, and issue-style PR
// comments, normalized into RawComment records.
func (c *Client) FetchCommentInput(ctx context.Context, prNumber int) (*model.CommentInput, error) {
	input := &model.CommentInput{
		PRNumber: prNumber,
		Owner:    c.owner,
		Repo:     c.repo,
	}

	pr, _, err := c.api.PullRequests.Get(ctx, c.owner, c.repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", prNumber, err)
	}
	input.PRTitle = pr.GetTitle()

	inline, err := c.fetchInlineComments(ctx, prNumber)
	if err != nil {
		return nil, err
	}
	input.InlineComments = inline

	reviews, err := c.fetchReviewBodies(ctx, prNumber)
	if err != nil {
		return nil, err
	}
	input.ReviewComments = reviews

	prComments, err := c.fetchPRComments(ctx, prNumber)
	if err != nil {
		return nil, err
	}
	input.PRComments = prComments

	return input, nil
}

// fetchInlineComments lists all diff-anchored review comments with
// pagination.
func (c *Client) fetchInlineComments(ctx context.Context, prNumber int) ([]model.RawComment, error) {
	opts := &gogithub.PullRequestListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}

	var comments []model.RawComment
	for {
		page, resp, err := c.api.PullRequests.ListComments(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch inline comments: %w", err)
		}

		for _, pc := range page {
			comments = append(comments, inlineToRaw(pc))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// fetchReviewBodies lists review submissions and keeps the ones carrying a
// body. Approvals without text have nothing to analyze.
func (c *Client) fetchReviewBodies(ctx context.Context, prNumber int) ([]model.RawComment, error) {
	opts := &gogithub.ListOptions{PerPage: 100}

	var comments []model.RawComment
	for {
		page, resp, err := c.api.PullRequests.ListReviews(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviews: %w", err)
		}

		for _, review := range page {
			if review.GetBody() == "" {
				continue
			}
			comments = append(comments, reviewToRaw(review))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// fetchPRComments lists issue-style comments on the PR conversation.
func (c *Client) fetchPRComments(ctx context.Context, prNumber int) ([]model.RawComment, error) {
	opts := &gogithub.IssueListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}

	var comments []model.RawComment
	for {
		page, resp, err := c.api.Issues.ListComments(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch PR comments: %w", err)
		}

		for _, ic := range page {
			comments = append(comments, issueCommentToRaw(ic))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

func inlineToRaw(pc *gogithub.PullRequestComment) model.RawComment {
	raw := model.RawComment{
		ID:          pc.GetID(),
		Author:      model.Author(pc.GetUser().GetLogin()),
		CreatedAt:   pc.GetCreatedAt().Format("2006-01-02T15:04:05Z"),
		Body:        pc.GetBody(),
		FilePath:    pc.GetPath(),
		Line:        pc.GetLine(),
		StartLine:   pc.GetStartLine(),
		Position:    pc.GetPosition(),
		InReplyToID: pc.GetInReplyTo(),
	}
	if raw.StartLine != 0 {
		raw.EndLine = raw.Line
	}
	return raw
}

func reviewToRaw(review *gogithub.PullRequestReview) model.RawComment {
	return model.RawComment{
		ID:        review.GetID(),
		Author:    model.Author(review.GetUser().GetLogin()),
		CreatedAt: review.GetSubmittedAt().Format("2006-01-02T15:04:05Z"),
		Body:      review.GetBody(),
	}
}

func issueCommentToRaw(ic *gogithub.IssueComment) model.RawComment {
	return model.RawComment{
		ID:        ic.GetID(),
		Author:    model.Author(ic.GetUser().GetLogin()),
		CreatedAt: ic.GetCreatedAt().Format("2006-01-02T15:04:05Z"),
		Body:      ic.GetBody(),
	}
}
