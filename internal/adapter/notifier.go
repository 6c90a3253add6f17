package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v29/github"
)

// CommentMarker prefixes every comment this tool manages so later runs can
// find their own comment among everyone else's.
const CommentMarker = "<!-- coverage-checker -->"

// Notifier publishes the coverage report on the triggering pull request.
type Notifier interface {
	Upsert(ctx context.Context, pullRequest int, message string) error
}

// CommentNotifier maintains exactly one managed comment per pull request:
// the most recent marker-tagged comment by the authenticated user is edited
// in place, otherwise a new one is created.
type CommentNotifier struct {
	client *github.Client
	owner  string
	name   string
}

// NewCommentNotifier creates a CommentNotifier for owner/name.
func NewCommentNotifier(client *github.Client, owner, name string) *CommentNotifier {
	return &CommentNotifier{
		client: client,
		owner:  owner,
		name:   name,
	}
}

// Upsert creates or updates the managed comment with message.
func (n *CommentNotifier) Upsert(ctx context.Context, pullRequest int, message string) error {
	body := CommentMarker + "\n" + message

	existing, err := n.findManagedComment(ctx, pullRequest)
	if err != nil {
		return err
	}

	if existing != nil {
		_, _, err = n.client.Issues.EditComment(ctx, n.owner, n.name, existing.GetID(), &github.IssueComment{Body: &body})
		if err != nil {
			return fmt.Errorf("update comment %d on pull request %d: %w", existing.GetID(), pullRequest, err)
		}

		return nil
	}

	_, _, err = n.client.Issues.CreateComment(ctx, n.owner, n.name, pullRequest, &github.IssueComment{Body: &body})
	if err != nil {
		return fmt.Errorf("create comment on pull request %d: %w", pullRequest, err)
	}

	return nil
}

// findManagedComment returns the most recent marker-tagged comment authored
// by the authenticated user, or nil when no run has commented yet.
func (n *CommentNotifier) findManagedComment(ctx context.Context, pullRequest int) (*github.IssueComment, error) {
	self, _, err := n.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("resolve authenticated user: %w", err)
	}

	var managed *github.IssueComment

	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := n.client.Issues.ListComments(ctx, n.owner, n.name, pullRequest, opts)
		if err != nil {
			return nil, fmt.Errorf("list comments on pull request %d: %w", pullRequest, err)
		}

		for _, comment := range comments {
			if comment.GetUser().GetLogin() != self.GetLogin() {
				continue
			}

			if !strings.HasPrefix(comment.GetBody(), CommentMarker) {
				continue
			}

			managed = comment
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return managed, nil
}
