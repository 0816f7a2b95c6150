package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	gh "github.com/google/go-github/v57/github"

	"github.com/benchscan/benchscan/internal/constants"
	"github.com/benchscan/benchscan/internal/dataset"
	"github.com/benchscan/benchscan/internal/log"
	"github.com/benchscan/benchscan/internal/model"
)

// Fetch retrieves the item for a (repository, number) pair together with
// its comments. The pull request endpoint is tried first since benchmark
// instances usually refer to merged PRs; on a not-found response the
// plain issue endpoint is tried instead. When neither form exists the
// item is reported as absent with a nil error, so callers can fall back
// to dataset-only signals.
func (c *Client) Fetch(ctx context.Context, repo string, number int) (*model.Item, []model.Comment, error) {
	owner, name, err := dataset.SplitRepo(repo)
	if err != nil {
		return nil, nil, err
	}

	item, err := c.fetchItem(ctx, owner, name, number)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch %s#%d: %w", repo, number, err)
	}
	if item == nil {
		return nil, nil, nil
	}

	comments, err := c.fetchComments(ctx, owner, name, item)
	if err != nil {
		// Comments are a classification signal, not a requirement.
		// The item alone still yields author and mention matches.
		log.Warn("failed to fetch comments", "repo", repo, "number", number, "error", err)
		comments = nil
	}

	return item, comments, nil
}

func (c *Client) fetchItem(ctx context.Context, owner, name string, number int) (*model.Item, error) {
	var pr *gh.PullRequest
	err := c.withRetry(ctx, func() error {
		var err error
		pr, _, err = c.client.PullRequests.Get(ctx, owner, name, number)
		return err
	})
	if err == nil {
		return pullRequestItem(pr), nil
	}
	status, ok := responseStatus(err)
	if !ok {
		return nil, err
	}
	log.Trace("pull request lookup failed, trying issue endpoint",
		"repo", owner+"/"+name, "number", number, "status", status)

	var issue *gh.Issue
	err = c.withRetry(ctx, func() error {
		var err error
		issue, _, err = c.client.Issues.Get(ctx, owner, name, number)
		return err
	})
	if err == nil {
		return issueItem(issue), nil
	}
	if status, ok := responseStatus(err); ok {
		log.Debug("item not found", "repo", owner+"/"+name, "number", number, "status", status)
		return nil, nil
	}
	return nil, err
}

func (c *Client) fetchComments(ctx context.Context, owner, name string, item *model.Item) ([]model.Comment, error) {
	var comments []model.Comment

	if item.CommentCount > 0 {
		opts := &gh.IssueListCommentsOptions{
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			var page []*gh.IssueComment
			var resp *gh.Response
			err := c.withRetry(ctx, func() error {
				var err error
				page, resp, err = c.client.Issues.ListComments(ctx, owner, name, item.Number, opts)
				return err
			})
			if err != nil {
				return comments, err
			}
			for _, ic := range page {
				comments = append(comments, model.Comment{
					Author: ic.GetUser().GetLogin(),
					Body:   ic.GetBody(),
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}

	if item.IsPullRequest && item.ReviewCommentCount > 0 {
		opts := &gh.PullRequestListCommentsOptions{
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			var page []*gh.PullRequestComment
			var resp *gh.Response
			err := c.withRetry(ctx, func() error {
				var err error
				page, resp, err = c.client.PullRequests.ListComments(ctx, owner, name, item.Number, opts)
				return err
			})
			if err != nil {
				return comments, err
			}
			for _, rc := range page {
				comments = append(comments, model.Comment{
					Author: rc.GetUser().GetLogin(),
					Body:   rc.GetBody(),
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}

	return comments, nil
}

// withRetry runs op, retrying on rate-limit exhaustion and transient
// network failures. The two failure kinds keep independent counters,
// each bounded by the configured ceiling, so a rate-limit wait does not
// consume the budget for a flaky connection or vice versa.
func (c *Client) withRetry(ctx context.Context, op func() error) error {
	var rateLimitRetries, transientRetries int

	for {
		err := op()
		if err == nil {
			return nil
		}

		var rle *gh.RateLimitError
		var arle *gh.AbuseRateLimitError
		switch {
		case errors.As(err, &rle):
			if rateLimitRetries >= c.retries {
				return fmt.Errorf("%w: retried %d times: %v", ErrRateLimited, rateLimitRetries, err)
			}
			rateLimitRetries++
			wait := time.Until(rle.Rate.Reset.Time)
			if wait < 0 {
				wait = 0
			}
			wait += constants.RateLimitResetMargin
			log.Info("rate limit exhausted, waiting for reset",
				"wait", wait.Round(time.Second), "attempt", rateLimitRetries, "of", c.retries)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		case errors.As(err, &arle):
			if rateLimitRetries >= c.retries {
				return fmt.Errorf("%w: retried %d times: %v", ErrRateLimited, rateLimitRetries, err)
			}
			rateLimitRetries++
			wait := arle.GetRetryAfter() + constants.RateLimitResetMargin
			log.Info("secondary rate limit hit, backing off",
				"wait", wait.Round(time.Second), "attempt", rateLimitRetries, "of", c.retries)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		case isTransient(err):
			if transientRetries >= c.retries {
				return fmt.Errorf("giving up after %d transient failures: %w", transientRetries, err)
			}
			transientRetries++
			log.Debug("transient error, retrying",
				"error", err, "attempt", transientRetries, "of", c.retries)
			if err := c.sleep(ctx, constants.TransientRetryDelay); err != nil {
				return err
			}
		default:
			return err
		}
	}
}

// responseStatus extracts the HTTP status from a GitHub API error
// response. A false return means the request never completed.
func responseStatus(err error) (int, bool) {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode, true
	}
	return 0, false
}

// isTransient reports whether err looks like a temporary network
// failure worth retrying, as opposed to an API-level rejection.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func pullRequestItem(pr *gh.PullRequest) *model.Item {
	item := &model.Item{
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		Body:               pr.GetBody(),
		Author:             pr.GetUser().GetLogin(),
		State:              pr.GetState(),
		HTMLURL:            pr.GetHTMLURL(),
		CommentCount:       pr.GetComments(),
		ReviewCommentCount: pr.GetReviewComments(),
		IsPullRequest:      true,
	}
	if ts := pr.GetCreatedAt(); !ts.IsZero() {
		item.CreatedAt = ts.Format(time.RFC3339)
	}
	for _, a := range pr.Assignees {
		item.Assignees = append(item.Assignees, a.GetLogin())
	}
	return item
}

func issueItem(issue *gh.Issue) *model.Item {
	item := &model.Item{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		Author:        issue.GetUser().GetLogin(),
		State:         issue.GetState(),
		HTMLURL:       issue.GetHTMLURL(),
		CommentCount:  issue.GetComments(),
		IsPullRequest: issue.IsPullRequest(),
	}
	if ts := issue.GetCreatedAt(); !ts.IsZero() {
		item.CreatedAt = ts.Format(time.RFC3339)
	}
	for _, a := range issue.Assignees {
		item.Assignees = append(item.Assignees, a.GetLogin())
	}
	return item
}
