// Package ghclient wraps the GitHub API for benchscan: a token-authenticated
// client with bounded retry on rate-limit exhaustion and transient
// network failures.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/benchscan/benchscan/internal/constants"
)

// ErrRateLimited is returned when the GitHub API rate limit was still
// exhausted after the retry ceiling.
var ErrRateLimited = errors.New("rate limited")

// Options configures the client.
type Options struct {
	// Timeout bounds each HTTP request. Defaults to
	// constants.DefaultRequestTimeout.
	Timeout time.Duration

	// Retries is the retry ceiling per request. Rate-limit retries and
	// transient retries are counted separately against it. Defaults to
	// constants.DefaultRetries.
	Retries int
}

// Client wraps the GitHub API client.
type Client struct {
	client  *gh.Client
	retries int

	// sleep is replaced in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error

	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// NewClient creates a new GitHub client using a personal access token.
// A missing token is a hard precondition failure: online analysis never
// starts without one.
func NewClient(ctx context.Context, token string, opts Options) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable or run with --offline")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRequestTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = constants.DefaultRetries
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = opts.Timeout

	return &Client{
		client:  gh.NewClient(tc),
		retries: opts.Retries,
		sleep:   sleepContext,
		token:   token,
	}, nil
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AuthenticatedUser returns the authenticated user's login.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}
