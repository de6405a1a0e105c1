package tasks

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/calagent/calagent/internal/google"
)

// DefaultMaxResults is the number of reminders returned when the caller does
// not ask for a specific count.
const DefaultMaxResults = 10

// Client wraps the Google Tasks service
type Client struct {
	svc     *tasks.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Tasks client with OAuth2
// authentication for a specific account using the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	client := google.NewHTTPClient(ctx, conf.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Tasks client for a specific account using
// the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Tasks client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	var taskLists []TaskList
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}

	return taskLists, nil
}

// ListQuery describes a bounded reminder listing. Zero values get defaults
// applied by normalize.
type ListQuery struct {
	DueMin        time.Time
	DueMax        time.Time
	MaxResults    int64
	ShowCompleted bool
}

// normalize fills in the listing defaults: the due window starts at the
// beginning of the current day in UTC unless a lower bound is given, and the
// result count is capped at DefaultMaxResults.
func (q ListQuery) normalize(now time.Time) ListQuery {
	if q.DueMin.IsZero() {
		today := now.UTC()
		q.DueMin = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

// ListReminders aggregates due tasks across all of the user's task lists.
// Results are capped at the query's MaxResults even when several lists
// contribute.
func (c *Client) ListReminders(ctx context.Context, query ListQuery) ([]Reminder, error) {
	query = query.normalize(time.Now())

	taskLists, err := c.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}

	var reminders []Reminder
	for _, tl := range taskLists {
		remaining := query.MaxResults - int64(len(reminders))
		if remaining <= 0 {
			break
		}

		call := c.svc.Tasks.List(tl.ID).
			Context(ctx).
			DueMin(query.DueMin.Format(time.RFC3339)).
			MaxResults(remaining)

		if !query.DueMax.IsZero() {
			call = call.DueMax(query.DueMax.Format(time.RFC3339))
		}
		if query.ShowCompleted {
			call = call.ShowCompleted(true)
		}

		result, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks in %s: %w", tl.Title, err)
		}

		for _, t := range result.Items {
			reminders = append(reminders, toReminder(t, tl.Title))
		}
	}

	return reminders, nil
}
