package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/tricorder/pkg/types"
)

// Client wraps Jira API client functionality
type Client struct {
	client  *jira.Client
	logger  *zap.Logger
	baseURL string
}

// NewClient creates a new Jira client authenticated with email + API
// token. The timeout bounds every upstream request so an unreachable Jira
// server cannot hang a caller.
func NewClient(baseURL, email, apiToken string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: email,
		Password: apiToken,
	}

	httpClient := tp.Client()
	httpClient.Timeout = timeout

	client, err := jira.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client:  client,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// GetIssue retrieves a single issue by key and maps it to a TicketSummary.
// Failures are returned as *NotFoundError, *AuthError or *UpstreamError
// depending on the upstream response.
func (c *Client) GetIssue(ctx context.Context, key string) (*types.TicketSummary, error) {
	issue, resp, err := c.client.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		return nil, c.classify(key, resp, err)
	}

	return c.issueToSummary(issue), nil
}

// CurrentUser performs a lightweight authenticated call and returns the
// display name of the user the credentials belong to.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, resp, err := c.client.User.GetSelfWithContext(ctx)
	if err != nil {
		return "", c.classify("", resp, err)
	}

	if user.DisplayName != "" {
		return user.DisplayName, nil
	}
	return user.EmailAddress, nil
}

// classify maps an upstream failure to the error taxonomy. A nil response
// means the request never completed (network failure or timeout).
func (c *Client) classify(key string, resp *jira.Response, err error) error {
	if resp == nil {
		return &UpstreamError{Err: err}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{Key: key}
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.Warn("jira rejected credentials", zap.Int("status", resp.StatusCode))
		return &AuthError{StatusCode: resp.StatusCode}
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}
}

// issueToSummary converts a Jira issue to a TicketSummary
func (c *Client) issueToSummary(issue *jira.Issue) *types.TicketSummary {
	summary := &types.TicketSummary{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		IssueType:   issue.Fields.Type.Name,
		Labels:      issue.Fields.Labels,
		URL:         fmt.Sprintf("%s/browse/%s", c.baseURL, issue.Key),
		FetchedAt:   time.Now(),
	}

	if issue.Fields.Status != nil {
		summary.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		summary.Priority = issue.Fields.Priority.Name
	}
	if issue.Fields.Assignee != nil {
		summary.Assignee = issue.Fields.Assignee.DisplayName
	}

	return summary
}
