package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "dev@example.com", "token", 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestGetIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/ABC-123", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "dev@example.com", user)
		assert.Equal(t, "token", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"key": "ABC-123",
			"fields": {
				"summary": "Add login page",
				"description": "Users need a login page.",
				"status": {"name": "In Progress"},
				"priority": {"name": "High"},
				"assignee": {"displayName": "Dana Developer"},
				"issuetype": {"name": "Story"},
				"labels": ["auth", "frontend"]
			}
		}`))
	})

	summary, err := client.GetIssue(context.Background(), "ABC-123")
	require.NoError(t, err)

	assert.Equal(t, "ABC-123", summary.Key)
	assert.Equal(t, "Add login page", summary.Summary)
	assert.Equal(t, "Users need a login page.", summary.Description)
	assert.Equal(t, "In Progress", summary.Status)
	assert.Equal(t, "High", summary.Priority)
	assert.Equal(t, "Dana Developer", summary.Assignee)
	assert.Equal(t, "Story", summary.IssueType)
	assert.Equal(t, []string{"auth", "frontend"}, summary.Labels)
	assert.Contains(t, summary.URL, "/browse/ABC-123")
	assert.WithinDuration(t, time.Now(), summary.FetchedAt, time.Minute)
}

func TestGetIssueNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages": ["Issue does not exist or you do not have permission to see it."]}`))
	})

	_, err := client.GetIssue(context.Background(), "ABC-999")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ABC-999", notFound.Key)
}

func TestGetIssueAuthFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetIssue(context.Background(), "ABC-123")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestGetIssueServerFault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetIssue(context.Background(), "ABC-123")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestGetIssueUnreachable(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", "dev@example.com", "token", time.Second, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GetIssue(context.Background(), "ABC-123")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Zero(t, upstream.StatusCode)

	var notFound *NotFoundError
	assert.False(t, errors.As(err, &notFound))
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"displayName": "Dana Developer", "emailAddress": "dev@example.com"}`))
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dana Developer", user)
}

func TestCurrentUserAuthFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.CurrentUser(context.Background())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}
