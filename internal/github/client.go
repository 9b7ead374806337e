package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for pull request lookups.
type Client struct {
	apiClient *github.Client
	logger    *zap.Logger
}

// NewClient creates a new GitHub client. An empty access token yields an
// unauthenticated client, which is sufficient for public repositories.
func NewClient(accessToken string, logger *zap.Logger) *Client {
	var httpClient *http.Client
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: accessToken},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	return &Client{
		apiClient: github.NewClient(httpClient),
		logger:    logger,
	}
}

// HeadBranch returns the head branch name of a pull request, so its ticket
// key can be resolved the same way as a locally checked-out branch.
func (c *Client) HeadBranch(ctx context.Context, owner, repo string, number int) (string, error) {
	pr, _, err := c.apiClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	branch := pr.GetHead().GetRef()
	c.logger.Debug("resolved pull request head",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("number", number),
		zap.String("branch", branch),
	)

	return branch, nil
}
