package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v29/github"
	"golang.org/x/oauth2"
)

// NewGitHubClient builds an authenticated GitHub API client. apiURL overrides
// the public endpoint (GitHub Enterprise, test servers); empty means
// api.github.com.
func NewGitHubClient(ctx context.Context, token, apiURL string) (*github.Client, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := github.NewClient(httpClient)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}

		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}

		client.BaseURL = base
	}

	return client, nil
}
