// Package github proxies the public repository listing used on profile
// pages. Only the handful of fields the front end renders are decoded.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/devlink-social/apiserver/config"
)

// ErrNoProfile is returned when GitHub has no repos for the username.
var ErrNoProfile = errors.New("no github profile found")

const (
	apiBase        = "https://api.github.com"
	requestTimeout = 10 * time.Second
	reposPerPage   = 5
)

// Repo is the subset of a GitHub repository shown on a profile.
type Repo struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

// Client fetches public repos, optionally authenticated with OAuth app
// credentials to raise the rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        config.GitHubConfig
}

func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    apiBase,
		cfg:        cfg,
	}
}

// Repos returns the user's five most recently created public repos.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("per_page", fmt.Sprintf("%d", reposPerPage))
	q.Set("sort", "created:asc")
	if c.cfg.ClientID != "" && c.cfg.ClientSecret != "" {
		q.Set("client_id", c.cfg.ClientID)
		q.Set("client_secret", c.cfg.ClientSecret)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "devlink-apiserver")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoProfile
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded with status %d", resp.StatusCode)
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	return repos, nil
}
