package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/devconnector/devconnector/pkg/config"
)

// ErrNoGithubProfile is returned when the upstream lookup fails.
var ErrNoGithubProfile = errors.New("No Github user profile found")

// Repo is the subset of GitHub repository fields exposed to clients.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// Service proxies repository listings from the GitHub API.
type Service struct {
	client *http.Client
	logger *slog.Logger
	cfg    config.APIConfig
}

// New returns a github proxy service.
func New(logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
		cfg:    cfg,
	}
}

// Repos fetches the five most recently created public repos for a username.
// Any upstream failure collapses to ErrNoGithubProfile; upstream details are
// logged, never echoed to the client.
func (s Service) Repos(ctx context.Context, username string) ([]Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNoGithubProfile
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos", strings.TrimRight(s.cfg.GithubAPIBase, "/"), url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if s.cfg.GithubClientID != "" {
		q.Set("client_id", s.cfg.GithubClientID)
		q.Set("client_secret", s.cfg.GithubSecret)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "devconnector")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("github request failed", "username", username, "error", err)
		return nil, ErrNoGithubProfile
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("github lookup rejected", "username", username, "status", resp.StatusCode)
		return nil, ErrNoGithubProfile
	}
	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		s.logger.Warn("github response decode failed", "username", username, "error", err)
		return nil, ErrNoGithubProfile
	}
	return repos, nil
}
