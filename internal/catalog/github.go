// internal/catalog/github.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "plan-access-bot/internal/common/errors"
	httpclient "plan-access-bot/internal/common/http"
)

// GitHubOptions configures a catalog served from raw.githubusercontent.com.
type GitHubOptions struct {
	BaseURL         string // https://github.com/<user>/<repo>
	RawHost         string
	Branch          string
	ListTimeout     time.Duration
	DownloadTimeout time.Duration
}

// GitHubCatalog reads <folder>/filelist.txt for listings and downloads files by raw URL.
type GitHubCatalog struct {
	client *httpclient.Client
	root   string
	opts   GitHubOptions
}

func NewGitHubCatalog(client *httpclient.Client, opts GitHubOptions) (*GitHubCatalog, error) {
	repo, err := repoPath(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	if opts.RawHost == "" {
		opts.RawHost = "https://raw.githubusercontent.com"
	}

	root := strings.TrimRight(opts.RawHost, "/") + "/" + repo + "/" + url.PathEscape(opts.Branch)
	return &GitHubCatalog{client: client, root: root, opts: opts}, nil
}

// repoPath extracts "<user>/<repo>" from a repository URL.
func repoPath(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid repository url %q: %w", baseURL, err)
	}
	parts := strings.Split(strings.Trim(strings.TrimSuffix(u.Path, ".git"), "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("repository url %q must end in /<user>/<repo>", baseURL)
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}

func (c *GitHubCatalog) fileURL(folder, name string) string {
	return c.root + "/" + url.PathEscape(folder) + "/" + url.PathEscape(name)
}

func (c *GitHubCatalog) List(ctx context.Context, folder string) ([]string, error) {
	body, err := c.client.GetBytes(ctx, c.fileURL(folder, ListFile), c.opts.ListTimeout)
	if err != nil {
		return nil, apperrors.NewRemoteUnavailableError("github", err)
	}
	return parseListFile(body), nil
}

func (c *GitHubCatalog) Fetch(ctx context.Context, folder, name string) ([]byte, error) {
	if !validName(name) {
		return nil, ErrFileNotFound
	}

	body, err := c.client.GetBytes(ctx, c.fileURL(folder, name), c.opts.DownloadTimeout)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrFileNotFound
		}
		return nil, apperrors.NewRemoteUnavailableError("github", err)
	}
	return body, nil
}
