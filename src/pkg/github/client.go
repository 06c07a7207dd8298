package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var logger = log.WithField("package", "github")

// GitHubClient defines the interface for GitHub API operations
type GitHubClient interface {
	// GetPR retrieves pull request information from repo (owner/repo)
	GetPR(ctx context.Context, repo string, number int) (*models.PullRequest, error)
	// ResolvePR returns the head and base archive locations of a pull request
	// against the upstream repository
	ResolvePR(ctx context.Context, number int) (head, base models.Location, err error)
}

// ClientOptions configures the GitHub client
type ClientOptions struct {
	// Token authenticates API calls when set. Public repositories work without one.
	Token string
	// APIURL overrides the REST base URL, e.g. for GitHub Enterprise
	APIURL string
	// Host serves the source archives, e.g. github.com
	Host string
	// Upstream is the owner/repo pull requests are looked up in
	Upstream string
}

// Client handles GitHub API interactions using go-github
type Client struct {
	client   *github.Client
	host     string
	upstream string
}

// Ensure Client implements GitHubClient and can back pr:// references
var (
	_ GitHubClient                  = (*Client)(nil)
	_ reference.PullRequestResolver = (*Client)(nil)
)

// TokenFromEnv returns GH_TOKEN, falling back to GITHUB_TOKEN.
// A nil getenv reads the process environment.
func TokenFromEnv(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	token := getenv("GH_TOKEN")
	if token == "" {
		token = getenv("GITHUB_TOKEN")
	}
	return token
}

// NewClient creates a new GitHub client
func NewClient(opts ClientOptions) (*Client, error) {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := github.NewClient(httpClient)

	if opts.APIURL != "" {
		apiURL := opts.APIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.APIURL, err)
		}
		client.BaseURL = baseURL
	}

	host := opts.Host
	if host == "" {
		host = reference.DefaultHost
	}
	upstream := opts.Upstream
	if upstream == "" {
		upstream = reference.DefaultUpstream
	}
	if _, _, err := ParseOwnerRepo(upstream); err != nil {
		return nil, fmt.Errorf("invalid upstream repository: %w", err)
	}

	return &Client{
		client:   client,
		host:     host,
		upstream: upstream,
	}, nil
}

// GetPR retrieves pull request information
func (c *Client) GetPR(ctx context.Context, repo string, number int) (*models.PullRequest, error) {
	owner, name, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}

	logger.WithField("repo", repo).WithField("number", number).Info("Fetching pull request...")
	pr, _, err := c.client.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		notFound := &PullRequestNotFoundError{Repo: repo, Number: number, Err: err}
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil {
			notFound.StatusCode = errResp.Response.StatusCode
		}
		return nil, notFound
	}

	info := &models.PullRequest{
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		HeadRepo: pr.GetHead().GetRepo().GetFullName(),
		HeadRef:  pr.GetHead().GetRef(),
		HeadSHA:  pr.GetHead().GetSHA(),
		BaseRepo: pr.GetBase().GetRepo().GetFullName(),
		BaseRef:  pr.GetBase().GetRef(),
		BaseSHA:  pr.GetBase().GetSHA(),
		State:    pr.GetState(),
		Merged:   pr.GetMerged(),
	}
	if info.HeadRepo == "" || info.HeadRef == "" || info.BaseRepo == "" || info.BaseRef == "" {
		return nil, &PullRequestNotFoundError{
			Repo:   repo,
			Number: number,
			Err:    errors.New("response is missing head/base repository or ref"),
		}
	}
	logger.WithField("head", fmt.Sprintf("%s:%s@%s", info.HeadRepo, info.HeadRef, ShortSHA(info.HeadSHA))).
		WithField("base", fmt.Sprintf("%s:%s@%s", info.BaseRepo, info.BaseRef, ShortSHA(info.BaseSHA))).
		Info("Fetched pull request")
	return info, nil
}

// ResolvePR returns the head and base archive locations of a pull request
func (c *Client) ResolvePR(ctx context.Context, number int) (models.Location, models.Location, error) {
	pr, err := c.GetPR(ctx, c.upstream, number)
	if err != nil {
		return models.Location{}, models.Location{}, err
	}
	head, base := ArchiveLocations(c.host, pr)
	return head, base, nil
}

// Upstream returns the owner/repo pull requests are resolved against
func (c *Client) Upstream() string {
	return c.upstream
}
