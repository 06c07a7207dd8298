package github

import (
	"fmt"
	"strings"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
)

// ParseOwnerRepo parses a repository string into owner and repository
// Example: "owner/repository" -> "owner", "repository"
// Example: "owner/repository/subpath" -> "owner", "repository"
func ParseOwnerRepo(repo string) (owner, repository string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s", repo)
	}
	owner = parts[0]
	repository = parts[1]
	return owner, repository, nil
}

// ArchiveLocations builds the head and base archive locations of pr,
// using the same template as github:// references.
func ArchiveLocations(host string, pr *models.PullRequest) (head, base models.Location) {
	head = models.RemoteLocation(reference.ArchiveURL(host, pr.HeadRepo, pr.HeadRef), true)
	base = models.RemoteLocation(reference.ArchiveURL(host, pr.BaseRepo, pr.BaseRef), true)
	return head, base
}

func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
