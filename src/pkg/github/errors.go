package github

import "fmt"

// PullRequestNotFoundError is returned when the API answers with a non-2xx
// status or a body that cannot be decoded.
type PullRequestNotFoundError struct {
	Repo       string
	Number     int
	StatusCode int
	Err        error
}

func (e *PullRequestNotFoundError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pull request %s#%d not found (HTTP %d): %v", e.Repo, e.Number, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pull request %s#%d not found: %v", e.Repo, e.Number, e.Err)
}

func (e *PullRequestNotFoundError) Unwrap() error {
	return e.Err
}
