package models

// PullRequest represents the head/base identity of a GitHub pull request
type PullRequest struct {
	Number   int
	Title    string
	HeadRepo string // owner/repo
	HeadRef  string
	HeadSHA  string
	BaseRepo string // owner/repo
	BaseRef  string
	BaseSHA  string
	State    string
	Merged   bool
}
