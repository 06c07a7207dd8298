package fetch

import (
	"fmt"
	"strings"
)

// FetchError is returned when the external fetcher fails or prints
// output that cannot be parsed.
type FetchError struct {
	URL      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to fetch %s", e.URL)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, "\n%s", stderr)
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
