// Package reference parses the reference strings accepted on the command line
// and translates them into scheme-agnostic locations.
package reference

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemeDelimiter separates a scheme token from the reference body
const SchemeDelimiter = "://"

// Kind enumerates the closed set of reference schemes
type Kind int

const (
	KindLocalPath Kind = iota
	KindFileURL
	KindHTTPURL
	KindSearchPath
	KindVCSHost
	KindChannel
	KindUpstreamRef
	KindPullRequest
)

var kindNames = map[Kind]string{
	KindLocalPath:   "local path",
	KindFileURL:     "file url",
	KindHTTPURL:     "http url",
	KindSearchPath:  "search path",
	KindVCSHost:     "vcs host",
	KindChannel:     "channel",
	KindUpstreamRef: "upstream ref",
	KindPullRequest: "pull request",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// schemes maps each scheme token to the kind it declares
var schemes = map[string]Kind{
	"file":    KindFileURL,
	"http":    KindHTTPURL,
	"https":   KindHTTPURL,
	"nixpath": KindSearchPath,
	"github":  KindVCSHost,
	"channel": KindChannel,
	"ref":     KindUpstreamRef,
	"pr":      KindPullRequest,
}

// Reference is a parsed input reference. Only the fields relevant to Kind are set.
type Reference struct {
	Kind Kind
	Raw  string

	Path   string // KindLocalPath, KindFileURL
	URL    string // KindHTTPURL
	Name   string // KindSearchPath, KindChannel, KindUpstreamRef
	Sub    string // KindSearchPath: path below the named entry
	Owner  string // KindVCSHost
	Repo   string // KindVCSHost
	Ref    string // KindVCSHost, KindUpstreamRef
	Number int    // KindPullRequest
}

// Parse classifies raw into exactly one reference kind.
// Strings without a scheme delimiter are local paths; an unknown scheme is an error.
func Parse(raw string) (Reference, error) {
	scheme, body, ok := strings.Cut(raw, SchemeDelimiter)
	if !ok {
		if raw == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "empty reference"}
		}
		return Reference{Kind: KindLocalPath, Raw: raw, Path: raw}, nil
	}

	kind, known := schemes[strings.ToLower(scheme)]
	if !known {
		return Reference{}, &UnrecognizedSchemeError{Scheme: scheme, Raw: raw}
	}

	ref := Reference{Kind: kind, Raw: raw}
	switch kind {
	case KindFileURL:
		if body == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "missing path"}
		}
		ref.Path = body
	case KindHTTPURL:
		if body == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "missing host"}
		}
		ref.URL = raw
	case KindSearchPath:
		name, sub, _ := strings.Cut(body, "/")
		if name == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "missing search path name"}
		}
		ref.Name = name
		ref.Sub = sub
	case KindVCSHost:
		parts := strings.SplitN(body, "/", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "expected github://<owner>/<repo>/<ref>"}
		}
		ref.Owner, ref.Repo, ref.Ref = parts[0], parts[1], parts[2]
	case KindChannel:
		if body == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "missing channel name"}
		}
		ref.Name = body
	case KindUpstreamRef:
		if body == "" {
			return Reference{}, &MalformedReferenceError{Raw: raw, Reason: "missing ref name"}
		}
		ref.Name = body
		ref.Ref = body
	case KindPullRequest:
		number, err := parseNumber(raw, body)
		if err != nil {
			return Reference{}, err
		}
		ref.Number = number
	}

	return ref, nil
}

// ParsePullRequestID accepts a pull request number either bare ("28167")
// or with the pr:// prefix ("pr://28167").
func ParsePullRequestID(id string) (int, error) {
	id = strings.TrimSpace(id)
	if strings.Contains(id, SchemeDelimiter) {
		ref, err := Parse(id)
		if err != nil {
			return 0, err
		}
		if ref.Kind != KindPullRequest {
			return 0, &MalformedReferenceError{Raw: id, Reason: "not a pull request reference"}
		}
		return ref.Number, nil
	}
	return parseNumber(id, id)
}

func parseNumber(raw, body string) (int, error) {
	number, err := strconv.Atoi(body)
	if err != nil || number <= 0 {
		return 0, &MalformedReferenceError{Raw: raw, Reason: "pull request id must be a positive number"}
	}
	return number, nil
}
