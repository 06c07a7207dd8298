package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "reference")

const (
	DefaultHost     = "github.com"
	DefaultUpstream = "NixOS/nixpkgs"
	DefaultChannels = "NixOS/nixpkgs"
)

// PullRequestResolver derives head and base locations from a pull request number
type PullRequestResolver interface {
	ResolvePR(ctx context.Context, number int) (head, base models.Location, err error)
}

// Hosting describes where github://, channel:// and ref:// archives live
type Hosting struct {
	Host     string // e.g. github.com
	Upstream string // owner/repo used by ref:// and pr://
	Channels string // owner/repo holding channel branches
}

// DefaultHosting returns the public GitHub nixpkgs hosting
func DefaultHosting() Hosting {
	return Hosting{
		Host:     DefaultHost,
		Upstream: DefaultUpstream,
		Channels: DefaultChannels,
	}
}

// LocationResolver defines the interface for turning raw references into locations
type LocationResolver interface {
	// Resolve classifies raw and translates it into a Location
	Resolve(ctx context.Context, raw string) (models.Location, error)
}

// Resolver resolves references. Its inputs are explicit so resolution does
// not depend on ambient process state beyond the filesystem scan of nixpath://.
type Resolver struct {
	Hosting    Hosting
	SearchPath SearchPath
	WorkDir    string // base for relative local paths, defaults to the process cwd
	PR         PullRequestResolver
}

// Ensure Resolver implements LocationResolver
var _ LocationResolver = (*Resolver)(nil)

// NewResolver creates a new reference resolver
func NewResolver(hosting Hosting, searchPath SearchPath, pr PullRequestResolver) *Resolver {
	return &Resolver{
		Hosting:    hosting,
		SearchPath: searchPath,
		PR:         pr,
	}
}

// Resolve parses raw, dispatches specialised schemes to their translator and
// classifies the resulting concrete reference.
func (r *Resolver) Resolve(ctx context.Context, raw string) (models.Location, error) {
	ref, err := Parse(raw)
	if err != nil {
		return models.Location{}, err
	}

	switch ref.Kind {
	case KindLocalPath, KindFileURL, KindHTTPURL:
		return r.classify(ref)
	}

	concrete, err := r.translate(ctx, ref)
	if err != nil {
		return models.Location{}, err
	}
	logger.WithField("reference", raw).WithField("translated", concrete).Debug("Translated reference")

	next, err := Parse(concrete)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to parse translated reference %q: %w", concrete, err)
	}
	if next.Kind != KindFileURL && next.Kind != KindHTTPURL {
		return models.Location{}, &MalformedReferenceError{Raw: raw, Reason: fmt.Sprintf("translated to non-concrete reference %q", concrete)}
	}
	return r.classify(next)
}

// classify turns a concrete reference into a Location
func (r *Resolver) classify(ref Reference) (models.Location, error) {
	switch ref.Kind {
	case KindLocalPath, KindFileURL:
		path, err := r.absPath(ref.Path)
		if err != nil {
			return models.Location{}, err
		}
		return models.LocalLocation(path, IsArchive(path)), nil
	case KindHTTPURL:
		return models.RemoteLocation(ref.URL, IsArchive(ref.URL)), nil
	}
	return models.Location{}, &MalformedReferenceError{Raw: ref.Raw, Reason: fmt.Sprintf("%s is not a concrete reference", ref.Kind)}
}

// translate maps a specialised reference onto a file:// or https:// reference
func (r *Resolver) translate(ctx context.Context, ref Reference) (string, error) {
	switch ref.Kind {
	case KindSearchPath:
		return r.translateSearchPath(ref)
	case KindVCSHost:
		return ArchiveURL(r.host(), ref.Owner+"/"+ref.Repo, ref.Ref), nil
	case KindChannel:
		return ArchiveURL(r.host(), r.channels(), ref.Name), nil
	case KindUpstreamRef:
		return ArchiveURL(r.host(), r.upstream(), ref.Ref), nil
	case KindPullRequest:
		return r.translatePullRequest(ctx, ref)
	}
	return "", &MalformedReferenceError{Raw: ref.Raw, Reason: fmt.Sprintf("no translator for %s", ref.Kind)}
}

func (r *Resolver) translateSearchPath(ref Reference) (string, error) {
	target, err := r.SearchPath.Lookup(ref.Name)
	if err != nil {
		return "", err
	}
	if ref.Sub != "" {
		target = strings.TrimSuffix(target, "/") + "/" + ref.Sub
	}
	if strings.Contains(target, SchemeDelimiter) {
		return target, nil
	}
	return "file://" + target, nil
}

func (r *Resolver) translatePullRequest(ctx context.Context, ref Reference) (string, error) {
	if r.PR == nil {
		return "", fmt.Errorf("cannot resolve %s: no pull request resolver configured", ref.Raw)
	}
	head, _, err := r.PR.ResolvePR(ctx, ref.Number)
	if err != nil {
		return "", err
	}
	return head.FetchURL(), nil
}

func (r *Resolver) absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	base := r.WorkDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		base = cwd
	}
	return filepath.Join(base, path), nil
}

func (r *Resolver) host() string {
	if r.Hosting.Host == "" {
		return DefaultHost
	}
	return r.Hosting.Host
}

func (r *Resolver) upstream() string {
	if r.Hosting.Upstream == "" {
		return DefaultUpstream
	}
	return r.Hosting.Upstream
}

func (r *Resolver) channels() string {
	if r.Hosting.Channels == "" {
		return DefaultChannels
	}
	return r.Hosting.Channels
}
