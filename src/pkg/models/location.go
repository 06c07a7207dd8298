package models

import "fmt"

const (
	LocationKindLocal  = "local"
	LocationKindRemote = "remote"
)

// Location is a scheme-agnostic place a package tree can be read from.
// Local locations hold a filesystem path, remote ones a URL.
type Location struct {
	Kind    string
	Path    string // absolute filesystem path (local)
	URL     string // fetchable URL (remote)
	Archive bool
}

// LocalLocation builds a Location for a path already on disk.
func LocalLocation(path string, archive bool) Location {
	return Location{Kind: LocationKindLocal, Path: path, Archive: archive}
}

// RemoteLocation builds a Location for a URL that has to be fetched.
func RemoteLocation(url string, archive bool) Location {
	return Location{Kind: LocationKindRemote, URL: url, Archive: archive}
}

func (l Location) IsLocal() bool {
	return l.Kind == LocationKindLocal
}

// FetchURL returns the URL handed to the external fetcher.
// Local archives are addressed through file:// so they share the remote unpack path.
func (l Location) FetchURL() string {
	if l.IsLocal() {
		return "file://" + l.Path
	}
	return l.URL
}

func (l Location) String() string {
	suffix := ""
	if l.Archive {
		suffix = " (archive)"
	}
	if l.IsLocal() {
		return fmt.Sprintf("local:%s%s", l.Path, suffix)
	}
	return fmt.Sprintf("remote:%s%s", l.URL, suffix)
}
