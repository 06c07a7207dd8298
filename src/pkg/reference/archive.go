package reference

import (
	"fmt"
	"net/url"
	"strings"
)

// ArchiveExtensions are the file extensions treated as archives. Detection is
// by extension only.
var ArchiveExtensions = []string{".tar", ".tar.gz", ".zip"}

// IsArchive reports whether a path or URL names an archive
func IsArchive(pathOrURL string) bool {
	p := pathOrURL
	if u, err := url.Parse(pathOrURL); err == nil && u.Scheme != "" {
		p = u.Path
	}
	for _, ext := range ArchiveExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// ArchiveURL builds the source archive URL for ref of repo (owner/repo) on host
// Example: ("github.com", "NixOS/nixpkgs", "master") -> "https://github.com/NixOS/nixpkgs/archive/master.tar.gz"
func ArchiveURL(host, repo, ref string) string {
	return fmt.Sprintf("https://%s/%s/archive/%s.tar.gz", host, strings.Trim(repo, "/"), ref)
}
