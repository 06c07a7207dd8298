package diff

import "github.com/gh-nvat/attrdiff/src/pkg/models"

// ListingDiffer defines the interface for comparing attribute listings
type ListingDiffer interface {
	// Diff returns the attribute names of lines in a that are missing from b
	Diff(a, b *models.PackageListing) []string
}

// Differ computes the set difference of two listings
type Differ struct{}

// Ensure Differ implements ListingDiffer
var _ ListingDiffer = (*Differ)(nil)

// NewDiffer creates a new differ
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff subtracts the lines of b from the lines of a. Whole lines are compared
// after whitespace normalization, so an attribute whose output path changed is
// reported while column padding is not. Names are extracted only after the
// subtraction, then deduplicated and sorted.
func (d *Differ) Diff(a, b *models.PackageListing) []string {
	against := make(map[string]struct{}, len(b.Lines))
	for _, line := range b.Lines {
		against[models.NormalizeLine(line)] = struct{}{}
	}

	names := make(map[string]struct{})
	for _, line := range a.Lines {
		if _, ok := against[models.NormalizeLine(line)]; ok {
			continue
		}
		if name := models.AttributeName(line); name != "" {
			names[name] = struct{}{}
		}
	}

	return SortedKeys(names)
}
