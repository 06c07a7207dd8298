package models

import "strings"

// PackageListing is the raw evaluator output for one tree: one line per
// attribute, attribute name first, opaque metadata after.
type PackageListing struct {
	Tree  string
	Lines []string
}

// NormalizeLine collapses runs of whitespace to a single space and trims the
// ends. Evaluators pad columns to the widest attribute of each tree.
func NormalizeLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// AttributeName returns the first whitespace-delimited token of a listing line.
func AttributeName(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Names returns the attribute names of the listing in listing order.
func (l *PackageListing) Names() []string {
	names := make([]string, 0, len(l.Lines))
	for _, line := range l.Lines {
		if name := AttributeName(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}
