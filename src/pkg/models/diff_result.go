package models

// DiffResult holds the attributes present in the first tree but not, as a
// complete listing line, in the second. Attributes are sorted and unique.
type DiffResult struct {
	Expr       string
	Against    string
	Attributes []string
}

func (d *DiffResult) IsEmpty() bool {
	return len(d.Attributes) == 0
}
