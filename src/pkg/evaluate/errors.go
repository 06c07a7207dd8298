package evaluate

import "fmt"

// EvaluationError is returned when the evaluator exits non-zero.
// Stderr holds the evaluator diagnostics exactly as printed.
type EvaluationError struct {
	Tree     string
	ExitCode int
	Stderr   string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation of %s failed (exit status %d):\n%s", e.Tree, e.ExitCode, e.Stderr)
}
