package runner

import "io"

type RunnerInterface interface {
	// Initialize the runner with configuration and collaborators
	Initialize() error

	// Main routine to process the runner
	Process() error

	// Write the result to w
	Output(w io.Writer) error

	// Release resources held since Initialize
	Close()
}
