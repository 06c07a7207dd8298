package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/gh-nvat/attrdiff/src/pkg/process"
	"github.com/google/go-cmp/cmp"
)

type fakeRunner struct {
	result *process.Result
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*process.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.result, f.err
}

func TestEnumerator_Enumerate(t *testing.T) {
	runner := &fakeRunner{result: &process.Result{
		Stdout: []byte("hello  hello-2.12  /nix/store/a-hello\npython3Packages.foo  python3.11-foo-1.0  /nix/store/b-foo\n\n\n"),
	}}
	e := NewEnumerator(runner, nil, nil)

	listing, err := e.Enumerate(context.Background(), "/nix/store/tree")
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	wantLines := []string{
		"hello hello-2.12 /nix/store/a-hello",
		"python3Packages.foo python3.11-foo-1.0 /nix/store/b-foo",
	}
	if diff := cmp.Diff(wantLines, listing.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hello", "python3Packages.foo"}, listing.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	wantCall := []string{"nix-env", "-f", "/nix/store/tree", "-qaP", "--out-path", "--show-trace"}
	if diff := cmp.Diff([][]string{wantCall}, runner.calls); diff != "" {
		t.Errorf("evaluator call mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerator_EvaluationErrorKeepsStderr(t *testing.T) {
	stderr := "error: attribute 'foo' missing\n\n       at /nix/store/tree/default.nix:3:5:\n"
	e := NewEnumerator(&fakeRunner{result: &process.Result{
		ExitCode: 1,
		Stdout:   []byte("partial /nix/store/x\n"),
		Stderr:   []byte(stderr),
	}}, []string{"nix-env"}, nil)

	listing, err := e.Enumerate(context.Background(), "/tree")
	if listing != nil {
		t.Errorf("Enumerate() listing = %v, want nil on failure", listing)
	}

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("Enumerate() error = %v, want *EvaluationError", err)
	}
	if evalErr.Stderr != stderr {
		t.Errorf("Stderr = %q, want %q", evalErr.Stderr, stderr)
	}
	if evalErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", evalErr.ExitCode)
	}
}

func TestEnumerator_RunnerFailure(t *testing.T) {
	e := NewEnumerator(&fakeRunner{err: errors.New("exec: \"nix-env\": executable file not found")}, nil, nil)
	_, err := e.Enumerate(context.Background(), "/tree")
	if err == nil {
		t.Fatal("Enumerate() expected error")
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		t.Errorf("start failure should not be an EvaluationError")
	}
}

func TestParseListing(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{name: "empty", output: "", want: nil},
		{name: "trailing blank lines", output: "a /o/1\n\n\n", want: []string{"a /o/1"}},
		{name: "crlf", output: "a /o/1\r\nb /o/2\r\n", want: []string{"a /o/1", "b /o/2"}},
		{
			name:   "column padding collapsed",
			output: "foo                  foo-1      /nix/store/1\nlongattribute.name   long-2.0   /nix/store/2\n",
			want:   []string{"foo foo-1 /nix/store/1", "longattribute.name long-2.0 /nix/store/2"},
		},
		{name: "tabs", output: "foo\tfoo-1\t/nix/store/1\n", want: []string{"foo foo-1 /nix/store/1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseListing(tt.output)); diff != "" {
				t.Errorf("ParseListing() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
