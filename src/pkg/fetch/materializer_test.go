package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/process"
	"github.com/google/go-cmp/cmp"
)

// fakeRunner records invocations and replays a canned result
type fakeRunner struct {
	result *process.Result
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*process.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.result, f.err
}

func TestMaterializer_Materialize(t *testing.T) {
	storeOutput := "0abc123\n/nix/store/xyz-source\n"

	tests := []struct {
		name      string
		location  models.Location
		want      string
		wantCalls [][]string
	}{
		{
			name:     "local tree used as-is",
			location: models.LocalLocation("/src/nixpkgs", false),
			want:     "/src/nixpkgs",
		},
		{
			name:      "local archive unpacked through file url",
			location:  models.LocalLocation("/tmp/nixpkgs.tar.gz", true),
			want:      "/nix/store/xyz-source",
			wantCalls: [][]string{{"nix-prefetch-url", "--print-path", "--unpack", "file:///tmp/nixpkgs.tar.gz"}},
		},
		{
			name:      "remote archive unpacked",
			location:  models.RemoteLocation("https://github.com/NixOS/nixpkgs/archive/master.tar.gz", true),
			want:      "/nix/store/xyz-source",
			wantCalls: [][]string{{"nix-prefetch-url", "--print-path", "--unpack", "https://github.com/NixOS/nixpkgs/archive/master.tar.gz"}},
		},
		{
			name:      "remote file not unpacked",
			location:  models.RemoteLocation("https://example.org/default.nix", false),
			want:      "/nix/store/xyz-source",
			wantCalls: [][]string{{"nix-prefetch-url", "--print-path", "https://example.org/default.nix"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: &process.Result{Stdout: []byte(storeOutput)}}
			m := NewMaterializer(runner)

			got, err := m.Materialize(context.Background(), tt.location)
			if err != nil {
				t.Fatalf("Materialize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Materialize() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantCalls, runner.calls); diff != "" {
				t.Errorf("fetcher calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMaterializer_CustomCommand(t *testing.T) {
	runner := &fakeRunner{result: &process.Result{Stdout: []byte("h\n/p\n")}}
	m := NewMaterializer(runner, "nix", "--extra-experimental-features", "nix-command", "prefetch-url")

	if _, err := m.Materialize(context.Background(), models.RemoteLocation("https://x/y.zip", true)); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	want := []string{"nix", "--extra-experimental-features", "nix-command", "prefetch-url", "--print-path", "--unpack", "https://x/y.zip"}
	if diff := cmp.Diff(want, runner.calls[0]); diff != "" {
		t.Errorf("fetcher call mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterializer_Errors(t *testing.T) {
	startErr := errors.New("exec: not found")

	tests := []struct {
		name       string
		result     *process.Result
		err        error
		wantInMsg  string
		wantUnwrap error
	}{
		{
			name:      "non-zero exit",
			result:    &process.Result{ExitCode: 1, Stderr: []byte("error: unable to download")},
			wantInMsg: "unable to download",
		},
		{
			name:      "single line output",
			result:    &process.Result{Stdout: []byte("0abc123\n")},
			wantInMsg: "expected hash and path lines",
		},
		{
			name:      "blank path line",
			result:    &process.Result{Stdout: []byte("0abc123\n   \n")},
			wantInMsg: "empty path",
		},
		{
			name:       "fetcher cannot start",
			err:        startErr,
			wantInMsg:  "not found",
			wantUnwrap: startErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterializer(&fakeRunner{result: tt.result, err: tt.err})
			_, err := m.Materialize(context.Background(), models.RemoteLocation("https://x/y.tar", true))

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Materialize() error = %v, want *FetchError", err)
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantInMsg)
			}
			if tt.wantUnwrap != nil && !errors.Is(err, tt.wantUnwrap) {
				t.Errorf("error does not wrap %v", tt.wantUnwrap)
			}
		})
	}
}
