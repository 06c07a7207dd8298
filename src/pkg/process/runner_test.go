package process

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		cmd          string
		args         []string
		wantExitCode int
		wantStdout   string
		wantStderr   string
		wantErr      bool
	}{
		{
			name:       "stdout captured",
			cmd:        "sh",
			args:       []string{"-c", "echo hello"},
			wantStdout: "hello\n",
		},
		{
			name:         "stderr kept separate on failure",
			cmd:          "sh",
			args:         []string{"-c", "echo out; echo 'error: broken' >&2; exit 3"},
			wantExitCode: 3,
			wantStdout:   "out\n",
			wantStderr:   "error: broken\n",
		},
		{
			name:    "missing binary",
			cmd:     "attrdiff-no-such-binary",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewExecRunner()
			res, err := r.Run(context.Background(), tt.cmd, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if res.ExitCode != tt.wantExitCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantExitCode)
			}
			if string(res.Stdout) != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if string(res.Stderr) != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
			if res.Success() != (tt.wantExitCode == 0) {
				t.Errorf("Success() = %v", res.Success())
			}
		})
	}
}

func TestExecRunner_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewExecRunner().Run(ctx, "sleep", "5")
	if err == nil {
		t.Fatal("expected error for cancelled command")
	}
	if !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("error = %v, want cancellation", err)
	}
}
