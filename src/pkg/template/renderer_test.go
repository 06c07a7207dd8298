package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		attrs   []string
		want    string
		wantErr bool
	}{
		{name: "list", mode: OutputList, attrs: []string{"a", "b.c"}, want: "a\nb.c\n"},
		{name: "list empty", mode: OutputList, attrs: nil, want: ""},
		// the line is exactly " -A a -A b"; built-in modes end with a line terminator
		{name: "attrs", mode: OutputAttrs, attrs: []string{"a", "b"}, want: " -A a -A b\n"},
		{name: "attrs empty", mode: OutputAttrs, attrs: nil, want: "\n"},
		{name: "unknown mode", mode: "json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRenderer().Render(tt.mode, &models.DiffResult{Attributes: tt.attrs})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrFlags(t *testing.T) {
	if got := AttrFlags([]string{"a", "b"}); got != " -A a -A b" {
		t.Errorf("AttrFlags() = %q, want %q", got, " -A a -A b")
	}
	if got := AttrFlags(nil); got != "" {
		t.Errorf("AttrFlags(nil) = %q, want empty", got)
	}
}

func TestRenderer_AttrsLine(t *testing.T) {
	got, err := NewRenderer().Render(OutputAttrs, &models.DiffResult{Attributes: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	line, ok := strings.CutSuffix(got, "\n")
	if !ok {
		t.Fatalf("Render() = %q, want a single terminated line", got)
	}
	if line != " -A a -A b" || strings.Contains(line, "\n") {
		t.Errorf("attrs line = %q, want %q", line, " -A a -A b")
	}
}

func TestRenderer_RenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tmpl")
	content := `{{len .Attributes}} changed between {{.Expr}} and {{.Against}}: {{join .Attributes ","}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewRenderer().RenderFile(path, &models.DiffResult{Expr: "ref://master", Against: "channel://nixos-unstable", Attributes: []string{"foo", "bar"}})
	if err != nil {
		t.Fatalf("RenderFile() error = %v", err)
	}
	want := "2 changed between ref://master and channel://nixos-unstable: foo,bar"
	if got != want {
		t.Errorf("RenderFile() = %q, want %q", got, want)
	}

	if _, err := NewRenderer().RenderFile(filepath.Join(t.TempDir(), "missing"), &models.DiffResult{}); err == nil {
		t.Error("RenderFile() expected error for missing template")
	}
	if _, err := NewRenderer().RenderString("{{.Nope", nil); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("RenderString() error = %v, want parse error", err)
	}
}
