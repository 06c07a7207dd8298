package diff

import (
	"testing"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func listing(lines ...string) *models.PackageListing {
	return &models.PackageListing{Lines: lines}
}

func TestDiffer_Diff(t *testing.T) {
	tests := []struct {
		name string
		a    *models.PackageListing
		b    *models.PackageListing
		want []string
	}{
		{
			name: "attribute only in first",
			a:    listing("foo /out/1", "bar /out/2"),
			b:    listing("bar /out/2", "baz /out/3"),
			want: []string{"foo"},
		},
		{
			name: "same name different metadata is changed",
			a:    listing("foo /out/1"),
			b:    listing("foo /out/2"),
			want: []string{"foo"},
		},
		{
			name: "identical listings",
			a:    listing("foo /out/1", "bar /out/2"),
			b:    listing("bar /out/2", "foo /out/1"),
			want: []string{},
		},
		{
			name: "duplicate names collapse",
			a:    listing("foo /out/1", "foo /out/9", "foo.bar /out/3"),
			b:    listing("foo /out/2"),
			want: []string{"foo", "foo.bar"},
		},
		{
			name: "sorted ascending",
			a:    listing("zlib /o/z", "aspell /o/a", "python3Packages.numpy /o/n", "Xaw3d /o/x"),
			b:    listing(),
			want: []string{"Xaw3d", "aspell", "python3Packages.numpy", "zlib"},
		},
		{
			name: "column padding is not a change",
			a:    listing("foo  foo-1  /nix/store/1"),
			b:    listing("foo                foo-1      /nix/store/1", "bar.with.long.name foo-2      /nix/store/2"),
			want: []string{},
		},
		{
			name: "padding differs and output path changed",
			a:    listing("foo  foo-1  /nix/store/9"),
			b:    listing("foo        foo-1   /nix/store/1"),
			want: []string{"foo"},
		},
		{
			name: "empty first listing",
			a:    listing(),
			b:    listing("foo /out/1"),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDiffer().Diff(tt.a, tt.b)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffer_DiffIsNotSymmetric(t *testing.T) {
	a := listing("foo /out/1", "shared /out/s")
	b := listing("bar /out/2", "shared /out/s")
	d := NewDiffer()

	if diff := cmp.Diff([]string{"foo"}, d.Diff(a, b)); diff != "" {
		t.Errorf("Diff(a, b) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bar"}, d.Diff(b, a)); diff != "" {
		t.Errorf("Diff(b, a) mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffer_DiffReflexive(t *testing.T) {
	a := listing("foo /out/1", "bar /out/2", "bar /out/3")
	if got := NewDiffer().Diff(a, a); len(got) != 0 {
		t.Errorf("Diff(a, a) = %v, want empty", got)
	}
}
