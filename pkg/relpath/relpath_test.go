// SPDX-License-Identifier: MPL-2.0

package relpath

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    []string
		wantErr error
	}{
		{"empty", "", nil, nil},
		{"blank", "   ", nil, nil},
		{"single", "a", []string{"a"}, nil},
		{"nested", "a/b/c.js", []string{"a", "b", "c.js"}, nil},
		{"repeated separators", "a//b///c", []string{"a", "b", "c"}, nil},
		{"trailing separator", "a/b/", []string{"a", "b"}, nil},
		{"dots kept", "./a/../b", []string{".", "a", "..", "b"}, nil},
		{"absolute rejected", "/a/b", nil, ErrAbsolutePath},
		{"backslash rejected", `a\b`, nil, ErrInvalidCharacter},
		{"nul rejected", "a\x00b", nil, ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.text, err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("error should wrap ErrInvalidPath, got %v", err)
				}
				var pathErr *InvalidPathError
				if !errors.As(err, &pathErr) {
					t.Errorf("error should be *InvalidPathError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.text, err)
			}
			if !slices.Equal(got.Segments(), tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, got.Segments(), tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"a/b", "a/b", true},
		{"./a/./b", "a/b", true},
		{"a/b/../../c", "c", true},
		{"a/b/..", "a", true},
		{"a/..", "", true},
		{"a/../../b", "", false},
		{"..", "", false},
		{"../a", "", false},
		{"a/./../b/./c/..", "b", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := MustParse(tt.in).Canonical()
			if ok != tt.wantOK {
				t.Fatalf("Canonical(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(MustParse(tt.want)) {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonical_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	p := MustParse("a/./b/..")
	if _, ok := p.Canonical(); !ok {
		t.Fatal("Canonical() failed")
	}
	if got := p.String(); got != "a/./b/.." {
		t.Errorf("receiver changed to %q", got)
	}
}

func FuzzCanonical_Idempotent(f *testing.F) {
	for _, seed := range []string{"a/b/../../c", "a/../../b", "./x/./y", "..", "a//b/"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, text string) {
		p, err := Parse(text)
		if err != nil {
			return
		}
		c, ok := p.Canonical()
		if !ok {
			return
		}
		again, ok := c.Canonical()
		if !ok {
			t.Fatalf("canonical form %q failed to canonicalize", c)
		}
		if !again.Equal(c) {
			t.Fatalf("Canonical not idempotent: %q -> %q", c, again)
		}
		if !c.IsCanonical() {
			t.Fatalf("canonical form %q still has dot segments", c)
		}
	})
}

func TestAppend(t *testing.T) {
	t.Parallel()

	a := MustParse("a/b")
	b := MustParse("../c")
	got := a.Append(b)
	if got.String() != "a/b/../c" {
		t.Errorf("Append() = %q, want %q", got, "a/b/../c")
	}
	if a.String() != "a/b" || b.String() != "../c" {
		t.Error("Append() mutated an operand")
	}
	if !MustParse("").Append(b).Equal(b) {
		t.Error("empty.Append(b) should equal b")
	}
}

func TestAppend_ParentDoesNotAlias(t *testing.T) {
	t.Parallel()

	p := MustParse("a/b/c")
	parent, _ := p.Parent()
	_ = parent.Append(MustParse("x"))
	if p.String() != "a/b/c" {
		t.Errorf("Append on parent mutated original: %q", p)
	}
}

func TestResolveAgainstDirectoryContext(t *testing.T) {
	t.Parallel()

	got, ok := MustParse("../c").ResolveAgainstDirectoryContext(MustParse("a/b"))
	if !ok || got.String() != "a/c" {
		t.Errorf("ResolveAgainstDirectoryContext() = %q, %v; want a/c, true", got, ok)
	}
	if _, ok := MustParse("../../..").ResolveAgainstDirectoryContext(MustParse("a/b")); ok {
		t.Error("ResolveAgainstDirectoryContext() should fail when climbing above the context")
	}
}

func TestResolveAgainstFileContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, ctx, want string
		wantOK          bool
	}{
		{"./c", "a/b.js", "a/c", true},
		{"../c", "a/b.js", "c", true},
		{"../../c", "a/b.js", "", false},
		{"x", "top.js", "x", true},
		{"x", "", "x", true},
		{"..", "", "", false},
	}
	for _, tt := range tests {
		got, ok := MustParse(tt.path).ResolveAgainstFileContext(MustParse(tt.ctx))
		if ok != tt.wantOK {
			t.Errorf("%q against %q: ok = %v, want %v", tt.path, tt.ctx, ok, tt.wantOK)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("%q against %q = %q, want %q", tt.path, tt.ctx, got, tt.want)
		}
	}
}

func TestStartsWith(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p, prefix string
		want      bool
	}{
		{"a/b/c", "", true},
		{"", "", true},
		{"a/b/c", "a/b", true},
		{"a/b/c", "a/b/c", true},
		{"a/bc", "a/b", false},
		{"a", "a/b", false},
		{"x/y", "a", false},
	}
	for _, tt := range tests {
		if got := MustParse(tt.p).StartsWith(MustParse(tt.prefix)); got != tt.want {
			t.Errorf("%q.StartsWith(%q) = %v, want %v", tt.p, tt.prefix, got, tt.want)
		}
	}
}

func TestTrimPrefix(t *testing.T) {
	t.Parallel()

	rest, ok := MustParse("lib/x/y.js").TrimPrefix(MustParse("lib"))
	if !ok || rest.String() != "x/y.js" {
		t.Errorf("TrimPrefix() = %q, %v", rest, ok)
	}
	if _, ok := MustParse("other/y.js").TrimPrefix(MustParse("lib")); ok {
		t.Error("TrimPrefix() should fail for a non-prefix")
	}
}

func TestEqual_IsSyntactic(t *testing.T) {
	t.Parallel()

	if MustParse("a/./b").Equal(MustParse("a/b")) {
		t.Error("Equal should compare segments syntactically")
	}
	if !MustParse("a//b").Equal(MustParse("a/b")) {
		t.Error("repeated separators should parse to the same segments")
	}
}

func TestFromSegments(t *testing.T) {
	t.Parallel()

	p, err := FromSegments("a", "", "b")
	if err != nil || p.String() != "a/b" {
		t.Errorf("FromSegments() = %q, %v", p, err)
	}
	if _, err := FromSegments("a/b"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("FromSegments() error = %v, want ErrInvalidCharacter", err)
	}
}

func TestBaseAndParent(t *testing.T) {
	t.Parallel()

	p := MustParse("a/b/c.js")
	if p.Base() != "c.js" {
		t.Errorf("Base() = %q", p.Base())
	}
	parent, ok := p.Parent()
	if !ok || parent.String() != "a/b" {
		t.Errorf("Parent() = %q, %v", parent, ok)
	}
	if _, ok := MustParse("").Parent(); ok {
		t.Error("empty path should have no parent")
	}
}
