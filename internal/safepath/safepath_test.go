package safepath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		wantPath string
		wantErr  error
	}{
		{
			name:     "nested file",
			input:    "css/site.css",
			wantPath: filepath.Join(realRoot, "css", "site.css"),
		},
		{
			name:     "leading slash stays inside root",
			input:    "/css/site.css",
			wantPath: filepath.Join(realRoot, "css", "site.css"),
		},
		{
			name:     "missing file is returned unresolved",
			input:    "missing.js",
			wantPath: filepath.Join(root, "missing.js"),
		},
		{
			name:    "dotdot prefix",
			input:   "../app_secret.txt",
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "dotdot in the middle",
			input:   "css/../../app_secret.txt",
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "dotdot that would clean back inside",
			input:   "css/../css/site.css",
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "backslash dotdot",
			input:   `..\app_secret.txt`,
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "nul byte",
			input:   "site.css\x00.png",
			wantErr: ErrOutsideRoot,
		},
		{
			name:     "dots in a file name are fine",
			input:    "..hidden",
			wantPath: filepath.Join(root, "..hidden"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(root, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.wantPath {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.wantPath)
			}
		})
	}
}

func TestResolve_SymlinkOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "assets")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	secret := filepath.Join(base, "app_secret.txt")
	if err := os.WriteFile(secret, []byte("hunter2"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Symlink(secret, filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := Resolve(root, "link.txt")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("Resolve through escaping symlink: error = %v, want %v", err, ErrOutsideRoot)
	}
}

func TestResolve_SymlinkInsideRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	if err := os.WriteFile(target, []byte("ok"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(root, "alias.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := Resolve(root, "alias.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/srv/www/assets")

	tests := []struct {
		name string
		p    string
		want bool
	}{
		{"root itself", root, true},
		{"child", filepath.Join(root, "site.css"), true},
		{"grandchild", filepath.Join(root, "css", "site.css"), true},
		{"parent", filepath.FromSlash("/srv/www"), false},
		{"sibling", filepath.FromSlash("/srv/www/app_secret.txt"), false},
		{"shared prefix", filepath.FromSlash("/srv/www/assets-old/x.js"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Within(root, tt.p); got != tt.want {
				t.Errorf("Within(%q, %q) = %v, want %v", root, tt.p, got, tt.want)
			}
		})
	}
}
