package deploy_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yi-nology/page_harbor/biz/service/deploy"
)

func writeSiteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestEnumerateDirCompleteness(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"index.html",
		"css/style.css",
		"js/main.js",
		"assets/img/logo.png",
		"assets/fonts/brand.woff2",
	}
	for _, rel := range files {
		writeSiteFile(t, root, rel, "content of "+rel)
	}
	// An empty directory contributes zero entries.
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir empty: %v", err)
	}

	entries, err := deploy.EnumerateDir(root)
	if err != nil {
		t.Fatalf("EnumerateDir: %v", err)
	}
	if len(entries) != len(files) {
		t.Fatalf("expected %d entries, got %d", len(files), len(entries))
	}

	seen := make(map[string]deploy.FileEntry)
	for _, entry := range entries {
		if strings.Contains(entry.StorageRelativePath, "\\") {
			t.Fatalf("relative path %q uses backslashes", entry.StorageRelativePath)
		}
		seen[entry.StorageRelativePath] = entry
	}
	for _, rel := range files {
		if _, ok := seen[rel]; !ok {
			t.Fatalf("missing entry for %s", rel)
		}
	}

	if seen["assets/img/logo.png"].IsBinary != true {
		t.Errorf("png should classify as binary")
	}
	if seen["assets/fonts/brand.woff2"].IsBinary != true {
		t.Errorf("woff2 should classify as binary")
	}
	if seen["index.html"].IsBinary {
		t.Errorf("html should classify as text")
	}
}

func TestEnumerateDirMissingRoot(t *testing.T) {
	if _, err := deploy.EnumerateDir(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatalf("expected error for missing root directory")
	}
}
