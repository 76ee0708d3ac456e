package deploy

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/yi-nology/page_harbor/pkg/mimetype"
)

// FileEntry describes one file discovered under a site directory.
type FileEntry struct {
	AbsolutePath        string
	StorageRelativePath string
	// IsBinary records the extension classification for callers that report
	// on a batch. Transfer itself is byte identical for both classes, so the
	// flag never changes what the uploader sends.
	IsBinary bool
}

// EnumerateDir walks root recursively and returns one entry per regular
// file. Relative paths always use forward slashes regardless of host OS.
// Any error during traversal aborts the whole walk: callers receive either
// a complete list or an error, never a silently truncated list.
func EnumerateDir(root string) ([]FileEntry, error) {
	var entries []FileEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)
		entries = append(entries, FileEntry{
			AbsolutePath:        path,
			StorageRelativePath: relSlash,
			IsBinary:            mimetype.IsBinary(relSlash),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}

	return entries, nil
}
