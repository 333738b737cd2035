package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"tsunused/internal/snapshot"
)

// ListSnapshots expands paths into a sorted, duplicate-free list of
// snapshot files. Directories are walked for *.tsdiag.json and
// *.tsdiag.mp; files named explicitly are taken as they are.
func ListSnapshots(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && snapshot.IsSnapshotPath(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
