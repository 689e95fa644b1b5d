package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// DefaultInclude are the globs used when no include pattern is given.
var DefaultInclude = []string{"**/*.scss", "**/*.css"}

const recursiveSuffix = "/..."

type fileFilter struct {
	include []string
	exclude []*regexp.Regexp
}

func newFileFilter(include, exclude []string) (fileFilter, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	filter := fileFilter{include: include}

	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return fileFilter{}, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fileFilter{}, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		filter.exclude = append(filter.exclude, re)
	}

	return filter, nil
}

func (f fileFilter) included(rel string) bool {
	rel = filepath.ToSlash(rel)

	for _, pattern := range f.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}

func (f fileFilter) excluded(path string) bool {
	path = filepath.ToSlash(path)

	for _, re := range f.exclude {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// collectFiles resolves path patterns into the sorted list of stylesheets to
// migrate. A directory is scanned without descending, `dir/...` scans it
// recursively and a file is taken as is. Include globs apply to files found
// in directories; exclude patterns apply to everything.
func (w *workflow) collectFiles(paths []m.Path, include, exclude []string) ([]m.File, error) {
	filter, err := newFileFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	seen := make(map[string]bool)

	var files []m.File

	add := func(path, short string) error {
		path = filepath.Clean(path)
		if seen[path] || filter.excluded(path) {
			return nil
		}

		seen[path] = true

		hash, err := w.HashFile(m.Path(path))
		if err != nil {
			return fmt.Errorf("hash %s: %w", path, err)
		}

		files = append(files, m.File{Path: m.Path(path), ShortPath: m.Path(short), Hash: hash})

		return nil
	}

	for _, pattern := range paths {
		root, recursive := splitPattern(string(pattern))

		info, err := w.FileInfo(m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			if err := add(root, filepath.Base(root)); err != nil {
				return nil, err
			}

			continue
		}

		err = w.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if info.IsDir() {
				return nil
			}

			rel, err := w.RelPath(m.Path(root), m.Path(path))
			if err != nil {
				return err
			}

			if !filter.included(string(rel)) {
				return nil
			}

			return add(path, string(rel))
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	slog.Debug("Collected stylesheets", "count", len(files), "paths", paths)

	return files, nil
}

func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}

	if !strings.HasSuffix(pattern, recursiveSuffix) {
		return pattern, false
	}

	root := strings.TrimSuffix(pattern, recursiveSuffix)
	if root == "" {
		root = "."
	}

	return root, true
}
