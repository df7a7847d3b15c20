package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/storeflow/internal/domain"
)

// Scanner discovers scenario files in the project tree.
type Scanner interface {
	Scan(rootDir string) ([]string, error)
	ScanAll(rootDirs []string, skip SkipFunc) ([]string, error)
}

// SkipFunc decides whether a root that failed to scan is skipped. Returning
// false aborts ScanAll with err.
type SkipFunc func(root string, err error) bool

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Include   []string
	Exclude   []string
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(include, exclude []string, recursive bool) *FileScanner {
	return &FileScanner{Include: include, Exclude: exclude, Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths matching any include
// pattern and no exclude pattern. Hidden directories are never entered.
func (s *FileScanner) Scan(rootDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || strings.HasPrefix(d.Name(), ".") || s.excluded(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.excluded(relPath) {
			return nil
		}
		for _, pattern := range s.Include {
			if matchGlob(relPath, pattern) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// ScanAll scans every root and returns the union without duplicates, in
// root order. Overlapping roots yield each file once. A nil skip fails on the
// first root that cannot be scanned.
func (s *FileScanner) ScanAll(rootDirs []string, skip SkipFunc) ([]string, error) {
	seen := map[string]bool{}
	var all []string
	for _, root := range rootDirs {
		files, err := s.Scan(root)
		if err != nil {
			if skip != nil && skip(root, err) {
				continue
			}
			return nil, err
		}
		for _, f := range files {
			key := filepath.Clean(f)
			if abs, err := filepath.Abs(f); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, f)
		}
	}
	return all, nil
}

func (s *FileScanner) excluded(relPath string) bool {
	for _, exc := range s.Exclude {
		if matchGlob(relPath, exc) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash separated path against a glob pattern. A
// pattern without a slash matches the base name; ** matches any number of
// directories.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				return false
			}
			path = strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
		}
		if suffix == "" {
			return true
		}

		segments := strings.Split(path, "/")
		for i := range segments {
			if matched, _ := filepath.Match(suffix, strings.Join(segments[i:], "/")); matched {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "/") {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
