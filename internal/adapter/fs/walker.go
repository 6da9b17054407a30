package fs

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker selects ingestable files under a root using doublestar
// include/exclude glob patterns matched against relative paths.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a Walker. With no include patterns every file
// matches.
func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{includes: includes, excludes: excludes}
}

// File is one selected file: its absolute path and the slash-separated
// path relative to the walk root, which doubles as a stable node ID.
type File struct {
	Path    string
	RelPath string
	Size    int64
}

// Walk returns all files under root matching the configured patterns.
func (w *Walker) Walk(root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if w.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.included(rel) && !w.excluded(rel) {
			files = append(files, File{Path: path, RelPath: rel, Size: info.Size()})
		}
		return nil
	})
	return files, err
}

func (w *Walker) included(rel string) bool {
	for _, pattern := range w.includes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
