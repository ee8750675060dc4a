package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Supported document file extensions (lowercase, with leading dot).
var documentExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".text": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

// Discover walks inputDir, collects files with document extensions, skips
// hidden directories, and returns the paths sorted lexicographically for
// deterministic processing order.
func Discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if documentExtensions[ext] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
