package profile

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover returns every profile file under dir matching "*.json",
// recursing into subdirectories (§7 "--profiles-dir holds one JSON file
// per profile, organized however the operator likes"). Each returned path
// is dir joined with the match's path below dir.
func Discover(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "**/*.json")
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(dir, m)
	}
	return matches, nil
}
