package nativeconf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultSourceSuffix is the source suffix used when a project does not
// declare one.
const DefaultSourceSuffix = ".cpp"

// CollectSources walks root recursively and returns the absolute paths of all
// regular files whose name ends in suffix. Every matching file appears
// exactly once; the result is sorted so repeated runs against an unchanged
// tree are byte-identical.
//
// The walk is fatal when root does not exist or is not readable: a project
// with an inaccessible source tree cannot be configured.
func CollectSources(root, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = DefaultSourceSuffix
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s: not a directory", root)
	}

	var sources []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walking %s: %w", path, walkErr)
		}
		if d.IsDir() {
			return nil
		}
		if !MatchesExtension(d.Name(), suffix) {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return fmt.Errorf("resolving %s: %w", path, absErr)
		}
		sources = append(sources, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sources = uniquePaths(sources)
	sort.Strings(sources)
	return sources, nil
}
