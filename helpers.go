package nativeconf

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// MatchesExtension checks if a filename has any of the given extensions.
//
// This is a case-insensitive check. Extensions may be given with or without
// the leading dot.
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// BuildError creates a standardized toolchain error with output context.
//
// step names the failing stage (e.g. "Compile", "Link"), output holds the
// captured tool output, and err is the underlying error (may be nil).
func BuildError(step string, output []string, err error) error {
	outputStr := strings.TrimSpace(strings.Join(output, "\n"))

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s failed: %v", step, err)
	} else {
		prefix = fmt.Sprintf("%s failed", step)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nTool output:\n%s", prefix, outputStr)
	}

	return fmt.Errorf("%s", prefix)
}

// uniquePaths removes duplicate paths while preserving order. Comparison is
// case-insensitive on hosts with case-insensitive filesystems.
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var result []string
	for _, p := range paths {
		clean := filepath.Clean(p)
		key := clean
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			key = strings.ToLower(clean)
		}
		if !seen[key] {
			seen[key] = true
			result = append(result, clean)
		}
	}
	return result
}
