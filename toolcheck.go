package nativeconf

import (
	"fmt"
	"strings"
)

// ToolRequirement describes an external tool the configurator depends on.
//
// A requirement is satisfied when the primary tool or any of its alternatives
// is found in PATH. Optional tools are checked but never cause an error.
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "g++").
	Name string

	// Alternatives are alternative tool names that can satisfy this
	// requirement. Example: []string{"clang++", "c++"}
	Alternatives []string

	// Optional indicates this tool won't cause an error if missing.
	Optional bool

	// Purpose is a human-readable description of why the tool is needed.
	Purpose string
}

// RequiredTools returns the tools a configuration run needs on the given
// platform. Only the compiler is required: it serves both the capability
// probe and the final build.
func RequiredTools(p Platform) []ToolRequirement {
	candidates := compilerCandidates(p)
	return []ToolRequirement{
		{
			Name:         candidates[0],
			Alternatives: candidates[1:],
			Purpose:      "C++ compiler for native extensions",
		},
	}
}

// CheckTools verifies that the platform's required tools are available.
//
// This can be called before Assemble to fail fast with a clear message.
// Note that the capability probe deliberately does NOT require this check to
// pass: a missing toolchain surfaces as a negative probe result, not an
// error, because configuration without the optional feature is still valid.
func CheckTools(p Platform) error {
	return CheckRequiredTools(RequiredTools(p))
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	_, err := execLookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// Each requirement's primary name is checked first, then its alternatives in
// order. All missing required tools are reported in a single error.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found && len(req.Alternatives) > 0 {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
