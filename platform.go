package nativeconf

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Platform identifies the host operating system for flag-resolution purposes.
// It is a closed enumeration: every platform the configurator distinguishes
// has a row in the flag table, and anything else maps to PlatformOther.
type Platform string

const (
	// PlatformWindows uses MSVC flag spellings (/std:, /openmp, /D...).
	PlatformWindows Platform = "windows"

	// PlatformDarwin uses clang with Apple's OpenMP quirks: the parallelism
	// flag must pass through the preprocessor driver and the libomp runtime
	// is linked explicitly.
	PlatformDarwin Platform = "darwin"

	// PlatformLinux uses the GNU spellings; -fopenmp covers both steps.
	PlatformLinux Platform = "linux"

	// PlatformOther is any unrecognized host. It gets the base
	// language-standard flag only and OpenMP is treated as unsupported.
	PlatformOther Platform = "other"
)

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid checks whether the Platform value is one of the recognized hosts.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformWindows, PlatformDarwin, PlatformLinux, PlatformOther:
		return true
	default:
		return false
	}
}

// SupportsOpenMP reports whether the platform has candidate OpenMP flags at
// all. On platforms without a row in the feature table the probe is skipped
// outright: a toolchain that silently ignores unknown flags would otherwise
// make the probe false-positive.
func (p Platform) SupportsOpenMP() bool {
	return !flagTable[p].omp.IsEmpty()
}

// ParsePlatform converts a string to a Platform.
// Returns an error if the string does not match any recognized platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(s))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid platform: %q (valid: windows, darwin, linux, other)", s)
	}
	return p, nil
}

// DetectPlatform derives the Platform from the host environment. It is
// computed once at configuration start and immutable for the run.
func DetectPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformDarwin
	case "linux":
		return PlatformLinux
	default:
		return PlatformOther
	}
}

// platformFlags is one row of the flag table: the language-standard compile
// flag, the candidate OpenMP FlagSet, and the well-known default OpenMP
// install prefix (empty when the platform has none).
type platformFlags struct {
	std               string
	omp               FlagSet
	defaultIncludeDir string
	defaultLibraryDir string
}

// flagTable maps each platform to its concrete flags. Values follow the
// toolchain-specific spellings for C++17 and OpenMP on each host. Adding or
// auditing a platform is a single edit here.
var flagTable = map[Platform]platformFlags{
	PlatformWindows: {
		std: "/std:c++17",
		// /openmp implies the link step, no link flag required.
		omp: FlagSet{Compile: []string{"/openmp"}},
	},
	PlatformDarwin: {
		std: "-std=c++17",
		omp: FlagSet{
			Compile: []string{"-Xpreprocessor", "-fopenmp"},
			Link:    []string{"-lomp"},
		},
		defaultIncludeDir: "/opt/homebrew/opt/libomp/include",
		defaultLibraryDir: "/opt/homebrew/opt/libomp/lib",
	},
	PlatformLinux: {
		std: "-std=c++17",
		omp: FlagSet{
			Compile: []string{"-fopenmp"},
			Link:    []string{"-fopenmp"},
		},
	},
	PlatformOther: {
		std: "-std=c++17",
	},
}

// fileExists is a seam for tests; the default checks the real filesystem.
var fileExists = func(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BaseFlags returns the platform's base FlagSet: the language-standard flag
// plus the visibility and version flags that are appended on every platform.
// It is a pure function of its inputs.
//
// The VERSION_INFO macro embeds the project version into the binary; its
// string literal needs platform-specific escaping. MSVC keeps symbols hidden
// by default, so the visibility restriction flag is only emitted for the
// GNU-flavored toolchains.
func BaseFlags(p Platform, version string) FlagSet {
	flags := FlagSet{Compile: []string{flagTable[p].std}}
	if p == PlatformWindows {
		flags.Compile = append(flags.Compile, fmt.Sprintf(`/DVERSION_INFO=\"%s\"`, version))
	} else {
		flags.Compile = append(flags.Compile,
			fmt.Sprintf(`-DVERSION_INFO="%s"`, version),
			"-fvisibility=hidden",
		)
	}
	return flags
}

// OpenMPFlags returns the platform's candidate OpenMP FlagSet. The returned
// set is a copy; callers may append to it freely. An empty set means the
// feature is unsupported on this platform.
func OpenMPFlags(p Platform) FlagSet {
	return FlagSet{}.Append(flagTable[p].omp)
}

// ResolveOpenMPDirs resolves the OpenMP include and library directories for
// the platform. An explicit override always wins; the platform default only
// applies when the override is absent AND the default path exists on disk.
// Either result may be empty, meaning no directory is added.
func ResolveOpenMPDirs(p Platform, overrides PathOverrides) (includeDir, libraryDir string) {
	row := flagTable[p]

	includeDir = overrides.IncludeDir
	if includeDir == "" && row.defaultIncludeDir != "" && fileExists(row.defaultIncludeDir) {
		includeDir = row.defaultIncludeDir
	}

	libraryDir = overrides.LibraryDir
	if libraryDir == "" && row.defaultLibraryDir != "" && fileExists(row.defaultLibraryDir) {
		libraryDir = row.defaultLibraryDir
	}

	return includeDir, libraryDir
}

// IncludeArgs spells the include-directory arguments for the platform's
// toolchain.
func IncludeArgs(p Platform, dirs []string) []string {
	var args []string
	for _, dir := range dirs {
		if p == PlatformWindows {
			args = append(args, "/I", dir)
		} else {
			args = append(args, "-I", dir)
		}
	}
	return args
}

// LibraryArgs spells the library-directory arguments for the platform's
// linker.
func LibraryArgs(p Platform, dirs []string) []string {
	var args []string
	for _, dir := range dirs {
		if p == PlatformWindows {
			args = append(args, "/LIBPATH:"+dir)
		} else {
			args = append(args, "-L", dir)
		}
	}
	return args
}
