package nativeconf

import "errors"

// ErrNoSources is returned by Configurator.Assemble when the project yields no
// compilable source files. There is no sensible extension to build without
// sources, so this aborts the configuration run.
var ErrNoSources = errors.New("no source files found")

// FlagSet is an ordered pair of compile-time and link-time flag sequences.
//
// Flag merging is append-only: flags are never removed or deduplicated across
// merges, so the order in which FlagSets are combined is the order the
// downstream compiler sees.
type FlagSet struct {
	Compile []string // Flags passed to the compile step, in order
	Link    []string // Flags passed to the link step, in order
}

// Append returns a new FlagSet with other's flags appended after f's.
// Neither operand is modified.
func (f FlagSet) Append(other FlagSet) FlagSet {
	merged := FlagSet{
		Compile: make([]string, 0, len(f.Compile)+len(other.Compile)),
		Link:    make([]string, 0, len(f.Link)+len(other.Link)),
	}
	merged.Compile = append(append(merged.Compile, f.Compile...), other.Compile...)
	merged.Link = append(append(merged.Link, f.Link...), other.Link...)
	return merged
}

// IsEmpty reports whether the FlagSet carries no flags at all.
func (f FlagSet) IsEmpty() bool {
	return len(f.Compile) == 0 && len(f.Link) == 0
}

// PathOverrides holds optional include and library directory overrides,
// normally sourced from the OPENMP_INCLUDE_DIR and OPENMP_LIBRARY_DIR
// environment variables by OverridesFromEnv.
//
// An empty string means "no override": the platform default is used instead,
// if one exists for the detected platform and is present on disk. A supplied
// override always wins over the platform default.
type PathOverrides struct {
	IncludeDir string // Override for the OpenMP header directory
	LibraryDir string // Override for the OpenMP runtime library directory
}

// ProbeResult is the outcome of a toolchain capability probe.
//
// A probe never fails the configuration run: absence of a capability is a
// normal, expected outcome, not a defect. Callers must inspect Supported;
// Diagnostic carries the captured compiler/linker output when the probe did
// not succeed, for informational display only.
type ProbeResult struct {
	Supported  bool   // True if the probe program compiled and linked
	Diagnostic string // Tool output explaining a failed probe, empty on success
}

// ConfigureOptions is the input configuration for a Configurator.
//
// It is normally produced from a project manifest via ProjectConfig.Options,
// with the override paths resolved once at the boundary (OverridesFromEnv).
// Resolution logic never reads the environment itself.
type ConfigureOptions struct {
	// Name is the extension module name, used for the built artifact.
	Name string

	// Version is the project version embedded via the VERSION_INFO macro.
	Version string

	// SourceDir is the root directory walked for compilable sources.
	SourceDir string

	// SourceSuffix is the recognized source file suffix. Defaults to ".cpp".
	SourceSuffix string

	// ExtraSources are additional source files compiled into the extension,
	// such as binding glue that lives outside SourceDir.
	ExtraSources []string

	// IncludeDirs are project include directories, in search order.
	IncludeDirs []string

	// DisableOpenMP skips the capability probe entirely and leaves the
	// OpenMP flags out of the spec. Probing is a convenience to avoid a
	// manual switch, never a requirement for a valid build.
	DisableOpenMP bool

	// Overrides are the optional OpenMP include/library directory overrides.
	Overrides PathOverrides

	// ScratchDir is where the probe writes its temporary files. When empty a
	// fresh directory is created under the system temp dir. Concurrent
	// probes must not share a scratch directory.
	ScratchDir string
}

// ExtensionSpec is the terminal artifact of a configuration run: a complete,
// ready-to-compile description of the extension handed to the build driver.
//
// A spec is immutable once returned by Assemble; the Configurator is its sole
// writer. Sources are deduplicated and sorted, include directories keep their
// resolution order (first match wins in the downstream compiler), and the
// flag lists keep their merge order.
type ExtensionSpec struct {
	// Name is the extension module name.
	Name string `json:"name"`

	// Version is the project version string.
	Version string `json:"version"`

	// Sources are the absolute paths of all files to compile.
	Sources []string `json:"sources"`

	// IncludeDirs are the include directories, in order.
	IncludeDirs []string `json:"includeDirs"`

	// LibraryDirs are the library search directories, in order.
	LibraryDirs []string `json:"libraryDirs,omitempty"`

	// CompileArgs are the ordered compile-time flags.
	CompileArgs []string `json:"compileArgs"`

	// LinkArgs are the ordered link-time flags.
	LinkArgs []string `json:"linkArgs"`

	// OpenMP reports whether the OpenMP flags were merged into the spec.
	OpenMP bool `json:"openmp"`

	// ProbeDiagnostic carries the probe's failure output when OpenMP was
	// requested but unavailable. Informational only.
	ProbeDiagnostic string `json:"probeDiagnostic,omitempty"`
}
