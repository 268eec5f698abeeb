package nativeconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Configurator orchestrates a configuration run: it collects sources,
// resolves the platform flags, probes for OpenMP support and assembles the
// final ExtensionSpec.
//
// Each run is independent; nothing is cached across runs. The run is
// single-threaded and synchronous because the probe result gates the flag
// merge. The only blocking boundary is the probe's external toolchain
// invocation, bounded by the tool's own completion; wrap ctx with a deadline
// to impose a timeout.
type Configurator struct {
	// Options is the input configuration for the run.
	Options ConfigureOptions

	// Platform is the flag-resolution target, detected once at construction.
	Platform Platform

	// Prober tests OpenMP support. When nil, an OpenMPProber over the
	// system toolchain is used. Overridable for tests.
	Prober Prober
}

// NewConfigurator creates a Configurator for the host platform.
func NewConfigurator(opts ConfigureOptions) *Configurator {
	return &Configurator{
		Options:  opts,
		Platform: DetectPlatform(),
	}
}

// Assemble produces the final ExtensionSpec.
//
// Fatal outcomes are limited to an unreadable source root and a project with
// no sources (ErrNoSources). A failed or skipped probe degrades gracefully:
// the spec is still valid, just without the OpenMP flags, and the probe's
// diagnostic is carried in the spec for informational display.
func (c *Configurator) Assemble(ctx context.Context) (*ExtensionSpec, error) {
	opts := c.Options

	sources, err := c.gatherSources()
	if err != nil {
		return nil, err
	}

	spec := &ExtensionSpec{
		Name:        opts.Name,
		Version:     opts.Version,
		Sources:     sources,
		IncludeDirs: append([]string{}, opts.IncludeDirs...),
	}
	if spec.Name == "" {
		spec.Name = "extension"
	}
	if spec.Version == "" {
		spec.Version = "0.0.0"
	}

	flags := BaseFlags(c.Platform, spec.Version)

	if !opts.DisableOpenMP && c.Platform.SupportsOpenMP() {
		candidate := OpenMPFlags(c.Platform)
		includeDir, libraryDir := ResolveOpenMPDirs(c.Platform, opts.Overrides)

		result := c.runProbe(ctx, candidate, includeDir, libraryDir)
		if result.Supported {
			flags = flags.Append(candidate)
			spec.OpenMP = true
			if includeDir != "" {
				spec.IncludeDirs = append(spec.IncludeDirs, includeDir)
			}
			if libraryDir != "" {
				spec.LibraryDirs = append(spec.LibraryDirs, libraryDir)
			}
		} else {
			spec.ProbeDiagnostic = result.Diagnostic
		}
	}

	spec.CompileArgs = flags.Compile
	spec.LinkArgs = flags.Link
	return spec, nil
}

// gatherSources collects the source set: the recursive walk of SourceDir plus
// any extra sources, deduplicated and sorted. An empty result is fatal.
func (c *Configurator) gatherSources() ([]string, error) {
	opts := c.Options

	sources, err := CollectSources(opts.SourceDir, opts.SourceSuffix)
	if err != nil {
		return nil, err
	}

	for _, extra := range opts.ExtraSources {
		abs, absErr := filepath.Abs(extra)
		if absErr != nil {
			return nil, fmt.Errorf("resolving extra source %s: %w", extra, absErr)
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			return nil, fmt.Errorf("extra source: %w", statErr)
		}
		sources = append(sources, abs)
	}

	sources = uniquePaths(sources)
	sort.Strings(sources)

	if len(sources) == 0 {
		return nil, fmt.Errorf("%s: %w", opts.SourceDir, ErrNoSources)
	}
	return sources, nil
}

// runProbe executes the capability probe with the candidate flags plus the
// resolved include/library directories, in a disposable scratch area.
func (c *Configurator) runProbe(ctx context.Context, candidate FlagSet, includeDir, libraryDir string) ProbeResult {
	probeFlags := candidate
	if includeDir != "" {
		probeFlags = probeFlags.Append(FlagSet{Compile: IncludeArgs(c.Platform, []string{includeDir})})
	}
	if libraryDir != "" {
		probeFlags = probeFlags.Append(FlagSet{Link: LibraryArgs(c.Platform, []string{libraryDir})})
	}

	scratch := c.Options.ScratchDir
	if scratch == "" {
		tmp, err := os.MkdirTemp("", "nativeconf-probe-")
		if err != nil {
			return ProbeResult{Diagnostic: fmt.Sprintf("creating probe scratch dir: %v", err)}
		}
		scratch = tmp
		defer func() { _ = os.RemoveAll(tmp) }()
	}

	prober := c.Prober
	if prober == nil {
		prober = NewOpenMPProber(c.Platform)
	}
	return prober.Probe(ctx, probeFlags, scratch)
}
