// Package nativeconf configures the compilation of native-extension modules.
//
// It is the Go equivalent of a hand-rolled setup script: it discovers the
// compilable sources of an extension, resolves the per-platform compiler and
// linker flags, probes the active toolchain for optional OpenMP support, and
// produces a ready-to-compile ExtensionSpec for a build driver.
//
// # Pipeline
//
// A configuration run has four stages, executed strictly in order:
//
//	CollectSources  -> compilable source paths under the project source dir
//	BaseFlags       -> language-standard, visibility and version flags
//	Probe           -> trial compile-and-link of a minimal OpenMP program
//	Assemble        -> merge flags conditionally on probe success
//
// # Basic Usage
//
// Load the project manifest and assemble an extension spec:
//
//	project, err := nativeconf.LoadProjectConfig("nativeconf.yml")
//	if err != nil {
//	    return err
//	}
//
//	opts := project.Options(".", nativeconf.OverridesFromEnv())
//	spec, err := nativeconf.NewConfigurator(opts).Assemble(ctx)
//	if err != nil {
//	    return err
//	}
//
// The returned spec can be handed to any compiler driver, or built directly:
//
//	artifact, err := nativeconf.BuildExtension(spec, nativeconf.DetectPlatform(), nativeconf.BuildOptions{})
//
// # Capability Probing
//
// OpenMP support is detected, never assumed: a minimal program that opens a
// parallel region is written to a scratch directory and compiled and linked
// with the candidate feature flags. Absence of the capability is an expected
// outcome, so the probe reports a ProbeResult instead of returning an error,
// and a failed probe only means the feature flags are omitted from the final
// spec. Disabling OpenMP in the manifest skips probing entirely.
//
// # Error Tiers
//
// Only two conditions are fatal to a run: an unreadable source root and a
// project with no source files (ErrNoSources). Everything the probe can hit
// (missing compiler, missing omp.h, missing runtime library) degrades to a
// valid spec without the feature flags.
//
// # Platform Support
//
// Linux, macOS and Windows have concrete flag tables; any other platform gets
// the base language-standard flags only and OpenMP is treated as unsupported.
package nativeconf
