package nativeconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// openMPProbeSource is the minimal probe program: it opens a parallel region,
// touches the OpenMP runtime entry point and exits 0. If this compiles and
// links, the toolchain can build the real extension with OpenMP enabled.
const openMPProbeSource = `#include <omp.h>

int main() {
#pragma omp parallel
    {
        (void)omp_get_thread_num();
    }
    return 0;
}
`

// Prober runs a disposable compile-and-link trial to test a toolchain
// capability. The trial is not part of the final build output.
//
// Probe must never propagate a fatal error: any failure, from a missing
// compiler to a linker error, is reported as an unsupported ProbeResult.
// Repeated probes with identical flags and an unmodified toolchain yield
// identical results.
type Prober interface {
	Probe(ctx context.Context, flags FlagSet, scratchDir string) ProbeResult
}

// OpenMPProber probes the host toolchain for OpenMP support.
//
// The scratch directory passed to Probe is exclusively owned by the prober
// for the duration of the call; concurrent probes must use distinct scratch
// paths. Cleanup of the probe files is best-effort, leftover scratch files
// are harmless.
type OpenMPProber struct {
	// Toolchain to probe. When nil, the system toolchain for Platform is
	// resolved at probe time; failure to find one is an unsupported result,
	// not an error.
	Toolchain Toolchain

	// Platform selects the toolchain and object-file naming conventions.
	Platform Platform
}

// NewOpenMPProber returns a prober for the platform's system toolchain.
func NewOpenMPProber(p Platform) *OpenMPProber {
	return &OpenMPProber{Platform: p}
}

// Probe writes the probe program into scratchDir, compiles it with the given
// compile flags and links the result with the given link flags. It reports
// success only when both steps complete without error.
func (pr *OpenMPProber) Probe(ctx context.Context, flags FlagSet, scratchDir string) ProbeResult {
	toolchain := pr.Toolchain
	if toolchain == nil {
		resolved, err := NewSystemToolchain(pr.Platform)
		if err != nil {
			return ProbeResult{Diagnostic: err.Error()}
		}
		toolchain = resolved
	}

	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return ProbeResult{Diagnostic: fmt.Sprintf("creating probe scratch dir: %v", err)}
	}

	src := filepath.Join(scratchDir, "openmp_probe.cpp")
	obj := filepath.Join(scratchDir, "openmp_probe"+objSuffix(pr.Platform))
	exe := filepath.Join(scratchDir, "openmp_probe_exec"+exeSuffix(pr.Platform))

	if err := os.WriteFile(src, []byte(openMPProbeSource), 0o644); err != nil {
		return ProbeResult{Diagnostic: fmt.Sprintf("writing probe source: %v", err)}
	}

	// Best-effort cleanup; leftover files are tolerated.
	defer func() {
		for _, path := range []string{src, obj, exe} {
			_ = os.Remove(path)
		}
	}()

	if output, err := toolchain.Compile(ctx, src, obj, flags.Compile); err != nil {
		return ProbeResult{Diagnostic: probeDiagnostic("probe compile", output, err)}
	}

	if output, err := toolchain.Link(ctx, []string{obj}, exe, flags.Link); err != nil {
		return ProbeResult{Diagnostic: probeDiagnostic("probe link", output, err)}
	}

	return ProbeResult{Supported: true}
}

// probeDiagnostic condenses a failed probe step into a single human-readable
// message.
func probeDiagnostic(step string, output []string, err error) string {
	msg := fmt.Sprintf("%s failed: %v", step, err)
	if trimmed := strings.TrimSpace(strings.Join(output, "\n")); trimmed != "" {
		msg += "\n" + trimmed
	}
	return msg
}

// objSuffix returns the object-file suffix for the platform.
func objSuffix(p Platform) string {
	if p == PlatformWindows {
		return ".obj"
	}
	return ".o"
}

// exeSuffix returns the executable suffix for the platform.
func exeSuffix(p Platform) string {
	if p == PlatformWindows {
		return ".exe"
	}
	return ""
}
