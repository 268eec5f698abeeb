package nativeconf

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// stubProber returns a scripted result and records every invocation.
type stubProber struct {
	result ProbeResult
	calls  int
	flags  FlagSet
}

func (s *stubProber) Probe(_ context.Context, flags FlagSet, _ string) ProbeResult {
	s.calls++
	s.flags = flags
	return s.result
}

func newTestConfigurator(t *testing.T, opts ConfigureOptions, platform Platform, prober Prober) *Configurator {
	t.Helper()
	if opts.SourceDir == "" {
		opts.SourceDir = writeSourceTree(t, []string{"core.cpp", "sub/impl.cpp"})
	}
	if opts.ScratchDir == "" {
		opts.ScratchDir = t.TempDir()
	}
	return &Configurator{
		Options:  opts,
		Platform: platform,
		Prober:   prober,
	}
}

func TestAssembleProbeSuccess(t *testing.T) {
	prober := &stubProber{result: ProbeResult{Supported: true}}
	c := newTestConfigurator(t, ConfigureOptions{
		Name:    "fastmath",
		Version: "2.1.0",
	}, PlatformLinux, prober)

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if !spec.OpenMP {
		t.Error("Expected OpenMP enabled after a successful probe")
	}
	if spec.ProbeDiagnostic != "" {
		t.Errorf("Expected no diagnostic, got %q", spec.ProbeDiagnostic)
	}
	if prober.calls != 1 {
		t.Errorf("Expected exactly 1 probe, got %d", prober.calls)
	}

	if n := countFlag(spec.CompileArgs, "-fopenmp"); n != 1 {
		t.Errorf("Expected -fopenmp exactly once in compile args, got %d: %v", n, spec.CompileArgs)
	}
	if n := countFlag(spec.LinkArgs, "-fopenmp"); n != 1 {
		t.Errorf("Expected -fopenmp exactly once in link args, got %d: %v", n, spec.LinkArgs)
	}

	// Base flags come before the feature flags.
	if spec.CompileArgs[0] != "-std=c++17" {
		t.Errorf("Expected language standard first, got %v", spec.CompileArgs)
	}
	if !containsFlag(spec.CompileArgs, `-DVERSION_INFO="2.1.0"`) {
		t.Errorf("Version macro missing from %v", spec.CompileArgs)
	}
}

func TestAssembleProbeFailure(t *testing.T) {
	prober := &stubProber{result: ProbeResult{Diagnostic: "probe compile failed: omp.h missing"}}
	c := newTestConfigurator(t, ConfigureOptions{Name: "fastmath"}, PlatformLinux, prober)

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("A failed probe must not fail the run: %v", err)
	}

	if spec.OpenMP {
		t.Error("Expected OpenMP disabled after a failed probe")
	}
	if spec.ProbeDiagnostic != "probe compile failed: omp.h missing" {
		t.Errorf("Diagnostic not carried into the spec: %q", spec.ProbeDiagnostic)
	}
	if containsFlag(spec.CompileArgs, "-fopenmp") {
		t.Errorf("Feature flags leaked into a failed-probe spec: %v", spec.CompileArgs)
	}
	if containsFlag(spec.LinkArgs, "-fopenmp") {
		t.Errorf("Feature flags leaked into link args: %v", spec.LinkArgs)
	}
	if len(spec.LibraryDirs) != 0 {
		t.Errorf("Library dirs must stay empty on a failed probe, got %v", spec.LibraryDirs)
	}
}

func TestAssembleDisabledOpenMP(t *testing.T) {
	prober := &stubProber{result: ProbeResult{Supported: true}}
	c := newTestConfigurator(t, ConfigureOptions{
		Name:          "fastmath",
		DisableOpenMP: true,
	}, PlatformLinux, prober)

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if prober.calls != 0 {
		t.Errorf("Probe must be skipped when disabled, got %d calls", prober.calls)
	}
	if spec.OpenMP {
		t.Error("Expected OpenMP disabled")
	}
	if spec.ProbeDiagnostic != "" {
		t.Errorf("Expected no diagnostic when skipped, got %q", spec.ProbeDiagnostic)
	}
}

func TestAssembleUnsupportedPlatformSkipsProbe(t *testing.T) {
	prober := &stubProber{result: ProbeResult{Supported: true}}
	c := newTestConfigurator(t, ConfigureOptions{Name: "fastmath"}, PlatformOther, prober)

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if prober.calls != 0 {
		t.Errorf("Probe must be skipped on a platform without feature flags, got %d calls", prober.calls)
	}
	if spec.OpenMP {
		t.Error("Expected OpenMP disabled on unsupported platform")
	}
}

func TestAssembleOverridesReachProbe(t *testing.T) {
	prober := &stubProber{result: ProbeResult{Supported: true}}
	c := newTestConfigurator(t, ConfigureOptions{
		Name: "fastmath",
		Overrides: PathOverrides{
			IncludeDir: "/custom/omp/include",
			LibraryDir: "/custom/omp/lib",
		},
	}, PlatformLinux, prober)

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	// The probe must see the same directories the final spec gets.
	if !containsFlag(prober.flags.Compile, "/custom/omp/include") {
		t.Errorf("Probe compile flags missing override include dir: %v", prober.flags.Compile)
	}
	if !containsFlag(prober.flags.Link, "/custom/omp/lib") {
		t.Errorf("Probe link flags missing override library dir: %v", prober.flags.Link)
	}

	if !containsFlag(spec.IncludeDirs, "/custom/omp/include") {
		t.Errorf("Spec include dirs missing override: %v", spec.IncludeDirs)
	}
	if !containsFlag(spec.LibraryDirs, "/custom/omp/lib") {
		t.Errorf("Spec library dirs missing override: %v", spec.LibraryDirs)
	}
}

func TestAssembleNoSources(t *testing.T) {
	c := newTestConfigurator(t, ConfigureOptions{
		SourceDir: t.TempDir(),
	}, PlatformLinux, &stubProber{})

	_, err := c.Assemble(context.Background())
	if err == nil {
		t.Fatal("Expected error for a project with no sources")
	}
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("Expected ErrNoSources, got %v", err)
	}
}

func TestAssembleExtraSources(t *testing.T) {
	root := writeSourceTree(t, []string{"core.cpp"})
	extraRoot := writeSourceTree(t, []string{"bindings.cpp"})
	extra := filepath.Join(extraRoot, "bindings.cpp")

	c := newTestConfigurator(t, ConfigureOptions{
		SourceDir:    root,
		ExtraSources: []string{extra},
	}, PlatformLinux, &stubProber{result: ProbeResult{Supported: true}})

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(spec.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %v", spec.Sources)
	}

	found := false
	for _, src := range spec.Sources {
		if strings.HasSuffix(src, "bindings.cpp") {
			found = true
		}
	}
	if !found {
		t.Errorf("Extra source missing from %v", spec.Sources)
	}
}

func TestAssembleExtraSourceMissing(t *testing.T) {
	c := newTestConfigurator(t, ConfigureOptions{
		ExtraSources: []string{filepath.Join(t.TempDir(), "gone.cpp")},
	}, PlatformLinux, &stubProber{})

	if _, err := c.Assemble(context.Background()); err == nil {
		t.Fatal("Expected error for a missing extra source")
	}
}

func TestAssembleDefaults(t *testing.T) {
	c := newTestConfigurator(t, ConfigureOptions{}, PlatformLinux,
		&stubProber{result: ProbeResult{Supported: true}})

	spec, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if spec.Name != "extension" {
		t.Errorf("Expected default name 'extension', got %q", spec.Name)
	}
	if spec.Version != "0.0.0" {
		t.Errorf("Expected default version '0.0.0', got %q", spec.Version)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	c := newTestConfigurator(t, ConfigureOptions{
		Name:    "fastmath",
		Version: "1.0.0",
	}, PlatformLinux, &stubProber{result: ProbeResult{Supported: true}})

	first, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Assemble(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func countFlag(args []string, flag string) int {
	n := 0
	for _, arg := range args {
		if arg == flag {
			n++
		}
	}
	return n
}

func containsFlag(args []string, flag string) bool {
	return countFlag(args, flag) > 0
}
