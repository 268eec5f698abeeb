package nativeconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// BuildOptions controls the build driver.
type BuildOptions struct {
	// OutputDir is where object files and the linked artifact are written.
	// Defaults to "build".
	OutputDir string

	// DestDir, when set, receives a copy of the built artifact.
	DestDir string

	// Verbose streams full compiler output instead of staying quiet on
	// success.
	Verbose bool
}

// SharedLibSuffix returns the shared-library suffix for the platform.
func SharedLibSuffix(p Platform) string {
	switch p {
	case PlatformWindows:
		return ".dll"
	case PlatformDarwin:
		return ".dylib"
	default:
		return ".so"
	}
}

// BuildExtension consumes an ExtensionSpec and drives the real build: each
// source is compiled to an object file, the objects are linked into a shared
// library named after the spec, and the artifact is optionally installed to
// opts.DestDir. Returns the path of the built artifact.
//
// This is the downstream side of the configurator seam. Unlike the probe it
// is fatal on any failure, and it streams tool output when verbose.
func BuildExtension(spec *ExtensionSpec, p Platform, opts BuildOptions) (string, error) {
	toolchain, err := NewSystemToolchain(p)
	if err != nil {
		return "", err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "build"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	run := sh.Run
	if opts.Verbose {
		run = sh.RunV
	}

	compileExtra := append(append([]string{}, spec.CompileArgs...), IncludeArgs(p, spec.IncludeDirs)...)

	objs := make([]string, 0, len(spec.Sources))
	seen := make(map[string]int)
	for _, src := range spec.Sources {
		obj := objectPath(outDir, src, p, seen)
		args := compileCommandArgs(toolchain, src, obj, compileExtra, p)
		if err := run(toolchain.Command(), args...); err != nil {
			return "", fmt.Errorf("compiling %s: %w", src, err)
		}
		objs = append(objs, obj)
	}

	artifact := filepath.Join(outDir, spec.Name+SharedLibSuffix(p))
	linkExtra := append(append([]string{}, spec.LinkArgs...), LibraryArgs(p, spec.LibraryDirs)...)
	args := linkCommandArgs(toolchain, objs, artifact, linkExtra)
	if err := run(toolchain.Command(), args...); err != nil {
		return "", fmt.Errorf("linking %s: %w", artifact, err)
	}

	if opts.DestDir != "" {
		if err := installArtifact(artifact, opts.DestDir); err != nil {
			return "", err
		}
	}

	return artifact, nil
}

// Clean removes the build output directory.
func Clean(opts BuildOptions) error {
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "build"
	}
	return sh.Rm(outDir)
}

// objectPath derives a deterministic object-file path for a source file.
// Basename collisions across directories get a numeric suffix; sources are
// sorted, so the mapping is stable across runs.
func objectPath(outDir, src string, p Platform, seen map[string]int) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	n := seen[base]
	seen[base] = n + 1
	if n > 0 {
		base = fmt.Sprintf("%s_%d", base, n)
	}
	return filepath.Join(outDir, base+objSuffix(p))
}

// compileCommandArgs spells the full compile invocation for the toolchain's
// dialect. GNU-family compiles get -fPIC, required for shared objects.
func compileCommandArgs(toolchain Toolchain, src, obj string, extra []string, p Platform) []string {
	if _, msvc := toolchain.(*MsvcToolchain); msvc {
		args := append([]string{"/nologo"}, extra...)
		return append(args, "/c", "/Fo:"+obj, src)
	}
	var args []string
	if p != PlatformWindows {
		args = append(args, "-fPIC")
	}
	args = append(args, extra...)
	return append(args, "-c", "-o", obj, src)
}

// linkCommandArgs spells the full shared-library link invocation.
func linkCommandArgs(toolchain Toolchain, objs []string, artifact string, extra []string) []string {
	if _, msvc := toolchain.(*MsvcToolchain); msvc {
		args := append([]string{"/nologo", "/LD", "/Fe:" + artifact}, objs...)
		if len(extra) > 0 {
			args = append(args, "/link")
			args = append(args, extra...)
		}
		return args
	}
	args := append([]string{"-shared", "-o", artifact}, objs...)
	return append(args, extra...)
}

// installArtifact copies the built artifact into destDir, creating it if
// needed.
func installArtifact(artifact, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating dest dir: %w", err)
	}

	dest := filepath.Join(destDir, filepath.Base(artifact))
	if err := copyFile(artifact, dest); err != nil {
		return fmt.Errorf("installing %s: %w", artifact, err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = destFile.ReadFrom(sourceFile)
	return err
}
