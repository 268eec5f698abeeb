package nativeconf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// execLookPath is a seam for tests; the default resolves against PATH.
var execLookPath = exec.LookPath

// Toolchain is the seam to the external compiler/linker: a "compile source to
// object" operation and a "link objects to executable" operation, each
// accepting a flag list and returning the captured tool output.
//
// Both the capability probe and the build driver go through this interface,
// so a stub Toolchain is enough to test either without a real compiler.
//
// Implementations should be stateless and safe for concurrent use.
type Toolchain interface {
	// Name returns the human-readable toolchain name, used in messages.
	Name() string

	// Command returns the compiler binary this toolchain invokes.
	Command() string

	// Compile compiles a single source file to an object file with the given
	// extra arguments, returning the captured tool output lines.
	Compile(ctx context.Context, src, obj string, args []string) ([]string, error)

	// Link links object files into an output binary with the given extra
	// arguments, returning the captured tool output lines.
	Link(ctx context.Context, objs []string, out string, args []string) ([]string, error)
}

// GnuToolchain drives a GCC-compatible compiler (g++, clang++, c++ and
// friends). The same spellings work for Apple clang and MinGW.
type GnuToolchain struct {
	Compiler string // Compiler binary, e.g. "g++" or an absolute path
}

// Name returns the toolchain name.
func (t *GnuToolchain) Name() string {
	return "GNU"
}

// Command returns the compiler binary.
func (t *GnuToolchain) Command() string {
	return t.Compiler
}

// Compile runs `compiler <args> -c -o obj src`.
func (t *GnuToolchain) Compile(ctx context.Context, src, obj string, args []string) ([]string, error) {
	full := append(append([]string{}, args...), "-c", "-o", obj, src)
	return runTool(ctx, t.Compiler, full)
}

// Link runs `compiler -o out <objs> <args>`.
func (t *GnuToolchain) Link(ctx context.Context, objs []string, out string, args []string) ([]string, error) {
	full := append([]string{"-o", out}, objs...)
	full = append(full, args...)
	return runTool(ctx, t.Compiler, full)
}

// MsvcToolchain drives the Visual Studio compiler. Flag spellings differ from
// the GNU family (/c, /Fo:, /Fe:, /link), so it gets its own implementation.
type MsvcToolchain struct {
	Compiler string // Compiler binary, normally "cl"
}

// Name returns the toolchain name.
func (t *MsvcToolchain) Name() string {
	return "MSVC"
}

// Command returns the compiler binary.
func (t *MsvcToolchain) Command() string {
	return t.Compiler
}

// Compile runs `cl /nologo <args> /c /Fo:obj src`.
func (t *MsvcToolchain) Compile(ctx context.Context, src, obj string, args []string) ([]string, error) {
	full := append([]string{"/nologo"}, args...)
	full = append(full, "/c", "/Fo:"+obj, src)
	return runTool(ctx, t.Compiler, full)
}

// Link runs `cl /nologo /Fe:out <objs> /link <args>`. The /link separator is
// only emitted when there are linker arguments to pass.
func (t *MsvcToolchain) Link(ctx context.Context, objs []string, out string, args []string) ([]string, error) {
	full := append([]string{"/nologo", "/Fe:" + out}, objs...)
	if len(args) > 0 {
		full = append(full, "/link")
		full = append(full, args...)
	}
	return runTool(ctx, t.Compiler, full)
}

// runTool executes a toolchain command and captures its combined output.
func runTool(ctx context.Context, command string, args []string) ([]string, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	output, err := cmd.CombinedOutput()
	lines := strings.Split(string(output), "\n")
	if err != nil {
		return lines, fmt.Errorf("%s %s: %w", command, strings.Join(args, " "), err)
	}
	return lines, nil
}

// compilerCandidates returns the compiler binaries tried for a platform, in
// preference order.
func compilerCandidates(p Platform) []string {
	if p == PlatformWindows {
		return []string{"cl", "g++", "clang++"}
	}
	return []string{"g++", "clang++", "c++"}
}

// NewSystemToolchain returns a Toolchain for the first available compiler on
// the platform. The CXX environment variable overrides discovery, matching
// the usual build-tool convention.
//
// Returns an error when no compiler is found; callers that treat a missing
// toolchain as recoverable (the capability probe) convert it to a negative
// result instead of propagating it.
func NewSystemToolchain(p Platform) (Toolchain, error) {
	if cxx := os.Getenv("CXX"); cxx != "" {
		if path, err := execLookPath(cxx); err == nil {
			return toolchainFor(path), nil
		}
		return nil, fmt.Errorf("compiler %q from CXX not found in PATH", cxx)
	}

	for _, candidate := range compilerCandidates(p) {
		if path, err := execLookPath(candidate); err == nil {
			return toolchainFor(path), nil
		}
	}

	return nil, fmt.Errorf("no C++ compiler found in PATH (tried %s)",
		strings.Join(compilerCandidates(p), ", "))
}

// toolchainFor picks the implementation matching the compiler's flag dialect.
func toolchainFor(compiler string) Toolchain {
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(compiler)), ".exe")
	if base == "cl" {
		return &MsvcToolchain{Compiler: compiler}
	}
	return &GnuToolchain{Compiler: compiler}
}
