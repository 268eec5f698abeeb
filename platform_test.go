package nativeconf

import (
	"reflect"
	"strings"
	"testing"
)

// stubFileExists replaces the filesystem check for the duration of a test.
func stubFileExists(t *testing.T, existing map[string]bool) {
	t.Helper()
	orig := fileExists
	fileExists = func(path string) bool { return existing[path] }
	t.Cleanup(func() { fileExists = orig })
}

func TestParsePlatform(t *testing.T) {
	testCases := []struct {
		input    string
		expected Platform
		wantErr  bool
	}{
		{"windows", PlatformWindows, false},
		{"darwin", PlatformDarwin, false},
		{"linux", PlatformLinux, false},
		{"other", PlatformOther, false},
		{"LINUX", PlatformLinux, false},
		{"Darwin", PlatformDarwin, false},
		{"freebsd", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			p, err := ParsePlatform(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParsePlatform(%q) expected error, got %v", tc.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlatform(%q) failed: %v", tc.input, err)
			}
			if p != tc.expected {
				t.Errorf("ParsePlatform(%q) = %v, expected %v", tc.input, p, tc.expected)
			}
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	p := DetectPlatform()
	if !p.IsValid() {
		t.Errorf("DetectPlatform returned invalid platform %q", p)
	}
}

func TestSupportsOpenMP(t *testing.T) {
	testCases := []struct {
		platform Platform
		expected bool
	}{
		{PlatformWindows, true},
		{PlatformDarwin, true},
		{PlatformLinux, true},
		{PlatformOther, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.platform), func(t *testing.T) {
			if got := tc.platform.SupportsOpenMP(); got != tc.expected {
				t.Errorf("%s.SupportsOpenMP() = %v, expected %v", tc.platform, got, tc.expected)
			}
		})
	}
}

func TestBaseFlags(t *testing.T) {
	testCases := []struct {
		platform        Platform
		expectedCompile []string
	}{
		{
			platform: PlatformWindows,
			expectedCompile: []string{
				"/std:c++17",
				`/DVERSION_INFO=\"1.2.3\"`,
			},
		},
		{
			platform: PlatformLinux,
			expectedCompile: []string{
				"-std=c++17",
				`-DVERSION_INFO="1.2.3"`,
				"-fvisibility=hidden",
			},
		},
		{
			platform: PlatformDarwin,
			expectedCompile: []string{
				"-std=c++17",
				`-DVERSION_INFO="1.2.3"`,
				"-fvisibility=hidden",
			},
		},
		{
			platform: PlatformOther,
			expectedCompile: []string{
				"-std=c++17",
				`-DVERSION_INFO="1.2.3"`,
				"-fvisibility=hidden",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.platform), func(t *testing.T) {
			flags := BaseFlags(tc.platform, "1.2.3")
			if !reflect.DeepEqual(flags.Compile, tc.expectedCompile) {
				t.Errorf("BaseFlags(%s) compile = %v, expected %v",
					tc.platform, flags.Compile, tc.expectedCompile)
			}
			if len(flags.Link) != 0 {
				t.Errorf("BaseFlags(%s) should have no link flags, got %v", tc.platform, flags.Link)
			}
		})
	}
}

func TestOpenMPFlags(t *testing.T) {
	testCases := []struct {
		platform Platform
		expected FlagSet
	}{
		{
			platform: PlatformWindows,
			expected: FlagSet{Compile: []string{"/openmp"}},
		},
		{
			platform: PlatformDarwin,
			expected: FlagSet{
				Compile: []string{"-Xpreprocessor", "-fopenmp"},
				Link:    []string{"-lomp"},
			},
		},
		{
			platform: PlatformLinux,
			expected: FlagSet{
				Compile: []string{"-fopenmp"},
				Link:    []string{"-fopenmp"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.platform), func(t *testing.T) {
			flags := OpenMPFlags(tc.platform)
			if !reflect.DeepEqual(flags.Compile, tc.expected.Compile) {
				t.Errorf("OpenMPFlags(%s) compile = %v, expected %v",
					tc.platform, flags.Compile, tc.expected.Compile)
			}
			if !reflect.DeepEqual(flags.Link, tc.expected.Link) {
				t.Errorf("OpenMPFlags(%s) link = %v, expected %v",
					tc.platform, flags.Link, tc.expected.Link)
			}
		})
	}

	if !OpenMPFlags(PlatformOther).IsEmpty() {
		t.Error("PlatformOther should have no OpenMP flags")
	}
}

func TestOpenMPFlagsReturnsCopy(t *testing.T) {
	flags := OpenMPFlags(PlatformLinux)
	flags.Compile = append(flags.Compile, "-extra")
	flags.Link = append(flags.Link, "-extra")

	fresh := OpenMPFlags(PlatformLinux)
	if len(fresh.Compile) != 1 || len(fresh.Link) != 1 {
		t.Errorf("Mutating a returned FlagSet leaked into the table: %v", fresh)
	}
}

func TestResolveOpenMPDirs(t *testing.T) {
	const (
		brewInclude = "/opt/homebrew/opt/libomp/include"
		brewLib     = "/opt/homebrew/opt/libomp/lib"
	)

	testCases := []struct {
		name        string
		platform    Platform
		overrides   PathOverrides
		existing    map[string]bool
		wantInclude string
		wantLibrary string
	}{
		{
			name:        "override always wins",
			platform:    PlatformDarwin,
			overrides:   PathOverrides{IncludeDir: "/custom/include", LibraryDir: "/custom/lib"},
			existing:    map[string]bool{brewInclude: true, brewLib: true},
			wantInclude: "/custom/include",
			wantLibrary: "/custom/lib",
		},
		{
			name:        "darwin default used when present",
			platform:    PlatformDarwin,
			existing:    map[string]bool{brewInclude: true, brewLib: true},
			wantInclude: brewInclude,
			wantLibrary: brewLib,
		},
		{
			name:     "darwin default skipped when absent",
			platform: PlatformDarwin,
			existing: map[string]bool{},
		},
		{
			name:        "partial override keeps default for the rest",
			platform:    PlatformDarwin,
			overrides:   PathOverrides{IncludeDir: "/custom/include"},
			existing:    map[string]bool{brewInclude: true, brewLib: true},
			wantInclude: "/custom/include",
			wantLibrary: brewLib,
		},
		{
			name:     "linux has no defaults",
			platform: PlatformLinux,
			existing: map[string]bool{brewInclude: true, brewLib: true},
		},
		{
			name:        "override applies without defaults",
			platform:    PlatformLinux,
			overrides:   PathOverrides{IncludeDir: "/usr/local/include"},
			wantInclude: "/usr/local/include",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stubFileExists(t, tc.existing)

			includeDir, libraryDir := ResolveOpenMPDirs(tc.platform, tc.overrides)
			if includeDir != tc.wantInclude {
				t.Errorf("includeDir = %q, expected %q", includeDir, tc.wantInclude)
			}
			if libraryDir != tc.wantLibrary {
				t.Errorf("libraryDir = %q, expected %q", libraryDir, tc.wantLibrary)
			}
		})
	}
}

func TestIncludeArgs(t *testing.T) {
	dirs := []string{"/a/include", "/b/include"}

	gnu := IncludeArgs(PlatformLinux, dirs)
	if strings.Join(gnu, " ") != "-I /a/include -I /b/include" {
		t.Errorf("Unexpected GNU include args: %v", gnu)
	}

	msvc := IncludeArgs(PlatformWindows, dirs)
	if strings.Join(msvc, " ") != "/I /a/include /I /b/include" {
		t.Errorf("Unexpected MSVC include args: %v", msvc)
	}

	if args := IncludeArgs(PlatformLinux, nil); len(args) != 0 {
		t.Errorf("Expected no args for empty dirs, got %v", args)
	}
}

func TestLibraryArgs(t *testing.T) {
	dirs := []string{"/a/lib"}

	gnu := LibraryArgs(PlatformDarwin, dirs)
	if strings.Join(gnu, " ") != "-L /a/lib" {
		t.Errorf("Unexpected GNU library args: %v", gnu)
	}

	msvc := LibraryArgs(PlatformWindows, dirs)
	if len(msvc) != 1 || msvc[0] != "/LIBPATH:/a/lib" {
		t.Errorf("Unexpected MSVC library args: %v", msvc)
	}
}

func TestFlagSetAppend(t *testing.T) {
	base := FlagSet{Compile: []string{"-std=c++17"}, Link: []string{"-lm"}}
	extra := FlagSet{Compile: []string{"-fopenmp"}, Link: []string{"-fopenmp"}}

	merged := base.Append(extra)

	if !reflect.DeepEqual(merged.Compile, []string{"-std=c++17", "-fopenmp"}) {
		t.Errorf("Unexpected merged compile flags: %v", merged.Compile)
	}
	if !reflect.DeepEqual(merged.Link, []string{"-lm", "-fopenmp"}) {
		t.Errorf("Unexpected merged link flags: %v", merged.Link)
	}

	// Operands stay untouched.
	if len(base.Compile) != 1 || len(extra.Compile) != 1 {
		t.Error("Append modified an operand")
	}
}
