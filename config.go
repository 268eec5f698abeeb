package nativeconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables consumed at the configuration boundary. They are read
// exactly once, by OverridesFromEnv; resolution logic only ever sees the
// resulting PathOverrides.
const (
	// EnvOpenMPIncludeDir overrides the OpenMP header directory.
	EnvOpenMPIncludeDir = "OPENMP_INCLUDE_DIR"

	// EnvOpenMPLibraryDir overrides the OpenMP runtime library directory.
	EnvOpenMPLibraryDir = "OPENMP_LIBRARY_DIR"
)

// configFileNames are the manifest filenames probed by FindProjectConfig, in
// preference order.
var configFileNames = []string{
	"nativeconf.yml",
	"nativeconf.yaml",
	"nativeconf.json",
	"nativeconf.jsonc",
}

// ProjectConfig mirrors the project manifest file.
//
// The manifest may be YAML (nativeconf.yml) or JSON with comments
// (nativeconf.json/.jsonc). Paths are relative to the manifest's project
// root and are resolved by Options.
type ProjectConfig struct {
	// Name is the extension module name.
	Name string `yaml:"name" json:"name"`

	// Version is the project version embedded into the binary.
	Version string `yaml:"version" json:"version"`

	// SourceDir is the directory walked for sources. Defaults to "src".
	SourceDir string `yaml:"source_dir" json:"sourceDir"`

	// SourceSuffix is the recognized source suffix. Defaults to ".cpp".
	SourceSuffix string `yaml:"source_suffix" json:"sourceSuffix"`

	// ExtraSources are additional sources outside SourceDir, such as
	// binding glue.
	ExtraSources []string `yaml:"extra_sources" json:"extraSources"`

	// IncludeDirs are project include directories, in search order.
	IncludeDirs []string `yaml:"include_dirs" json:"includeDirs"`

	// DisableOpenMP turns the OpenMP probe off entirely.
	DisableOpenMP bool `yaml:"disable_openmp" json:"disableOpenmp"`
}

// LoadProjectConfig reads and parses a project manifest. The format is
// chosen by file extension: .yml/.yaml parse as YAML, .json/.jsonc parse as
// JSON after comment stripping.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config: %w", err)
	}

	config := &ProjectConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json", ".jsonc":
		// jsonc.ToJSON strips // and /* */ comments and trailing commas,
		// devcontainer-style, before standard JSON parsing.
		if err := json.Unmarshal(jsonc.ToJSON(data), config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported project config format: %s", path)
	}

	config.applyDefaults()
	return config, nil
}

// FindProjectConfig locates the project manifest in dir, trying the
// recognized filenames in order. Returns the path of the first one present.
func FindProjectConfig(dir string) (string, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no project config found in %s (tried %s)",
		dir, strings.Join(configFileNames, ", "))
}

// applyDefaults fills the manifest fields that may be omitted.
func (pc *ProjectConfig) applyDefaults() {
	if pc.Name == "" {
		pc.Name = "extension"
	}
	if pc.Version == "" {
		pc.Version = "0.0.0"
	}
	if pc.SourceDir == "" {
		pc.SourceDir = "src"
	}
	if pc.SourceSuffix == "" {
		pc.SourceSuffix = DefaultSourceSuffix
	}
}

// Options converts the manifest into ConfigureOptions, resolving all relative
// paths against root and attaching the already-resolved overrides. This is
// the single point where manifest, project root and environment meet.
func (pc *ProjectConfig) Options(root string, overrides PathOverrides) ConfigureOptions {
	opts := ConfigureOptions{
		Name:          pc.Name,
		Version:       pc.Version,
		SourceDir:     resolveAgainst(root, pc.SourceDir),
		SourceSuffix:  pc.SourceSuffix,
		DisableOpenMP: pc.DisableOpenMP,
		Overrides:     overrides,
	}
	for _, src := range pc.ExtraSources {
		opts.ExtraSources = append(opts.ExtraSources, resolveAgainst(root, src))
	}
	for _, dir := range pc.IncludeDirs {
		opts.IncludeDirs = append(opts.IncludeDirs, resolveAgainst(root, dir))
	}
	return opts
}

// OverridesFromEnv reads the override environment variables once. Unset
// variables leave the corresponding override absent.
func OverridesFromEnv() PathOverrides {
	return PathOverrides{
		IncludeDir: os.Getenv(EnvOpenMPIncludeDir),
		LibraryDir: os.Getenv(EnvOpenMPLibraryDir),
	}
}

// resolveAgainst joins a possibly-relative path onto root.
func resolveAgainst(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
