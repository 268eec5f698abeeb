// Command nativeconf is the build front end for the nativeconf configurator.
//
// It loads the project manifest, assembles the extension specification and
// either prints it (configure), runs the capability probe alone (probe),
// drives the actual compile/link (build) or reports toolchain availability
// (tools).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nativeconf "github.com/contriboss/native-configure-go"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flag variables, bound to persistent flags on the root command and
// therefore available to every subcommand.
var (
	jsonOutput  bool
	verbose     bool
	projectRoot string
	configPath  string
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nativeconf",
		Short: "Capability-probing build configurator for native extensions",
		Long: `nativeconf discovers the compilable sources of a native-extension module,
resolves per-platform compiler and linker flags, probes the active toolchain
for OpenMP support, and produces a ready-to-compile extension specification.

A failed OpenMP probe is not an error: the build degrades to a valid,
single-threaded extension and only informational output is shown.`,

		// Errors are formatted by Execute, not by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: version,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "root", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Project manifest path (default: nativeconf.{yml,yaml,json,jsonc} in the project root)")

	rootCmd.AddCommand(newConfigureCommand())
	rootCmd.AddCommand(newProbeCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newToolsCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigurator builds a Configurator from the manifest and environment.
// This is the single place where the process environment is consumed.
func loadConfigurator() (*nativeconf.Configurator, error) {
	path := configPath
	if path == "" {
		found, err := nativeconf.FindProjectConfig(projectRoot)
		if err != nil {
			return nil, err
		}
		path = found
	}

	project, err := nativeconf.LoadProjectConfig(path)
	if err != nil {
		return nil, err
	}

	opts := project.Options(projectRoot, nativeconf.OverridesFromEnv())
	return nativeconf.NewConfigurator(opts), nil
}

// infoLog prints an informational note to stderr; probe failures and other
// expected degradations go through here, never through the error path.
func infoLog(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
}

// verboseLog prints to stderr only when --verbose is set.
func verboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
