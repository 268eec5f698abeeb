package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nativeconf "github.com/contriboss/native-configure-go"
)

func newProbeCommand() *cobra.Command {
	var keepScratch bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the OpenMP capability probe alone",
		Long: `Probe compiles and links the minimal OpenMP test program with the
platform's candidate feature flags and reports the outcome.

The exit code is 0 whether or not the capability is present; absence of
OpenMP is an expected outcome, not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			platform := nativeconf.DetectPlatform()
			overrides := nativeconf.OverridesFromEnv()

			result := runStandaloneProbe(cmd, platform, overrides, keepScratch)

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if result.Supported {
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "OpenMP: supported")
			} else {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "OpenMP: not supported")
				verboseLog("%s", result.Diagnostic)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "Keep the probe scratch directory for inspection")
	return cmd
}

// runStandaloneProbe mirrors the assembler's probe step without touching the
// project manifest: candidate flags plus resolved include/library dirs, in a
// fresh scratch directory.
func runStandaloneProbe(cmd *cobra.Command, platform nativeconf.Platform, overrides nativeconf.PathOverrides, keepScratch bool) nativeconf.ProbeResult {
	if !platform.SupportsOpenMP() {
		return nativeconf.ProbeResult{
			Diagnostic: fmt.Sprintf("platform %s has no OpenMP flag mapping", platform),
		}
	}

	flags := nativeconf.OpenMPFlags(platform)
	includeDir, libraryDir := nativeconf.ResolveOpenMPDirs(platform, overrides)
	if includeDir != "" {
		flags.Compile = append(flags.Compile, nativeconf.IncludeArgs(platform, []string{includeDir})...)
	}
	if libraryDir != "" {
		flags.Link = append(flags.Link, nativeconf.LibraryArgs(platform, []string{libraryDir})...)
	}

	scratch, err := os.MkdirTemp("", "nativeconf-probe-")
	if err != nil {
		return nativeconf.ProbeResult{Diagnostic: fmt.Sprintf("creating scratch dir: %v", err)}
	}
	if keepScratch {
		verboseLog("probe scratch dir: %s", scratch)
	} else {
		defer func() { _ = os.RemoveAll(scratch) }()
	}

	return nativeconf.NewOpenMPProber(platform).Probe(cmd.Context(), flags, scratch)
}
