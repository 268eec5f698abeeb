package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	nativeconf "github.com/contriboss/native-configure-go"
)

func newConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Assemble and print the extension specification",
		Long: `Configure collects the project sources, resolves platform flags, probes
the toolchain for OpenMP support and prints the resulting specification.

The command fails only when the source root is unreadable or no sources are
found. An unavailable OpenMP toolchain is reported as an informational note
and the printed spec simply omits the feature flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configurator, err := loadConfigurator()
			if err != nil {
				return err
			}

			spec, err := configurator.Assemble(cmd.Context())
			if err != nil {
				return err
			}

			reportProbeOutcome(spec)

			if jsonOutput {
				data, err := json.MarshalIndent(spec, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatSpec(spec, configurator.Platform))
			return nil
		},
	}
}

// reportProbeOutcome surfaces a failed probe as information, not an error.
func reportProbeOutcome(spec *nativeconf.ExtensionSpec) {
	if spec.OpenMP || spec.ProbeDiagnostic == "" {
		return
	}
	infoLog("OpenMP support not detected; building without it")
	verboseLog("%s", spec.ProbeDiagnostic)
}

// formatSpec renders an ExtensionSpec for human consumption.
func formatSpec(spec *nativeconf.ExtensionSpec, platform nativeconf.Platform) string {
	var b strings.Builder

	fmt.Fprintf(&b, "name:     %s\n", spec.Name)
	fmt.Fprintf(&b, "version:  %s\n", spec.Version)
	fmt.Fprintf(&b, "platform: %s\n", platform)
	fmt.Fprintf(&b, "openmp:   %s\n", enabledWord(spec.OpenMP))

	fmt.Fprintf(&b, "sources (%d):\n", len(spec.Sources))
	for _, src := range spec.Sources {
		fmt.Fprintf(&b, "  %s\n", src)
	}

	if len(spec.IncludeDirs) > 0 {
		fmt.Fprintln(&b, "include dirs:")
		for _, dir := range spec.IncludeDirs {
			fmt.Fprintf(&b, "  %s\n", dir)
		}
	}
	if len(spec.LibraryDirs) > 0 {
		fmt.Fprintln(&b, "library dirs:")
		for _, dir := range spec.LibraryDirs {
			fmt.Fprintf(&b, "  %s\n", dir)
		}
	}

	fmt.Fprintf(&b, "compile args: %s\n", strings.Join(spec.CompileArgs, " "))
	fmt.Fprintf(&b, "link args:    %s\n", strings.Join(spec.LinkArgs, " "))

	return b.String()
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
