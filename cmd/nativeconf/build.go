package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nativeconf "github.com/contriboss/native-configure-go"
)

func newBuildCommand() *cobra.Command {
	var (
		outputDir string
		destDir   string
		clean     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Configure and build the extension shared library",
		Long: `Build runs the full pipeline: assemble the extension specification, then
compile every source and link the shared library.

Unlike the probe, build failures are fatal. Pass --dest to install the
artifact after a successful link.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := nativeconf.BuildOptions{
				OutputDir: outputDir,
				DestDir:   destDir,
				Verbose:   verbose,
			}

			if clean {
				if err := nativeconf.Clean(opts); err != nil {
					return err
				}
			}

			configurator, err := loadConfigurator()
			if err != nil {
				return err
			}

			if err := nativeconf.CheckTools(configurator.Platform); err != nil {
				return err
			}

			spec, err := configurator.Assemble(cmd.Context())
			if err != nil {
				return err
			}
			reportProbeOutcome(spec)

			artifact, err := nativeconf.BuildExtension(spec, configurator.Platform, opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "{\n  \"artifact\": %q\n}\n", artifact)
				return nil
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Built %s\n", artifact)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for objects and the linked artifact (default \"build\")")
	cmd.Flags().StringVar(&destDir, "dest", "", "Install the built artifact into this directory")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory before building")
	return cmd
}
