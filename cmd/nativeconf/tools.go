package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nativeconf "github.com/contriboss/native-configure-go"
)

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Report toolchain availability",
		Long: `Tools lists the external tools a configuration run depends on and whether
each is present in PATH. The command exits non-zero when a required tool is
missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			platform := nativeconf.DetectPlatform()
			requirements := nativeconf.RequiredTools(platform)

			if jsonOutput {
				return printToolsJSON(cmd, requirements)
			}

			for _, req := range requirements {
				names := append([]string{req.Name}, req.Alternatives...)
				found := firstAvailable(names)

				if found != "" {
					color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "ok      %s", found)
				} else {
					color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "missing %s", strings.Join(names, ", "))
				}
				if req.Purpose != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  (%s)", req.Purpose)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			return nativeconf.CheckRequiredTools(requirements)
		},
	}
}

// firstAvailable returns the first name found in PATH, or "".
func firstAvailable(names []string) string {
	for _, name := range names {
		if nativeconf.CheckToolAvailable(name) == nil {
			return name
		}
	}
	return ""
}

type toolStatus struct {
	Name         string   `json:"name"`
	Alternatives []string `json:"alternatives,omitempty"`
	Purpose      string   `json:"purpose,omitempty"`
	Optional     bool     `json:"optional"`
	Found        string   `json:"found,omitempty"`
	Available    bool     `json:"available"`
}

func printToolsJSON(cmd *cobra.Command, requirements []nativeconf.ToolRequirement) error {
	statuses := make([]toolStatus, 0, len(requirements))
	for _, req := range requirements {
		found := firstAvailable(append([]string{req.Name}, req.Alternatives...))
		statuses = append(statuses, toolStatus{
			Name:         req.Name,
			Alternatives: req.Alternatives,
			Purpose:      req.Purpose,
			Optional:     req.Optional,
			Found:        found,
			Available:    found != "",
		})
	}

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nativeconf.CheckRequiredTools(requirements)
}
