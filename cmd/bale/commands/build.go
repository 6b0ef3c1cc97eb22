package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the bundles declared in the project manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			aggressive, _ := cmd.Flags().GetBool("aggressive")
			noDedup, _ := cmd.Flags().GetBool("no-dedup")
			output, _ := cmd.Flags().GetString("output")
			asJSON, _ := cmd.Flags().GetBool("json")

			code, err := c.app.Build(cmd.Context(), app.BuildOptions{
				ConfigPath: configPath,
				NoCache:    noCache,
				Aggressive: aggressive,
				NoDedup:    noDedup,
				OutputDir:  output,
				JSON:       asJSON,
			})
			if err != nil || !code.IsOK() {
				return &ResultError{Code: code, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache")
	cmd.Flags().Bool("aggressive", false, "Move every object shared by two bundles into a virtual bundle")
	cmd.Flags().Bool("no-dedup", false, "Skip shared-object deduplication")
	cmd.Flags().StringP("output", "o", "", "Write bundles to this directory instead of the manifest's output")
	cmd.Flags().Bool("json", false, "Print the build summary as JSON")
	return cmd
}
