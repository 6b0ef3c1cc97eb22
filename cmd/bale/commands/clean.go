package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the build cache and built bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cache, _ := cmd.Flags().GetBool("cache")
			output, _ := cmd.Flags().GetBool("output")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{ConfigPath: configPath}

			switch {
			case all:
				opts.All = true
			case cache || output:
				opts.Cache = cache
				opts.Output = output
			default:
				// Default behavior: purge the build cache
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().Bool("cache", false, "Purge the local build cache")
	cmd.Flags().Bool("output", false, "Remove the built bundles")
	cmd.Flags().BoolP("all", "a", false, "Remove the cache, the built bundles and leftover scratch space")

	return cmd
}
