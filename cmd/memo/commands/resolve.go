package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <props.yaml>",
		Short: "Resolve theme placeholders in a property graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.components.App.ResolveFile(c.configPath(), args[0])
			if err != nil {
				return err
			}
			out := yaml.NewEncoder(cmd.OutOrStdout())
			defer out.Close() //nolint:errcheck // Best effort close in defer
			return out.Encode(resolved)
		},
	}
}
