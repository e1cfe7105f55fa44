package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <props.yaml>",
		Short: "Print the canonical signature of a property graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := c.components.App.EncodeFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig.String())
			return nil
		},
	}
}
