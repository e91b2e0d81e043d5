package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/pkg/notebook"
)

const modulePath = "github.com/mesh-intelligence/notebook"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the notebook version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "notebook v%s\nmodule: %s\n", notebook.Version, modulePath)
			return nil
		},
	}
}
