package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/paths"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize notebook storage",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return sysError("resolve config dir: %v", err)
			}
			dataDir := flags.dataDir
			if dataDir != "" {
				if dataDir, err = filepath.Abs(dataDir); err != nil {
					return sysError("resolve data dir: %v", err)
				}
			}
			created, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), dataDir)
			if err != nil {
				return sysError("write config: %v", err)
			}

			sess, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Notebook initialized successfully")
			fmt.Fprintln(out, "  config:", configDir)
			if created {
				fmt.Fprintln(out, "  wrote: ", configFileExt)
			}
			fmt.Fprintln(out, "  backend:", sess.settings.store.Backend)
			if sess.settings.store.Backend == types.BackendSQLite {
				fmt.Fprintln(out, "  data:  ", sess.settings.store.DataDir)
			}
			return nil
		},
	}
}
