package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hanckmann/webcamrec/app"
	"github.com/hanckmann/webcamrec/domain/session"
)

func newSessionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [root-folder]",
		Short: "List recorded sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			root := cfg.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				if root, err = os.Getwd(); err != nil {
					return err
				}
			}
			m, err := session.NewManager(afero.NewOsFs(), root)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			infos, err := m.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintf(out, "No sessions under %s\n", m.DataPath())
				return nil
			}
			fmt.Fprintln(out, app.SessionTable(infos, time.Now()))
			return nil
		},
	}
}
