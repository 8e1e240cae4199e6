package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refpersys/rpsfront/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rpsfront configuration file",
	}

	var system bool
	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			var err error
			if path == "" {
				path, err = config.WriteConfigFile(&a.settings, system)
			} else {
				err = config.WriteConfigFileTo(&a.settings, path)
			}
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, "write the system-wide file instead of the user one")
	initCmd.Flags().StringVarP(&output, "output", "o", "", "write to this file")

	cmd.AddCommand(initCmd)
	return cmd
}
