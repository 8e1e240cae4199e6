package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Validate a RefPerSys installation directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.session.ValidateInstallation(args[0])
			if err != nil {
				return err
			}
			license := "not found"
			if report.LicenseMentioned {
				license = "found"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"%s: valid RefPerSys installation, %d JSON data files in %d entries, license marker %s\n",
				report.Path, report.DataFiles, report.DataEntries, license)
			return err
		},
	}
}
