package main

import (
	"github.com/spf13/cobra"

	"github.com/refpersys/rpsfront/config"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpsfront",
		Short: "rpsfront is a desktop front-end for RefPerSys.",
		Long: `rpsfront hosts the RefPerSys desktop window. Before showing it, it can
fingerprint strings, validate a RefPerSys installation directory and load
binary extensions built against it.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/rpsfront/rpsfront.yaml)")
	pf.Bool("debug", false, "enable debug logging")

	f := cmd.Flags()
	f.BoolVarP(&a.showVersion, "version", "V", false, "show version")
	f.StringP("dimension", "D", config.DefaultDimension, "preferred window dimension <width>x<height>, e.g. 400x333")
	f.StringP("refpersys", "r", "", "RefPerSys installation directory")
	f.Float64P("scale", "S", config.DefaultScale, "preferred screen scale, e.g. 1.5")
	f.StringArrayVarP(&a.hashStrings, "hashstr", "H", nil, "print the fingerprint of a string (repeatable)")
	f.StringP("title", "T", config.DefaultTitle, "window title")
	f.StringArrayP("plugin", "P", nil, "load the extension <basepath>.so (repeatable)")

	cmd.AddCommand(newHashCmd(a), newCheckCmd(a), newConfigCmd(a))
	return cmd
}
