package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/refpersys/rpsfront/buildvars"
	"github.com/refpersys/rpsfront/config"
	"github.com/refpersys/rpsfront/extension"
	"github.com/refpersys/rpsfront/install"
	"github.com/refpersys/rpsfront/rpshash"
	"github.com/refpersys/rpsfront/session"
)

// app is the state shared by the commands of one invocation.
type app struct {
	host Host

	configFile  string
	showVersion bool
	hashStrings []string

	settings config.Settings
	session  *session.Session

	loaderOpts    []extension.LoaderOption
	validatorOpts []install.Option
}

func newApp(host Host) *app {
	return &app{host: host}
}

// setup loads the settings, configures logging and creates the session.
// It runs before every command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	settings, used, err := config.LoadConfig(cmd.Flags(), a.configFile)
	if err != nil {
		return err
	}
	a.settings = settings

	setupLogging(cmd.ErrOrStderr(), settings.Debug)
	a.session = session.New(
		session.WithProgram(cmd.Root().Name()),
		session.WithLoader(extension.NewLoader(a.loaderOpts...)),
		session.WithValidator(install.New(a.validatorOpts...)),
	)
	log.Logger = log.Logger.With().Str("session", a.session.ID.String()).Logger()
	if used != "" {
		log.Debug().Str("path", used).Msg("configuration loaded")
	}

	cmd.SetContext(a.session.WithContext(cmd.Context()))
	return nil
}

// run performs the startup sequence: hash strings, installation path,
// extensions, then the window host.
func (a *app) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if a.showVersion {
		return a.printVersion(out, cmd.Root().Name())
	}

	for _, s := range a.hashStrings {
		if err := printHash(out, a.session.Program, s); err != nil {
			return err
		}
	}

	win, err := a.settings.Window()
	if err != nil {
		return err
	}

	if a.settings.RefPerSys != "" {
		report, err := a.session.ValidateInstallation(a.settings.RefPerSys)
		if err != nil {
			return fmt.Errorf("invalid RefPerSys path %s: %w", a.settings.RefPerSys, err)
		}
		fmt.Fprintf(out, "%s using RefPerSys from %s on %s pid %d\n",
			a.session.Program, report.Path, a.session.Hostname, a.session.PID)
	}

	for _, name := range a.settings.Plugins {
		if _, err := a.session.LoadExtension(name); err != nil {
			return fmt.Errorf("failed to load plugin %s: %w", name, err)
		}
	}

	return a.host.Run(cmd.Context(), out, win)
}

func (a *app) printVersion(out io.Writer, progname string) error {
	_, err := fmt.Fprintf(out, "%s version: %s\n\t built on %s git: %s\n\t %s %s/%s\n",
		progname,
		buildvars.VersionOrDefault("dev"),
		buildvars.Host(),
		buildvars.ShortGitID(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}

func printHash(out io.Writer, progname, s string) error {
	fmt.Fprintf(out, "%s hashing string:\n%s\n", progname, s)
	fp := rpshash.SumString(s)
	if !fp.Valid() {
		return fmt.Errorf("cannot hash %q: %w", s, rpshash.ErrInvalidUTF8)
	}
	_, err := fmt.Fprintln(out, fp.String())
	return err
}
