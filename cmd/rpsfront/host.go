package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/refpersys/rpsfront/buildvars"
	"github.com/refpersys/rpsfront/config"
	"github.com/refpersys/rpsfront/session"
)

// Host shows the main window once startup succeeded and runs until the
// window is closed.
type Host interface {
	Run(ctx context.Context, out io.Writer, win config.Window) error
}

// headlessHost prints the startup banner and returns. It stands in for a
// graphical toolkit.
type headlessHost struct{}

func newHeadlessHost() Host {
	return headlessHost{}
}

func (headlessHost) Run(ctx context.Context, out io.Writer, win config.Window) error {
	s := session.MustFromContext(ctx)
	log.Debug().
		Str("title", win.Title).
		Int("width", win.Width).
		Int("height", win.Height).
		Float64("scale", win.Scale).
		Int("extensions", s.Extensions().Len()).
		Msg("main window")
	_, err := fmt.Fprintf(out, "%s running pid %d on %s, git %s\n.... built on %s\n",
		s.Program, s.PID, s.Hostname, buildvars.ShortGitID(), buildvars.Host())
	return err
}
