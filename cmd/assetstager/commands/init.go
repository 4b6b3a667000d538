package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/assetstager/internal/config"
	"git.home.luguber.info/inful/assetstager/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	slog.Debug("Initializing configuration", logfields.File(root.Config), slog.Bool("force", i.Force))
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Wrote configuration to %s\n", root.Config)
	return nil
}
