package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetstager/cmd/assetstager/commands"
	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("assetstager"),
		kong.Description("Stage vendored JavaScript and CSS files into a project's static tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Stdout: os.Stdout, Stderr: os.Stderr})
	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
