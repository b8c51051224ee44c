// Command datagen generates data types from annotated model types and keeps
// them up to date.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

const version = "0.4.0"

// Globals are flags shared by all commands.
type Globals struct {
	Config string `name:"config" short:"c" help:"Path to datagen.yaml" type:"path"`
	Actor  string `name:"actor" help:"Actor recorded for this run (overrides config)"`
	Yes    bool   `name:"yes" short:"y" help:"Create missing artifacts without asking"`
}

// CLI defines the command-line interface for datagen.
type CLI struct {
	Globals

	Generate GenerateCmd `cmd:"" help:"Generate the data type of one model type"`
	Update   UpdateCmd   `cmd:"" help:"Update the data types of annotated model types"`
	Check    CheckCmd    `cmd:"" help:"Report stale data types without writing"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate when model sources change"`
	History  HistoryCmd  `cmd:"" help:"Show the generation journal"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("datagen"),
		kong.Description("Data type generator for annotated model types"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
