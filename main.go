package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/shoplist/internal/cli"
	"github.com/mrlokans/shoplist/internal/config"
	"github.com/mrlokans/shoplist/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.Run(config.NewConfig(), Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "sync":
		cmd := cli.NewSyncCommand()
		exitOnError(cmd.ParseFlags(args))
		withApp(func(app *entrypoint.App) error { return cmd.Run(app.Catalog) })

	case "browse":
		cmd := cli.NewBrowseCommand()
		exitOnError(cmd.ParseFlags(args))
		withApp(func(app *entrypoint.App) error { return cmd.Run(app.Catalog) })

	case "cursors":
		cmd := cli.NewCursorsCommand()
		exitOnError(cmd.ParseFlags(args))
		withApp(func(app *entrypoint.App) error { return cmd.Run(app.Catalog) })

	case "set-token":
		cmd := cli.NewTokenCommand()
		exitOnError(cmd.ParseFlags(args))
		withApp(func(app *entrypoint.App) error { return cmd.Run(app.Settings) })

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func withApp(run func(app *entrypoint.App) error) {
	app, err := entrypoint.NewApp(config.NewConfig())
	exitOnError(err)
	err = run(app)
	_ = app.Close()
	exitOnError(err)
}

func exitOnError(err error) {
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve      Start the HTTP server, task queue and refresh scheduler (default)\n")
	fmt.Fprintf(os.Stderr, "  sync       Load pages from the remote API once\n")
	fmt.Fprintf(os.Stderr, "  browse     Page through one entity list and print its rows\n")
	fmt.Fprintf(os.Stderr, "  cursors    Print the stored pagination cursors\n")
	fmt.Fprintf(os.Stderr, "  set-token  Store or clear the remote API token\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
