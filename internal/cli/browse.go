package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"syscall"
)

// EntityBrowser pages through an entity set the way a list screen would.
type EntityBrowser interface {
	Browse(ctx context.Context, name string, pages int) (any, error)
}

// BrowseCommand refreshes one entity set, follows further pages and prints
// the resulting rows as JSON.
type BrowseCommand struct {
	Entity string
	Pages  int

	out io.Writer
}

func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{out: os.Stdout}
}

func (cmd *BrowseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.StringVar(&cmd.Entity, "entity", "", "Entity to browse: shops, products, shopping-list or addresses (required)")
	fs.IntVar(&cmd.Pages, "pages", 1, "Pages to load after the refresh")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse -entity <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Refresh an entity list, load further pages until the end of pagination\n")
		fmt.Fprintf(os.Stderr, "or the page limit, and print the stored rows as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Entity == "" {
		return errors.New("-entity is required")
	}
	if cmd.Pages < 0 {
		return errors.New("-pages must not be negative")
	}
	return nil
}

func (cmd *BrowseCommand) Run(browser EntityBrowser) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.run(ctx, browser)
}

func (cmd *BrowseCommand) run(ctx context.Context, browser EntityBrowser) error {
	rows, err := browser.Browse(ctx, cmd.Entity, cmd.Pages)
	if err != nil {
		return fmt.Errorf("browse %s: %w", cmd.Entity, err)
	}

	fmt.Fprintf(cmd.out, "%s: %d rows\n", cmd.Entity, rowCount(rows))
	enc := json.NewEncoder(cmd.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func rowCount(rows any) int {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return 0
	}
	return v.Len()
}
