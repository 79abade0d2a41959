package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/mrlokans/shoplist/internal/mediator"
)

// EntityLoader runs page loads against the synced entity sets.
type EntityLoader interface {
	Loader(name string) (mediator.Loader, bool)
	LoadAll(ctx context.Context, loadType mediator.LoadType) (map[string]mediator.LoadResult, error)
	Count(name string) (int64, error)
}

// SyncCommand performs one page load for one or all entity sets.
type SyncCommand struct {
	Entity   string
	LoadType mediator.LoadType

	out io.Writer
}

func NewSyncCommand() *SyncCommand {
	return &SyncCommand{out: os.Stdout}
}

func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)

	var loadType string
	fs.StringVar(&cmd.Entity, "entity", "all", "Entity to sync: all, shops, products, shopping-list or addresses")
	fs.StringVar(&loadType, "type", "refresh", "Load type: refresh, prepend or append")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load pages from the remote API into the local database.\n\n")
		fmt.Fprintf(os.Stderr, "A refresh replaces the local rows with the first pages; prepend loads the\n")
		fmt.Fprintf(os.Stderr, "next page after the stored cursor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -entity products -type prepend\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := mediator.ParseLoadType(loadType)
	if err != nil {
		return err
	}
	cmd.LoadType = parsed
	return nil
}

func (cmd *SyncCommand) Run(loader EntityLoader) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.run(ctx, loader)
}

func (cmd *SyncCommand) run(ctx context.Context, loader EntityLoader) error {
	results := make(map[string]mediator.LoadResult)

	if cmd.Entity == "all" {
		all, err := loader.LoadAll(ctx, cmd.LoadType)
		results = all
		if err != nil {
			cmd.report(loader, results)
			return err
		}
	} else {
		l, ok := loader.Loader(cmd.Entity)
		if !ok {
			return fmt.Errorf("unknown entity %q", cmd.Entity)
		}
		result, err := l.Load(ctx, cmd.LoadType)
		if err != nil {
			return err
		}
		results[cmd.Entity] = result
	}

	cmd.report(loader, results)
	return nil
}

func (cmd *SyncCommand) report(loader EntityLoader, results map[string]mediator.LoadResult) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(cmd.out, "%s results\n", cmd.LoadType)
	for _, name := range names {
		count, err := loader.Count(name)
		if err != nil {
			fmt.Fprintf(cmd.out, "  %-14s error counting rows: %v\n", name, err)
			continue
		}
		end := ""
		if results[name].EndOfPaginationReached {
			end = " (end of pagination)"
		}
		fmt.Fprintf(cmd.out, "  %-14s %d rows%s\n", name, count, end)
	}
}
