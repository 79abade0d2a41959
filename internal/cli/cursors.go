package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mrlokans/shoplist/internal/entities"
)

// CursorLister returns the persisted pagination cursors.
type CursorLister interface {
	Cursors() ([]entities.RemoteKey, error)
}

// CursorsCommand prints every persisted pagination cursor.
type CursorsCommand struct {
	out io.Writer
}

func NewCursorsCommand() *CursorsCommand {
	return &CursorsCommand{out: os.Stdout}
}

func (cmd *CursorsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cursors", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cursors\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the stored next/previous page of every synced endpoint.\n")
	}
	return fs.Parse(args)
}

func (cmd *CursorsCommand) Run(lister CursorLister) error {
	keys, err := lister.Cursors()
	if err != nil {
		return fmt.Errorf("list cursors: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(cmd.out, "No cursors stored. Run 'sync' first.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENDPOINT\tNEXT\tPREV\tTOTAL\tUPDATED")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", k.Endpoint, page(k.NextPage), page(k.PrevPage), k.TotalItems, k.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func page(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
