package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/shoplist/internal/entities"
)

// SettingsWriter stores key/value settings.
type SettingsWriter interface {
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// TokenCommand stores or clears the remote API token in the settings table.
// A stored token takes precedence over API_TOKEN.
type TokenCommand struct {
	Token string
	Clear bool

	out io.Writer
}

func NewTokenCommand() *TokenCommand {
	return &TokenCommand{out: os.Stdout}
}

func (cmd *TokenCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("set-token", flag.ContinueOnError)
	fs.StringVar(&cmd.Token, "token", "", "API token to store")
	fs.BoolVar(&cmd.Clear, "clear", false, "Remove the stored token")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s set-token -token <token> | -clear\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Token == "" && !cmd.Clear {
		return fmt.Errorf("required flag -token not provided")
	}
	if cmd.Token != "" && cmd.Clear {
		return fmt.Errorf("-token and -clear are mutually exclusive")
	}
	return nil
}

func (cmd *TokenCommand) Run(settings SettingsWriter) error {
	if cmd.Clear {
		if err := settings.DeleteSetting(entities.SettingKeyAPIToken); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Fprintln(cmd.out, "API token cleared")
		return nil
	}
	if err := settings.SetSetting(entities.SettingKeyAPIToken, cmd.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintln(cmd.out, "API token stored")
	return nil
}
