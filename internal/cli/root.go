// Package cli implements the grocer command line storefront. It drives
// the client core: query state, fetch control and client-side list
// shaping over the store HTTP API.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tomatostore/grocer/internal/client"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ServerURL string
	Token     string
	Remote    bool
}

// Session builds the HTTP session for the selected server, picking up a
// bearer token from the flag or the GROCER_TOKEN environment variable.
func (o *RootOptions) Session() *client.Session {
	s := client.NewSession(o.ServerURL)
	token := o.Token
	if token == "" {
		token = os.Getenv("GROCER_TOKEN")
	}
	if token != "" {
		s.SetToken(token)
	}
	return s
}

// Strategy returns where list shaping happens: on the server when
// --remote is set, locally otherwise.
func (o *RootOptions) Strategy() client.Strategy {
	if o.Remote {
		return client.StrategyServer
	}
	return client.StrategyClient
}

// NewRootCommand creates the root command for the grocer CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "grocer",
		Short: "Grocer store client",
		Long:  "Browse the grocery catalog, inspect orders and execute them.",
	}

	cmd.PersistentFlags().StringVar(&opts.ServerURL, "url", "http://127.0.0.1:1816", "store server base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token for mutating commands")
	cmd.PersistentFlags().BoolVar(&opts.Remote, "remote", false, "push search and sort to the server instead of shaping locally")

	cmd.AddCommand(NewItemsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))

	return cmd
}
