// Package cli is the groceries command line, a thin layer over the API client.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"philcali.me/groceries/internal/client"
)

const (
	API_URL_ENV     = "GROCERIES_API_URL"
	DEFAULT_API_URL = "http://localhost:8080"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	APIURL  string

	client *client.Client
}

var ValidFormats = []string{"text", "json"}

func (o *RootOptions) Client() (*client.Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	c, err := client.New(o.APIURL, nil)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --api-url", err)
	}
	o.client = c
	return c, nil
}

func (o *RootOptions) Formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaultURL := DEFAULT_API_URL
	if fromEnv, ok := os.LookupEnv(API_URL_ENV); ok && fromEnv != "" {
		defaultURL = fromEnv
	}

	cmd := &cobra.Command{
		Use:           "groceries",
		Short:         "Manage products, stock, shopping lists and recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", defaultURL, "base url of the groceries API (env "+API_URL_ENV+")")

	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewStockCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRecipeCommand(opts))
	cmd.AddCommand(NewDishCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
