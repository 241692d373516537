package main

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/ghmirror/internal/adapter/driving/tui"
	"github.com/ericfisherdev/ghmirror/internal/application"
)

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Search repositories interactively in the terminal",
		Long: `Open an interactive repository search. Type to search, use the arrow keys
to move through results and press Enter to print the chosen repository's
mirror URL. Esc closes the results, a second Esc exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			// The finder owns the terminal; log lines would corrupt its view.
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

			ghClient, allowList, err := newGateway(cfg)
			if err != nil {
				return err
			}
			searchSvc := application.NewSearchService(ghClient, allowList, slog.Default())

			path, err := tui.Run(cmd.Context(), searchSvc, os.Stdin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if path == "" {
				return nil
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), mirrorURL(cfg.ListenAddr, path))
			return err
		},
	}
}

// mirrorURL joins the local server address and a repository path. Bind-all
// hosts are replaced with loopback so the URL can be opened directly.
func mirrorURL(listenAddr, path string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return path
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + path
}
