package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/ghmirror/internal/adapter/driven/github"
	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/config"
)

// configKey stores the loaded *config.Config in the command context.
type configKey struct{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ghmirror",
		Short: "Read-only GitHub repository mirror",
		Long: `ghmirror renders GitHub repositories, issues and pull requests as plain
server-side HTML pages backed by the GitHub REST API.

Configuration is read from GHMIRROR_* environment variables; flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("listen-addr", config.DefaultListenAddr, "address the web server listens on")
	flags.String("demo-repos", "", "comma-separated owner/repo allow-list (enables demo mode)")
	flags.Duration("cache-ttl", config.DefaultCacheTTL, "how long GitHub responses are reused")
	flags.Int("per-page", config.DefaultPerPage, "issues and pull requests per list page")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.String("api-base-url", "", "GitHub REST API root (default api.github.com)")

	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newServeCmd())
	root.AddCommand(newFindCmd())

	return root
}

// configFrom returns the configuration loaded by the root command.
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// newGateway builds the GitHub adapter and the parsed allow-list shared by
// every subcommand.
func newGateway(cfg *config.Config) (*githubadapter.Client, application.AllowList, error) {
	client, err := githubadapter.NewClient(githubadapter.Options{
		Token:    cfg.GitHubToken,
		BaseURL:  cfg.APIBaseURL,
		CacheTTL: cfg.CacheTTL,
		Logger:   slog.Default(),
	})
	if err != nil {
		return nil, application.AllowList{}, err
	}
	if cfg.HasGitHubToken() {
		slog.Info("github client created", "auth", "token")
	} else {
		slog.Info("github client created", "auth", "anonymous")
	}

	return client, application.ParseAllowList(cfg.DemoRepos), nil
}
