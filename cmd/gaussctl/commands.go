package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gatanot/GaussProject/internal/config"
	"github.com/Gatanot/GaussProject/internal/version"
	gauss "github.com/Gatanot/GaussProject/pkg/sdk"
)

// clientFactory opens an SDK client. Swapped in tests.
type clientFactory func(ctx context.Context, env string, verbose bool) (*gauss.Client, error)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(openClient)
}

func newRootCmdWith(open clientFactory) *cobra.Command {
	var (
		env     string
		verbose bool
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:   "gaussctl",
		Short: "Query the campus resource search engine",
		Long: `gaussctl runs searches, suggestions and trending lookups in process,
using the stores configured in config/<env>.yaml.

Examples:
  gaussctl search database --limit 5
  gaussctl suggest databse
  gaussctl trending
  ENV=prod gaussctl health`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "configuration environment")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SDK operations to stderr")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "overall command timeout")

	// withClient opens a client for the duration of one command.
	withClient := func(run func(ctx context.Context, c *gauss.Client, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			c, err := open(ctx, env, verbose)
			if err != nil {
				return err
			}
			defer c.Close()
			return run(ctx, c, cmd.OutOrStdout(), args)
		}
	}

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank resources matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, c *gauss.Client, out io.Writer, args []string) error {
			resp, err := c.Search(ctx, args[0], gauss.SearchOptions{Limit: limit})
			if err != nil && resp.Error == "" {
				return err
			}
			return printJSON(out, resp)
		}),
	}
	searchCmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (0 selects the server default)")

	suggestCmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Propose a spelling correction from past searches",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, c *gauss.Client, out io.Writer, args []string) error {
			s, ok := c.Suggest(ctx, args[0])
			var suggestion *string
			if ok {
				suggestion = &s
			}
			return printJSON(out, map[string]any{"query": args[0], "suggestion": suggestion})
		}),
	}

	trendingCmd := &cobra.Command{
		Use:   "trending",
		Short: "Show hot resources and hot searches",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, c *gauss.Client, out io.Writer, _ []string) error {
			return printJSON(out, c.Trending(ctx))
		}),
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check store connectivity",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, c *gauss.Client, out io.Writer, _ []string) error {
			h := c.Health(ctx)
			if err := printJSON(out, h); err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("status %s", h.Status)
			}
			return nil
		}),
	}

	root.AddCommand(searchCmd, suggestCmd, trendingCmd, healthCmd)
	return root
}

func openClient(ctx context.Context, env string, verbose bool) (*gauss.Client, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts, err := optionsFromConfig(&cfg)
	if err != nil {
		return nil, err
	}
	if verbose {
		opts = append(opts, gauss.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return gauss.New(ctx, opts...)
}

// optionsFromConfig maps server configuration onto SDK options.
func optionsFromConfig(cfg *config.Config) ([]gauss.Option, error) {
	var opts []gauss.Option

	switch cfg.Database.Driver {
	case "postgres":
		d := cfg.Database
		opts = append(opts, gauss.WithPostgres(gauss.PostgresConfig{
			Host:             d.Host,
			Port:             d.Port,
			User:             d.User,
			Password:         d.Password,
			Database:         d.Name,
			SSLMode:          d.SSLMode,
			Schema:           d.Schema,
			TextSearchConfig: d.TextSearchConfig,
			ConnectTimeout:   time.Duration(d.ConnectTimeoutSec) * time.Second,
		}))
	case "memory":
		if cfg.Database.SeedFile != "" {
			opts = append(opts, gauss.WithSeedFile(cfg.Database.SeedFile))
		} else {
			opts = append(opts, gauss.WithMemory())
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if d := cfg.QueryLog.Driver; d == "redis" || d == "valkey" {
		if len(cfg.QueryLog.Addrs) == 0 {
			return nil, fmt.Errorf("querylog.addrs is required for %s", d)
		}
		opts = append(opts, gauss.WithRedisQueryLog(cfg.QueryLog.Addrs[0], cfg.QueryLog.Password))
	}

	opts = append(opts,
		gauss.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit),
		gauss.WithLogWorkers(cfg.QueryLog.Workers),
	)
	return opts, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
