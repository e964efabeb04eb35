package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/codegen"
	"github.com/atinyakov/shortlink/internal/models"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the links schema in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// opening a store creates its schema
			store, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", e.opts.Backend())
			return nil
		},
	}
}

func newCreateCmd(e *env) *cobra.Command {
	var (
		longURL string
		alias   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shorten a URL",
		Example: `  shortctl create --url "https://go.dev/doc/effective_go"
  shortctl create --url "https://go.dev" --alias go`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			svc := service.NewURL(store, codegen.New(e.opts.CodeStrategy, e.opts.CodeLength), e.logger, e.opts.ResultHostname, service.Limits{
				MaxAliasLength: e.opts.MaxAliasLength,
				MaxAttempts:    e.opts.MaxAttempts,
			})

			ctx, cancel := e.timeout(cmd.Context())
			defer cancel()

			rec, err := svc.Shorten(ctx, longURL, alias)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Code: %s\n", rec.ShortCode)
			fmt.Fprintf(out, "Short URL: %s\n", svc.ShortURL(rec.ShortCode))
			return nil
		},
	}

	cmd.Flags().StringVar(&longURL, "url", "", "URL to shorten")
	cmd.Flags().StringVar(&alias, "alias", "", "custom alias")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newResolveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CODE",
		Short: "Print the original URL of a code and count a click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			resolver := e.resolver(store)

			ctx, cancel := e.timeout(cmd.Context())
			defer cancel()

			original, err := resolver.ResolveForRedirect(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), original)
			return nil
		},
	}
}

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats CODE",
		Short: "Print click statistics of a code as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			resolver := e.resolver(store)

			ctx, cancel := e.timeout(cmd.Context())
			defer cancel()

			stats, err := resolver.GetStats(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.StatsResponse{
				ShortCode:   stats.ShortCode,
				OriginalURL: stats.OriginalURL,
				TotalClicks: stats.TotalClicks,
				CreatedAt:   stats.CreatedAt.UTC().Format(time.RFC3339),
			})
		},
	}
}
