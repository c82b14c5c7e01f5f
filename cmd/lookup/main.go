// Command lookup is a terminal front end for the county lookup. Lines typed
// at the prompt are fed to the suggestion controller as keystrokes; picking
// a suggestion resolves its county.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"county_lookup/platform/config"
	"county_lookup/platform/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type flags struct {
	transport string
	proxyURL  string
	debounce  string
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "lookup",
		Short:        "Find the US county of an address",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load(f)
			if err != nil {
				return err
			}
			return runInteractive(cmd.Context(), cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&f.transport, "transport", "", "proxy or direct (overrides LOOKUP_TRANSPORT)")
	root.PersistentFlags().StringVar(&f.proxyURL, "proxy-url", "", "proxy base URL (overrides LOOKUP_PROXY_URL)")
	root.PersistentFlags().StringVar(&f.debounce, "debounce", "", "suggestion debounce, e.g. 300ms (overrides LOOKUP_DEBOUNCE)")

	root.AddCommand(newResolveCmd(&f), newBatchCmd(&f))
	return root
}

// load reads the environment, applies flag overrides and builds a logger
// that writes to stderr so log lines stay out of the rendered output.
func load(f flags) (*config.Config, *logger.Logger, error) {
	if f.transport != "" {
		if err := os.Setenv("LOOKUP_TRANSPORT", f.transport); err != nil {
			return nil, nil, err
		}
	}
	if f.proxyURL != "" {
		if err := os.Setenv("LOOKUP_PROXY_URL", f.proxyURL); err != nil {
			return nil, nil, err
		}
	}
	if f.debounce != "" {
		if err := os.Setenv("LOOKUP_DEBOUNCE", f.debounce); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.NewWithWriter(cfg.Env, os.Stderr), nil
}
