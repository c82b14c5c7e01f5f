package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"county_lookup/internal/lookup"
	"county_lookup/platform/logger"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no matching address")

func newResolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <address>",
		Short: "Resolve the first suggestion for an address and print its county",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load(*f)
			if err != nil {
				return err
			}
			provider, err := lookup.NewProvider(cfg, log)
			if err != nil {
				return err
			}
			return resolveAddress(cmd.Context(), provider, log, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
}

// resolveAddress takes the top suggestion for address and prints its card.
func resolveAddress(ctx context.Context, provider lookup.Provider, log *logger.Logger, address string, out io.Writer) error {
	predictions, err := provider.Autocomplete(ctx, strings.TrimSpace(address))
	if err != nil {
		log.Warn("autocomplete failed", "error", err)
		return errors.New(lookup.MsgSuggestionsFailed)
	}
	if len(predictions) == 0 {
		return errNoMatch
	}

	pick := predictions[0]
	result, err := lookup.Resolve(ctx, provider, pick.PlaceID)
	if err != nil {
		log.Warn("county lookup failed", "place_id", pick.PlaceID, "error", err)
		return errors.New(lookup.UserMessage(err))
	}

	card := lookup.FormatResult(result.Info, result.FormattedAddress)
	fmt.Fprintf(out, "county-name:  %s\n", card.County)
	fmt.Fprintf(out, "full-address: %s\n", card.FullAddress)
	fmt.Fprintf(out, "city:         %s\n", card.City)
	fmt.Fprintf(out, "state:        %s\n", card.State)
	fmt.Fprintf(out, "zip:          %s\n", card.Zip)
	return nil
}
