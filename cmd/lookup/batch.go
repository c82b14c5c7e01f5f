package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"county_lookup/internal/lookup"
	"county_lookup/platform/logger"

	"github.com/spf13/cobra"
)

// batchRecord is one JSON line of batch output.
type batchRecord struct {
	Address          string  `json:"address"`
	PlaceID          string  `json:"place_id,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	County           string  `json:"county,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	StateShort       string  `json:"stateShort,omitempty"`
	Zip              string  `json:"zip,omitempty"`
	Lat              float64 `json:"lat,omitempty"`
	Lng              float64 `json:"lng,omitempty"`
	Error            string  `json:"error,omitempty"`
}

func newBatchCmd(f *flags) *cobra.Command {
	var (
		file  string
		pause time.Duration
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve one address per input line and write JSON lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load(*f)
			if err != nil {
				return err
			}
			provider, err := lookup.NewProvider(cfg, log)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return err
				}
				defer func() {
					_ = fh.Close()
				}()
				in = fh
			}
			return runBatch(cmd.Context(), provider, log, in, cmd.OutOrStdout(), pause)
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "address file, - for stdin")
	cmd.Flags().DurationVar(&pause, "pause", time.Second, "delay between lookups")
	return cmd
}

// runBatch resolves every non-blank line. Failures are written as records
// with an error field; the batch only stops on I/O errors or cancellation.
func runBatch(ctx context.Context, provider lookup.Provider, log *logger.Logger, in io.Reader, out io.Writer, pause time.Duration) error {
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)

	resolved, failed := 0, 0
	first := true
	for scanner.Scan() {
		address := strings.TrimSpace(scanner.Text())
		if address == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if !first && pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}
		first = false

		record := resolveRecord(ctx, provider, address)
		if err := ctx.Err(); err != nil {
			return err
		}
		if record.Error != "" {
			failed++
			log.Info("address not resolved", "address", address, "error", record.Error)
		} else {
			resolved++
			log.Debug("address resolved", "address", address, "county", record.County)
		}
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	log.Info("batch complete", "resolved", resolved, "failed", failed)
	return nil
}

func resolveRecord(ctx context.Context, provider lookup.Provider, address string) batchRecord {
	record := batchRecord{Address: address}

	predictions, err := provider.Autocomplete(ctx, address)
	if err != nil {
		record.Error = lookup.MsgSuggestionsFailed
		return record
	}
	if len(predictions) == 0 {
		record.Error = errNoMatch.Error()
		return record
	}

	record.PlaceID = predictions[0].PlaceID
	result, err := lookup.Resolve(ctx, provider, record.PlaceID)
	if err != nil {
		record.Error = lookup.UserMessage(err)
		return record
	}

	record.FormattedAddress = result.FormattedAddress
	record.County = result.Info.County
	record.City = result.Info.City
	record.State = result.Info.State
	record.StateShort = result.Info.StateShort
	record.Zip = result.Info.Zip
	record.Lat = result.Location.Lat
	record.Lng = result.Location.Lng
	return record
}
