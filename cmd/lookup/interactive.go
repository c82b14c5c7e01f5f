package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"county_lookup/internal/lookup"
	"county_lookup/platform/config"
	"county_lookup/platform/logger"
)

const help = `type an address to get suggestions
  <n> or :pick <n>  resolve suggestion n
  :blur             leave the field
  :q                quit`

// runInteractive reads commands until EOF or :q.
func runInteractive(ctx context.Context, cfg *config.Config, log *logger.Logger, in io.Reader, out io.Writer) error {
	provider, err := lookup.NewProvider(cfg, log)
	if err != nil {
		return err
	}

	view := lookup.NewTextView(out)
	ctrl := lookup.NewController(ctx, provider, view, log, lookup.Options{
		Debounce:  cfg.GetLookupDebounce(),
		BlurGrace: cfg.GetLookupBlurGrace(),
		MinChars:  cfg.GetLookupMinChars(),
	})
	defer ctrl.Close()

	fmt.Fprintln(out, help)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		switch cmd := parseLine(line); cmd.kind {
		case cmdQuit:
			return nil
		case cmdBlur:
			ctrl.Blur()
		case cmdPick:
			if err := ctrl.Select(cmd.index); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			ctrl.Wait()
		default:
			ctrl.Input(line)
			ctrl.Wait()
		}
	}
	return scanner.Err()
}

type commandKind int

const (
	cmdInput commandKind = iota
	cmdPick
	cmdBlur
	cmdQuit
)

type command struct {
	kind  commandKind
	index int
}

// parseLine maps a prompt line to a command. Suggestions are numbered from
// one on screen and from zero in the controller.
func parseLine(line string) command {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == ":q" || trimmed == ":quit":
		return command{kind: cmdQuit}
	case trimmed == ":blur":
		return command{kind: cmdBlur}
	case strings.HasPrefix(trimmed, ":pick "):
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, ":pick "))
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n > 0 && n < 100 {
		return command{kind: cmdPick, index: n - 1}
	}
	return command{kind: cmdInput}
}
