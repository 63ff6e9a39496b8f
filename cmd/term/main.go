package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mnafees/chopper8/internal/config"
	"github.com/mnafees/chopper8/pkg/host"
	"github.com/mnafees/chopper8/pkg/term"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := config.ParseFlags("chopper-term", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			if msg := usageErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			usageErr.ShowUsage(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	// the terminal is owned by the display, only errors are logged
	logger := config.CreateLogger(false, true)
	if err := run(opts); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	// engine errors are returned and logged once the terminal is restored
	vm, err := config.NewVM(opts, nil)
	if err != nil {
		return err
	}

	terminal := term.New()
	if err := terminal.Setup(); err != nil {
		return err
	}

	runner, err := host.New(vm, terminal, nil, opts.InstructionsPerSecond)
	if err != nil {
		terminal.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = runner.Run(ctx)
	// the terminal has to be restored before the error gets logged
	terminal.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
