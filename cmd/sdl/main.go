package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/mnafees/chopper8/internal/config"
	"github.com/mnafees/chopper8/pkg/host"
	"github.com/mnafees/chopper8/pkg/sdl"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// SDL has to be used from the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := config.ParseFlags("chopper", os.Args[1:])
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

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := run(logger, opts); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(logger *log.Logger, opts config.Options) error {
	vm, err := config.NewVM(opts, logger)
	if err != nil {
		return err
	}

	io := sdl.NewIO(opts.Scale)
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		return err
	}
	defer io.Destroy()

	runner, err := host.New(vm, io, logger, opts.InstructionsPerSecond)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
