package config

import (
	"fmt"
	"os"

	"github.com/mnafees/chopper8/internal"
	"github.com/retroenv/retrogolib/log"
)

// NewVM creates a VM configured by the options and loads the program file into it.
func NewVM(opts Options, logger *log.Logger) (*internal.C8VM, error) {
	data, err := os.ReadFile(opts.Program)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	vm, err := internal.NewC8VM(
		internal.WithQuirks(opts.Quirks()),
		internal.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating VM: %w", err)
	}
	if err := vm.Load(data); err != nil {
		return nil, fmt.Errorf("loading program %s: %w", opts.Program, err)
	}
	return vm, nil
}
