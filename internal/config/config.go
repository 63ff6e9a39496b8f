// Package config handles command line options and logger setup for the executables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mnafees/chopper8/internal"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultInstructionsPerSecond is the instruction rate most CHIP-8 programs expect.
	DefaultInstructionsPerSecond = 700
	// DefaultScale is the size of one CHIP-8 pixel in window pixels.
	DefaultScale = 20
)

// Options contains the settings of an emulator run.
type Options struct {
	Program string // path to the CHIP-8 program

	InstructionsPerSecond int
	Scale                 int

	ShiftUsesVy bool
	JumpUsesVx  bool

	Debug bool
	Quiet bool
}

// Quirks returns the VM quirk configuration selected by the options.
func (o Options) Quirks() internal.Quirks {
	return internal.Quirks{
		ShiftUsesVy: o.ShiftUsesVy,
		JumpUsesVx:  o.JumpUsesVx,
	}
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and the flag defaults.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the command line arguments, without the program name.
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := Options{}
	flags.IntVar(&opts.InstructionsPerSecond, "ips", DefaultInstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.ShiftUsesVy, "shift-vy", false, "shift instructions copy Vy into Vx before shifting")
	flags.BoolVar(&opts.JumpUsesVx, "jump-vx", false, "jump with offset adds Vx instead of V0")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options and output")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no CHIP-8 program given"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, options have to be passed before the program", rest[1]),
		}
	}
	opts.Program = rest[0]

	if opts.InstructionsPerSecond <= 0 {
		return opts, fmt.Errorf("invalid instructions per second %d", opts.InstructionsPerSecond)
	}
	if opts.Scale <= 0 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	return opts, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
