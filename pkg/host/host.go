// Package host drives a CHIP-8 VM in real time: it executes instructions at
// a configurable rate, ticks the timers at 60 Hz and moves keys, frames and
// the sound state between the VM and a frontend.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chopper8/internal"
	"github.com/retroenv/retrogolib/log"
)

// FrameTime is the interval between two host frames, one timer tick long.
const FrameTime = time.Second / internal.TimerFrequency

// frames longer than this are shortened, so that a stalled host does not
// try to catch up with thousands of instructions at once
const maxFrameTime = 250 * time.Millisecond

// Machine is the part of the VM the host loop needs.
type Machine interface {
	Step() error
	TickTimers()
	SetPressedKeys(keys ...uint8)
	Display() [internal.DisplaySize]bool
	DisplayChanged() bool
	ClearDisplayChanged()
	SoundTimer() uint8
}

// Frontend presents the machine to the user.
type Frontend interface {
	// Poll returns the currently held keypad keys and whether the user asked to quit.
	Poll() (keys []uint8, quit bool)
	// Present shows the display, indexed by x + y*ScreenWidth.
	Present(pixels [internal.DisplaySize]bool)
	// Sound is called whenever the tone should start or stop.
	Sound(on bool)
}

// Runner paces a machine and connects it to a frontend.
type Runner struct {
	vm       Machine
	frontend Frontend
	logger   *log.Logger

	steps  pacer
	timers pacer

	soundOn bool
}

// New returns a runner executing instructionsPerSecond instructions per second.
func New(vm Machine, frontend Frontend, logger *log.Logger, instructionsPerSecond int) (*Runner, error) {
	if instructionsPerSecond <= 0 {
		return nil, fmt.Errorf("invalid instructions per second %d", instructionsPerSecond)
	}
	return &Runner{
		vm:       vm,
		frontend: frontend,
		logger:   logger,
		steps:    pacer{rate: int64(instructionsPerSecond)},
		timers:   pacer{rate: internal.TimerFrequency},
	}, nil
}

// Run executes frames until the frontend asks to quit, the context is
// canceled or the machine fails.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameTime)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			quit, err := r.Frame(now.Sub(last))
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			last = now
		}
	}
}

// Frame advances the machine by the given amount of wall time.
// It returns true if the frontend asked to quit.
func (r *Runner) Frame(elapsed time.Duration) (bool, error) {
	keys, quit := r.frontend.Poll()
	if quit {
		return true, nil
	}
	r.vm.SetPressedKeys(keys...)

	elapsed = min(elapsed, maxFrameTime)
	for i := r.steps.advance(elapsed); i > 0; i-- {
		if err := r.vm.Step(); err != nil {
			if r.logger != nil {
				r.logger.Error("Executing instruction failed", log.Err(err))
			}
			return false, fmt.Errorf("executing instruction: %w", err)
		}
	}
	for i := r.timers.advance(elapsed); i > 0; i-- {
		r.vm.TickTimers()
	}

	if r.vm.DisplayChanged() {
		r.frontend.Present(r.vm.Display())
		r.vm.ClearDisplayChanged()
	}

	soundOn := r.vm.SoundTimer() > 0
	if soundOn != r.soundOn {
		r.frontend.Sound(soundOn)
		r.soundOn = soundOn
	}
	return false, nil
}

// pacer converts elapsed time into a number of events at a fixed rate.
// The fraction of an event that is not due yet carries over to the next call.
type pacer struct {
	rate int64 // events per second
	acc  int64 // nanoseconds times rate not yet converted to events
}

func (p *pacer) advance(elapsed time.Duration) int {
	p.acc += int64(elapsed) * p.rate
	n := p.acc / int64(time.Second)
	p.acc -= n * int64(time.Second)
	return int(n)
}
