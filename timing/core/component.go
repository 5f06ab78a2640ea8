package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// StepHook is called with the events of every cycle the component runs.
type StepHook func(cycle uint64, events []pipeline.Event)

// Component drives a Core from an akita engine, one cycle per tick.
type Component struct {
	*sim.TickingComponent

	core      *Core
	maxCycles uint64
	hooks     []StepHook
}

// NewComponent creates a ticking component that runs core on engine at freq.
func NewComponent(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	core *Core,
) *Component {
	c := &Component{core: core}
	c.TickingComponent = sim.NewTickingComponent(name, engine, freq, c)
	return c
}

// SetMaxCycles stops the component after the core reaches the given cycle.
// 0 means no limit.
func (c *Component) SetMaxCycles(n uint64) {
	c.maxCycles = n
}

// OnStep registers a hook called after every cycle.
func (c *Component) OnStep(hook StepHook) {
	c.hooks = append(c.hooks, hook)
}

// Core returns the core driven by the component.
func (c *Component) Core() *Core {
	return c.core
}

// Start schedules the first tick.
func (c *Component) Start() {
	c.TickLater()
}

// Tick advances the core by one cycle. It returns false once the program has
// finished or the cycle limit is reached, which lets the engine go idle.
func (c *Component) Tick() bool {
	if c.core.IsFinished() {
		return false
	}
	if c.maxCycles > 0 && c.core.Cycle() >= c.maxCycles {
		return false
	}

	events := c.core.Step()
	for _, hook := range c.hooks {
		hook(c.core.Cycle(), events)
	}

	return true
}
