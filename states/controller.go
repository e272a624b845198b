package states

import (
	"log/slog"
	"time"
)

// Reasons recorded on transitions.
const (
	ReasonStart    = "start"
	ReasonTimer    = "timer"
	ReasonComplete = "complete"
	ReasonNext     = "next"
	ReasonForce    = "force"
)

// Transition describes one state change.
type Transition struct {
	From   ID
	To     ID
	Reason string
	At     time.Duration // Simulated time
}

// Controller owns the active state and decides when it changes. Requests
// made during a tick are applied by EndTick, so a state never changes in the
// middle of the force or integration phases.
type Controller struct {
	active    State
	sequence  []ID
	enteredAt time.Duration
	single    bool

	pending       ID
	pendingReason string

	// OnTransition, if set, is called after every applied transition.
	OnTransition func(Transition)
}

// DefaultSequence is the cycle used when the configured one is empty or invalid.
var DefaultSequence = []ID{Grid, Wave, Flock}

// NewController creates a controller. It does nothing until Start.
func NewController() *Controller {
	return &Controller{}
}

// Start enters the initial state: the configured single_state when it is
// valid, loading otherwise.
func (c *Controller) Start(ctx *Context) {
	c.sequence = sequenceFrom(ctx.Cfg.States.Sequence)
	c.single = false
	c.pending = ""

	first := Loading
	if name := ctx.Cfg.States.SingleState; name != "" {
		if New(ID(name)) != nil {
			first = ID(name)
			c.single = true
		} else {
			slog.Warn("unknown single_state, starting with loading", "state", name)
		}
	}
	c.enter(ctx, first, ReasonStart)
}

// Active returns the ID of the active state.
func (c *Controller) Active() ID {
	if c.active == nil {
		return ""
	}
	return c.active.ID()
}

// State returns the active state.
func (c *Controller) State() State {
	return c.active
}

// Traits returns the active state's traits.
func (c *Controller) Traits(ctx *Context) Traits {
	return c.active.Traits(ctx.Cfg)
}

// Elapsed returns how long the active state has run at time now.
func (c *Controller) Elapsed(now time.Duration) time.Duration {
	return now - c.enteredAt
}

// Update runs the active state's force phase. Completion queues the
// successor for the end of the tick.
func (c *Controller) Update(ctx *Context) {
	ctx.Elapsed = c.Elapsed(ctx.Now)
	if c.active.Update(ctx) && c.pending == "" {
		c.request(c.successor(), ReasonComplete)
	}
}

// EndTick checks the timer and applies at most one pending transition.
// ctx.Now must already be the time at the end of the tick.
func (c *Controller) EndTick(ctx *Context) {
	if c.pending == "" && !c.single {
		// Loading only ends on completion.
		id := c.active.ID()
		if d := ctx.Cfg.Duration(string(id)); id != Loading && d > 0 && c.Elapsed(ctx.Now) >= d {
			c.request(c.successor(), ReasonTimer)
		}
	}
	if c.pending == "" {
		return
	}
	to, reason := c.pending, c.pendingReason
	c.pending, c.pendingReason = "", ""
	c.enter(ctx, to, reason)
}

// Next asks for the successor of the active state at the end of the tick.
func (c *Controller) Next() {
	c.request(c.successor(), ReasonNext)
}

// Force asks for a specific state at the end of the tick. Unknown IDs are
// logged and ignored.
func (c *Controller) Force(id ID) bool {
	if New(id) == nil {
		slog.Warn("unknown state requested", "state", string(id))
		return false
	}
	c.request(id, ReasonForce)
	return true
}

// Resize re-enters the active state so it can recompute geometry for the
// new canvas. The state timer keeps running.
func (c *Controller) Resize(ctx *Context) {
	if c.active == nil {
		return
	}
	ctx.Elapsed = c.Elapsed(ctx.Now)
	c.active.Enter(ctx)
}

// successor returns the state that follows the active one: the first entry
// of the sequence after loading or after any state outside the sequence,
// otherwise the next entry, wrapping around.
func (c *Controller) successor() ID {
	cur := c.Active()
	for i, id := range c.sequence {
		if id == cur {
			return c.sequence[(i+1)%len(c.sequence)]
		}
	}
	return c.sequence[0]
}

func (c *Controller) request(id ID, reason string) {
	c.pending = id
	c.pendingReason = reason
}

func (c *Controller) enter(ctx *Context, id ID, reason string) {
	from := c.Active()
	if c.active != nil {
		c.active.Exit(ctx)
	}
	c.active = New(id)
	c.enteredAt = ctx.Now
	ctx.Elapsed = 0
	c.active.Enter(ctx)

	slog.Info("state_transition",
		"from", string(from),
		"to", string(id),
		"reason", reason,
		"sim_time", ctx.Now.Seconds(),
	)
	if c.OnTransition != nil {
		c.OnTransition(Transition{From: from, To: id, Reason: reason, At: ctx.Now})
	}
}

// sequenceFrom validates a configured sequence, dropping unknown names and
// loading. An empty result falls back to DefaultSequence.
func sequenceFrom(names []string) []ID {
	seq := make([]ID, 0, len(names))
	for _, name := range names {
		id := ID(name)
		if id == Loading || New(id) == nil {
			slog.Warn("ignoring state in sequence", "state", name)
			continue
		}
		seq = append(seq, id)
	}
	if len(seq) == 0 {
		return append([]ID(nil), DefaultSequence...)
	}
	return seq
}
