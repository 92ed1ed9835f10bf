package action

// Clock is the per-tick epoch counter design-noted in spec.md §9 as a
// replacement for a per-node "done" bool: an action records the epoch at
// which it last executed, and Base.Done() is epoch == current. The driver
// calls Tick() once at the start of every next() call, which is equivalent
// to — but cheaper than — clearing every node's latch individually.
type Clock struct {
	epoch uint64
}

// NewClock returns a Clock starting at epoch 1, so that the zero value of
// Base.doneAt (0) never spuriously matches Epoch() before the first Tick.
func NewClock() *Clock { return &Clock{epoch: 1} }

func (c *Clock) Epoch() uint64 { return c.epoch }

// Tick clears every action's done latch for the next driver iteration.
func (c *Clock) Tick() { c.epoch++ }
