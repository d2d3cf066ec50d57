package params

// SlotForFrame maps a frame counter onto its ring slot.
func SlotForFrame(frame uint64) int {
	return int(frame % MaxBuffersInFlight)
}

// FrameGate bounds how many frames of parameter writes may be outstanding
// at once. It starts with MaxBuffersInFlight tokens; the producer takes one
// before writing a ring slot and the GPU-completion notifier returns it when
// both submissions for that slot have retired. With the token in hand the
// producer owns the slot exclusively, so the parameter regions themselves
// need no locking.
type FrameGate struct {
	tokens chan struct{}
}

func NewFrameGate() *FrameGate {
	g := &FrameGate{tokens: make(chan struct{}, MaxBuffersInFlight)}
	for i := 0; i < MaxBuffersInFlight; i++ {
		g.tokens <- struct{}{}
	}
	return g
}

// Acquire blocks until a ring slot is free to write. The wait is unbounded;
// the present cadence limits how far ahead the producer can get.
func (g *FrameGate) Acquire() {
	<-g.tokens
}

// TryAcquire takes a token without blocking.
func (g *FrameGate) TryAcquire() bool {
	select {
	case <-g.tokens:
		return true
	default:
		return false
	}
}

// Release returns a token. Releasing more than was acquired means the
// completion wiring is broken, so it panics rather than overfill.
func (g *FrameGate) Release() {
	select {
	case g.tokens <- struct{}{}:
	default:
		panic("params: FrameGate released more frames than acquired")
	}
}

// ReleaseAfter returns the token from a new goroutine once wait reports
// that the GPU retired the slot's submitted work. Any path that has already
// submitted commands for the slot must release this way; a synchronous
// Release would hand the slot back while the GPU may still read it.
func (g *FrameGate) ReleaseAfter(wait func()) {
	go func() {
		wait()
		g.Release()
	}()
}

// Outstanding reports how many acquired frames have not been released.
func (g *FrameGate) Outstanding() int {
	return MaxBuffersInFlight - len(g.tokens)
}
