package domain

// Releaser tears down the external resource behind a stream handle, for
// example by redirecting a player to an inert placeholder source. Release
// reports whether the teardown succeeded and must never panic; releasing a
// handle it does not recognize is a no-op returning false.
type Releaser interface {
	Release(h *StreamHandle) bool
}

type RecyclerOption func(*Recycler)

// WithErrorReleaseCount sets how many cached handles OnPlaybackError sheds
// per invocation. The default of one is a memory-pressure relief valve, not
// a correctness requirement.
func WithErrorReleaseCount(n int) RecyclerOption {
	return func(r *Recycler) {
		if n >= 0 {
			r.errorReleaseCount = n
		}
	}
}

// Recycler owns the transition of a single current stream handle while
// bounding how many superseded handles stay alive awaiting cleanup. A handle
// moves Active -> Cached -> Released, or straight to Released when the bound
// is zero or a playback error sheds it early. Every handle that leaves the
// recycler is released exactly once.
//
// The recycler is meant to be driven synchronously from a single caller;
// none of its methods lock. Callers must not use a handle again after it has
// been superseded by RegisterActive.
type Recycler struct {
	bound             int
	releaser          Releaser
	errorReleaseCount int

	current *StreamHandle
	// history holds superseded handles, most recent first.
	history  []*StreamHandle
	released map[HandleID]struct{}
}

func NewRecycler(bound int, releaser Releaser, opts ...RecyclerOption) *Recycler {
	if bound < 0 {
		bound = 0
	}

	r := &Recycler{
		bound:             bound,
		releaser:          releaser,
		errorReleaseCount: 1,
		released:          map[HandleID]struct{}{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterActive makes h the current handle. The previous current handle is
// pushed to the front of the bounded history; entries evicted past the bound
// are released. With a bound of zero the previous handle is released
// immediately instead of being cached. Release failures during eviction are
// swallowed: leaking a stale connection is preferable to failing the caller.
func (r *Recycler) RegisterActive(h *StreamHandle) {
	if h == nil {
		return
	}

	previous := r.current
	r.current = h

	if previous == nil {
		return
	}

	if r.bound == 0 {
		r.releaseOnce(previous)
		return
	}

	r.history = append([]*StreamHandle{previous}, r.history...)
	for len(r.history) > r.bound {
		oldest := r.history[len(r.history)-1]
		r.history = r.history[:len(r.history)-1]
		r.releaseOnce(oldest)
	}
}

// ReleaseHandle tears down h and reports whether a teardown happened. Nil,
// unknown, and already-released handles are a no-op returning false. The
// handle is removed from the recycler's state so it is never released twice.
func (r *Recycler) ReleaseHandle(h *StreamHandle) bool {
	if h == nil {
		return false
	}
	if _, done := r.released[h.ID]; done {
		return false
	}

	if r.current != nil && r.current.ID == h.ID {
		r.current = nil
	}
	for i, cached := range r.history {
		if cached.ID == h.ID {
			r.history = append(r.history[:i], r.history[i+1:]...)
			break
		}
	}

	return r.releaseOnce(h)
}

// OnPlaybackError sheds the most-recently-cached handles in response to a
// consumer error, freeing resources proactively while the system is under
// stress. With an empty history it does nothing.
func (r *Recycler) OnPlaybackError() {
	for i := 0; i < r.errorReleaseCount && len(r.history) > 0; i++ {
		shed := r.history[0]
		r.history = r.history[1:]
		r.releaseOnce(shed)
	}
}

func (r *Recycler) Current() *StreamHandle {
	return r.current
}

// History returns the superseded handles pending release, most recent first.
func (r *Recycler) History() []*StreamHandle {
	out := make([]*StreamHandle, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Recycler) Len() int {
	return len(r.history)
}

func (r *Recycler) releaseOnce(h *StreamHandle) bool {
	if _, done := r.released[h.ID]; done {
		return false
	}
	r.released[h.ID] = struct{}{}

	if r.releaser == nil {
		return false
	}

	return r.releaser.Release(h)
}
