package circuitbreaker

// window is a fixed-capacity ring buffer of call outcomes. It keeps a
// running failure count so the failure rate is O(1) to compute.
//
// Entries are booleans: true records a failure, false a success. When the
// buffer is full the oldest entry is overwritten and the failure count is
// adjusted for the evicted outcome.
type window struct {
	buf      []bool
	pos      int // next write position
	occupied int // recorded outcomes, up to len(buf)
	failures int // failures currently in the buffer
}

func newWindow(size int) *window {
	if size < 1 {
		size = 1
	}
	return &window{buf: make([]bool, size)}
}

// record adds one outcome, evicting the oldest when the buffer is full.
func (w *window) record(failure bool) {
	if w.occupied == len(w.buf) {
		if w.buf[w.pos] {
			w.failures--
		}
	} else {
		w.occupied++
	}

	w.buf[w.pos] = failure
	if failure {
		w.failures++
	}
	w.pos = (w.pos + 1) % len(w.buf)
}

// failureRate returns the failure percentage over the occupied portion of
// the buffer, not its capacity. Returns 0 before any outcome is recorded.
func (w *window) failureRate() float64 {
	if w.occupied == 0 {
		return 0
	}
	return float64(w.failures) / float64(w.occupied) * 100
}

func (w *window) reset() {
	w.pos = 0
	w.occupied = 0
	w.failures = 0
}
