// Package trigger recognizes the "select text, then press Enter" gesture
// from global pointer and key events and gates the downstream pipeline so
// only one run executes at a time.
package trigger

import (
	"sync"
	"time"

	"github.com/selwrite/selwrite/pkg/logging"
)

// State is the detector's observable phase.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StateSelectionEnded
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateSelectionEnded:
		return "selection_ended"
	case StateProcessing:
		return "processing"
	default:
		return "idle"
	}
}

// Detector tracks selection gestures. All fields are guarded by a single
// lock because pointer and key callbacks arrive on independent listener
// goroutines. The processing flag is the sole gate for the pipeline:
// a confirmed trigger while a run is in flight is dropped, never queued.
type Detector struct {
	mu         sync.Mutex
	selecting  bool
	endedAt    time.Time
	processing bool
	dropped    uint64

	window    time.Duration
	onTrigger func()
	now       func() time.Time
	logger    *logging.Logger
}

// NewDetector builds a detector with confirmation window w. onTrigger is
// invoked once per accepted trigger, off the detector's lock; it must
// arrange for Release to be called when the run finishes, on every exit
// path.
func NewDetector(w time.Duration, onTrigger func()) *Detector {
	if w <= 0 {
		w = 2 * time.Second
	}
	return &Detector{
		window:    w,
		onTrigger: onTrigger,
		now:       time.Now,
		logger:    logging.GetLogger(false),
	}
}

// PointerDown starts a selection gesture.
func (d *Detector) PointerDown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selecting = true
	d.endedAt = time.Time{}
}

// PointerUp ends a selection gesture and records its timestamp.
func (d *Detector) PointerUp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.selecting {
		return
	}
	d.selecting = false
	d.endedAt = d.now()
}

// Scroll cancels an in-progress selection. A selection that already ended
// is unaffected.
func (d *Detector) Scroll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selecting {
		d.selecting = false
		d.endedAt = time.Time{}
		d.logger.Debug("scroll cancelled in-progress selection")
	}
}

// ConfirmKey handles the confirmation key. If a selection ended within the
// window the trigger fires (or is dropped when a run is already in
// flight); either way the selection is consumed so one gesture produces at
// most one trigger.
func (d *Detector) ConfirmKey() {
	d.mu.Lock()
	if d.endedAt.IsZero() {
		d.mu.Unlock()
		return
	}
	elapsed := d.now().Sub(d.endedAt)
	if elapsed <= 0 || elapsed >= d.window {
		d.endedAt = time.Time{}
		d.logger.Debug("confirmation outside window (%v), ignoring", elapsed)
		d.mu.Unlock()
		return
	}
	d.endedAt = time.Time{}
	if d.processing {
		d.dropped++
		d.logger.Warn("trigger dropped: a run is already in progress (%d dropped so far)", d.dropped)
		d.mu.Unlock()
		return
	}
	d.processing = true
	fire := d.onTrigger
	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Release returns the detector to idle after a pipeline run.
func (d *Detector) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.processing = false
}

// State reports the current phase.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.processing:
		return StateProcessing
	case d.selecting:
		return StateSelecting
	case !d.endedAt.IsZero():
		return StateSelectionEnded
	default:
		return StateIdle
	}
}

// DroppedCount reports how many confirmed triggers were discarded because
// a run was already in flight.
func (d *Detector) DroppedCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}
