package trigger

import (
	"fmt"

	hook "github.com/robotn/gohook"
	"github.com/selwrite/selwrite/pkg/logging"
)

const primaryButton = 1

// Listener installs the global input hooks and feeds raw events into a
// Detector. It is intentionally thin: all gesture logic lives in the
// detector so it can be tested without OS hooks.
type Listener struct {
	detector *Detector
	events   chan hook.Event
	logger   *logging.Logger
}

// StartListener installs the global hooks and starts dispatching. Hook
// installation failure is fatal; there is no retry.
func StartListener(detector *Detector) (*Listener, error) {
	events := hook.Start()
	if events == nil {
		return nil, fmt.Errorf("failed to install global input hooks")
	}
	l := &Listener{
		detector: detector,
		events:   events,
		logger:   logging.GetLogger(false),
	}
	go l.dispatch()
	l.logger.Info("global input listeners started")
	return l, nil
}

func (l *Listener) dispatch() {
	for ev := range l.events {
		switch ev.Kind {
		case hook.MouseDown:
			if ev.Button == primaryButton {
				l.detector.PointerDown()
			}
		case hook.MouseUp:
			if ev.Button == primaryButton {
				l.detector.PointerUp()
			}
		case hook.MouseWheel:
			l.detector.Scroll()
		case hook.KeyDown:
			if isConfirmKey(ev) {
				l.detector.ConfirmKey()
			}
		}
	}
	l.logger.Info("global input listeners stopped")
}

// Stop uninstalls the hooks; the dispatch goroutine exits when the event
// channel closes.
func (l *Listener) Stop() {
	hook.End()
}

func isConfirmKey(ev hook.Event) bool {
	return ev.Keychar == '\r' || ev.Keychar == '\n'
}
