// Package clipboard captures the user's current selection by synthesizing
// the platform copy combination and reading the system clipboard back.
package clipboard

import (
	"strings"
	"time"

	"github.com/selwrite/selwrite/pkg/logging"
)

// Synthesizer injects the platform copy key combination into the focused
// application.
type Synthesizer interface {
	SendCopy() error
}

// Reader reads the system clipboard.
type Reader interface {
	ReadAll() (string, error)
}

// Bridge captures selections. A missing selection is a normal, recoverable
// condition: CaptureSelection returns "" on any failure and never panics
// or propagates an error.
type Bridge struct {
	synth   Synthesizer
	reader  Reader
	settle  time.Duration
	retries int
	sleep   func(time.Duration)
	logger  *logging.Logger
}

// New builds a bridge using the platform synthesizer and clipboard reader.
// settle is the base wait between the synthesized copy and the clipboard
// read; retries is the number of extra attempts (clipboard propagation is
// asynchronous relative to the synthesized key event).
func New(settle time.Duration, retries int) (*Bridge, error) {
	synth, err := newPlatformSynthesizer()
	if err != nil {
		return nil, err
	}
	return newBridge(synth, systemReader{}, settle, retries), nil
}

func newBridge(synth Synthesizer, reader Reader, settle time.Duration, retries int) *Bridge {
	if settle <= 0 {
		settle = 100 * time.Millisecond
	}
	if retries < 0 {
		retries = 0
	}
	return &Bridge{
		synth:   synth,
		reader:  reader,
		settle:  settle,
		retries: retries,
		sleep:   time.Sleep,
		logger:  logging.GetLogger(false),
	}
}

// CaptureSelection copies the current selection and returns its text.
// Each retry waits one settle interval longer than the last.
func (b *Bridge) CaptureSelection() string {
	for attempt := 0; attempt <= b.retries; attempt++ {
		if err := b.synth.SendCopy(); err != nil {
			b.logger.Warn("copy synthesis failed: %v", err)
			return ""
		}

		b.sleep(b.settle * time.Duration(attempt+1))

		text, err := b.reader.ReadAll()
		if err != nil {
			b.logger.Warn("clipboard read failed (attempt %d): %v", attempt+1, err)
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
		b.logger.Debug("clipboard empty after attempt %d", attempt+1)
	}
	b.logger.Warn("no selection captured after %d attempts", b.retries+1)
	return ""
}
