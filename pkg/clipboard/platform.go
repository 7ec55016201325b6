package clipboard

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// keybdSynthesizer drives the OS input layer to emit the copy combination:
// Cmd+C on macOS, Ctrl+C elsewhere.
type keybdSynthesizer struct {
	kb keybd_event.KeyBonding
}

func newPlatformSynthesizer() (Synthesizer, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key synthesis: %w", err)
	}
	// On Linux the uinput device needs a moment before it accepts events.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}
	kb.SetKeys(keybd_event.VK_C)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	return &keybdSynthesizer{kb: kb}, nil
}

func (s *keybdSynthesizer) SendCopy() error {
	if err := s.kb.Launching(); err != nil {
		return fmt.Errorf("failed to send copy combination: %w", err)
	}
	return nil
}

// systemReader reads the real system clipboard.
type systemReader struct{}

func (systemReader) ReadAll() (string, error) {
	return clipboard.ReadAll()
}
