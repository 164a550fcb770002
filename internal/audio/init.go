package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	paOnce   sync.Once
	paMu     sync.Mutex
	paErr    error
	paActive bool
)

// Initialize starts PortAudio once per process. Sinks and captures call it
// lazily so runs with -output none never touch the audio stack.
func Initialize() error {
	paOnce.Do(func() {
		paErr = portaudio.Initialize()
		paMu.Lock()
		paActive = paErr == nil
		paMu.Unlock()
	})
	return paErr
}

// Terminate balances a successful Initialize. It is a no-op otherwise.
func Terminate() {
	paMu.Lock()
	defer paMu.Unlock()
	if !paActive {
		return
	}
	paActive = false
	_ = portaudio.Terminate()
}
