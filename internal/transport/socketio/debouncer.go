package socketio

import (
	"sync"
	"time"
)

// BroadcastDebouncer collapses rapid MPD subsystem events into batched broadcasts.
// Multiple subsystem changes within the debounce window result in a single
// broadcast for each affected kind (metadata and/or status).
type BroadcastDebouncer struct {
	window           time.Duration
	metadataCallback func()
	statusCallback   func()

	mu              sync.Mutex
	pendingMetadata bool
	pendingStatus   bool
	timer           *time.Timer
	stopped         bool
}

// NewBroadcastDebouncer creates a debouncer with the given window duration.
// metadataCallback is called when the loaded song may have changed (player, playlist).
// statusCallback is called when only playback options changed (mixer, options).
func NewBroadcastDebouncer(window time.Duration, metadataCallback, statusCallback func()) *BroadcastDebouncer {
	return &BroadcastDebouncer{
		window:           window,
		metadataCallback: metadataCallback,
		statusCallback:   statusCallback,
	}
}

// Trigger records that the given MPD subsystem has changed.
// Callbacks are deferred until the window elapses without further triggers.
// Unknown subsystems are ignored.
func (d *BroadcastDebouncer) Trigger(subsystem string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	switch subsystem {
	case "player", "playlist":
		d.pendingMetadata = true
	case "mixer", "options":
		d.pendingStatus = true
	default:
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush fires callbacks for any pending flags and resets them.
// A metadata broadcast carries the status too, so it supersedes a status one.
func (d *BroadcastDebouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	doMetadata := d.pendingMetadata
	doStatus := d.pendingStatus && !doMetadata
	d.pendingMetadata = false
	d.pendingStatus = false
	d.mu.Unlock()

	if doMetadata && d.metadataCallback != nil {
		d.metadataCallback()
	}
	if doStatus && d.statusCallback != nil {
		d.statusCallback()
	}
}

// Stop prevents any further callbacks from firing.
func (d *BroadcastDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pendingMetadata = false
	d.pendingStatus = false
}
