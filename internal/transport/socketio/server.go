// Package socketio provides the Socket.io server that pushes track metadata to clients.
package socketio

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/edumarques81/stellar-artbridge/internal/domain/player"
)

// DefaultDebounceWindow is used when Options.DebounceWindow is zero.
const DefaultDebounceWindow = 150 * time.Millisecond

// SnapshotSource provides the current metadata snapshot.
type SnapshotSource interface {
	GetSnapshot() (*player.Snapshot, error)
}

// Watcher delivers MPD subsystem change notifications.
type Watcher interface {
	Watch(subsystems ...string) (<-chan string, error)
}

// Options configures the server.
type Options struct {
	DebounceWindow time.Duration
	MaxRemote      int // maximum remote clients, <= 0 for unlimited
}

// Server handles Socket.io connections and events.
type Server struct {
	io        *socket.Server
	source    SnapshotSource
	watcher   Watcher
	limiter   *ClientLimiter
	debouncer *BroadcastDebouncer

	mu      sync.RWMutex
	clients map[string]*socket.Socket

	lastMu   sync.Mutex
	lastSnap *player.Snapshot
}

// NewServer creates a new Socket.io server. watcher may be nil when no
// change notifications are available.
func NewServer(source SnapshotSource, watcher Watcher, options Options) (*Server, error) {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(20 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	window := options.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}

	s := &Server{
		io:      socket.NewServer(nil, opts),
		source:  source,
		watcher: watcher,
		limiter: NewClientLimiter(options.MaxRemote),
		clients: make(map[string]*socket.Socket),
	}
	s.debouncer = NewBroadcastDebouncer(window, s.BroadcastMetadata, s.BroadcastStatus)

	s.setupHandlers()

	return s, nil
}

// setupHandlers registers all Socket.io event handlers.
func (s *Server) setupHandlers() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		clientID := string(client.Id())
		addr := client.Handshake().Address

		log.Info().Str("id", clientID).Str("addr", addr).Msg("Client connected")

		if evicted := s.limiter.TryAdd(clientID, addr); evicted != "" {
			s.evict(evicted)
		}

		s.mu.Lock()
		s.clients[clientID] = client
		s.mu.Unlock()

		// Send initial snapshot after small delay
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.pushSnapshot(client)
		}()

		client.On("disconnect", func(args ...any) {
			reason := ""
			if len(args) > 0 {
				if r, ok := args[0].(string); ok {
					reason = r
				}
			}
			log.Info().Str("id", clientID).Str("reason", reason).Msg("Client disconnected")

			s.limiter.Remove(clientID)
			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
		})

		client.On("getMetadata", func(args ...any) {
			log.Debug().Str("id", clientID).Msg("getMetadata")
			s.pushSnapshot(client)
		})

		client.On("getStatus", func(args ...any) {
			log.Debug().Str("id", clientID).Msg("getStatus")
			snap, err := s.source.GetSnapshot()
			if err != nil {
				log.Error().Err(err).Msg("Failed to get status")
				return
			}
			client.Emit("pushStatus", snap.Status)
		})
	})
}

// evict disconnects a client displaced by the limiter.
func (s *Server) evict(clientID string) {
	s.mu.Lock()
	client, ok := s.clients[clientID]
	delete(s.clients, clientID)
	s.mu.Unlock()

	if ok {
		log.Info().Str("id", clientID).Msg("Evicting oldest remote client")
		client.Disconnect(true)
	}
}

// pushSnapshot sends metadata and status to one client.
func (s *Server) pushSnapshot(client *socket.Socket) {
	snap, err := s.source.GetSnapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get metadata")
		return
	}
	client.Emit("pushMetadata", snap.Metadata)
	client.Emit("pushStatus", snap.Status)
}

// BroadcastMetadata sends metadata and status to all connected clients,
// unless nothing but the playback position changed since the last broadcast.
func (s *Server) BroadcastMetadata() {
	snap, err := s.source.GetSnapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get metadata for broadcast")
		return
	}

	if s.isSnapshotSame(snap) {
		log.Debug().Msg("Metadata unchanged, skipping broadcast")
		return
	}
	s.saveLastSnapshot(snap)

	s.io.Emit("pushMetadata", snap.Metadata)
	s.io.Emit("pushStatus", snap.Status)

	if log.Debug().Enabled() {
		data, _ := json.Marshal(snap.Metadata)
		log.Debug().RawJSON("metadata", data).Int("clients", s.ClientCount()).Msg("Broadcast metadata")
	}
}

// BroadcastStatus sends playback status to all connected clients.
func (s *Server) BroadcastStatus() {
	snap, err := s.source.GetSnapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get status for broadcast")
		return
	}
	s.saveLastSnapshot(snap)
	s.io.Emit("pushStatus", snap.Status)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// isSnapshotSame reports whether snap differs from the last broadcast only
// in playback position, which clients interpolate themselves.
func (s *Server) isSnapshotSame(snap *player.Snapshot) bool {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	last := s.lastSnap
	if last == nil || snap == nil || last.Status == nil || snap.Status == nil {
		return false
	}

	a, b := *last.Status, *snap.Status
	a.Position, b.Position = 0, 0
	return a == b && reflect.DeepEqual(last.Metadata, snap.Metadata)
}

// saveLastSnapshot stores snap for change detection.
func (s *Server) saveLastSnapshot(snap *player.Snapshot) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.lastSnap = snap
}

// StartMPDWatcher starts watching MPD for changes and broadcasts updates.
func (s *Server) StartMPDWatcher(ctx context.Context, subsystems ...string) error {
	if s.watcher == nil {
		log.Warn().Msg("No MPD watcher configured, metadata will only be sent on request")
		return nil
	}

	events, err := s.watcher.Watch(subsystems...)
	if err != nil {
		return err
	}

	go func() {
		log.Info().Strs("subsystems", subsystems).Msg("MPD watcher started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("MPD watcher stopped")
				return
			case subsystem, ok := <-events:
				if !ok {
					log.Warn().Msg("MPD watcher channel closed")
					return
				}
				log.Debug().Str("subsystem", subsystem).Msg("MPD subsystem changed")
				s.debouncer.Trigger(subsystem)
			}
		}
	}()

	return nil
}

// ServeHTTP implements http.Handler for the Socket.io server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHandler(nil).ServeHTTP(w, r)
}

// Close stops pending broadcasts and closes the Socket.io server.
func (s *Server) Close() error {
	s.debouncer.Stop()
	s.io.Close(nil)
	return nil
}
