package socketio

import (
	"net"
	"strings"
	"sync"
)

// ClientLimiter caps the number of concurrent remote metadata subscribers.
// Loopback clients (a desktop bridge on the same host) are never counted.
// When a new remote client exceeds the cap, the oldest remote client is evicted.
type ClientLimiter struct {
	mu        sync.Mutex
	maxRemote int // <= 0 means unlimited
	remote    []string          // remote client IDs, oldest first
	clients   map[string]string // clientID -> host
}

// NewClientLimiter creates a limiter allowing up to maxRemote remote clients.
func NewClientLimiter(maxRemote int) *ClientLimiter {
	return &ClientLimiter{
		maxRemote: maxRemote,
		clients:   make(map[string]string),
	}
}

// TryAdd registers a client and returns the ID of any client it displaced.
// addr may be a bare host or host:port.
func (cl *ClientLimiter) TryAdd(clientID, addr string) (evictedID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.clients[clientID]; exists {
		return ""
	}

	host := hostOf(addr)
	cl.clients[clientID] = host

	if isLoopback(host) {
		return ""
	}

	cl.remote = append(cl.remote, clientID)
	if cl.maxRemote <= 0 || len(cl.remote) <= cl.maxRemote {
		return ""
	}

	evictedID = cl.remote[0]
	cl.remote = cl.remote[1:]
	delete(cl.clients, evictedID)
	return evictedID
}

// Remove unregisters a client when it disconnects.
func (cl *ClientLimiter) Remove(clientID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	host, exists := cl.clients[clientID]
	if !exists {
		return
	}
	delete(cl.clients, clientID)

	if isLoopback(host) {
		return
	}
	for i, id := range cl.remote {
		if id == clientID {
			cl.remote = append(cl.remote[:i], cl.remote[i+1:]...)
			break
		}
	}
}

// Count returns the number of tracked clients.
func (cl *ClientLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}

// hostOf strips an optional port from addr.
func hostOf(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

// isLoopback reports whether host is a loopback address.
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
