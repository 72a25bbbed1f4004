// Package transport implements the Coordinator's multiplexed router socket.
// No ZMQ binding is reachable in this module's dependency surface, so the
// ROUTER/DEALER pairing SPEC_FULL.md §6/§11.1 describes is realized over
// gorilla/websocket: each accepted connection is assigned a durable string
// identity at handshake time, standing in for ZMQ's transport-assigned
// identity frame.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/leco-dev/coordinator/pkg/logger"
)

// ErrClosed is returned by Recv/Send once the Router has been shut down.
var ErrClosed = errors.New("transport: router closed")

// Delivery pairs a peer identity with the logical message it sent, mirroring
// the ZMQ ROUTER read pattern of "identity frame, then message frames".
type Delivery struct {
	Identity string
	Frames   Frames
}

type peer struct {
	identity string
	conn     *websocket.Conn
	send     chan Frames
	cancel   context.CancelFunc
}

// Router is the Coordinator's exclusively-owned transport: it accepts
// connections, assigns identities, and exposes a single inbound queue plus
// targeted sends. Concurrency pattern (buffered channels gated by a done
// channel and an atomic closed flag) follows the teacher's message bus.
type Router struct {
	upgrader websocket.Upgrader
	server   *http.Server

	inbound chan Delivery
	done    chan struct{}
	closed  atomic.Bool

	mu    sync.RWMutex
	peers map[string]*peer
}

// NewRouter constructs an unbound Router. Call Bind to start accepting
// connections on a TCP endpoint, serve Handler from another http.Server, or
// hand it already-established websocket connections through Register.
func NewRouter() *Router {
	return &Router{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		inbound: make(chan Delivery, 256),
		done:    make(chan struct{}),
		peers:   make(map[string]*peer),
	}
}

// Bind starts an HTTP server on addr (host:port, or ":port") that upgrades
// every incoming request to a websocket connection and registers it as a
// new peer. Port 0 in the caller's configuration means "do not bind" — the
// caller should simply not call Bind in that case.
func (r *Router) Bind(ctx context.Context, addr string) error {
	r.server = &http.Server{Addr: addr, Handler: r.Handler()}

	ln, err := newListener(addr)
	if err != nil {
		return fmt.Errorf("transport: bind %s: %w", addr, err)
	}

	go func() {
		if err := r.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCF("transport", "router server stopped", map[string]any{"error": err.Error()})
		}
	}()

	go func() {
		<-ctx.Done()
		_ = r.Shutdown(context.Background())
	}()

	return nil
}

// Handler returns the http.Handler that upgrades connections into peers, so
// callers (and tests) can embed the Router in their own http.Server/mux or
// an httptest.Server without going through Bind's TCP listener.
func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", r.handleUpgrade)
	return mux
}

func (r *Router) handleUpgrade(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.ErrorCF("transport", "upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	identity := uuid.NewString()
	r.Register(identity, conn)
}

// Register adopts an already-established websocket connection under the
// given identity and starts its read/write pumps. Exposed so tests (and
// alternate listeners) can hand the Router a connection without an HTTP
// round trip.
func (r *Router) Register(identity string, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &peer{identity: identity, conn: conn, send: make(chan Frames, 64), cancel: cancel}

	r.mu.Lock()
	r.peers[identity] = p
	r.mu.Unlock()

	go r.readPump(ctx, p)
	go r.writePump(ctx, p)
}

func (r *Router) readPump(ctx context.Context, p *peer) {
	defer r.removePeer(p.identity)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		frames, err := decodeFrames(data)
		if err != nil {
			logger.WarnCF("transport", "dropping malformed delivery", map[string]any{"identity": p.identity, "error": err.Error()})
			continue
		}
		select {
		case r.inbound <- Delivery{Identity: p.identity, Frames: frames}:
		case <-r.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Router) writePump(ctx context.Context, p *peer) {
	for {
		select {
		case frames := <-p.send:
			if err := p.conn.WriteMessage(websocket.BinaryMessage, encodeFrames(frames)); err != nil {
				return
			}
		case <-r.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Router) removePeer(identity string) {
	r.mu.Lock()
	p, ok := r.peers[identity]
	if ok {
		delete(r.peers, identity)
	}
	r.mu.Unlock()
	if ok {
		p.cancel()
		_ = p.conn.Close()
	}
}

// Recv blocks until a Delivery arrives, ctx is cancelled, or the Router is
// closed.
func (r *Router) Recv(ctx context.Context) (Delivery, bool) {
	select {
	case d, ok := <-r.inbound:
		return d, ok
	case <-r.done:
		return Delivery{}, false
	case <-ctx.Done():
		return Delivery{}, false
	}
}

// Send enqueues frames for delivery to identity. It returns an error if the
// identity has no live connection (e.g. it disconnected since the directory
// last saw it) or the Router is closed.
func (r *Router) Send(ctx context.Context, identity string, frames Frames) error {
	if r.closed.Load() {
		return ErrClosed
	}
	r.mu.RLock()
	p, ok := r.peers[identity]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("transport: no live connection for identity %q", identity)
	}
	select {
	case p.send <- frames:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("transport: send to %q timed out", identity)
	}
}

// Shutdown stops accepting connections, closes every peer, and unblocks any
// pending Recv/Send calls.
func (r *Router) Shutdown(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.done)

	r.mu.Lock()
	peers := r.peers
	r.peers = make(map[string]*peer)
	r.mu.Unlock()
	for _, p := range peers {
		p.cancel()
		_ = p.conn.Close()
	}

	if r.server != nil {
		return r.server.Shutdown(ctx)
	}
	return nil
}
