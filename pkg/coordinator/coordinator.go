// Package coordinator implements the routing core: the single-threaded
// read-parse-check-dispatch-resolve-send loop that turns a bound transport
// and a Component directory into a LECO Coordinator. See SPEC_FULL.md §4.H.
package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/leco-dev/coordinator/pkg/directory"
	"github.com/leco-dev/coordinator/pkg/leco"
	"github.com/leco-dev/coordinator/pkg/logger"
	"github.com/leco-dev/coordinator/pkg/transport"
)

const component = "coordinator"

// replyMessageType is the message-type byte the Coordinator stamps on every
// message it builds itself: self-handler responses, synthesized errors, and
// pings.
const replyMessageType byte = 1

// Router is the subset of *transport.Router the routing loop depends on,
// narrowed so tests can supply a fake transport without standing up real
// websockets.
type Router interface {
	Recv(ctx context.Context) (transport.Delivery, bool)
	Send(ctx context.Context, identity string, frames transport.Frames) error
}

// Coordinator owns a namespace, a directory of signed-in Components, and a
// transport. It is not safe for concurrent use: §5 requires all directory
// and routing state to be touched only from the Run loop.
type Coordinator struct {
	namespace []byte
	fullName  []byte

	router Router
	dir    *directory.Directory

	running atomic.Bool

	pingThreshold     time.Duration
	evictionThreshold time.Duration
}

// Option customizes a Coordinator at construction time.
type Option func(*Coordinator)

// WithThresholds overrides the default 10s/30s ping and eviction thresholds.
func WithThresholds(ping, eviction time.Duration) Option {
	return func(c *Coordinator) {
		c.pingThreshold = ping
		c.evictionThreshold = eviction
	}
}

// New constructs a Coordinator for namespace, routing over router.
func New(namespace string, router Router, opts ...Option) *Coordinator {
	c := &Coordinator{
		namespace:         []byte(namespace),
		fullName:          leco.BuildFullName([]byte(namespace), []byte("COORDINATOR")),
		router:            router,
		dir:               directory.New(),
		pingThreshold:     10 * time.Second,
		evictionThreshold: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Directory exposes the Component directory, mainly for the housekeeping
// scheduler's read-only stats pass.
func (c *Coordinator) Directory() *directory.Directory { return c.dir }

// Stop requests the Run loop to exit after finishing its current iteration.
// This is the out-of-band lever layered on top of the in-band shut_down
// self-handled message (SPEC_FULL.md §5).
func (c *Coordinator) Stop() { c.running.Store(false) }

// Run drives the routing loop until ctx is cancelled, Stop is called, or a
// shut_down message is self-handled. It polls the transport with a timeout
// bounded by half the ping threshold and runs the timeout scan on every
// wake, so liveness maintenance never starves behind a quiet transport.
func (c *Coordinator) Run(ctx context.Context) error {
	c.running.Store(true)
	for c.running.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}

		recvCtx, cancel := context.WithTimeout(ctx, c.pingThreshold/2)
		delivery, ok := c.router.Recv(recvCtx)
		cancel()

		if ok {
			c.handleDelivery(ctx, delivery)
		}
		c.scanTimeouts(ctx)
	}
	return nil
}

func (c *Coordinator) handleDelivery(ctx context.Context, d transport.Delivery) {
	msg, err := leco.NewMessage(d.Frames)
	if err != nil {
		logger.WarnCF(component, "dropping malformed delivery", map[string]any{"identity": d.Identity, "error": err.Error()})
		return
	}
	sender, err := msg.Sender()
	if err != nil {
		logger.WarnCF(component, "dropping message with unparsable sender", map[string]any{"identity": d.Identity})
		return
	}
	receiver, err := msg.Receiver()
	if err != nil {
		logger.WarnCF(component, "dropping message with unparsable receiver", map[string]any{"identity": d.Identity})
		return
	}

	if authErr := c.check(d.Identity, sender, receiver, msg); authErr != nil {
		errMsg := c.errorMessage(msg.SenderFrame(), msg.Header().ConversationID(), authErr.Kind)
		if sendErr := c.router.Send(ctx, d.Identity, errMsg.Frames()); sendErr != nil {
			logger.WarnCF(component, "failed to deliver authorization error", map[string]any{"identity": d.Identity, "error": sendErr.Error()})
		}
		return
	}

	if receiver.IsCoordinator() && c.isLocalNamespace(receiver.Namespace) {
		// Self-handler replies go back by the raw transport identity: after a
		// sign_out the sender is no longer resolvable through the directory.
		reply := c.handleSelf(msg, sender)
		if sendErr := c.router.Send(ctx, d.Identity, reply.Frames()); sendErr != nil {
			logger.WarnCF(component, "failed to deliver self-handler reply", map[string]any{"identity": d.Identity, "error": sendErr.Error()})
		}
		return
	}

	c.route(ctx, msg, sender)
}

// check authorizes an incoming message per §4.H step 3: an already signed-in
// sender must present the identity it signed in with; an unrecognized sender
// may only pass if the message is a sign_in addressed at this Coordinator,
// in which case it is admitted into the directory.
func (c *Coordinator) check(identity string, sender, receiver leco.FullName, msg *leco.Message) *leco.Error {
	name := string(sender.Name)
	if entry, ok := c.dir.Get(name); ok {
		if !bytes.Equal(entry.Identity, []byte(identity)) {
			return leco.NewError(leco.ErrDuplicateName)
		}
		c.dir.Touch(name)
		return nil
	}

	if receiver.IsCoordinator() && c.isLocalNamespace(receiver.Namespace) {
		if content := msg.ContentFrame(); content != nil && leco.IsSignIn(content) {
			c.dir.Insert(name, []byte(identity))
			return nil
		}
	}
	return leco.NewError(leco.ErrNotSignedIn)
}

// handleSelf executes the self-handler table for a message addressed at
// this Coordinator (§4.H): sign_in, sign_out, pong, and shut_down, with
// InvalidRequest/ParseError fallbacks for anything else.
func (c *Coordinator) handleSelf(msg *leco.Message, sender leco.FullName) *leco.Message {
	replyTo := msg.SenderFrame()
	conversationID := msg.Header().ConversationID()

	content := msg.ContentFrame()
	if content == nil {
		return c.errorMessage(replyTo, conversationID, leco.ErrParseError)
	}
	var req leco.Request
	if err := json.Unmarshal(content, &req); err != nil {
		return c.errorMessage(replyTo, conversationID, leco.ErrParseError)
	}

	switch req.Method {
	case "sign_in":
		return c.responseMessage(replyTo, conversationID, req.ID, nil)
	case "sign_out":
		c.dir.Remove(string(sender.Name))
		return c.responseMessage(replyTo, conversationID, req.ID, nil)
	case "pong":
		return c.responseMessage(replyTo, conversationID, req.ID, nil)
	case "shut_down":
		c.Stop()
		return c.responseMessage(replyTo, conversationID, req.ID, nil)
	default:
		return c.errorMessage(replyTo, conversationID, leco.ErrInvalidRequest)
	}
}

// route resolves msg's receiver to a live transport identity and sends it.
// On resolution failure it synthesizes an error addressed to the original
// sender and re-resolves that instead; if the original sender is itself
// unresolvable the message is dropped and logged (§4.H step 5/6).
func (c *Coordinator) route(ctx context.Context, msg *leco.Message, originalSender leco.FullName) {
	receiver, err := msg.Receiver()
	if err != nil {
		logger.WarnCF(component, "dropping outgoing message with unparsable receiver", nil)
		return
	}

	identity, resErr := c.resolve(receiver)
	if resErr != nil {
		errMsg := c.errorMessage(leco.BuildFullName(originalSender.Namespace, originalSender.Name), msg.Header().ConversationID(), resErr.Kind)
		fallbackIdentity, fallbackErr := c.resolve(originalSender)
		if fallbackErr != nil {
			logger.WarnCF(component, "dropping message: neither receiver nor original sender resolve", map[string]any{
				"receiver": receiver.String(),
				"sender":   originalSender.String(),
			})
			return
		}
		if sendErr := c.router.Send(ctx, fallbackIdentity, errMsg.Frames()); sendErr != nil {
			logger.WarnCF(component, "failed to deliver resolution error", map[string]any{"error": sendErr.Error()})
		}
		return
	}

	if sendErr := c.router.Send(ctx, identity, msg.Frames()); sendErr != nil {
		logger.WarnCF(component, "failed to deliver message", map[string]any{"identity": identity, "error": sendErr.Error()})
	}
}

// resolve maps a FullName to a live transport identity via the directory,
// honouring the federation hook: any non-empty namespace other than this
// Coordinator's own is NodeUnknown (SPEC_FULL.md §9).
func (c *Coordinator) resolve(name leco.FullName) (string, *leco.Error) {
	if !c.isLocalNamespace(name.Namespace) {
		return "", leco.NewError(leco.ErrNodeUnknown)
	}
	entry, ok := c.dir.Get(string(name.Name))
	if !ok {
		return "", leco.NewError(leco.ErrReceiverUnknown)
	}
	return string(entry.Identity), nil
}

func (c *Coordinator) isLocalNamespace(ns []byte) bool {
	return len(ns) == 0 || bytes.Equal(ns, c.namespace)
}

// scanTimeouts evicts Components that have been silent past the eviction
// threshold, then pings those merely past the ping threshold. Eviction runs
// first so an about-to-be-dropped entry is never pinged.
func (c *Coordinator) scanTimeouts(ctx context.Context) {
	for _, name := range c.dir.IdleSince(c.evictionThreshold) {
		logger.InfoCF(component, "evicting unresponsive component", map[string]any{"name": name})
		c.dir.Remove(name)
	}
	for _, name := range c.dir.IdleSince(c.pingThreshold) {
		entry, ok := c.dir.Get(name)
		if !ok {
			continue
		}
		c.sendPing(ctx, name, string(entry.Identity))
	}
}

func (c *Coordinator) sendPing(ctx context.Context, name, identity string) {
	body, err := leco.Marshal(leco.BuildRequest(0, "pong"))
	if err != nil {
		logger.WarnCF(component, "failed to encode ping", map[string]any{"name": name, "error": err.Error()})
		return
	}
	receiver := leco.BuildFullName(c.namespace, []byte(name))
	msg := leco.BuildMessage(receiver, c.fullName, nil, nil, replyMessageType, leco.FrameContent(body))
	if sendErr := c.router.Send(ctx, identity, msg.Frames()); sendErr != nil {
		logger.WarnCF(component, "ping delivery failed", map[string]any{"name": name, "error": sendErr.Error()})
	}
}

// errorMessage builds a JSON-RPC ErrorResponse addressed at receiver, always
// under id 0 — matching the original implementation, which never threads the
// failing request's id through a synthesized error.
func (c *Coordinator) errorMessage(receiver, conversationID []byte, kind leco.ErrorKind) *leco.Message {
	body, err := leco.Marshal(leco.BuildErrorResponse(0, kind))
	if err != nil {
		body = []byte(`{"jsonrpc":"2.0","id":0,"error":{"code":-32603,"message":"Server error."}}`)
	}
	var cid leco.ConversationID
	copy(cid[:], conversationID)
	return leco.BuildMessage(receiver, c.fullName, &cid, nil, replyMessageType, leco.FrameContent(body))
}

func (c *Coordinator) responseMessage(receiver, conversationID []byte, id uint16, result any) *leco.Message {
	body, err := leco.Marshal(leco.BuildResponse(id, result))
	if err != nil {
		return c.errorMessage(receiver, conversationID, leco.ErrInternalError)
	}
	var cid leco.ConversationID
	copy(cid[:], conversationID)
	return leco.BuildMessage(receiver, c.fullName, &cid, nil, replyMessageType, leco.FrameContent(body))
}
