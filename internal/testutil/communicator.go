// Package testutil provides a minimal DEALER-equivalent test client for
// driving a Coordinator end to end over a real websocket connection. It
// mirrors the synchronous send/recv helper the original implementation
// exposed to its own integration tests, adapted from ZMQ's blocking
// multipart socket calls to gorilla/websocket's one-message-at-a-time API.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/leco-dev/coordinator/pkg/leco"
	"github.com/leco-dev/coordinator/pkg/transport"
)

// Communicator is a signed-in-or-not test Component: it knows its own short
// name, tracks the full name the Coordinator assigns it at sign-in, and
// speaks the control wire protocol directly.
type Communicator struct {
	name     []byte
	fullName []byte
	conn     *websocket.Conn
}

// Dial connects to a Router's websocket endpoint (typically an
// httptest.Server URL with its scheme swapped to ws/wss) and builds a
// Communicator identified by name.
func Dial(ctx context.Context, wsURL, name string) (*Communicator, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("testutil: dial %s: %w", wsURL, err)
	}
	return &Communicator{name: []byte(name), fullName: []byte(name), conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Communicator) Close() error { return c.conn.Close() }

// SendMessage writes a pre-built control message frame-for-frame.
func (c *Communicator) SendMessage(msg *leco.Message) error {
	return c.conn.WriteMessage(websocket.BinaryMessage, transport.EncodeFrames(transport.Frames(msg.Frames())))
}

// ReadMessage blocks for the next control message.
func (c *Communicator) ReadMessage() (*leco.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	frames, err := transport.DecodeFrames(data)
	if err != nil {
		return nil, err
	}
	return leco.NewMessage(frames)
}

// SetReadDeadline is a thin pass-through so callers can bound ReadMessage.
func (c *Communicator) SetReadDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }

// SendRPCMessage builds and sends a JSON-RPC request with id 0 addressed to
// receiver, returning the conversation id it was sent under.
func (c *Communicator) SendRPCMessage(receiver, method string) ([16]byte, error) {
	body, err := leco.Marshal(leco.BuildRequest(0, method))
	if err != nil {
		return [16]byte{}, err
	}
	msg := leco.BuildMessage([]byte(receiver), c.fullName, nil, nil, 1, leco.FrameContent(body))
	cid := msg.Header().ConversationID()
	var out [16]byte
	copy(out[:], cid)
	return out, c.SendMessage(msg)
}

// SignIn sends a sign_in request to the Coordinator and, on success, adopts
// the full name implied by the Coordinator's own sender frame — mirroring
// the namespace-qualification step in the original implementation.
func (c *Communicator) SignIn() error {
	if _, err := c.SendRPCMessage("COORDINATOR", "sign_in"); err != nil {
		return err
	}
	reply, err := c.ReadMessage()
	if err != nil {
		return err
	}
	var errResp leco.ErrorResponse
	if json.Unmarshal(reply.ContentFrame(), &errResp) == nil && errResp.Error.Code != 0 {
		return fmt.Errorf("testutil: sign in rejected: %s (code %d)", errResp.Error.Message, errResp.Error.Code)
	}
	coordinator, err := reply.Sender()
	if err != nil {
		return err
	}
	c.fullName = leco.BuildFullName(coordinator.Namespace, c.name)
	return nil
}

// SignOut sends a sign_out request and reverts to an unqualified name.
func (c *Communicator) SignOut() error {
	if _, err := c.SendRPCMessage("COORDINATOR", "sign_out"); err != nil {
		return err
	}
	if _, err := c.ReadMessage(); err != nil {
		return err
	}
	c.fullName = c.name
	return nil
}

// Ping sends a "pong" request to receiver without waiting for a reply,
// matching the fire-and-forget liveness probe a Coordinator itself issues.
func (c *Communicator) Ping(receiver string) error {
	_, err := c.SendRPCMessage(receiver, "pong")
	return err
}

// FullName returns the Component's current namespace-qualified name.
func (c *Communicator) FullName() []byte { return c.fullName }
