package leco

// Version is the current LECO control-protocol wire version.
const Version byte = 0

const headerLen = 16 + 3 + 1 // conversation-id ‖ message-id ‖ message-type

// Content is the payload variant passed to BuildMessage. Exactly one of the three
// constructors below should be used; the zero value is NoContent.
type Content struct {
	frames [][]byte
}

// FrameContent wraps a single payload frame.
func FrameContent(b []byte) Content { return Content{frames: [][]byte{b}} }

// FramesContent wraps zero or more payload frames.
func FramesContent(frames [][]byte) Content { return Content{frames: frames} }

// NoContent carries no payload frames at all.
func NoContent() Content { return Content{frames: nil} }

// Header is a zero-copy view into the 20-byte control-message header frame.
type Header struct {
	frame []byte
}

func (h Header) ConversationID() []byte { return h.frame[0:16] }
func (h Header) MessageID() []byte      { return h.frame[16:19] }
func (h Header) MessageType() byte      { return h.frame[19] }

// Message is an ordered sequence of frames with the positional semantics of
// the LECO control protocol: version, receiver, sender, header, payload...
type Message struct {
	frames [][]byte
}

// NewMessage parses a frame vector produced by a transport delivery. It
// fails if there are fewer than the mandatory four frames, or if the header
// frame is not exactly headerLen bytes — Header's accessors slice into it
// unchecked, so a short header must never reach them.
func NewMessage(frames [][]byte) (*Message, error) {
	if len(frames) < 4 {
		return nil, NewError(ErrParseError)
	}
	if len(frames[3]) != headerLen {
		return nil, NewError(ErrParseError)
	}
	return &Message{frames: frames}, nil
}

// BuildMessage assembles a new control message. conversationID and messageID
// may be nil, in which case a fresh conversation id is generated and the
// message id is zero-filled.
func BuildMessage(receiver, sender []byte, conversationID *ConversationID, messageID *[3]byte, messageType byte, content Content) *Message {
	header := make([]byte, headerLen)
	if conversationID != nil {
		copy(header[0:16], conversationID[:])
	} else {
		cid := NextConversationID()
		copy(header[0:16], cid[:])
	}
	if messageID != nil {
		copy(header[16:19], messageID[:])
	}
	header[19] = messageType

	frames := make([][]byte, 0, 4+len(content.frames))
	frames = append(frames, []byte{Version}, receiver, sender, header)
	frames = append(frames, content.frames...)
	return &Message{frames: frames}
}

func (m *Message) Frames() [][]byte { return m.frames }

func (m *Message) Version() byte {
	if len(m.frames[0]) == 0 {
		return 0
	}
	return m.frames[0][0]
}

func (m *Message) ReceiverFrame() []byte { return m.frames[1] }
func (m *Message) SenderFrame() []byte   { return m.frames[2] }

func (m *Message) Receiver() (FullName, error) { return ParseFullName(m.frames[1]) }
func (m *Message) Sender() (FullName, error)   { return ParseFullName(m.frames[2]) }

func (m *Message) Header() Header { return Header{frame: m.frames[3]} }

// ContentFrame returns the first payload frame (the JSON-RPC content), or
// nil if the message carries no payload frames.
func (m *Message) ContentFrame() []byte {
	if len(m.frames) < 5 {
		return nil
	}
	return m.frames[4]
}

// Payload returns every frame after the header.
func (m *Message) Payload() [][]byte {
	if len(m.frames) < 5 {
		return nil
	}
	return m.frames[4:]
}
