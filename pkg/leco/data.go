package leco

const dataHeaderLen = 16 + 1 // conversation-id ‖ message-type

// DataMessage is a pub/sub data-protocol message: topic, then a 17-byte
// header (conversation-id ‖ message-type), then one or more payload frames.
type DataMessage struct {
	Topic   []byte
	header  [dataHeaderLen]byte
	Payload [][]byte
}

// BuildDataMessage assembles a DataMessage with a freshly generated
// conversation id.
func BuildDataMessage(topic string, messageType byte, content Content) *DataMessage {
	dm := &DataMessage{Topic: []byte(topic)}
	cid := NextConversationID()
	copy(dm.header[0:16], cid[:])
	dm.header[16] = messageType

	if len(content.frames) == 0 {
		dm.Payload = [][]byte{{}}
	} else {
		dm.Payload = content.frames
	}
	return dm
}

func (d *DataMessage) ConversationID() []byte { return d.header[0:16] }
func (d *DataMessage) MessageType() byte      { return d.header[16] }

// ToFrames renders the DataMessage as topic ‖ header ‖ payload frames.
func (d *DataMessage) ToFrames() [][]byte {
	frames := make([][]byte, 0, 2+len(d.Payload))
	headerCopy := append([]byte(nil), d.header[:]...)
	frames = append(frames, d.Topic, headerCopy)
	frames = append(frames, d.Payload...)
	return frames
}

// FrameSink is the minimal interface a DataPublisher needs to hand off frames
// to a transport. Beyond building and emitting the wire format, publish-side
// concerns (connection management, retries, backpressure) are out of scope.
type FrameSink interface {
	SendFrames(frames [][]byte) error
}

// DataPublisher is a thin helper that builds a DataMessage for a named
// publisher and hands its frames to an injected sink.
type DataPublisher struct {
	Name string
	sink FrameSink
}

func NewDataPublisher(name string, sink FrameSink) *DataPublisher {
	return &DataPublisher{Name: name, sink: sink}
}

// SendMessage publishes content as a single-frame DataMessage of type 1,
// matching the original implementation's fixed message type for ad hoc data.
func (p *DataPublisher) SendMessage(content []byte) error {
	msg := BuildDataMessage(p.Name, 1, FrameContent(content))
	return p.sink.SendFrames(msg.ToFrames())
}
