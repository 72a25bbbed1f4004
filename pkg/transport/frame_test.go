package transport

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeFramesRoundtrip(t *testing.T) {
	frames := Frames{[]byte{0}, []byte("N1.receiver"), []byte("N1.sender"), make([]byte, 20), []byte("payload")}
	encoded := encodeFrames(frames)
	decoded, err := decodeFrames(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(frames) {
		t.Fatalf("got %d frames, want %d", len(decoded), len(frames))
	}
	for i := range frames {
		if !bytes.Equal(decoded[i], frames[i]) {
			t.Errorf("frame %d mismatch: got %q want %q", i, decoded[i], frames[i])
		}
	}
}

func TestEncodeDecodeEmptyFrames(t *testing.T) {
	encoded := encodeFrames(nil)
	decoded, err := decodeFrames(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("got %d frames, want 0", len(decoded))
	}
}

func TestEncodeDecodeFrameWithZeroLengthBody(t *testing.T) {
	frames := Frames{{}, []byte("x")}
	encoded := encodeFrames(frames)
	decoded, err := decodeFrames(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded[0]) != 0 {
		t.Fatalf("expected empty first frame, got %q", decoded[0])
	}
}

func TestDecodeFramesRejectsTruncatedEnvelope(t *testing.T) {
	if _, err := decodeFrames([]byte{0, 0}); err == nil {
		t.Fatal("expected an error for a too-short buffer")
	}
}

func TestDecodeFramesRejectsTruncatedBody(t *testing.T) {
	buf := encodeFrames(Frames{[]byte("hello")})
	truncated := buf[:len(buf)-2]
	if _, err := decodeFrames(truncated); err == nil {
		t.Fatal("expected an error for a truncated frame body")
	}
}
