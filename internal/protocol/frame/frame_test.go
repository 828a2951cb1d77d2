package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/txdecode/internal/protocol"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	in := Frame{Header: Header{Version: protocol.V2}, Payload: []byte{0x0c, 0x00, 0x01, 'x', 0x00}}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if buf.Len() != FixedHeaderLen+len(in.Payload) {
		t.Fatalf("unexpected encoded length %d", buf.Len())
	}
	out, err := ReadFrame(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if out.Header.Version != protocol.V2 || out.Header.PayloadLen != uint32(len(in.Payload)) {
		t.Fatalf("header mismatch: got=%+v", out.Header)
	}
	if !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("payload mismatch")
	}
	if _, err := ReadFrame(&buf, DefaultLimits()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReadFrameMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{Magic, 2, 0}), DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
	_, err = ReadFrame(bytes.NewReader([]byte{0x00, 2, 0, 0, 0, 0}), DefaultLimits())
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	_, err = ReadFrame(bytes.NewReader([]byte{Magic, 9, 0, 0, 0, 0}), DefaultLimits())
	if err == nil {
		t.Fatalf("expected unknown version to fail")
	}
}

func TestReadFrameLimitsAndTruncation(t *testing.T) {
	hdr := EncodeHeader(Header{Version: protocol.V4, PayloadLen: 64})
	if _, err := ReadFrame(bytes.NewReader(hdr), Limits{MaxPayloadBytes: 16}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if _, err := ReadFrame(bytes.NewReader(append(hdr, 0x00)), DefaultLimits()); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected ErrShortPayload, got %v", err)
	}
	if err := WriteFrame(io.Discard, Frame{Payload: make([]byte, 17)}, Limits{MaxPayloadBytes: 16}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected write limit, got %v", err)
	}
}

func TestReadAll(t *testing.T) {
	var buf bytes.Buffer
	for _, p := range [][]byte{{0x00}, {}, {0x0d, 0x01, 0x00}} {
		if err := WriteFrame(&buf, Frame{Payload: p}, DefaultLimits()); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	frames, err := ReadAll(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(frames) != 3 || len(frames[1].Payload) != 0 || frames[2].Header.Version != 0 {
		t.Fatalf("unexpected frames %+v", frames)
	}

	buf.Reset()
	_ = WriteFrame(&buf, Frame{Payload: []byte{0x00}}, DefaultLimits())
	buf.WriteByte(Magic)
	frames, err = ReadAll(&buf, DefaultLimits())
	if !errors.Is(err, ErrShortHeader) || len(frames) != 1 {
		t.Fatalf("expected one frame then ErrShortHeader, got %d %v", len(frames), err)
	}
}
