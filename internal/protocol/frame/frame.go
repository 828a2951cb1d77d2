// Package frame reads and writes transaction dumps: transactions stored back
// to back, each behind a small fixed header naming its format generation and
// length.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/txdecode/internal/protocol"
)

const (
	FixedHeaderLen = 6
	Magic          = 0x7d
)

var (
	ErrShortHeader     = errors.New("frame: short fixed header")
	ErrBadMagic        = errors.New("frame: bad magic byte")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
	ErrShortPayload    = errors.New("frame: payload shorter than declared")
)

// Header is the fixed frame header: magic, format version and payload
// length. Version 0 leaves the choice of format to the reader.
type Header struct {
	Version    protocol.Version
	PayloadLen uint32
}

// Frame is one stored transaction.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 1 << 20}
}

// ReadFrame reads the next frame. A clean end of stream before any header
// byte returns io.EOF.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortPayload
		}
		return Frame{}, err
	}
	return Frame{Header: h, Payload: payload}, nil
}

// ReadAll reads frames until the end of r.
func ReadAll(r io.Reader, limits Limits) ([]Frame, error) {
	var out []Frame
	for {
		f, err := ReadFrame(r, limits)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("frame %d: %w", len(out), err)
		}
		out = append(out, f)
	}
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	if uint64(len(f.Payload)) > uint64(limits.MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}
	h := f.Header
	h.PayloadLen = uint32(len(f.Payload))
	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if len(f.Payload) > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return err
		}
	}
	return nil
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, FixedHeaderLen)
	buf[0] = Magic
	buf[1] = byte(h.Version)
	binary.BigEndian.PutUint32(buf[2:6], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != FixedHeaderLen {
		return Header{}, fmt.Errorf("frame: invalid fixed header length: %d", len(b))
	}
	if b[0] != Magic {
		return Header{}, fmt.Errorf("%w: 0x%02x", ErrBadMagic, b[0])
	}
	h := Header{
		Version:    protocol.Version(b[1]),
		PayloadLen: binary.BigEndian.Uint32(b[2:6]),
	}
	if h.Version != 0 {
		if _, err := protocol.FormatFor(h.Version); err != nil {
			return Header{}, fmt.Errorf("frame: %w", err)
		}
	}
	return h, nil
}
