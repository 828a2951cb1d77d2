// Package wirebuild assembles transaction bytes for tests.
package wirebuild

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/danmuck/txdecode/internal/protocol"
)

// GeneratorKey is the compressed secp256k1 generator point, a valid key for
// tests that enable key validation.
var GeneratorKey = mustKey("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")

func mustKey(s string) protocol.PublicKey {
	raw, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	var k protocol.PublicKey
	copy(k[:], raw)
	return k
}

// Key returns a deterministic 33-byte key whose body is filled with seed.
// It is not a valid curve point unless seed happens to produce one.
func Key(seed byte) protocol.PublicKey {
	var k protocol.PublicKey
	k[0] = 0x02
	for i := 1; i < len(k); i++ {
		k[i] = seed
	}
	return k
}

// Builder appends wire-encoded fields following a Format's conventions.
type Builder struct {
	format protocol.Format
	buf    []byte
}

func New(format protocol.Format) *Builder {
	return &Builder{format: format}
}

func (b *Builder) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

func (b *Builder) Len() int { return len(b.buf) }

func (b *Builder) Raw(p ...byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

func (b *Builder) U8(v byte) *Builder { return b.Raw(v) }

func (b *Builder) U16(v uint16) *Builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

func (b *Builder) U32(v uint32) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

func (b *Builder) U64(v uint64) *Builder {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
	return b
}

func (b *Builder) Bool(v bool) *Builder {
	if v {
		return b.Raw(1)
	}
	return b.Raw(0)
}

// U256 writes v as a 32-byte big-endian magnitude.
func (b *Builder) U256(v uint64) *Builder {
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], v)
	return b.Raw(word[:]...)
}

// Prefix writes n using the format's length prefix width.
func (b *Builder) Prefix(n int) *Builder {
	if b.format.LengthPrefix == 1 {
		return b.U8(byte(n))
	}
	return b.U16(uint16(n))
}

func (b *Builder) Blob(p []byte) *Builder {
	return b.Prefix(len(p)).Raw(p...)
}

func (b *Builder) Str(s string) *Builder {
	return b.Blob([]byte(s))
}

func (b *Builder) Key(k protocol.PublicKey) *Builder {
	return b.Raw(k[:]...)
}

func (b *Builder) Hash(seed byte) *Builder {
	for i := 0; i < protocol.HashLen; i++ {
		b.buf = append(b.buf, seed)
	}
	return b
}

func (b *Builder) Addr(a protocol.Address) *Builder {
	return b.Raw(a.Bytes()...)
}

// Reserved writes the zero byte only when the format carries reserved bytes.
func (b *Builder) Reserved() *Builder {
	if b.format.ReservedBytes {
		return b.Raw(0)
	}
	return b
}

func (b *Builder) OptionalEpoch(epoch uint64, present bool) *Builder {
	if !present {
		return b.Bool(false)
	}
	return b.Bool(true).U64(epoch)
}

func (b *Builder) Op(op byte) *Builder { return b.Raw(op) }

// Substate writes tag and body, wrapped in the u16 size envelope when the
// format uses one.
func (b *Builder) Substate(tag byte, body func(*Builder)) *Builder {
	inner := New(b.format)
	inner.U8(tag)
	if body != nil {
		body(inner)
	}
	if b.format.SubstateEnvelope {
		b.U16(uint16(inner.Len()))
	}
	return b.Raw(inner.buf...)
}

// KeyAddress is an account address owned by k.
func KeyAddress(k protocol.PublicKey) protocol.Address {
	return protocol.Address{Type: protocol.AddressPublicKey, Key: k}
}

// NonceAddress is a resource address with a nonce body filled with seed.
func NonceAddress(seed byte) protocol.Address {
	a := protocol.Address{Type: protocol.AddressHashedKeyNonce}
	for i := range a.Nonce {
		a.Nonce[i] = seed
	}
	return a
}
