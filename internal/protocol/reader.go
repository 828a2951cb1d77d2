package protocol

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
)

// Reader is a forward-only cursor over an immutable buffer. Every read either
// advances by exactly the bytes it consumed or fails with a *DecodeError;
// after a failure the position is unspecified and the caller must stop.
type Reader struct {
	buf    []byte
	off    int
	format Format
}

func NewReader(buf []byte, format Format) *Reader {
	return &Reader{buf: buf, format: format}
}

func (r *Reader) Format() Format { return r.format }

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Done reports whether the cursor reached the end of the buffer.
func (r *Reader) Done() bool { return r.off >= len(r.buf) }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, decodeErr(ErrUnexpectedEnd, r.off, n, r.Remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Skip advances past n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ReadByte satisfies io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) Bool() (bool, error) {
	start := r.off
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, decodeErr(ErrInvalidEnumValue, start, 0, int(b))
	}
}

// Reserved consumes one byte that must be zero.
func (r *Reader) Reserved() error {
	start := r.off
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	if b != 0 {
		return decodeErr(ErrReservedByte, start, 0, int(b))
	}
	return nil
}

// Uint256 reads a 32-byte big-endian magnitude.
func (r *Reader) Uint256() (uint256.Int, error) {
	var v uint256.Int
	b, err := r.take(32)
	if err != nil {
		return v, err
	}
	v.SetBytes32(b)
	return v, nil
}

// OptionalUint64 reads a boolean presence flag followed by a u64 only when set.
func (r *Reader) OptionalUint64() (uint64, bool, error) {
	present, err := r.Bool()
	if err != nil || !present {
		return 0, false, err
	}
	v, err := r.Uint64()
	return v, err == nil, err
}

// Fixed reads exactly n bytes into a fresh slice.
func (r *Reader) Fixed(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// length reads a string/byte-array prefix of the width configured by the format.
func (r *Reader) length() (int, error) {
	if r.format.LengthPrefix == 1 {
		b, err := r.ReadByte()
		return int(b), err
	}
	v, err := r.Uint16()
	return int(v), err
}

// Bytes reads a length-prefixed byte array. The declared length is checked
// against the remaining input before anything is allocated.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.length()
	if err != nil {
		return nil, err
	}
	return r.Fixed(n)
}

// Text reads a length-prefixed UTF-8 string.
func (r *Reader) Text() (string, error) {
	n, err := r.length()
	if err != nil {
		return "", err
	}
	start := r.off
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", decodeErr(ErrInvalidEncoding, start, 0, 0)
	}
	return string(b), nil
}

func (r *Reader) Hash() (Hash, error) {
	var h Hash
	b, err := r.take(HashLen)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (r *Reader) PublicKey() (PublicKey, error) {
	var k PublicKey
	start := r.off
	b, err := r.take(PublicKeyLen)
	if err != nil {
		return k, err
	}
	if r.format.ValidateKeys {
		if _, err := secp256k1.ParsePubKey(b); err != nil {
			return k, decodeErr(ErrInvalidEncoding, start, 0, 0)
		}
	}
	copy(k[:], b)
	return k, nil
}

func (r *Reader) Signature() (Signature, error) {
	var s Signature
	start := r.off
	b, err := r.take(SignatureLen)
	if err != nil {
		return s, err
	}
	if b[0] > maxRecoveryID {
		return s, decodeErr(ErrInvalidEnumValue, start, 0, int(b[0]))
	}
	s.V = b[0]
	copy(s.R[:], b[1:33])
	copy(s.S[:], b[33:65])
	return s, nil
}

// Address reads a discriminant byte and the payload it selects.
func (r *Reader) Address() (Address, error) {
	var a Address
	start := r.off
	t, err := r.ReadByte()
	if err != nil {
		return a, err
	}
	a.Type = AddressType(t)
	switch a.Type {
	case AddressSystem, AddressNativeToken:
		return a, nil
	case AddressHashedKeyNonce:
		b, err := r.take(HashedKeyNonceLen)
		if err != nil {
			return a, err
		}
		copy(a.Nonce[:], b)
		return a, nil
	case AddressPublicKey:
		k, err := r.PublicKey()
		if err != nil {
			return a, err
		}
		a.Key = k
		return a, nil
	default:
		return a, decodeErr(ErrUnknownDiscriminant, start, 0, int(t))
	}
}

func (r *Reader) SubstateID() (SubstateID, error) {
	var id SubstateID
	h, err := r.Hash()
	if err != nil {
		return id, err
	}
	idx, err := r.Uint32()
	if err != nil {
		return id, err
	}
	id.TxnID = h
	id.Index = idx
	return id, nil
}

// Window returns a reader limited to the next n bytes. Offsets reported by
// the window stay absolute; r itself does not move until Join.
func (r *Reader) Window(n int) (*Reader, error) {
	if n < 0 || n > r.Remaining() {
		return nil, decodeErr(ErrUnexpectedEnd, r.off, n, r.Remaining())
	}
	return &Reader{buf: r.buf[:r.off+n], off: r.off, format: r.format}, nil
}

// Join advances r to the position reached by a window taken from it.
func (r *Reader) Join(w *Reader) {
	if w.off > r.off {
		r.off = w.off
	}
}
