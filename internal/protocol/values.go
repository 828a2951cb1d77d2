package protocol

import (
	"encoding/hex"
	"fmt"
)

const (
	HashLen           = 32
	PublicKeyLen      = 33
	SignatureLen      = 1 + 32 + 32
	HashedKeyNonceLen = 26
	SubstateIDLen     = HashLen + 4
	maxRecoveryID     = 3
)

// Hash is a fixed 32-byte digest.
type Hash [HashLen]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// PublicKey is a compressed 33-byte secp256k1 key.
type PublicKey [PublicKeyLen]byte

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// Signature is an ECDSA signature with its recovery id.
type Signature struct {
	V byte
	R [32]byte
	S [32]byte
}

func (s Signature) String() string {
	return fmt.Sprintf("v=%d r=%x s=%x", s.V, s.R[:], s.S[:])
}

// AddressType is the leading discriminant of an Address.
type AddressType byte

const (
	AddressSystem         AddressType = 0x00
	AddressNativeToken    AddressType = 0x01
	AddressHashedKeyNonce AddressType = 0x03
	AddressPublicKey      AddressType = 0x04
)

func (t AddressType) String() string {
	switch t {
	case AddressSystem:
		return "system"
	case AddressNativeToken:
		return "native_token"
	case AddressHashedKeyNonce:
		return "hashed_key_nonce"
	case AddressPublicKey:
		return "public_key"
	default:
		return fmt.Sprintf("address_type(0x%02x)", byte(t))
	}
}

// Address is a tagged union. Nonce is set only for AddressHashedKeyNonce
// and Key only for AddressPublicKey.
type Address struct {
	Type  AddressType
	Nonce [HashedKeyNonceLen]byte
	Key   PublicKey
}

// Len is the encoded size including the discriminant byte.
func (a Address) Len() int {
	switch a.Type {
	case AddressHashedKeyNonce:
		return 1 + HashedKeyNonceLen
	case AddressPublicKey:
		return 1 + PublicKeyLen
	default:
		return 1
	}
}

// Bytes re-encodes the address in wire form.
func (a Address) Bytes() []byte {
	out := make([]byte, 0, a.Len())
	out = append(out, byte(a.Type))
	switch a.Type {
	case AddressHashedKeyNonce:
		out = append(out, a.Nonce[:]...)
	case AddressPublicKey:
		out = append(out, a.Key[:]...)
	}
	return out
}

func (a Address) String() string {
	switch a.Type {
	case AddressSystem, AddressNativeToken:
		return a.Type.String()
	case AddressHashedKeyNonce:
		return fmt.Sprintf("%s:%x", a.Type, a.Nonce[:])
	default:
		return fmt.Sprintf("%s:%x", a.Type, a.Key[:])
	}
}

// SubstateID references a substate by the transaction hash that created it
// and its index within that transaction.
type SubstateID struct {
	TxnID Hash
	Index uint32
}

func (id SubstateID) String() string {
	return fmt.Sprintf("%s:%d", id.TxnID, id.Index)
}
