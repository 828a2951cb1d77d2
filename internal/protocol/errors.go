package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnexpectedEnd       = errors.New("protocol: unexpected end of buffer")
	ErrUnknownOpcode       = errors.New("protocol: unknown opcode")
	ErrUnknownSubstateType = errors.New("protocol: unknown substate type")
	ErrUnknownDiscriminant = errors.New("protocol: unknown discriminant")
	ErrReservedByte        = errors.New("protocol: reserved byte must be zero")
	ErrInvalidEnumValue    = errors.New("protocol: invalid enum value")
	ErrInvalidEncoding     = errors.New("protocol: invalid encoding")
	ErrSizeMismatch        = errors.New("protocol: substate size mismatch")
	ErrTransactionTooLarge = errors.New("protocol: transaction too large")
)

var kindNames = map[error]string{
	ErrUnexpectedEnd:       "unexpected_end",
	ErrUnknownOpcode:       "unknown_opcode",
	ErrUnknownSubstateType: "unknown_substate_type",
	ErrUnknownDiscriminant: "unknown_discriminant",
	ErrReservedByte:        "reserved_byte",
	ErrInvalidEnumValue:    "invalid_enum_value",
	ErrInvalidEncoding:     "invalid_encoding",
	ErrSizeMismatch:        "size_mismatch",
	ErrTransactionTooLarge: "transaction_too_large",
}

// DecodeError is the single failure type produced while decoding a buffer.
// Kind is one of the ErrXxx sentinels; Offset is where the failing field starts.
type DecodeError struct {
	Kind     error
	Offset   int
	Field    string
	Expected int
	Found    int
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	b.WriteString(" at offset ")
	b.WriteString(strconv.Itoa(e.Offset))
	switch e.Kind {
	case ErrUnexpectedEnd:
		fmt.Fprintf(&b, ": need %d bytes, have %d", e.Expected, e.Found)
	case ErrSizeMismatch:
		fmt.Fprintf(&b, ": declared %d bytes, consumed %d", e.Expected, e.Found)
	case ErrTransactionTooLarge:
		fmt.Fprintf(&b, ": limit %d bytes, got %d", e.Expected, e.Found)
	case ErrUnknownOpcode, ErrUnknownSubstateType, ErrUnknownDiscriminant, ErrReservedByte, ErrInvalidEnumValue:
		fmt.Fprintf(&b, ": found 0x%02x", e.Found)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// WithField prefixes the field path of a DecodeError. Other errors pass through.
func WithField(err error, field string) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return err
	}
	if de.Field == "" {
		de.Field = field
	} else {
		de.Field = field + "." + de.Field
	}
	return err
}

// KindName returns a stable label for err's kind, "none" for nil and
// "unknown" for errors outside the taxonomy.
func KindName(err error) string {
	if err == nil {
		return "none"
	}
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return "unknown"
}

func decodeErr(kind error, offset, expected, found int) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Expected: expected, Found: found}
}

// Constructors used by the substate and instruction decoders.

func UnknownOpcode(offset int, op byte) error {
	return decodeErr(ErrUnknownOpcode, offset, 0, int(op))
}

func UnknownSubstateType(offset int, tag byte) error {
	return decodeErr(ErrUnknownSubstateType, offset, 0, int(tag))
}

func InvalidEnumValue(offset int, v byte) error {
	return decodeErr(ErrInvalidEnumValue, offset, 0, int(v))
}

func SizeMismatch(offset, declared, consumed int) error {
	return decodeErr(ErrSizeMismatch, offset, declared, consumed)
}

func TransactionTooLarge(limit, size int) error {
	return decodeErr(ErrTransactionTooLarge, 0, limit, size)
}

func UnexpectedEnd(offset, need, have int) error {
	return decodeErr(ErrUnexpectedEnd, offset, need, have)
}
