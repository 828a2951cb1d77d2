package protocol

import (
	"fmt"
	"strings"
)

// Version identifies a wire format generation. It selects the substate tag
// table and the default Format flags.
type Version uint8

const (
	V1 Version = iota + 1
	V2
	V3
	V4
)

// LatestVersion is used when no format is configured.
const LatestVersion = V4

func (v Version) String() string {
	switch v {
	case V1, V2, V3, V4:
		return fmt.Sprintf("v%d", uint8(v))
	default:
		return fmt.Sprintf("version(%d)", uint8(v))
	}
}

// ParseVersion accepts "v1".."v4" (case-insensitive) or a bare digit.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "v")
	switch s {
	case "1":
		return V1, nil
	case "2":
		return V2, nil
	case "3":
		return V3, nil
	case "4":
		return V4, nil
	default:
		return 0, fmt.Errorf("protocol: unknown format version %q", raw)
	}
}

// Format is the full set of knobs that differ between wire generations.
// Values are copied freely; adjust a predefined format to toggle strictness.
type Format struct {
	Version Version
	// LengthPrefix is the width in bytes (1 or 2) of string and byte-array prefixes.
	LengthPrefix int
	// ReservedBytes enables the zero byte following the tag of most substates.
	ReservedBytes bool
	// SubstateEnvelope wraps substates in a u16 byte-length prefix.
	SubstateEnvelope bool
	// StrictEnvelope rejects enveloped substates that leave declared bytes unread.
	StrictEnvelope bool
	// ValidateKeys requires public keys to be valid compressed secp256k1 points.
	ValidateKeys bool
}

var (
	FormatV1 = Format{Version: V1, LengthPrefix: 1}
	FormatV2 = Format{Version: V2, LengthPrefix: 2}
	FormatV3 = Format{Version: V3, LengthPrefix: 2, ReservedBytes: true, SubstateEnvelope: true}
	FormatV4 = Format{Version: V4, LengthPrefix: 2, ReservedBytes: true, SubstateEnvelope: true, StrictEnvelope: true}
)

// FormatFor returns the predefined format of v.
func FormatFor(v Version) (Format, error) {
	switch v {
	case V1:
		return FormatV1, nil
	case V2:
		return FormatV2, nil
	case V3:
		return FormatV3, nil
	case V4:
		return FormatV4, nil
	default:
		return Format{}, fmt.Errorf("protocol: unsupported format %s", v)
	}
}

// DefaultFormat is the latest generation with its default flags.
func DefaultFormat() Format {
	return FormatV4
}

func (f Format) Validate() error {
	if _, err := FormatFor(f.Version); err != nil {
		return err
	}
	if f.LengthPrefix != 1 && f.LengthPrefix != 2 {
		return fmt.Errorf("protocol: length prefix must be 1 or 2 bytes, got %d", f.LengthPrefix)
	}
	if f.StrictEnvelope && !f.SubstateEnvelope {
		return fmt.Errorf("protocol: strict envelope requires a substate envelope")
	}
	return nil
}

func (f Format) String() string {
	return f.Version.String()
}
