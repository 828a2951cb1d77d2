package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeErrorUnwrapsToKind(t *testing.T) {
	err := error(decodeErr(ErrUnexpectedEnd, 7, 32, 3))
	if !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Offset != 7 || de.Expected != 32 || de.Found != 3 {
		t.Fatalf("unexpected context: %+v", de)
	}
	msg := err.Error()
	if !strings.Contains(msg, "offset 7") || !strings.Contains(msg, "need 32 bytes, have 3") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestWithFieldBuildsPath(t *testing.T) {
	err := WithField(decodeErr(ErrReservedByte, 3, 0, 9), "reserved")
	err = WithField(err, "tokens")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError")
	}
	if de.Field != "tokens.reserved" {
		t.Fatalf("unexpected field path: %q", de.Field)
	}
	if !strings.Contains(err.Error(), "(tokens.reserved)") || !strings.Contains(err.Error(), "found 0x09") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	plain := errors.New("plain")
	if WithField(plain, "x") != plain {
		t.Fatalf("expected non-decode errors to pass through")
	}
}

func TestKindName(t *testing.T) {
	if KindName(nil) != "none" {
		t.Fatalf("expected none for nil")
	}
	if KindName(errors.New("other")) != "unknown" {
		t.Fatalf("expected unknown for foreign error")
	}
	if got := KindName(SizeMismatch(0, 10, 12)); got != "size_mismatch" {
		t.Fatalf("unexpected kind name: %q", got)
	}
	if got := KindName(UnknownOpcode(1, 0xff)); got != "unknown_opcode" {
		t.Fatalf("unexpected kind name: %q", got)
	}
}

func TestParseVersion(t *testing.T) {
	for raw, want := range map[string]Version{"v1": V1, "V2": V2, "3": V3, " v4 ": V4} {
		got, err := ParseVersion(raw)
		if err != nil || got != want {
			t.Fatalf("ParseVersion(%q) = %v,%v want %v", raw, got, err, want)
		}
	}
	if _, err := ParseVersion("v5"); err == nil {
		t.Fatalf("expected error for unknown version")
	}
}

func TestFormatValidate(t *testing.T) {
	for _, v := range []Version{V1, V2, V3, V4} {
		f, err := FormatFor(v)
		if err != nil {
			t.Fatalf("format %s: %v", v, err)
		}
		if err := f.Validate(); err != nil {
			t.Fatalf("predefined format %s invalid: %v", v, err)
		}
	}
	bad := FormatV2
	bad.LengthPrefix = 4
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invalid prefix width to fail")
	}
	bad = FormatV2
	bad.StrictEnvelope = true
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected strict envelope without envelope to fail")
	}
	if DefaultFormat().Version != LatestVersion {
		t.Fatalf("default format should be the latest version")
	}
}
