package instruction

import (
	"errors"
	"testing"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/substate"
	"github.com/danmuck/txdecode/internal/testutil/testlog"
	"github.com/danmuck/txdecode/internal/testutil/wirebuild"
	"github.com/google/go-cmp/cmp"
)

func decodeOne(t *testing.T, format protocol.Format, buf []byte) (Instruction, *protocol.Reader) {
	t.Helper()
	r := protocol.NewReader(buf, format)
	ins, err := Decode(r)
	if err != nil {
		t.Fatalf("decode %x: %v", buf, err)
	}
	return ins, r
}

func TestScenarioEnd(t *testing.T) {
	testlog.Start(t)
	ins, r := decodeOne(t, protocol.FormatV4, []byte{0x00})
	if _, ok := ins.(End); !ok {
		t.Fatalf("expected END, got %v", ins)
	}
	if r.Offset() != 1 {
		t.Fatalf("expected cursor at 1, got %d", r.Offset())
	}
}

func TestScenarioHeader(t *testing.T) {
	ins, _ := decodeOne(t, protocol.FormatV4, []byte{0x0d, 0x01, 0x00})
	if diff := cmp.Diff(Instruction(Header{Version: 1, Flags: 0}), ins); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if ins.String() != "HEADER(1,0)" {
		t.Fatalf("unexpected string %q", ins.String())
	}
}

func TestScenarioMsg(t *testing.T) {
	ins, r := decodeOne(t, protocol.FormatV4, []byte{0x0c, 0x00, 0x03, 0x61, 0x62, 0x63})
	if ins.String() != `MSG("abc")` {
		t.Fatalf("unexpected string %q", ins.String())
	}
	if !r.Done() {
		t.Fatalf("expected full consumption, %d left", r.Remaining())
	}
}

func TestDecodeEveryOpcode(t *testing.T) {
	testlog.Start(t)
	owner := wirebuild.KeyAddress(wirebuild.Key(0x21))
	epochTag, _ := substate.TagOf(protocol.V4, substate.KindEpochData)
	epochBody := func(b *wirebuild.Builder) { b.Reserved().U64(4) }

	var id protocol.SubstateID
	for i := range id.TxnID {
		id.TxnID[i] = 0x5a
	}
	id.Index = 3

	var sig protocol.Signature
	sig.V = 1
	for i := range sig.R {
		sig.R[i] = 0x13
		sig.S[i] = 0x14
	}

	cases := []struct {
		name  string
		build func(b *wirebuild.Builder)
		want  Instruction
	}{
		{"end", func(b *wirebuild.Builder) { b.Op(0x00) }, End{}},
		{"syscall", func(b *wirebuild.Builder) { b.Op(0x01).Blob([]byte{0x00, 0x01}) }, Syscall{Data: []byte{0x00, 0x01}}},
		{"up", func(b *wirebuild.Builder) { b.Op(0x02).Substate(epochTag, epochBody) }, Up{Substate: substate.EpochData{Epoch: 4}}},
		{"read", func(b *wirebuild.Builder) { b.Op(0x03).Hash(0x5a).U32(3) }, Read{ID: id}},
		{"lread", func(b *wirebuild.Builder) { b.Op(0x04).U16(7) }, LocalRead{Index: 7}},
		{"vread", func(b *wirebuild.Builder) { b.Op(0x05).U16(38).Hash(0x5a).U32(3).Raw(0x01, 0x02) }, VirtualRead{ID: VirtualID{Parent: id, Key: []byte{0x01, 0x02}}}},
		{"lvread", func(b *wirebuild.Builder) { b.Op(0x06).U16(5).U16(1).Raw(0xab, 0xcd, 0xef) }, LocalVirtualRead{Index: 1, Key: []byte{0xab, 0xcd, 0xef}}},
		{"down", func(b *wirebuild.Builder) { b.Op(0x07).Hash(0x5a).U32(3) }, Down{ID: id}},
		{"ldown", func(b *wirebuild.Builder) { b.Op(0x08).U16(9) }, LocalDown{Index: 9}},
		{"vdown", func(b *wirebuild.Builder) { b.Op(0x09).U16(36).Hash(0x5a).U32(3) }, VirtualDown{ID: VirtualID{Parent: id, Key: []byte{}}}},
		{"lvdown", func(b *wirebuild.Builder) { b.Op(0x0a).U16(2).U16(8) }, LocalVirtualDown{Index: 8, Key: []byte{}}},
		{"sig", func(b *wirebuild.Builder) { b.Op(0x0b).U8(1).Hash(0x13).Hash(0x14) }, Sig{Signature: sig}},
		{"msg", func(b *wirebuild.Builder) { b.Op(0x0c).Str("hi") }, Msg{Data: []byte("hi")}},
		{"header", func(b *wirebuild.Builder) { b.Op(0x0d).U8(1).U8(0x80) }, Header{Version: 1, Flags: 0x80}},
		{"readindex", func(b *wirebuild.Builder) { b.Op(0x0e).Blob(owner.Bytes()[:3]) }, ReadIndex{Prefix: owner.Bytes()[:3]}},
		{"downindex", func(b *wirebuild.Builder) { b.Op(0x0f).Blob([]byte{0x06}) }, DownIndex{Prefix: []byte{0x06}}},
	}

	seen := make(map[Opcode]bool)
	for _, tc := range cases {
		b := wirebuild.New(protocol.FormatV4)
		tc.build(b)
		ins, r := decodeOne(t, protocol.FormatV4, b.Bytes())
		if diff := cmp.Diff(tc.want, ins); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", tc.name, diff)
		}
		if !r.Done() {
			t.Fatalf("%s: %d bytes left", tc.name, r.Remaining())
		}
		seen[ins.Opcode()] = true
	}
	for _, op := range Opcodes() {
		if !seen[op] {
			t.Fatalf("opcode %s not covered", op)
		}
	}
}

func TestVirtualDownByID(t *testing.T) {
	key := wirebuild.Key(0x02)
	b := wirebuild.New(protocol.FormatV4).Op(0x09).U16(69).Hash(0xab).U32(1).Key(key)
	ins, r := decodeOne(t, protocol.FormatV4, b.Bytes())
	down, ok := ins.(VirtualDown)
	if !ok {
		t.Fatalf("expected VDOWN, got %v", ins)
	}
	if down.Substate != nil || down.ID.Parent.Index != 1 || down.ID.Parent.TxnID[0] != 0xab {
		t.Fatalf("unexpected id %+v", down)
	}
	if diff := cmp.Diff(key[:], down.ID.Key); diff != "" {
		t.Fatalf("key mismatch (-want +got):\n%s", diff)
	}
	if !r.Done() {
		t.Fatalf("expected full consumption, %d left", r.Remaining())
	}
}

func TestVirtualSubstateWithoutEnvelope(t *testing.T) {
	owner := wirebuild.KeyAddress(wirebuild.Key(0x21))
	for _, format := range []protocol.Format{protocol.FormatV1, protocol.FormatV2} {
		tag, _ := substate.TagOf(format.Version, substate.KindUnclaimedREAddr)
		b := wirebuild.New(format).Op(0x05).Substate(tag, func(b *wirebuild.Builder) { b.Addr(owner) })
		ins, r := decodeOne(t, format, b.Bytes())
		want := Instruction(VirtualRead{Substate: substate.UnclaimedREAddr{Address: owner}})
		if diff := cmp.Diff(want, ins); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", format, diff)
		}
		if !r.Done() {
			t.Fatalf("%s: %d bytes left", format, r.Remaining())
		}
	}
}

func TestVirtualSizeTooSmall(t *testing.T) {
	buf := wirebuild.New(protocol.FormatV4).Op(0x05).U16(35).Hash(0x01).U16(0).Bytes()
	_, err := Decode(protocol.NewReader(buf, protocol.FormatV4))
	if !errors.Is(err, protocol.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	var de *protocol.DecodeError
	if !errors.As(err, &de) || de.Field != "vread.size" || de.Offset != 1 || de.Expected != 35 || de.Found != 36 {
		t.Fatalf("unexpected context: %+v", de)
	}
}

func TestLocalVirtualWithoutEnvelope(t *testing.T) {
	for _, format := range []protocol.Format{protocol.FormatV1, protocol.FormatV2} {
		ins, r := decodeOne(t, format, []byte{0x06, 0x00, 0x04})
		if diff := cmp.Diff(Instruction(LocalVirtualRead{Index: 4}), ins); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", format, diff)
		}
		if !r.Done() || ins.String() != "LVREAD(4)" {
			t.Fatalf("%s: unexpected result %s", format, ins)
		}
	}
}

func TestLocalVirtualSizeTooSmall(t *testing.T) {
	_, err := Decode(protocol.NewReader([]byte{0x0a, 0x00, 0x01, 0x00}, protocol.FormatV4))
	if !errors.Is(err, protocol.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	var de *protocol.DecodeError
	if !errors.As(err, &de) || de.Field != "lvdown.size" || de.Offset != 1 {
		t.Fatalf("unexpected context: %+v", de)
	}
}

func TestUnknownOpcodes(t *testing.T) {
	for op := 0x10; op < 0x100; op++ {
		r := protocol.NewReader([]byte{0x00, byte(op)}, protocol.FormatV4)
		if _, err := Decode(r); err != nil {
			t.Fatalf("leading END: %v", err)
		}
		_, err := Decode(r)
		if !errors.Is(err, protocol.ErrUnknownOpcode) {
			t.Fatalf("0x%02x: expected ErrUnknownOpcode, got %v", op, err)
		}
		var de *protocol.DecodeError
		if !errors.As(err, &de) || de.Offset != 1 || de.Found != op {
			t.Fatalf("0x%02x: unexpected context: %+v", op, de)
		}
	}
}

func TestTruncatedPayloads(t *testing.T) {
	cases := []struct {
		name  string
		buf   []byte
		field string
	}{
		{"header", []byte{0x0d, 0x01}, "header.flags"},
		{"msg", []byte{0x0c, 0x00, 0x05, 0x61}, "msg"},
		{"read", []byte{0x03, 0x01, 0x02}, "read"},
		{"lread", []byte{0x04, 0x01}, "lread"},
		{"up", []byte{0x02, 0x00}, "up.substate.size"},
	}
	for _, tc := range cases {
		_, err := Decode(protocol.NewReader(tc.buf, protocol.FormatV4))
		if !errors.Is(err, protocol.ErrUnexpectedEnd) {
			t.Fatalf("%s: expected ErrUnexpectedEnd, got %v", tc.name, err)
		}
		var de *protocol.DecodeError
		if !errors.As(err, &de) || de.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %+v", tc.name, tc.field, de)
		}
	}
}

func TestSubstateErrorPath(t *testing.T) {
	tokensTag, _ := substate.TagOf(protocol.V4, substate.KindTokens)
	b := wirebuild.New(protocol.FormatV4)
	b.Op(0x02).Substate(tokensTag, func(inner *wirebuild.Builder) {
		inner.U8(0x02)
	})
	_, err := Decode(protocol.NewReader(b.Bytes(), protocol.FormatV4))
	if !errors.Is(err, protocol.ErrReservedByte) {
		t.Fatalf("expected ErrReservedByte, got %v", err)
	}
	var de *protocol.DecodeError
	if !errors.As(err, &de) || de.Field != "up.tokens.reserved" || de.Found != 2 {
		t.Fatalf("unexpected context: %+v", de)
	}
}

func TestSignatureRecoveryID(t *testing.T) {
	b := wirebuild.New(protocol.FormatV4)
	b.Op(0x0b).U8(4).Hash(0x01).Hash(0x02)
	_, err := Decode(protocol.NewReader(b.Bytes(), protocol.FormatV4))
	if !errors.Is(err, protocol.ErrInvalidEnumValue) {
		t.Fatalf("expected ErrInvalidEnumValue, got %v", err)
	}
}

func TestOpcodeNames(t *testing.T) {
	if OpLVDown.String() != "LVDOWN" || Opcode(0x42).String() != "OP(0x42)" {
		t.Fatalf("unexpected names %s %s", OpLVDown, Opcode(0x42))
	}
	if len(Opcodes()) != 16 {
		t.Fatalf("expected 16 opcodes, got %d", len(Opcodes()))
	}
}
