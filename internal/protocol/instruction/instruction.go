// Package instruction decodes the opcode-tagged operations of a transaction.
package instruction

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/substate"
)

type Opcode byte

const (
	OpEnd       Opcode = 0x00
	OpSyscall   Opcode = 0x01
	OpUp        Opcode = 0x02
	OpRead      Opcode = 0x03
	OpLRead     Opcode = 0x04
	OpVRead     Opcode = 0x05
	OpLVRead    Opcode = 0x06
	OpDown      Opcode = 0x07
	OpLDown     Opcode = 0x08
	OpVDown     Opcode = 0x09
	OpLVDown    Opcode = 0x0a
	OpSig       Opcode = 0x0b
	OpMsg       Opcode = 0x0c
	OpHeader    Opcode = 0x0d
	OpReadIndex Opcode = 0x0e
	OpDownIndex Opcode = 0x0f
)

var opNames = map[Opcode]string{
	OpEnd:       "END",
	OpSyscall:   "SYSCALL",
	OpUp:        "UP",
	OpRead:      "READ",
	OpLRead:     "LREAD",
	OpVRead:     "VREAD",
	OpLVRead:    "LVREAD",
	OpDown:      "DOWN",
	OpLDown:     "LDOWN",
	OpVDown:     "VDOWN",
	OpLVDown:    "LVDOWN",
	OpSig:       "SIG",
	OpMsg:       "MSG",
	OpHeader:    "HEADER",
	OpReadIndex: "READINDEX",
	OpDownIndex: "DOWNINDEX",
}

func (op Opcode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(0x%02x)", byte(op))
}

// Opcodes lists every known opcode in wire order.
func Opcodes() []Opcode {
	out := make([]Opcode, 0, len(opNames))
	for op := OpEnd; op <= OpDownIndex; op++ {
		out = append(out, op)
	}
	return out
}

// Instruction is the closed set of decoded operations. Each value owns its
// payload outright.
type Instruction interface {
	Opcode() Opcode
	fmt.Stringer
	isInstruction()
}

type End struct{}

// Syscall carries an opaque system call payload.
type Syscall struct {
	Data []byte
}

type Up struct {
	Substate substate.Substate
}

type Read struct {
	ID protocol.SubstateID
}

// LocalRead refers to a substate created earlier in the same transaction.
type LocalRead struct {
	Index uint16
}

// VirtualID names a virtual substate by its parent and a child key. Formats
// with substate envelopes reference virtual substates this way.
type VirtualID struct {
	Parent protocol.SubstateID
	Key    []byte
}

func (id VirtualID) String() string {
	return fmt.Sprintf("%s/0x%x", id.Parent, id.Key)
}

// VirtualRead carries the substate itself in formats without envelopes and
// an ID otherwise. Exactly one of Substate and ID is set.
type VirtualRead struct {
	Substate substate.Substate
	ID       VirtualID
}

// LocalVirtualRead addresses a child of a local virtual parent. Key is
// empty in formats without substate envelopes.
type LocalVirtualRead struct {
	Index uint16
	Key   []byte
}

type Down struct {
	ID protocol.SubstateID
}

type LocalDown struct {
	Index uint16
}

type VirtualDown struct {
	Substate substate.Substate
	ID       VirtualID
}

type LocalVirtualDown struct {
	Index uint16
	Key   []byte
}

type Sig struct {
	Signature protocol.Signature
}

type Msg struct {
	Data []byte
}

// Header is two literal bytes; nothing here checks where it appears.
type Header struct {
	Version byte
	Flags   byte
}

// ReadIndex and DownIndex carry a substate index prefix.
type ReadIndex struct {
	Prefix []byte
}

type DownIndex struct {
	Prefix []byte
}

func (End) Opcode() Opcode              { return OpEnd }
func (Syscall) Opcode() Opcode          { return OpSyscall }
func (Up) Opcode() Opcode               { return OpUp }
func (Read) Opcode() Opcode             { return OpRead }
func (LocalRead) Opcode() Opcode        { return OpLRead }
func (VirtualRead) Opcode() Opcode      { return OpVRead }
func (LocalVirtualRead) Opcode() Opcode { return OpLVRead }
func (Down) Opcode() Opcode             { return OpDown }
func (LocalDown) Opcode() Opcode        { return OpLDown }
func (VirtualDown) Opcode() Opcode      { return OpVDown }
func (LocalVirtualDown) Opcode() Opcode { return OpLVDown }
func (Sig) Opcode() Opcode              { return OpSig }
func (Msg) Opcode() Opcode              { return OpMsg }
func (Header) Opcode() Opcode           { return OpHeader }
func (ReadIndex) Opcode() Opcode        { return OpReadIndex }
func (DownIndex) Opcode() Opcode        { return OpDownIndex }

func (End) isInstruction()              {}
func (Syscall) isInstruction()          {}
func (Up) isInstruction()               {}
func (Read) isInstruction()             {}
func (LocalRead) isInstruction()        {}
func (VirtualRead) isInstruction()      {}
func (LocalVirtualRead) isInstruction() {}
func (Down) isInstruction()             {}
func (LocalDown) isInstruction()        {}
func (VirtualDown) isInstruction()      {}
func (LocalVirtualDown) isInstruction() {}
func (Sig) isInstruction()              {}
func (Msg) isInstruction()              {}
func (Header) isInstruction()           {}
func (ReadIndex) isInstruction()        {}
func (DownIndex) isInstruction()        {}

func (End) String() string { return "END" }

func (i Syscall) String() string { return fmt.Sprintf("SYSCALL(0x%x)", i.Data) }

func (i Up) String() string { return fmt.Sprintf("UP(%s)", i.Substate) }

func (i Read) String() string { return fmt.Sprintf("READ(%s)", i.ID) }

func (i LocalRead) String() string { return fmt.Sprintf("LREAD(%d)", i.Index) }

func (i VirtualRead) String() string { return virtual("VREAD", i.Substate, i.ID) }

func (i LocalVirtualRead) String() string { return localVirtual("LVREAD", i.Index, i.Key) }

func (i Down) String() string { return fmt.Sprintf("DOWN(%s)", i.ID) }

func (i LocalDown) String() string { return fmt.Sprintf("LDOWN(%d)", i.Index) }

func (i VirtualDown) String() string { return virtual("VDOWN", i.Substate, i.ID) }

func (i LocalVirtualDown) String() string { return localVirtual("LVDOWN", i.Index, i.Key) }

func (i Sig) String() string { return fmt.Sprintf("SIG(%s)", i.Signature) }

func (i Msg) String() string { return fmt.Sprintf("MSG(%q)", i.Data) }

func (i Header) String() string { return fmt.Sprintf("HEADER(%d,%d)", i.Version, i.Flags) }

func (i ReadIndex) String() string { return fmt.Sprintf("READINDEX(0x%x)", i.Prefix) }

func (i DownIndex) String() string { return fmt.Sprintf("DOWNINDEX(0x%x)", i.Prefix) }

func virtual(name string, s substate.Substate, id VirtualID) string {
	if s != nil {
		return fmt.Sprintf("%s(%s)", name, s)
	}
	return fmt.Sprintf("%s(%s)", name, id)
}

func localVirtual(name string, index uint16, key []byte) string {
	if len(key) == 0 {
		return fmt.Sprintf("%s(%d)", name, index)
	}
	return fmt.Sprintf("%s(%d, key=0x%x)", name, index, key)
}
