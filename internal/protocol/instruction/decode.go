package instruction

import (
	"strings"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/substate"
)

const (
	// localVirtualMinLen is the smallest LVREAD/LVDOWN envelope: the u16 index.
	localVirtualMinLen = 2
	// virtualMinLen is the smallest VREAD/VDOWN envelope: the parent id.
	virtualMinLen = protocol.SubstateIDLen
)

// Decode reads one opcode and its payload at the cursor.
func Decode(r *protocol.Reader) (Instruction, error) {
	start := r.Offset()
	b, err := r.ReadByte()
	if err != nil {
		return nil, protocol.WithField(err, "opcode")
	}
	op := Opcode(b)
	if _, ok := opNames[op]; !ok {
		return nil, protocol.UnknownOpcode(start, b)
	}
	ins, err := decodePayload(op, r)
	if err != nil {
		return nil, protocol.WithField(err, strings.ToLower(op.String()))
	}
	return ins, nil
}

func decodePayload(op Opcode, r *protocol.Reader) (Instruction, error) {
	switch op {
	case OpEnd:
		return End{}, nil
	case OpSyscall:
		data, err := r.Bytes()
		return Syscall{Data: data}, err
	case OpUp:
		s, err := substate.Decode(r)
		return Up{Substate: s}, err
	case OpRead:
		id, err := r.SubstateID()
		return Read{ID: id}, err
	case OpLRead:
		idx, err := r.Uint16()
		return LocalRead{Index: idx}, err
	case OpVRead:
		s, id, err := virtualRef(r)
		return VirtualRead{Substate: s, ID: id}, err
	case OpLVRead:
		idx, key, err := localVirtualRef(r)
		return LocalVirtualRead{Index: idx, Key: key}, err
	case OpDown:
		id, err := r.SubstateID()
		return Down{ID: id}, err
	case OpLDown:
		idx, err := r.Uint16()
		return LocalDown{Index: idx}, err
	case OpVDown:
		s, id, err := virtualRef(r)
		return VirtualDown{Substate: s, ID: id}, err
	case OpLVDown:
		idx, key, err := localVirtualRef(r)
		return LocalVirtualDown{Index: idx, Key: key}, err
	case OpSig:
		sig, err := r.Signature()
		return Sig{Signature: sig}, err
	case OpMsg:
		data, err := r.Bytes()
		return Msg{Data: data}, err
	case OpHeader:
		return decodeHeader(r)
	case OpReadIndex:
		prefix, err := r.Bytes()
		return ReadIndex{Prefix: prefix}, err
	case OpDownIndex:
		prefix, err := r.Bytes()
		return DownIndex{Prefix: prefix}, err
	default:
		return nil, protocol.UnknownOpcode(r.Offset()-1, byte(op))
	}
}

func decodeHeader(r *protocol.Reader) (Instruction, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, protocol.WithField(err, "version")
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, protocol.WithField(err, "flags")
	}
	return Header{Version: version, Flags: flags}, nil
}

// virtualRef reads the virtual substate itself in formats without envelopes,
// and otherwise a length-prefixed parent id followed by the child key.
func virtualRef(r *protocol.Reader) (substate.Substate, VirtualID, error) {
	if !r.Format().SubstateEnvelope {
		s, err := substate.Decode(r)
		return s, VirtualID{}, err
	}
	start := r.Offset()
	size, err := r.Uint16()
	if err != nil {
		return nil, VirtualID{}, protocol.WithField(err, "size")
	}
	if size < virtualMinLen {
		return nil, VirtualID{}, protocol.WithField(protocol.SizeMismatch(start, int(size), virtualMinLen), "size")
	}
	w, err := r.Window(int(size))
	if err != nil {
		return nil, VirtualID{}, protocol.WithField(err, "id")
	}
	parent, err := w.SubstateID()
	if err != nil {
		return nil, VirtualID{}, protocol.WithField(err, "parent")
	}
	key, err := w.Fixed(w.Remaining())
	r.Join(w)
	if err != nil {
		return nil, VirtualID{}, protocol.WithField(err, "key")
	}
	return nil, VirtualID{Parent: parent, Key: key}, nil
}

// localVirtualRef reads the local parent index and, in enveloped formats,
// the child key that follows it inside the declared length.
func localVirtualRef(r *protocol.Reader) (uint16, []byte, error) {
	if !r.Format().SubstateEnvelope {
		idx, err := r.Uint16()
		return idx, nil, protocol.WithField(err, "index")
	}
	start := r.Offset()
	size, err := r.Uint16()
	if err != nil {
		return 0, nil, protocol.WithField(err, "size")
	}
	if size < localVirtualMinLen {
		return 0, nil, protocol.WithField(protocol.SizeMismatch(start, int(size), localVirtualMinLen), "size")
	}
	w, err := r.Window(int(size))
	if err != nil {
		return 0, nil, protocol.WithField(err, "key")
	}
	idx, err := w.Uint16()
	if err != nil {
		return 0, nil, protocol.WithField(err, "index")
	}
	key, err := w.Fixed(w.Remaining())
	r.Join(w)
	return idx, key, protocol.WithField(err, "key")
}
