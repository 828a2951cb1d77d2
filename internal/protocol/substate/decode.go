package substate

import (
	"errors"
	"strings"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/holiman/uint256"
)

// Decode reads one substate at the cursor, including the u16 size envelope
// when the format has one. Inside an envelope the variant can never read
// past the declared size; leftover declared bytes are an error in strict
// formats and skipped otherwise.
func Decode(r *protocol.Reader) (Substate, error) {
	if !r.Format().SubstateEnvelope {
		return DecodeTagged(r)
	}

	start := r.Offset()
	size, err := r.Uint16()
	if err != nil {
		return nil, protocol.WithField(err, "substate.size")
	}
	w, err := r.Window(int(size))
	if err != nil {
		return nil, protocol.WithField(err, "substate")
	}
	bodyStart := w.Offset()
	s, err := DecodeTagged(w)
	r.Join(w)
	if err != nil {
		var de *protocol.DecodeError
		if errors.As(err, &de) && errors.Is(err, protocol.ErrUnexpectedEnd) {
			// The envelope was fully present, so running out means the
			// variant needs more bytes than were declared.
			return nil, protocol.WithField(
				protocol.SizeMismatch(start, int(size), de.Offset-bodyStart+de.Expected),
				de.Field,
			)
		}
		return nil, err
	}

	consumed := w.Offset() - bodyStart
	if consumed < int(size) {
		if r.Format().StrictEnvelope {
			return nil, protocol.WithField(protocol.SizeMismatch(start, int(size), consumed), fieldName(s.Kind()))
		}
		if err := r.Skip(int(size) - consumed); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DecodeTagged reads the type tag and the variant body with no envelope.
func DecodeTagged(r *protocol.Reader) (Substate, error) {
	start := r.Offset()
	tag, err := r.ReadByte()
	if err != nil {
		return nil, protocol.WithField(err, "substate.type")
	}
	kind, ok := KindOf(r.Format().Version, tag)
	if !ok {
		return nil, protocol.UnknownSubstateType(start, tag)
	}

	f := &fields{r: r}
	if r.Format().ReservedBytes && hasReserved(kind) {
		f.reserved()
	}
	s := decodeBody(kind, f)
	if s == nil && f.err == nil {
		f.err = protocol.UnknownSubstateType(start, tag)
	}
	if f.err != nil {
		return nil, protocol.WithField(f.err, fieldName(kind))
	}
	return s, nil
}

func fieldName(k Kind) string {
	return strings.ToLower(k.String())
}

// decodeBody returns nil only for a kind with no decoder.
func decodeBody(kind Kind, f *fields) Substate {
	switch kind {
	case KindVirtualParent:
		var s VirtualParent
		s.ChildType = f.u8("child_type")
		return s
	case KindUnclaimedREAddr:
		var s UnclaimedREAddr
		s.Address = f.addr("address")
		return s
	case KindUnique:
		var s Unique
		s.Address = f.addr("address")
		return s
	case KindRoundData:
		var s RoundData
		s.View = f.u64("view")
		s.Timestamp = f.u64("timestamp")
		return s
	case KindEpochData:
		var s EpochData
		s.Epoch = f.u64("epoch")
		return s
	case KindTokenResource:
		return decodeTokenResource(f)
	case KindTokenResourceMetadata:
		var s TokenResourceMetadata
		s.Address = f.addr("address")
		s.Symbol = f.text("symbol")
		s.Name = f.text("name")
		s.Description = f.text("description")
		s.IconURL = f.text("icon_url")
		s.URL = f.text("url")
		return s
	case KindTokens:
		var s Tokens
		s.Owner = f.addr("owner")
		s.Resource = f.addr("resource")
		s.Amount = f.u256("amount")
		return s
	case KindPreparedStake:
		var s PreparedStake
		s.Owner = f.addr("owner")
		s.Delegate = f.key("delegate")
		s.Amount = f.u256("amount")
		return s
	case KindStakeOwnership:
		var s StakeOwnership
		s.Delegate = f.key("delegate")
		s.Owner = f.addr("owner")
		s.Amount = f.u256("amount")
		return s
	case KindPreparedUnstake:
		var s PreparedUnstake
		s.Delegate = f.key("delegate")
		s.Owner = f.addr("owner")
		s.Amount = f.u256("amount")
		return s
	case KindExitingStake:
		var s ExitingStake
		s.EpochUnlocked = f.u64("epoch_unlocked")
		s.Delegate = f.key("delegate")
		s.Owner = f.addr("owner")
		s.Amount = f.u256("amount")
		return s
	case KindValidatorMetaData:
		var s ValidatorMetaData
		s.Validator = f.key("validator")
		s.Name = f.text("name")
		s.URL = f.text("url")
		return s
	case KindValidatorStakeData:
		var s ValidatorStakeData
		s.Registered = f.boolean("registered")
		s.Amount = f.u256("amount")
		s.Validator = f.key("validator")
		s.Ownership = f.u256("ownership")
		s.Rake = f.u32("rake")
		s.Owner = f.addr("owner")
		return s
	case KindValidatorBFTData:
		var s ValidatorBFTData
		s.Validator = f.key("validator")
		s.ProposalsCompleted = f.u64("proposals_completed")
		s.ProposalsMissed = f.u64("proposals_missed")
		return s
	case KindValidatorAllowDelegationFlag:
		var s ValidatorAllowDelegationFlag
		s.Validator = f.key("validator")
		s.AllowDelegate = f.boolean("allow_delegation")
		return s
	case KindValidatorRegisteredCopy:
		var s ValidatorRegisteredCopy
		s.UpdateEpoch = f.epoch("update_epoch")
		s.Validator = f.key("validator")
		s.Registered = f.boolean("registered")
		return s
	case KindValidatorRakeCopy:
		var s ValidatorRakeCopy
		s.UpdateEpoch = f.epoch("update_epoch")
		s.Validator = f.key("validator")
		s.Rake = f.u32("rake")
		return s
	case KindValidatorOwnerCopy:
		var s ValidatorOwnerCopy
		s.UpdateEpoch = f.epoch("update_epoch")
		s.Validator = f.key("validator")
		s.Owner = f.addr("owner")
		return s
	case KindValidatorSystemMetaData:
		var s ValidatorSystemMetaData
		s.Validator = f.key("validator")
		s.Data = f.hash("data")
		return s
	default:
		return nil
	}
}

func decodeTokenResource(f *fields) Substate {
	var s TokenResource
	s.Address = f.addr("address")
	typeOffset := f.r.Offset()
	s.Type = TokenType(f.u8("type"))
	if f.err == nil {
		switch s.Type {
		case TokenNative:
		case TokenMutableSupply:
			s.Supply = f.u256("supply")
		case TokenFixedMint:
			s.Minter = f.key("minter")
		default:
			f.fail("type", protocol.InvalidEnumValue(typeOffset, byte(s.Type)))
		}
	}
	s.Name = f.text("name")
	s.Description = f.text("description")
	s.URL = f.text("url")
	s.IconURL = f.text("icon_url")
	return s
}

// fields reads a variant's field sequence and keeps the first error; later
// reads become no-ops once it is set.
type fields struct {
	r   *protocol.Reader
	err error
}

func (f *fields) fail(name string, err error) {
	if f.err == nil && err != nil {
		f.err = protocol.WithField(err, name)
	}
}

func (f *fields) reserved() {
	if f.err != nil {
		return
	}
	f.fail("reserved", f.r.Reserved())
}

func (f *fields) u8(name string) byte {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadByte()
	f.fail(name, err)
	return v
}

func (f *fields) u32(name string) uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint32()
	f.fail(name, err)
	return v
}

func (f *fields) u64(name string) uint64 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint64()
	f.fail(name, err)
	return v
}

func (f *fields) boolean(name string) bool {
	if f.err != nil {
		return false
	}
	v, err := f.r.Bool()
	f.fail(name, err)
	return v
}

func (f *fields) u256(name string) uint256.Int {
	if f.err != nil {
		return uint256.Int{}
	}
	v, err := f.r.Uint256()
	f.fail(name, err)
	return v
}

func (f *fields) text(name string) string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.Text()
	f.fail(name, err)
	return v
}

func (f *fields) key(name string) protocol.PublicKey {
	if f.err != nil {
		return protocol.PublicKey{}
	}
	v, err := f.r.PublicKey()
	f.fail(name, err)
	return v
}

func (f *fields) hash(name string) protocol.Hash {
	if f.err != nil {
		return protocol.Hash{}
	}
	v, err := f.r.Hash()
	f.fail(name, err)
	return v
}

func (f *fields) addr(name string) protocol.Address {
	if f.err != nil {
		return protocol.Address{}
	}
	v, err := f.r.Address()
	f.fail(name, err)
	return v
}

func (f *fields) epoch(name string) Epoch {
	if f.err != nil {
		return Epoch{}
	}
	v, ok, err := f.r.OptionalUint64()
	f.fail(name, err)
	return Epoch{Value: v, Set: ok}
}
