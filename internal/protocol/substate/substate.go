// Package substate decodes the typed ledger-state records embedded in
// UP and virtual read/down instructions.
package substate

import (
	"fmt"

	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/holiman/uint256"
)

// Kind names a substate variant independently of its per-version tag byte.
type Kind uint8

const (
	KindVirtualParent Kind = iota + 1
	KindUnclaimedREAddr
	KindUnique
	KindRoundData
	KindEpochData
	KindTokenResource
	KindTokenResourceMetadata
	KindTokens
	KindPreparedStake
	KindStakeOwnership
	KindPreparedUnstake
	KindExitingStake
	KindValidatorMetaData
	KindValidatorStakeData
	KindValidatorBFTData
	KindValidatorAllowDelegationFlag
	KindValidatorRegisteredCopy
	KindValidatorRakeCopy
	KindValidatorOwnerCopy
	KindValidatorSystemMetaData
)

var kindNames = map[Kind]string{
	KindVirtualParent:                "VIRTUAL_PARENT",
	KindUnclaimedREAddr:              "UNCLAIMED_READDR",
	KindUnique:                       "UNIQUE",
	KindRoundData:                    "ROUND_DATA",
	KindEpochData:                    "EPOCH_DATA",
	KindTokenResource:                "TOKEN_RESOURCE",
	KindTokenResourceMetadata:        "TOKEN_RESOURCE_METADATA",
	KindTokens:                       "TOKENS",
	KindPreparedStake:                "PREPARED_STAKE",
	KindStakeOwnership:               "STAKE_OWNERSHIP",
	KindPreparedUnstake:              "PREPARED_UNSTAKE",
	KindExitingStake:                 "EXITING_STAKE",
	KindValidatorMetaData:            "VALIDATOR_META_DATA",
	KindValidatorStakeData:           "VALIDATOR_STAKE_DATA",
	KindValidatorBFTData:             "VALIDATOR_BFT_DATA",
	KindValidatorAllowDelegationFlag: "VALIDATOR_ALLOW_DELEGATION_FLAG",
	KindValidatorRegisteredCopy:      "VALIDATOR_REGISTERED_FLAG_COPY",
	KindValidatorRakeCopy:            "VALIDATOR_RAKE_COPY",
	KindValidatorOwnerCopy:           "VALIDATOR_OWNER_COPY",
	KindValidatorSystemMetaData:      "VALIDATOR_SYSTEM_META_DATA",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", uint8(k))
}

// Substate is the closed set of decoded variants. Only types in this
// package implement it.
type Substate interface {
	Kind() Kind
	fmt.Stringer
	isSubstate()
}

// TokenType is the discriminant of a TokenResource.
type TokenType byte

const (
	TokenNative        TokenType = 0x00
	TokenMutableSupply TokenType = 0x01
	TokenFixedMint     TokenType = 0x02
)

func (t TokenType) String() string {
	switch t {
	case TokenNative:
		return "native"
	case TokenMutableSupply:
		return "mutable_supply"
	case TokenFixedMint:
		return "fixed_mint"
	default:
		return fmt.Sprintf("token_type(0x%02x)", byte(t))
	}
}

// Epoch is an optional epoch number carried by validator copies.
type Epoch struct {
	Value uint64
	Set   bool
}

func (e Epoch) String() string {
	if !e.Set {
		return "-"
	}
	return fmt.Sprintf("%d", e.Value)
}

type VirtualParent struct {
	ChildType byte
}

type UnclaimedREAddr struct {
	Address protocol.Address
}

type Unique struct {
	Address protocol.Address
}

type RoundData struct {
	View      uint64
	Timestamp uint64
}

type EpochData struct {
	Epoch uint64
}

// TokenResource defines a token. Supply is set only for TokenMutableSupply
// and Minter only for TokenFixedMint.
type TokenResource struct {
	Address     protocol.Address
	Type        TokenType
	Supply      uint256.Int
	Minter      protocol.PublicKey
	Name        string
	Description string
	URL         string
	IconURL     string
}

type TokenResourceMetadata struct {
	Address     protocol.Address
	Symbol      string
	Name        string
	Description string
	IconURL     string
	URL         string
}

type Tokens struct {
	Owner    protocol.Address
	Resource protocol.Address
	Amount   uint256.Int
}

type PreparedStake struct {
	Owner    protocol.Address
	Delegate protocol.PublicKey
	Amount   uint256.Int
}

type StakeOwnership struct {
	Delegate protocol.PublicKey
	Owner    protocol.Address
	Amount   uint256.Int
}

type PreparedUnstake struct {
	Delegate protocol.PublicKey
	Owner    protocol.Address
	Amount   uint256.Int
}

type ExitingStake struct {
	EpochUnlocked uint64
	Delegate      protocol.PublicKey
	Owner         protocol.Address
	Amount        uint256.Int
}

type ValidatorMetaData struct {
	Validator protocol.PublicKey
	Name      string
	URL       string
}

type ValidatorStakeData struct {
	Registered bool
	Amount     uint256.Int
	Validator  protocol.PublicKey
	Ownership  uint256.Int
	Rake       uint32
	Owner      protocol.Address
}

type ValidatorBFTData struct {
	Validator          protocol.PublicKey
	ProposalsCompleted uint64
	ProposalsMissed    uint64
}

type ValidatorAllowDelegationFlag struct {
	Validator     protocol.PublicKey
	AllowDelegate bool
}

type ValidatorRegisteredCopy struct {
	UpdateEpoch Epoch
	Validator   protocol.PublicKey
	Registered  bool
}

type ValidatorRakeCopy struct {
	UpdateEpoch Epoch
	Validator   protocol.PublicKey
	Rake        uint32
}

type ValidatorOwnerCopy struct {
	UpdateEpoch Epoch
	Validator   protocol.PublicKey
	Owner       protocol.Address
}

type ValidatorSystemMetaData struct {
	Validator protocol.PublicKey
	Data      protocol.Hash
}

func (VirtualParent) Kind() Kind                { return KindVirtualParent }
func (UnclaimedREAddr) Kind() Kind              { return KindUnclaimedREAddr }
func (Unique) Kind() Kind                       { return KindUnique }
func (RoundData) Kind() Kind                    { return KindRoundData }
func (EpochData) Kind() Kind                    { return KindEpochData }
func (TokenResource) Kind() Kind                { return KindTokenResource }
func (TokenResourceMetadata) Kind() Kind        { return KindTokenResourceMetadata }
func (Tokens) Kind() Kind                       { return KindTokens }
func (PreparedStake) Kind() Kind                { return KindPreparedStake }
func (StakeOwnership) Kind() Kind               { return KindStakeOwnership }
func (PreparedUnstake) Kind() Kind              { return KindPreparedUnstake }
func (ExitingStake) Kind() Kind                 { return KindExitingStake }
func (ValidatorMetaData) Kind() Kind            { return KindValidatorMetaData }
func (ValidatorStakeData) Kind() Kind           { return KindValidatorStakeData }
func (ValidatorBFTData) Kind() Kind             { return KindValidatorBFTData }
func (ValidatorAllowDelegationFlag) Kind() Kind { return KindValidatorAllowDelegationFlag }
func (ValidatorRegisteredCopy) Kind() Kind      { return KindValidatorRegisteredCopy }
func (ValidatorRakeCopy) Kind() Kind            { return KindValidatorRakeCopy }
func (ValidatorOwnerCopy) Kind() Kind           { return KindValidatorOwnerCopy }
func (ValidatorSystemMetaData) Kind() Kind      { return KindValidatorSystemMetaData }

func (VirtualParent) isSubstate()                {}
func (UnclaimedREAddr) isSubstate()              {}
func (Unique) isSubstate()                       {}
func (RoundData) isSubstate()                    {}
func (EpochData) isSubstate()                    {}
func (TokenResource) isSubstate()                {}
func (TokenResourceMetadata) isSubstate()        {}
func (Tokens) isSubstate()                       {}
func (PreparedStake) isSubstate()                {}
func (StakeOwnership) isSubstate()               {}
func (PreparedUnstake) isSubstate()              {}
func (ExitingStake) isSubstate()                 {}
func (ValidatorMetaData) isSubstate()            {}
func (ValidatorStakeData) isSubstate()           {}
func (ValidatorBFTData) isSubstate()             {}
func (ValidatorAllowDelegationFlag) isSubstate() {}
func (ValidatorRegisteredCopy) isSubstate()      {}
func (ValidatorRakeCopy) isSubstate()            {}
func (ValidatorOwnerCopy) isSubstate()           {}
func (ValidatorSystemMetaData) isSubstate()      {}
