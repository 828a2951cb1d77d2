package substate

import "github.com/danmuck/txdecode/internal/protocol"

// tagTable maps a wire tag to its variant for one format version.
type tagTable map[byte]Kind

// Betanet generations (v1, v2) carry token metadata inside the definition
// and a generic uniqueness marker.
var legacyTags = tagTable{
	0x00: KindUnclaimedREAddr,
	0x01: KindUnique,
	0x02: KindTokenResource,
	0x03: KindTokens,
	0x04: KindPreparedStake,
	0x05: KindStakeOwnership,
	0x06: KindPreparedUnstake,
	0x07: KindExitingStake,
	0x08: KindValidatorMetaData,
	0x09: KindValidatorAllowDelegationFlag,
	0x0a: KindValidatorRegisteredCopy,
	0x0b: KindValidatorRakeCopy,
	0x0c: KindValidatorOwnerCopy,
}

var olympiaTags = tagTable{
	0x00: KindVirtualParent,
	0x01: KindUnclaimedREAddr,
	0x02: KindRoundData,
	0x03: KindEpochData,
	0x04: KindTokenResource,
	0x05: KindTokenResourceMetadata,
	0x06: KindTokens,
	0x07: KindPreparedStake,
	0x08: KindStakeOwnership,
	0x09: KindPreparedUnstake,
	0x0a: KindExitingStake,
	0x0b: KindValidatorMetaData,
	0x0c: KindValidatorStakeData,
	0x0d: KindValidatorBFTData,
	0x0e: KindValidatorAllowDelegationFlag,
	0x0f: KindValidatorRegisteredCopy,
	0x10: KindValidatorRakeCopy,
	0x11: KindValidatorOwnerCopy,
	0x12: KindValidatorSystemMetaData,
}

func tagsFor(v protocol.Version) tagTable {
	switch v {
	case protocol.V1, protocol.V2:
		return legacyTags
	default:
		return olympiaTags
	}
}

// KindOf resolves the variant of tag under version v.
func KindOf(v protocol.Version, tag byte) (Kind, bool) {
	k, ok := tagsFor(v)[tag]
	return k, ok
}

// TagOf is the inverse of KindOf.
func TagOf(v protocol.Version, k Kind) (byte, bool) {
	for tag, kind := range tagsFor(v) {
		if kind == k {
			return tag, true
		}
	}
	return 0, false
}

// hasReserved reports whether k carries a reserved byte after its tag in
// formats that enable reserved bytes.
func hasReserved(k Kind) bool {
	switch k {
	case KindUnclaimedREAddr, KindUnique:
		return false
	default:
		return true
	}
}
