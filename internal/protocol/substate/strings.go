package substate

import "fmt"

func (s VirtualParent) String() string {
	return fmt.Sprintf("VIRTUAL_PARENT(child=0x%02x)", s.ChildType)
}

func (s UnclaimedREAddr) String() string {
	return fmt.Sprintf("UNCLAIMED_READDR(%s)", s.Address)
}

func (s Unique) String() string {
	return fmt.Sprintf("UNIQUE(%s)", s.Address)
}

func (s RoundData) String() string {
	return fmt.Sprintf("ROUND_DATA(view=%d, timestamp=%d)", s.View, s.Timestamp)
}

func (s EpochData) String() string {
	return fmt.Sprintf("EPOCH_DATA(epoch=%d)", s.Epoch)
}

func (s TokenResource) String() string {
	var extra string
	switch s.Type {
	case TokenMutableSupply:
		extra = fmt.Sprintf(", supply=%s", s.Supply.Dec())
	case TokenFixedMint:
		extra = fmt.Sprintf(", minter=%s", s.Minter)
	}
	return fmt.Sprintf("TOKEN_RESOURCE(addr=%s, type=%s%s, name=%q, description=%q, url=%q, icon=%q)",
		s.Address, s.Type, extra, s.Name, s.Description, s.URL, s.IconURL)
}

func (s TokenResourceMetadata) String() string {
	return fmt.Sprintf("TOKEN_RESOURCE_METADATA(addr=%s, symbol=%q, name=%q, description=%q, icon=%q, url=%q)",
		s.Address, s.Symbol, s.Name, s.Description, s.IconURL, s.URL)
}

func (s Tokens) String() string {
	return fmt.Sprintf("TOKENS(owner=%s, resource=%s, amount=%s)", s.Owner, s.Resource, s.Amount.Dec())
}

func (s PreparedStake) String() string {
	return fmt.Sprintf("PREPARED_STAKE(owner=%s, delegate=%s, amount=%s)", s.Owner, s.Delegate, s.Amount.Dec())
}

func (s StakeOwnership) String() string {
	return fmt.Sprintf("STAKE_OWNERSHIP(delegate=%s, owner=%s, amount=%s)", s.Delegate, s.Owner, s.Amount.Dec())
}

func (s PreparedUnstake) String() string {
	return fmt.Sprintf("PREPARED_UNSTAKE(delegate=%s, owner=%s, amount=%s)", s.Delegate, s.Owner, s.Amount.Dec())
}

func (s ExitingStake) String() string {
	return fmt.Sprintf("EXITING_STAKE(epoch_unlocked=%d, delegate=%s, owner=%s, amount=%s)",
		s.EpochUnlocked, s.Delegate, s.Owner, s.Amount.Dec())
}

func (s ValidatorMetaData) String() string {
	return fmt.Sprintf("VALIDATOR_META_DATA(validator=%s, name=%q, url=%q)", s.Validator, s.Name, s.URL)
}

func (s ValidatorStakeData) String() string {
	return fmt.Sprintf("VALIDATOR_STAKE_DATA(registered=%t, amount=%s, validator=%s, ownership=%s, rake=%d, owner=%s)",
		s.Registered, s.Amount.Dec(), s.Validator, s.Ownership.Dec(), s.Rake, s.Owner)
}

func (s ValidatorBFTData) String() string {
	return fmt.Sprintf("VALIDATOR_BFT_DATA(validator=%s, completed=%d, missed=%d)",
		s.Validator, s.ProposalsCompleted, s.ProposalsMissed)
}

func (s ValidatorAllowDelegationFlag) String() string {
	return fmt.Sprintf("VALIDATOR_ALLOW_DELEGATION_FLAG(validator=%s, allow=%t)", s.Validator, s.AllowDelegate)
}

func (s ValidatorRegisteredCopy) String() string {
	return fmt.Sprintf("VALIDATOR_REGISTERED_FLAG_COPY(epoch=%s, validator=%s, registered=%t)",
		s.UpdateEpoch, s.Validator, s.Registered)
}

func (s ValidatorRakeCopy) String() string {
	return fmt.Sprintf("VALIDATOR_RAKE_COPY(epoch=%s, validator=%s, rake=%d)", s.UpdateEpoch, s.Validator, s.Rake)
}

func (s ValidatorOwnerCopy) String() string {
	return fmt.Sprintf("VALIDATOR_OWNER_COPY(epoch=%s, validator=%s, owner=%s)", s.UpdateEpoch, s.Validator, s.Owner)
}

func (s ValidatorSystemMetaData) String() string {
	return fmt.Sprintf("VALIDATOR_SYSTEM_META_DATA(validator=%s, data=%s)", s.Validator, s.Data)
}
