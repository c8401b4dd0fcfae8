package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "bridge"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// PortID is the port the bridge binds to
	PortID = "bridge"

	// Version is the ICS20 application version. Action packets are a strict
	// superset of the plain transfer packet, so the bridge speaks ics20-1.
	Version = "ics20-1"

	// DefaultTimeoutSeconds is used when genesis does not set a default timeout
	DefaultTimeoutSeconds uint64 = 600

	// Cw20DenomPrefix marks denoms that refer to a CW20-style token contract
	Cw20DenomPrefix = "cw20:"

	// DefaultPageLimit and MaxPageLimit bound list queries
	DefaultPageLimit uint32 = 10
	MaxPageLimit     uint32 = 30
)

// Store key prefixes
var (
	ConfigKey               = []byte{0x01} // key for module config
	AdminKey                = []byte{0x02} // key for current admin address
	ChannelInfoKeyPrefix    = []byte{0x03} // prefix for channel registry
	ChannelStateKeyPrefix   = []byte{0x04} // prefix for (channel, denom) balances
	AllowListKeyPrefix      = []byte{0x05} // prefix for allowed cw20 contracts
	ExternalTokenKeyPrefix  = []byte{0x06} // prefix for allowed external denoms
	PendingPacketKeyPrefix  = []byte{0x07} // prefix for packets awaiting ack/timeout
	ResolvedPacketKeyPrefix = []byte{0x08} // prefix for packets already reconciled
	LockupKeyPrefix         = []byte{0x09} // prefix for (channel, owner) lockup addresses
)

// GetChannelInfoKey returns the store key for a channel's registry entry
func GetChannelInfoKey(channelID string) []byte {
	return append(ChannelInfoKeyPrefix, []byte(channelID)...)
}

// GetChannelStatePrefix returns the prefix of all balances kept for a channel
func GetChannelStatePrefix(channelID string) []byte {
	return append(ChannelStateKeyPrefix, address.MustLengthPrefix([]byte(channelID))...)
}

// GetChannelStateKey returns the store key for the (channel, denom) balance
func GetChannelStateKey(channelID, denom string) []byte {
	return append(GetChannelStatePrefix(channelID), []byte(denom)...)
}

// GetAllowListKey returns the store key for an allowed cw20 contract
func GetAllowListKey(contract string) []byte {
	return append(AllowListKeyPrefix, []byte(contract)...)
}

// GetExternalTokenKey returns the store key for an allowed external denom
func GetExternalTokenKey(denom string) []byte {
	return append(ExternalTokenKeyPrefix, []byte(denom)...)
}

// GetPendingPacketPrefix returns the prefix of all packets awaiting
// resolution on a channel
func GetPendingPacketPrefix(channelID string) []byte {
	return append(PendingPacketKeyPrefix, address.MustLengthPrefix([]byte(channelID))...)
}

// GetPendingPacketKey returns the store key for a packet awaiting resolution
func GetPendingPacketKey(channelID string, sequence uint64) []byte {
	return append(GetPendingPacketPrefix(channelID), sdk.Uint64ToBigEndian(sequence)...)
}

// GetResolvedPacketKey returns the store key marking a packet as reconciled
func GetResolvedPacketKey(channelID string, sequence uint64) []byte {
	key := append(ResolvedPacketKeyPrefix, address.MustLengthPrefix([]byte(channelID))...)
	return append(key, sdk.Uint64ToBigEndian(sequence)...)
}

// GetLockupKey returns the store key for an owner's lockup address on a channel
func GetLockupKey(channelID, owner string) []byte {
	key := append(LockupKeyPrefix, address.MustLengthPrefix([]byte(channelID))...)
	return append(key, []byte(owner)...)
}
