package keeper

import (
	"encoding/json"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// SetPendingPacket records a sent packet awaiting its ack or timeout.
func (k Keeper) SetPendingPacket(ctx sdk.Context, pending types.PendingPacket) {
	k.setJSON(ctx, types.GetPendingPacketKey(pending.ChannelID, pending.Sequence), pending)
}

// GetPendingPacket returns the record of a packet still awaiting resolution.
func (k Keeper) GetPendingPacket(ctx sdk.Context, channelID string, sequence uint64) (types.PendingPacket, bool) {
	var pending types.PendingPacket
	found := k.getJSON(ctx, types.GetPendingPacketKey(channelID, sequence), &pending)
	return pending, found
}

// resolvePendingPacket swaps the pending record for a resolved marker so the
// packet cannot be reconciled twice.
func (k Keeper) resolvePendingPacket(ctx sdk.Context, channelID string, sequence uint64) {
	store := k.getStore(ctx)
	store.Delete(types.GetPendingPacketKey(channelID, sequence))
	store.Set(types.GetResolvedPacketKey(channelID, sequence), []byte{0x01})
}

// IsPacketResolved reports whether an ack or timeout was already processed.
func (k Keeper) IsPacketResolved(ctx sdk.Context, channelID string, sequence uint64) bool {
	return k.getStore(ctx).Has(types.GetResolvedPacketKey(channelID, sequence))
}

// GetAllPendingPackets returns every unresolved packet.
func (k Keeper) GetAllPendingPackets(ctx sdk.Context) []types.PendingPacket {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PendingPacketKeyPrefix)
	defer iterator.Close()

	packets := []types.PendingPacket{}
	for ; iterator.Valid(); iterator.Next() {
		var pending types.PendingPacket
		if err := json.Unmarshal(iterator.Value(), &pending); err != nil {
			panic(err)
		}
		packets = append(packets, pending)
	}
	return packets
}

// CountPendingPackets returns how many packets sent over channelID still
// await an ack or timeout.
func (k Keeper) CountPendingPackets(ctx sdk.Context, channelID string) int {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.GetPendingPacketPrefix(channelID))
	defer iterator.Close()

	n := 0
	for ; iterator.Valid(); iterator.Next() {
		n++
	}
	return n
}

// SetLockup records the lockup account of owner on a channel.
func (k Keeper) SetLockup(ctx sdk.Context, lockup types.Lockup) {
	k.setJSON(ctx, types.GetLockupKey(lockup.Channel, lockup.Owner), lockup)
}

// GetLockup returns the lockup account of owner on a channel.
func (k Keeper) GetLockup(ctx sdk.Context, channelID, owner string) (types.Lockup, bool) {
	var lockup types.Lockup
	found := k.getJSON(ctx, types.GetLockupKey(channelID, owner), &lockup)
	return lockup, found
}

// LockupAddress returns the lockup account address of owner on a channel.
func (k Keeper) LockupAddress(ctx sdk.Context, channelID, owner string) (string, bool) {
	lockup, found := k.GetLockup(ctx, channelID, owner)
	return lockup.Address, found
}

// GetAllLockups returns every recorded lockup account.
func (k Keeper) GetAllLockups(ctx sdk.Context) []types.Lockup {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.LockupKeyPrefix)
	defer iterator.Close()

	lockups := []types.Lockup{}
	for ; iterator.Valid(); iterator.Next() {
		var lockup types.Lockup
		if err := json.Unmarshal(iterator.Value(), &lockup); err != nil {
			panic(err)
		}
		lockups = append(lockups, lockup)
	}
	return lockups
}
