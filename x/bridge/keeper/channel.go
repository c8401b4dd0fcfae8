package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// SetChannelInfo records a channel. The entry is written once, when the
// handshake completes.
func (k Keeper) SetChannelInfo(ctx sdk.Context, info types.ChannelInfo) {
	k.setJSON(ctx, types.GetChannelInfoKey(info.ID), info)
}

// RegisterChannel records the bridge end of a channel whose handshake is
// completing. counterpartyChannelID overrides the stored counterparty, which is
// still unset while the ack step runs.
func (k Keeper) RegisterChannel(ctx sdk.Context, portID, channelID, counterpartyChannelID string) (types.ChannelInfo, error) {
	channel, found := k.channelKeeper.GetChannel(ctx, portID, channelID)
	if !found {
		return types.ChannelInfo{}, errorsmod.Wrapf(channeltypes.ErrChannelNotFound, "port %s channel %s", portID, channelID)
	}
	if counterpartyChannelID == "" {
		counterpartyChannelID = channel.Counterparty.ChannelId
	}
	connectionID := ""
	if len(channel.ConnectionHops) > 0 {
		connectionID = channel.ConnectionHops[0]
	}

	info := types.ChannelInfo{
		ID: channelID,
		CounterpartyEndpoint: types.IbcEndpoint{
			PortID:    channel.Counterparty.PortId,
			ChannelID: counterpartyChannelID,
		},
		ConnectionID: connectionID,
	}
	if err := info.Validate(); err != nil {
		return types.ChannelInfo{}, err
	}
	if k.HasChannel(ctx, channelID) {
		return types.ChannelInfo{}, errorsmod.Wrapf(channeltypes.ErrInvalidChannelState, "channel %s already registered", channelID)
	}

	k.SetChannelInfo(ctx, info)
	k.Logger(ctx).Info("bridge channel registered",
		"channel", channelID,
		"counterparty_port", info.CounterpartyEndpoint.PortID,
		"counterparty_channel", info.CounterpartyEndpoint.ChannelID,
		"connection", connectionID,
	)
	return info, nil
}

// GetChannelInfo returns the registry entry of a channel.
func (k Keeper) GetChannelInfo(ctx sdk.Context, channelID string) (types.ChannelInfo, bool) {
	var info types.ChannelInfo
	found := k.getJSON(ctx, types.GetChannelInfoKey(channelID), &info)
	return info, found
}

// HasChannel reports whether the channel completed its handshake.
func (k Keeper) HasChannel(ctx sdk.Context, channelID string) bool {
	return k.getStore(ctx).Has(types.GetChannelInfoKey(channelID))
}

// IterateChannels walks the registry in ascending channel id order until cb
// returns true.
func (k Keeper) IterateChannels(ctx sdk.Context, cb func(info types.ChannelInfo) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ChannelInfoKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var info types.ChannelInfo
		if err := json.Unmarshal(iterator.Value(), &info); err != nil {
			panic(err)
		}
		if cb(info) {
			return
		}
	}
}

// GetAllChannels returns every registered channel.
func (k Keeper) GetAllChannels(ctx sdk.Context) []types.ChannelInfo {
	channels := []types.ChannelInfo{}
	k.IterateChannels(ctx, func(info types.ChannelInfo) bool {
		channels = append(channels, info)
		return false
	})
	return channels
}

// GetChannelState returns the (channel, denom) balance, zero when nothing was
// ever sent.
func (k Keeper) GetChannelState(ctx sdk.Context, channelID, denom string) types.ChannelState {
	var state types.ChannelState
	if !k.getJSON(ctx, types.GetChannelStateKey(channelID, denom), &state) {
		return types.NewChannelState()
	}
	return state
}

// SetChannelState stores a (channel, denom) balance.
func (k Keeper) SetChannelState(ctx sdk.Context, channelID, denom string, state types.ChannelState) {
	k.setJSON(ctx, types.GetChannelStateKey(channelID, denom), state)
}

// IterateChannelStates walks the balances of a channel in ascending denom order.
func (k Keeper) IterateChannelStates(ctx sdk.Context, channelID string, cb func(denom string, state types.ChannelState) (stop bool)) {
	store := prefix.NewStore(k.getStore(ctx), types.GetChannelStatePrefix(channelID))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var state types.ChannelState
		if err := json.Unmarshal(iterator.Value(), &state); err != nil {
			panic(err)
		}
		if cb(string(iterator.Key()), state) {
			return
		}
	}
}

// IncreaseChannelBalance records amount of denom sent over channelID.
func (k Keeper) IncreaseChannelBalance(ctx sdk.Context, channelID, denom string, amount math.Uint) types.ChannelState {
	state := k.GetChannelState(ctx, channelID, denom).Increase(amount)
	k.SetChannelState(ctx, channelID, denom, state)
	return state
}

// ReduceChannelBalance releases amount of denom from the outstanding balance of
// channelID. Reducing past zero means the reconciliation logic is broken; it is
// reported and nothing is written.
func (k Keeper) ReduceChannelBalance(ctx sdk.Context, channelID, denom string, amount math.Uint) (types.ChannelState, error) {
	current := k.GetChannelState(ctx, channelID, denom)
	state, err := current.Reduce(amount)
	if err != nil {
		k.Logger(ctx).Error("channel accounting violation",
			"channel", channelID,
			"denom", denom,
			"outstanding", current.Outstanding.String(),
			"amount", amount.String(),
			"error", err,
		)
		k.metrics.AccountingViolations.WithLabelValues(channelID, denom).Inc()
		return current, errorsmod.Wrapf(err, "channel %s denom %s", channelID, denom)
	}
	k.SetChannelState(ctx, channelID, denom, state)
	return state, nil
}
