package keeper

import (
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// outboundPacket is a validated packet ready to be sent.
type outboundPacket struct {
	channelID        string
	sender           string
	amount           types.Amount
	packet           types.Ics20Packet
	timeoutTimestamp uint64
}

// SendNative sends the single native coin attached by sender.
func (k Keeper) SendNative(ctx sdk.Context, sender sdk.AccAddress, funds sdk.Coins, msg types.OutboundMsg) (uint64, error) {
	if funds.Empty() {
		return 0, types.ErrNoFunds
	}
	if len(funds) != 1 {
		return 0, errorsmod.Wrapf(types.ErrMultipleDenoms, "got %s", funds)
	}
	if err := funds.Validate(); err != nil {
		return 0, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
	}

	amount := types.AmountFromCoin(funds[0])
	out, err := k.buildOutbound(ctx, sender.String(), amount, msg)
	if err != nil {
		return 0, err
	}
	if err := k.escrowCoin(ctx, out.channelID, sender, funds[0]); err != nil {
		return 0, err
	}
	return k.sendOutbound(ctx, out)
}

// SendCw20 sends tokens a cw20 contract already moved to the module account
// on behalf of rcv.Sender. contract is the calling token contract.
func (k Keeper) SendCw20(ctx sdk.Context, contract string, rcv types.Cw20ReceiveMsg, msg types.OutboundMsg) (uint64, error) {
	if _, err := sdk.AccAddressFromBech32(rcv.Sender); err != nil {
		return 0, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid cw20 sender: %s", err)
	}

	amount := types.NewCw20Amount(contract, rcv.Amount)
	out, err := k.buildOutbound(ctx, rcv.Sender, amount, msg)
	if err != nil {
		return 0, err
	}
	if err := k.escrowCw20(ctx, out.channelID, amount); err != nil {
		return 0, err
	}
	return k.sendOutbound(ctx, out)
}

// buildOutbound validates an outbound request and builds its packet without
// touching state.
func (k Keeper) buildOutbound(ctx sdk.Context, sender string, amount types.Amount, msg types.OutboundMsg) (outboundPacket, error) {
	if err := msg.ValidateBasic(); err != nil {
		return outboundPacket{}, err
	}

	channelID := msg.GetChannel()
	if !k.HasChannel(ctx, channelID) {
		return outboundPacket{}, errorsmod.Wrapf(types.ErrNoSuchChannel, "channel %s", channelID)
	}
	if amount.IsCw20() {
		if _, allowed := k.GetAllowed(ctx, amount.Cw20.Address); !allowed {
			return outboundPacket{}, errorsmod.Wrapf(types.ErrNotOnAllowList, "cw20 contract %s", amount.Cw20.Address)
		}
	}
	if err := amount.Validate(); err != nil {
		return outboundPacket{}, err
	}

	action, err := types.BuildAction(msg, amount.Denom())
	if err != nil {
		return outboundPacket{}, err
	}

	receiver := sender
	if transfer, ok := msg.(types.TransferMsg); ok {
		receiver = transfer.RemoteAddress
	}

	switch action.(type) {
	case types.LockPacket, types.ClaimPacket, types.UnlockPacket:
		if _, found := k.GetLockup(ctx, channelID, sender); !found {
			return outboundPacket{}, errorsmod.Wrapf(types.ErrNoLockup, "%s has no lockup account on %s", sender, channelID)
		}
	}

	packet := types.NewIcs20Packet(amount.Value(), amount.Denom(), sender, receiver, action)
	if err := packet.Validate(); err != nil {
		return outboundPacket{}, err
	}

	timeout, err := k.timeoutTimestamp(ctx, msg.GetTimeout())
	if err != nil {
		return outboundPacket{}, err
	}

	return outboundPacket{
		channelID:        channelID,
		sender:           sender,
		amount:           amount,
		packet:           packet,
		timeoutTimestamp: timeout,
	}, nil
}

// timeoutTimestamp resolves the packet timeout, in nanoseconds, from an
// optional number of seconds after the current block time.
func (k Keeper) timeoutTimestamp(ctx sdk.Context, override *uint64) (uint64, error) {
	seconds := k.GetConfig(ctx).DefaultTimeout
	if override != nil {
		seconds = *override
	}
	if seconds == 0 {
		return 0, errorsmod.Wrap(types.ErrInvalidMsg, "timeout must be positive")
	}

	now := uint64(ctx.BlockTime().UnixNano())
	maxSeconds := (^uint64(0) - now) / uint64(time.Second)
	if seconds > maxSeconds {
		return 0, errorsmod.Wrapf(types.ErrInvalidMsg, "timeout of %d seconds is too large", seconds)
	}
	return now + seconds*uint64(time.Second), nil
}

// sendOutbound books the packet against the channel and hands it to IBC.
// Accounting and the pending record are written before the packet leaves so
// that its ack or timeout always finds something to reconcile.
func (k Keeper) sendOutbound(ctx sdk.Context, out outboundPacket) (uint64, error) {
	chanCap, ok := k.GetChannelCapability(ctx, types.PortID, out.channelID)
	if !ok {
		return 0, errorsmod.Wrap(channeltypes.ErrChannelCapabilityNotFound, "module does not own channel capability")
	}
	sequence, found := k.channelKeeper.GetNextSequenceSend(ctx, types.PortID, out.channelID)
	if !found {
		return 0, errorsmod.Wrapf(channeltypes.ErrSequenceSendNotFound, "port %s channel %s", types.PortID, out.channelID)
	}

	data, err := out.packet.GetBytes()
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidPacket, "cannot encode packet: %s", err)
	}

	denom := out.amount.Denom()
	action := out.packet.ActionType()
	k.IncreaseChannelBalance(ctx, out.channelID, denom, out.amount.Value())
	k.SetPendingPacket(ctx, types.PendingPacket{
		ChannelID: out.channelID,
		Sequence:  sequence,
		Sender:    out.sender,
		Amount:    out.amount,
		Action:    action,
	})

	sent, err := k.ics4Wrapper.SendPacket(ctx, chanCap, types.PortID, out.channelID, clienttypes.ZeroHeight(), out.timeoutTimestamp, data)
	if err != nil {
		return 0, err
	}
	if sent != sequence {
		return 0, errorsmod.Wrapf(types.ErrChannelAccounting, "packet sent with sequence %d, expected %d", sent, sequence)
	}

	info, _ := k.GetChannelInfo(ctx, out.channelID)
	reportSend(info.CounterpartyEndpoint.PortID, info.CounterpartyEndpoint.ChannelID, denom, action, out.amount.Value())
	k.metrics.PacketsSent.WithLabelValues(out.channelID, action).Inc()

	k.Logger(ctx).Info("bridge packet sent",
		"channel", out.channelID,
		"sequence", sequence,
		"denom", denom,
		"amount", out.amount.Value().String(),
		"action", action,
	)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyChannelID, out.channelID),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
			sdk.NewAttribute(types.AttributeKeySender, out.sender),
			sdk.NewAttribute(types.AttributeKeyReceiver, out.packet.Receiver),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, out.amount.Value().String()),
			sdk.NewAttribute(types.AttributeKeyAction, action),
		),
	)

	return sequence, nil
}
