package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
	sharedibc "github.com/giansalex/cw-osmo-swap/x/shared/ibc"
)

// OnAcknowledgementPacket reconciles a sent packet with the counterparty's
// acknowledgement: an error ack refunds the sender, a result ack finalizes
// the transfer.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, acknowledgement []byte) error {
	_, span := startPacketSpan(ctx, "acknowledge", packet.SourcePort, packet.SourceChannel, packet.Sequence)
	err := k.onAcknowledgementPacket(ctx, packet, acknowledgement)
	endSpan(span, err)
	return err
}

func (k Keeper) onAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, acknowledgement []byte) error {
	var ack types.Ics20Ack
	if err := sharedibc.NewAcknowledgementHelper().ValidateAndUnmarshalAck(acknowledgement, &ack); err != nil {
		return errorsmod.Wrap(types.ErrInvalidAck, err.Error())
	}

	pending, err := k.loadPending(ctx, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return err
	}

	if ack.IsError() {
		if err := k.refund(ctx, pending, ack.Error); err != nil {
			return err
		}
		k.metrics.Acknowledgements.WithLabelValues(pending.ChannelID, pending.Action, "error").Inc()
	} else {
		if _, err := k.ReduceChannelBalance(ctx, pending.ChannelID, pending.Amount.Denom(), pending.Amount.Value()); err != nil {
			return err
		}
		k.handleActionResult(ctx, pending, ack)
		k.metrics.Acknowledgements.WithLabelValues(pending.ChannelID, pending.Action, statusSuccess).Inc()
	}

	k.resolvePendingPacket(ctx, pending.ChannelID, pending.Sequence)
	reportReconcile("acknowledgement", pending.ChannelID, pending.Action)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAcknowledge,
			sdk.NewAttribute(types.AttributeKeyChannelID, pending.ChannelID),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(pending.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyAction, pending.Action),
			sdk.NewAttribute(types.AttributeKeySuccess, strconv.FormatBool(ack.Success())),
		),
	)
	return nil
}

// OnTimeoutPacket refunds a packet that was never received.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	_, span := startPacketSpan(ctx, "timeout", packet.SourcePort, packet.SourceChannel, packet.Sequence)
	err := k.onTimeoutPacket(ctx, packet)
	endSpan(span, err)
	return err
}

func (k Keeper) onTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	pending, err := k.loadPending(ctx, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return err
	}
	if err := k.refund(ctx, pending, "timeout"); err != nil {
		return err
	}

	k.resolvePendingPacket(ctx, pending.ChannelID, pending.Sequence)
	k.metrics.Timeouts.WithLabelValues(pending.ChannelID, pending.Action).Inc()
	reportReconcile("timeout", pending.ChannelID, pending.Action)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTimeout,
			sdk.NewAttribute(types.AttributeKeyChannelID, pending.ChannelID),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(pending.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeySender, pending.Sender),
			sdk.NewAttribute(types.AttributeKeyAction, pending.Action),
		),
	)
	return nil
}

// loadPending returns the record of a packet that still has to be
// reconciled, rejecting replays.
func (k Keeper) loadPending(ctx sdk.Context, channelID string, sequence uint64) (types.PendingPacket, error) {
	pending, found := k.GetPendingPacket(ctx, channelID, sequence)
	if found {
		return pending, nil
	}
	if k.IsPacketResolved(ctx, channelID, sequence) {
		return types.PendingPacket{}, errorsmod.Wrapf(types.ErrPacketAlreadyReconciled, "channel %s sequence %d", channelID, sequence)
	}
	return types.PendingPacket{}, errorsmod.Wrapf(types.ErrUnknownPacket, "channel %s sequence %d", channelID, sequence)
}

// refund reverses the outstanding balance and returns the escrow to the
// sender. total_sent is left as is.
func (k Keeper) refund(ctx sdk.Context, pending types.PendingPacket, reason string) error {
	denom := pending.Amount.Denom()
	if _, err := k.ReduceChannelBalance(ctx, pending.ChannelID, denom, pending.Amount.Value()); err != nil {
		return err
	}

	sender, err := sdk.AccAddressFromBech32(pending.Sender)
	if err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid refund address: %s", err)
	}
	if err := k.release(ctx, pending.ChannelID, pending.Amount, sender); err != nil {
		return errorsmod.Wrapf(err, "failed to refund %s %s to %s", pending.Amount.Value(), denom, pending.Sender)
	}

	k.metrics.Refunds.WithLabelValues(pending.ChannelID, denom).Inc()
	k.Logger(ctx).Info("bridge escrow refunded",
		"channel", pending.ChannelID,
		"sequence", pending.Sequence,
		"sender", pending.Sender,
		"denom", denom,
		"amount", pending.Amount.Value().String(),
		"reason", reason,
	)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefund,
			sdk.NewAttribute(types.AttributeKeyChannelID, pending.ChannelID),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(pending.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeySender, pending.Sender),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, pending.Amount.Value().String()),
			sdk.NewAttribute(types.AttributeKeyError, reason),
		),
	)
	return nil
}

// handleActionResult decodes the result of a successful action according to
// what was requested. The transfer itself is already final, so a payload that
// does not decode is only logged.
func (k Keeper) handleActionResult(ctx sdk.Context, pending types.PendingPacket, ack types.Ics20Ack) {
	var (
		result string
		err    error
	)

	switch pending.Action {
	case types.ActionTypeTransfer:
		return
	case types.ActionTypeSwap, types.ActionTypeJoinPool, types.ActionTypeExitPool, types.ActionTypeClaim:
		var res types.SwapAmountInAck
		if err = ack.DecodeResult(&res); err == nil {
			result = res.Amount.String() + res.Denom
		}
	case types.ActionTypeLockupAccount:
		var res types.CreateLockupAck
		if err = ack.DecodeResult(&res); err == nil {
			lockup := types.Lockup{Channel: pending.ChannelID, Owner: pending.Sender, Address: res.Contract}
			if err = lockup.Validate(); err == nil {
				k.SetLockup(ctx, lockup)
				result = res.Contract
				ctx.EventManager().EmitEvent(
					sdk.NewEvent(
						types.EventTypeLockupCreated,
						sdk.NewAttribute(types.AttributeKeyChannelID, lockup.Channel),
						sdk.NewAttribute(types.AttributeKeySender, lockup.Owner),
						sdk.NewAttribute(types.AttributeKeyAddress, lockup.Address),
					),
				)
			}
		}
	case types.ActionTypeLock:
		var res types.LockResultAck
		if err = ack.DecodeResult(&res); err == nil {
			result = strconv.FormatUint(res.LockID, 10)
		}
	case types.ActionTypeUnlock:
		var res types.UnLockResultAck
		if err = ack.DecodeResult(&res); err == nil {
			result = res.Time().String()
		}
	default:
		err = errorsmod.Wrapf(types.ErrUnknownAction, "%q", pending.Action)
	}

	if err != nil {
		k.Logger(ctx).Error("cannot decode action result",
			"channel", pending.ChannelID,
			"sequence", pending.Sequence,
			"action", pending.Action,
			"error", err,
		)
		return
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeActionResult,
			sdk.NewAttribute(types.AttributeKeyChannelID, pending.ChannelID),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(pending.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyAction, pending.Action),
			sdk.NewAttribute(types.AttributeKeyResult, result),
		),
	)
}
