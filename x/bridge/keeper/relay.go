package keeper

import (
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
	sharedibc "github.com/giansalex/cw-osmo-swap/x/shared/ibc"
)

const (
	statusSuccess      = "success"
	statusRejected     = "rejected"
	statusActionFailed = "action_failed"
)

// maxLockSeconds keeps a lock duration representable as a time.Duration.
const maxLockSeconds = uint64(1<<63-1) / uint64(time.Second)

// OnRecvPacket settles an incoming transfer and runs the attached action.
//
// Packets that cannot be decoded or settled are rejected with an error ack
// and nothing is committed. Once the base transfer is settled the receive is
// always committed: a failing action only turns the ack into an error.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet) types.ReceiveAcknowledgement {
	_, span := startPacketSpan(ctx, "recv", packet.DestinationPort, packet.DestinationChannel, packet.Sequence)

	ack, err := k.onRecvPacket(ctx, packet)
	if err != nil {
		k.Logger(ctx).Info("bridge packet rejected",
			"channel", packet.DestinationChannel,
			"sequence", packet.Sequence,
			"error", err,
		)
		k.metrics.PacketsReceived.WithLabelValues(packet.DestinationChannel, types.ActionTypeTransfer, statusRejected).Inc()
		sharedibc.EmitValidationFailure(ctx, packet.DestinationPort, packet.DestinationChannel, err.Error())
		endSpan(span, err)
		return types.ReceiveAcknowledgement{Ack: types.NewErrorAck(err), Commit: false}
	}

	endSpan(span, nil)
	return ack
}

func (k Keeper) onRecvPacket(ctx sdk.Context, packet channeltypes.Packet) (types.ReceiveAcknowledgement, error) {
	data, err := types.DecodePacket(packet.GetData())
	if err != nil {
		return types.ReceiveAcknowledgement{}, err
	}
	if err := data.Validate(); err != nil {
		return types.ReceiveAcknowledgement{}, err
	}
	if !k.HasChannel(ctx, packet.DestinationChannel) {
		return types.ReceiveAcknowledgement{}, errorsmod.Wrapf(types.ErrNoSuchChannel, "channel %s", packet.DestinationChannel)
	}
	action, err := data.GetAction()
	if err != nil {
		return types.ReceiveAcknowledgement{}, err
	}

	voucher := types.ParseVoucher(packet.SourcePort, packet.SourceChannel, data.Denom)
	amount, err := k.localAmount(ctx, voucher, data)
	if err != nil {
		return types.ReceiveAcknowledgement{}, err
	}

	var recipient sdk.AccAddress
	if action == nil {
		recipient, err = sdk.AccAddressFromBech32(data.Receiver)
		if err != nil {
			return types.ReceiveAcknowledgement{}, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid receiver: %s", err)
		}
	} else {
		recipient = k.ProxyAddress(packet.DestinationChannel, data.Sender)
	}

	if voucher.OurChain {
		err = k.release(ctx, packet.DestinationChannel, amount, recipient)
	} else {
		err = k.mint(ctx, amount.Cw20.Address, recipient, amount.Value())
	}
	if err != nil {
		return types.ReceiveAcknowledgement{}, errorsmod.Wrapf(err, "cannot settle %s %s", amount.Value(), amount.Denom())
	}

	actionType := data.ActionType()
	reportReceive(packet.SourcePort, packet.SourceChannel, amount.Denom(), actionType, voucher.OurChain, amount.Value())
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReceive,
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.DestinationChannel),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(packet.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeySender, data.Sender),
			sdk.NewAttribute(types.AttributeKeyReceiver, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, amount.Denom()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.Value().String()),
			sdk.NewAttribute(types.AttributeKeyOurChain, strconv.FormatBool(voucher.OurChain)),
			sdk.NewAttribute(types.AttributeKeyAction, actionType),
		),
	)

	if action == nil {
		k.metrics.PacketsReceived.WithLabelValues(packet.DestinationChannel, actionType, statusSuccess).Inc()
		return types.ReceiveAcknowledgement{Ack: types.NewResultAck(nil), Commit: true}, nil
	}

	// the action runs on a branch so its partial writes are dropped on failure
	// while the settlement above stays
	cacheCtx, write := ctx.CacheContext()
	result, err := k.executeAction(cacheCtx, recipient, amount, action)
	if err != nil {
		k.Logger(ctx).Info("bridge action failed",
			"channel", packet.DestinationChannel,
			"sequence", packet.Sequence,
			"action", actionType,
			"error", err,
		)
		k.metrics.PacketsReceived.WithLabelValues(packet.DestinationChannel, actionType, statusActionFailed).Inc()
		k.metrics.ActionResults.WithLabelValues(actionType, statusActionFailed).Inc()
		emitActionResult(ctx, packet, actionType, false, err.Error())
		return types.ReceiveAcknowledgement{Ack: types.NewErrorAck(err), Commit: true}, nil
	}
	write()

	k.metrics.PacketsReceived.WithLabelValues(packet.DestinationChannel, actionType, statusSuccess).Inc()
	k.metrics.ActionResults.WithLabelValues(actionType, statusSuccess).Inc()
	emitActionResult(ctx, packet, actionType, true, "")
	return types.ReceiveAcknowledgement{Ack: result, Commit: true}, nil
}

// localAmount maps the packet denom onto what is settled locally: our own
// token coming back out of escrow, or the cw20 registered for a foreign denom.
func (k Keeper) localAmount(ctx sdk.Context, voucher types.Voucher, data types.Ics20Packet) (types.Amount, error) {
	if voucher.OurChain {
		amount := types.AmountFromDenom(voucher.Denom, data.Amount)
		if amount.IsCw20() {
			if _, allowed := k.GetAllowed(ctx, amount.Cw20.Address); !allowed {
				return types.Amount{}, errorsmod.Wrapf(types.ErrNotOnAllowList, "cw20 contract %s", amount.Cw20.Address)
			}
		}
		return amount, amount.Validate()
	}

	token, found := k.GetExternalToken(ctx, voucher.Denom)
	if !found {
		return types.Amount{}, errorsmod.Wrapf(types.ErrNotOnAllowList, "external denom %s", voucher.Denom)
	}
	return types.NewCw20Amount(token.Contract, data.Amount), nil
}

// executeAction forwards the settled funds held by proxy to the module that
// implements the action and wraps its outcome into an acknowledgement.
func (k Keeper) executeAction(ctx sdk.Context, proxy sdk.AccAddress, funds types.Amount, action types.Action) (types.Ics20Ack, error) {
	var payload interface{}

	switch a := action.(type) {
	case types.SwapPacket:
		if k.poolKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "swap")
		}
		res, err := k.poolKeeper.SwapExactAmountIn(ctx, proxy, funds, a.Routes, a.TokenOutMinAmount)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = res
	case types.JoinPoolPacket:
		if k.poolKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "join pool")
		}
		res, err := k.poolKeeper.JoinPool(ctx, proxy, funds, a.PoolID, a.ShareOutMinAmount)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = res
	case types.ExitPoolPacket:
		if k.poolKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "exit pool")
		}
		res, err := k.poolKeeper.ExitPool(ctx, proxy, funds, a.TokenOutDenom, a.TokenOutMinAmount)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = res
	case types.LockupAccountPacket:
		if k.lockupKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "lockup account")
		}
		account, err := k.lockupKeeper.CreateLockupAccount(ctx, proxy)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = types.CreateLockupAck{Contract: account.String()}
	case types.LockPacket:
		if k.lockupKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "lock")
		}
		if a.Duration > maxLockSeconds {
			return types.Ics20Ack{}, errorsmod.Wrapf(types.ErrInvalidAction, "lock duration %d is too large", a.Duration)
		}
		lockID, err := k.lockupKeeper.LockTokens(ctx, proxy, funds, time.Duration(a.Duration)*time.Second)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = types.LockResultAck{LockID: lockID}
	case types.ClaimPacket:
		if k.lockupKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "claim")
		}
		res, err := k.lockupKeeper.ClaimTokens(ctx, proxy, a.Denom)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = res
	case types.UnlockPacket:
		if k.lockupKeeper == nil {
			return types.Ics20Ack{}, errorsmod.Wrap(types.ErrActionUnavailable, "unlock")
		}
		endTime, err := k.lockupKeeper.BeginUnlocking(ctx, proxy, a.ID)
		if err != nil {
			return types.Ics20Ack{}, err
		}
		payload = types.NewUnLockResultAck(endTime)
	default:
		return types.Ics20Ack{}, errorsmod.Wrapf(types.ErrUnknownAction, "%T", action)
	}

	return types.NewResultAckFor(payload)
}

func emitActionResult(ctx sdk.Context, packet channeltypes.Packet, action string, success bool, errMsg string) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyChannelID, packet.DestinationChannel),
		sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(packet.Sequence, 10)),
		sdk.NewAttribute(types.AttributeKeyAction, action),
		sdk.NewAttribute(types.AttributeKeySuccess, strconv.FormatBool(success)),
	}
	if errMsg != "" {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyError, errMsg))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeActionResult, attrs...))
}
