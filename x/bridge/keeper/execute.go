package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// Execute decodes an ExecuteMsg sent by sender with funds attached and routes
// it to its handler. For the cw20 receive hook, sender is the token contract.
func (k Keeper) Execute(ctx sdk.Context, sender string, funds sdk.Coins, raw []byte) error {
	msg, err := types.DecodeExecuteMsg(raw)
	if err != nil {
		return err
	}

	if outbound := msg.Outbound(); outbound != nil {
		senderAddr, err := sdk.AccAddressFromBech32(sender)
		if err != nil {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid sender: %s", err)
		}
		_, err = k.SendNative(ctx, senderAddr, funds, outbound)
		return err
	}

	if !funds.Empty() {
		return errorsmod.Wrap(types.ErrInvalidMsg, "message does not accept funds")
	}

	switch {
	case msg.Receive != nil:
		return k.executeReceive(ctx, sender, *msg.Receive)
	case msg.Allow != nil:
		return k.Allow(ctx, sender, *msg.Allow)
	case msg.AllowExternalToken != nil:
		return k.AllowExternalToken(ctx, sender, *msg.AllowExternalToken)
	case msg.UpdateAdmin != nil:
		return k.UpdateAdmin(ctx, sender, *msg.UpdateAdmin)
	default:
		return errorsmod.Wrap(types.ErrInvalidMsg, "unhandled message")
	}
}

func (k Keeper) executeReceive(ctx sdk.Context, contract string, rcv types.Cw20ReceiveMsg) error {
	if _, err := sdk.AccAddressFromBech32(contract); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid cw20 contract: %s", err)
	}
	outbound, err := types.DecodeReceivePayload(rcv.Msg)
	if err != nil {
		return err
	}
	_, err = k.SendCw20(ctx, contract, rcv, outbound)
	return err
}
