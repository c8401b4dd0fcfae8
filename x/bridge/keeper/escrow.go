package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// ProxyAddress is the local account that holds the funds of actions requested
// by remoteSender over channelID. The same sender on another channel gets a
// different account.
func (k Keeper) ProxyAddress(channelID, remoteSender string) sdk.AccAddress {
	return address.Derive(k.ModuleAddress(), []byte(channelID+"/"+remoteSender))
}

// EscrowAddress holds what was sent out over channelID. Each channel has its
// own escrow so a counterparty can only ever get back tokens sent over its
// channel.
func (k Keeper) EscrowAddress(channelID string) sdk.AccAddress {
	return transfertypes.GetEscrowAddress(types.PortID, channelID)
}

// escrowCoin moves a native coin from sender into the channel escrow.
func (k Keeper) escrowCoin(ctx sdk.Context, channelID string, sender sdk.AccAddress, coin sdk.Coin) error {
	if err := k.bankKeeper.SendCoins(ctx, sender, k.EscrowAddress(channelID), sdk.NewCoins(coin)); err != nil {
		return errorsmod.Wrapf(err, "failed to escrow %s", coin)
	}
	return nil
}

// escrowCw20 moves tokens a cw20 contract handed to the module account into
// the channel escrow.
func (k Keeper) escrowCw20(ctx sdk.Context, channelID string, amount types.Amount) error {
	contract := amount.Cw20.Address
	err := k.withContractGasLimit(ctx, contract, func(ctx sdk.Context) error {
		return k.tokenKeeper.Transfer(ctx, contract, k.ModuleAddress(), k.EscrowAddress(channelID), amount.Value())
	})
	if err != nil {
		return errorsmod.Wrapf(err, "failed to escrow %s %s", amount.Value(), amount.Denom())
	}
	return nil
}

// release pays amount out of the escrow of channelID to recipient.
func (k Keeper) release(ctx sdk.Context, channelID string, amount types.Amount, recipient sdk.AccAddress) error {
	escrow := k.EscrowAddress(channelID)
	if amount.IsCw20() {
		contract := amount.Cw20.Address
		return k.withContractGasLimit(ctx, contract, func(ctx sdk.Context) error {
			return k.tokenKeeper.Transfer(ctx, contract, escrow, recipient, amount.Value())
		})
	}

	coin, err := amount.Coin()
	if err != nil {
		return err
	}
	if k.bankKeeper.BlockedAddr(recipient) {
		return errorsmod.Wrapf(sdkerrors.ErrUnauthorized, "%s is not allowed to receive funds", recipient)
	}
	return k.bankKeeper.SendCoins(ctx, escrow, recipient, sdk.NewCoins(coin))
}

// mint issues the local representation of an external token to recipient.
func (k Keeper) mint(ctx sdk.Context, contract string, recipient sdk.AccAddress, amount math.Uint) error {
	return k.withContractGasLimit(ctx, contract, func(ctx sdk.Context) error {
		return k.tokenKeeper.Mint(ctx, contract, recipient, amount)
	})
}

// withContractGasLimit runs fn under the gas limit configured for the
// contract, if any. Gas used inside the limit is charged to the caller.
func (k Keeper) withContractGasLimit(ctx sdk.Context, contract string, fn func(ctx sdk.Context) error) (err error) {
	info, found := k.GetAllowed(ctx, contract)
	if !found || info.GasLimit == nil {
		return fn(ctx)
	}

	limited := ctx.WithGasMeter(storetypes.NewGasMeter(*info.GasLimit))
	defer func() {
		if r := recover(); r != nil {
			oog, ok := r.(storetypes.ErrorOutOfGas)
			if !ok {
				panic(r)
			}
			err = errorsmod.Wrapf(sdkerrors.ErrOutOfGas, "cw20 %s exceeded gas limit %d: %s", contract, *info.GasLimit, oog.Descriptor)
		}
		ctx.GasMeter().ConsumeGas(limited.GasMeter().GasConsumedToLimit(), "bridge cw20 call")
	}()

	return fn(limited)
}
