package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
	sharedkeeper "github.com/giansalex/cw-osmo-swap/x/shared/keeper"
)

// GetConfig returns the module config.
func (k Keeper) GetConfig(ctx sdk.Context) types.Config {
	var cfg types.Config
	if !k.getJSON(ctx, types.ConfigKey, &cfg) {
		return types.DefaultConfig()
	}
	return cfg
}

// SetConfig stores the module config.
func (k Keeper) SetConfig(ctx sdk.Context, cfg types.Config) {
	k.setJSON(ctx, types.ConfigKey, cfg)
}

// GetAdmin returns the current admin address.
func (k Keeper) GetAdmin(ctx sdk.Context) string {
	bz := k.getStore(ctx).Get(types.AdminKey)
	if bz == nil {
		return k.GetConfig(ctx).GovContract
	}
	return string(bz)
}

// SetAdmin stores the admin address.
func (k Keeper) SetAdmin(ctx sdk.Context, admin string) {
	k.getStore(ctx).Set(types.AdminKey, []byte(admin))
}

// assertAdmin fails unless sender is the current admin.
func (k Keeper) assertAdmin(ctx sdk.Context, sender string) error {
	if err := sharedkeeper.ValidateAuthority(k.GetAdmin(ctx), sender); err != nil {
		return errorsmod.Wrap(types.ErrUnauthorized, err.Error())
	}
	return nil
}

// UpdateAdmin hands the admin role to msg.Admin.
func (k Keeper) UpdateAdmin(ctx sdk.Context, sender string, msg types.UpdateAdminMsg) error {
	if err := k.assertAdmin(ctx, sender); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid admin address: %s", err)
	}

	k.SetAdmin(ctx, msg.Admin)

	k.Logger(ctx).Info("bridge admin updated", "old", sender, "new", msg.Admin)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateAdmin,
			sdk.NewAttribute(types.AttributeKeySender, sender),
			sdk.NewAttribute(types.AttributeKeyAdmin, msg.Admin),
		),
	)
	return nil
}
