package keeper

import (
	"encoding/json"
	"strconv"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// GetAllowed returns the allow-list entry of a cw20 contract.
func (k Keeper) GetAllowed(ctx sdk.Context, contract string) (types.AllowedInfo, bool) {
	var info types.AllowedInfo
	found := k.getJSON(ctx, types.GetAllowListKey(contract), &info)
	return info, found
}

// SetAllowed stores an allow-list entry.
func (k Keeper) SetAllowed(ctx sdk.Context, info types.AllowedInfo) {
	k.setJSON(ctx, types.GetAllowListKey(info.Contract), info)
}

// GetExternalToken returns the contract minting an external denom.
func (k Keeper) GetExternalToken(ctx sdk.Context, denom string) (types.ExternalTokenInfo, bool) {
	var info types.ExternalTokenInfo
	found := k.getJSON(ctx, types.GetExternalTokenKey(denom), &info)
	return info, found
}

// SetExternalToken stores an external token entry.
func (k Keeper) SetExternalToken(ctx sdk.Context, info types.ExternalTokenInfo) {
	k.setJSON(ctx, types.GetExternalTokenKey(info.Denom), info)
}

// Allow adds a cw20 contract to the allow list. Allowing a contract again
// replaces its gas limit.
func (k Keeper) Allow(ctx sdk.Context, sender string, msg types.AllowMsg) error {
	if err := k.assertAdmin(ctx, sender); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	info := types.AllowedInfo(msg)
	k.SetAllowed(ctx, info)

	gasLimit := "none"
	if info.GasLimit != nil {
		gasLimit = strconv.FormatUint(*info.GasLimit, 10)
	}
	k.Logger(ctx).Info("cw20 contract allowed", "contract", info.Contract, "gas_limit", gasLimit)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAllow,
			sdk.NewAttribute(types.AttributeKeyContract, info.Contract),
			sdk.NewAttribute(types.AttributeKeyGasLimit, gasLimit),
		),
	)
	return nil
}

// AllowExternalToken lets denom be received and minted through contract.
func (k Keeper) AllowExternalToken(ctx sdk.Context, sender string, msg types.ExternalTokenMsg) error {
	if err := k.assertAdmin(ctx, sender); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	info := types.ExternalTokenInfo(msg)
	k.SetExternalToken(ctx, info)

	k.Logger(ctx).Info("external token allowed", "denom", info.Denom, "contract", info.Contract)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAllowExternalToken,
			sdk.NewAttribute(types.AttributeKeyDenom, info.Denom),
			sdk.NewAttribute(types.AttributeKeyContract, info.Contract),
		),
	)
	return nil
}

// ListAllowed pages through the allow list in ascending contract order.
func (k Keeper) ListAllowed(ctx sdk.Context, startAfter *string, limit int) []types.AllowedInfo {
	entries := []types.AllowedInfo{}
	k.iterateFrom(ctx, types.AllowListKeyPrefix, startAfter, limit, func(bz []byte) {
		var info types.AllowedInfo
		if err := json.Unmarshal(bz, &info); err != nil {
			panic(err)
		}
		entries = append(entries, info)
	})
	return entries
}

// ListExternalTokens pages through the external tokens in ascending denom order.
func (k Keeper) ListExternalTokens(ctx sdk.Context, startAfter *string, limit int) []types.ExternalTokenInfo {
	entries := []types.ExternalTokenInfo{}
	k.iterateFrom(ctx, types.ExternalTokenKeyPrefix, startAfter, limit, func(bz []byte) {
		var info types.ExternalTokenInfo
		if err := json.Unmarshal(bz, &info); err != nil {
			panic(err)
		}
		entries = append(entries, info)
	})
	return entries
}

// iterateFrom visits up to limit values under keyPrefix whose key sorts after
// startAfter. A negative limit visits everything.
func (k Keeper) iterateFrom(ctx sdk.Context, keyPrefix []byte, startAfter *string, limit int, cb func(value []byte)) {
	store := prefix.NewStore(k.getStore(ctx), keyPrefix)

	var start []byte
	if startAfter != nil {
		// the smallest key strictly greater than startAfter
		start = append([]byte(*startAfter), 0x00)
	}
	iterator := store.Iterator(start, nil)
	defer iterator.Close()

	for n := 0; iterator.Valid() && (limit < 0 || n < limit); iterator.Next() {
		cb(iterator.Value())
		n++
	}
}
