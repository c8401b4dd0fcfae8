package keeper

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// RegisterInvariants registers all bridge invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "channel-balances", ChannelBalancesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pending-outstanding", PendingOutstandingInvariant(k))
}

// AllInvariants runs all invariants of the bridge module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ChannelBalancesInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return PendingOutstandingInvariant(k)(ctx)
	}
}

// ChannelBalancesInvariant checks that no outstanding balance exceeds what
// was ever sent over its channel.
func ChannelBalancesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IterateChannels(ctx, func(info types.ChannelInfo) bool {
			k.IterateChannelStates(ctx, info.ID, func(denom string, state types.ChannelState) bool {
				if err := state.Validate(); err != nil {
					count++
					msg += fmt.Sprintf("channel %s denom %s: %s\n", info.ID, denom, err)
				}
				return false
			})
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "channel-balances",
			fmt.Sprintf("found %d invalid channel balances\n%s", count, msg),
		), broken
	}
}

// PendingOutstandingInvariant checks that every outstanding balance equals
// the sum of the packets still awaiting an ack or timeout.
func PendingOutstandingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		inFlight := make(map[string]math.Uint)
		for _, pending := range k.GetAllPendingPackets(ctx) {
			key := pending.ChannelID + "/" + pending.Amount.Denom()
			sum, ok := inFlight[key]
			if !ok {
				sum = math.ZeroUint()
			}
			inFlight[key] = sum.Add(pending.Amount.Value())
		}

		k.IterateChannels(ctx, func(info types.ChannelInfo) bool {
			k.IterateChannelStates(ctx, info.ID, func(denom string, state types.ChannelState) bool {
				key := info.ID + "/" + denom
				sum, ok := inFlight[key]
				if !ok {
					sum = math.ZeroUint()
				}
				if !sum.Equal(state.Outstanding) {
					count++
					msg += fmt.Sprintf("channel %s denom %s: outstanding %s, pending %s\n", info.ID, denom, state.Outstanding, sum)
				}
				delete(inFlight, key)
				return false
			})
			return false
		})
		leftover := make([]string, 0, len(inFlight))
		for key := range inFlight {
			leftover = append(leftover, key)
		}
		sort.Strings(leftover)
		for _, key := range leftover {
			count++
			msg += fmt.Sprintf("%s: pending %s without a balance\n", key, inFlight[key])
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pending-outstanding",
			fmt.Sprintf("found %d mismatched balances\n%s", count, msg),
		), broken
	}
}
