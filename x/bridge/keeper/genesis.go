package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// InitGenesis initializes the bridge module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid bridge genesis: %w", err)
	}
	if err := k.BindPort(sdkCtx); err != nil {
		return fmt.Errorf("failed to bind IBC port: %w", err)
	}

	k.SetConfig(sdkCtx, genState.Config)
	k.SetAdmin(sdkCtx, genState.Admin)

	for _, info := range genState.Allowlist {
		k.SetAllowed(sdkCtx, info)
	}
	for _, token := range genState.ExternalTokens {
		k.SetExternalToken(sdkCtx, token)
	}
	for _, info := range genState.Channels {
		k.SetChannelInfo(sdkCtx, info)
	}
	for _, entry := range genState.ChannelStates {
		k.SetChannelState(sdkCtx, entry.ChannelID, entry.Denom, entry.State)
	}
	for _, pending := range genState.PendingPackets {
		k.SetPendingPacket(sdkCtx, pending)
	}
	for _, lockup := range genState.Lockups {
		k.SetLockup(sdkCtx, lockup)
	}

	return nil
}

// ExportGenesis exports the bridge module's state. Markers of packets that
// were already reconciled are not exported.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	genState := &types.GenesisState{
		Config:         k.GetConfig(sdkCtx),
		Admin:          k.GetAdmin(sdkCtx),
		Allowlist:      k.ListAllowed(sdkCtx, nil, -1),
		ExternalTokens: k.ListExternalTokens(sdkCtx, nil, -1),
		Channels:       k.GetAllChannels(sdkCtx),
		ChannelStates:  []types.ChannelStateEntry{},
		PendingPackets: k.GetAllPendingPackets(sdkCtx),
		Lockups:        k.GetAllLockups(sdkCtx),
	}

	for _, info := range genState.Channels {
		k.IterateChannelStates(sdkCtx, info.ID, func(denom string, state types.ChannelState) bool {
			genState.ChannelStates = append(genState.ChannelStates, types.ChannelStateEntry{
				ChannelID: info.ID,
				Denom:     denom,
				State:     state,
			})
			return false
		})
	}

	return genState, nil
}
