// Package keeper provides shared keeper interfaces for cross-module communication.
// Versioned interfaces keep the API contract between modules stable.
package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BridgeKeeperV1 is what the pool and lockup modules may ask of the bridge.
// Those modules live outside this repository and take the bridge keeper
// through this interface, so they can recognise accounts acting on behalf of
// remote senders. Extend it with a new versioned interface rather than
// changing it.
type BridgeKeeperV1 interface {
	// ProxyAddress returns the local account used for actions requested by
	// remoteSender over channelID.
	ProxyAddress(channelID, remoteSender string) sdk.AccAddress

	// HasChannel reports whether channelID is an open bridge channel.
	HasChannel(ctx sdk.Context, channelID string) bool

	// LockupAddress returns the lockup account created for owner over
	// channelID, if any.
	LockupAddress(ctx sdk.Context, channelID, owner string) (string, bool)
}
