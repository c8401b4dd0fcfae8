package types

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// BankKeeper moves native coins in and out of the channel escrows.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	BlockedAddr(addr sdk.AccAddress) bool
}

// ICS4Wrapper hands packets to IBC core (or the next middleware).
type ICS4Wrapper interface {
	SendPacket(
		ctx sdk.Context,
		chanCap *capabilitytypes.Capability,
		sourcePort string,
		sourceChannel string,
		timeoutHeight clienttypes.Height,
		timeoutTimestamp uint64,
		data []byte,
	) (sequence uint64, err error)
}

// ChannelKeeper reads channel ends.
type ChannelKeeper interface {
	GetChannel(ctx sdk.Context, srcPort, srcChan string) (channel channeltypes.Channel, found bool)
	GetNextSequenceSend(ctx sdk.Context, portID, channelID string) (uint64, bool)
}

// PortKeeper binds the bridge port.
type PortKeeper interface {
	BindPort(ctx sdk.Context, portID string) *capabilitytypes.Capability
	IsBound(ctx sdk.Context, portID string) bool
}

// ScopedKeeper owns the bridge's port and channel capabilities.
type ScopedKeeper interface {
	GetCapability(ctx sdk.Context, name string) (*capabilitytypes.Capability, bool)
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// TokenKeeper executes calls against CW20-style token contracts.
type TokenKeeper interface {
	Transfer(ctx sdk.Context, contract string, from, to sdk.AccAddress, amount math.Uint) error
	Mint(ctx sdk.Context, contract string, to sdk.AccAddress, amount math.Uint) error
}

// PoolKeeper is the DEX module invoked by swap and pool actions. The tokens
// have already been credited to sender when it is called.
type PoolKeeper interface {
	SwapExactAmountIn(ctx sdk.Context, sender sdk.AccAddress, tokenIn Amount, routes []SwapAmountInRoute, tokenOutMinAmount math.Uint) (SwapAmountInAck, error)
	JoinPool(ctx sdk.Context, sender sdk.AccAddress, tokenIn Amount, poolID uint64, shareOutMinAmount math.Uint) (SwapAmountInAck, error)
	ExitPool(ctx sdk.Context, sender sdk.AccAddress, shareIn Amount, tokenOutDenom string, tokenOutMinAmount math.Uint) (SwapAmountInAck, error)
}

// LockupKeeper is the lockup and staking module invoked by lockup actions.
type LockupKeeper interface {
	CreateLockupAccount(ctx sdk.Context, owner sdk.AccAddress) (sdk.AccAddress, error)
	LockTokens(ctx sdk.Context, owner sdk.AccAddress, tokens Amount, duration time.Duration) (lockID uint64, err error)
	ClaimTokens(ctx sdk.Context, owner sdk.AccAddress, denom string) (SwapAmountInAck, error)
	BeginUnlocking(ctx sdk.Context, owner sdk.AccAddress, lockID uint64) (endTime time.Time, err error)
}
