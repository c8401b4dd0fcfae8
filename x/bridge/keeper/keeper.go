package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
	sharedkeeper "github.com/giansalex/cw-osmo-swap/x/shared/keeper"
)

var _ sharedkeeper.BridgeKeeperV1 = Keeper{}

// Keeper of the bridge store
type Keeper struct {
	storeKey storetypes.StoreKey

	ics4Wrapper   types.ICS4Wrapper
	channelKeeper types.ChannelKeeper
	portKeeper    types.PortKeeper
	scopedKeeper  types.ScopedKeeper
	bankKeeper    types.BankKeeper
	tokenKeeper   types.TokenKeeper

	// action modules; either may be nil on chains that do not host them
	poolKeeper   types.PoolKeeper
	lockupKeeper types.LockupKeeper

	metrics *BridgeMetrics
}

// NewKeeper creates a new bridge Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	ics4Wrapper types.ICS4Wrapper,
	channelKeeper types.ChannelKeeper,
	portKeeper types.PortKeeper,
	scopedKeeper types.ScopedKeeper,
	bankKeeper types.BankKeeper,
	tokenKeeper types.TokenKeeper,
	poolKeeper types.PoolKeeper,
	lockupKeeper types.LockupKeeper,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		ics4Wrapper:   ics4Wrapper,
		channelKeeper: channelKeeper,
		portKeeper:    portKeeper,
		scopedKeeper:  scopedKeeper,
		bankKeeper:    bankKeeper,
		tokenKeeper:   tokenKeeper,
		poolKeeper:    poolKeeper,
		lockupKeeper:  lockupKeeper,
		metrics:       NewBridgeMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the bridge module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// ModuleAddress is the account holding escrowed cw20 tokens.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// ClaimCapability claims a channel capability for later authentication.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// IsBound reports whether the bridge port is already bound.
func (k Keeper) IsBound(ctx sdk.Context) bool {
	_, ok := k.scopedKeeper.GetCapability(ctx, host.PortPath(types.PortID))
	return ok
}

// BindPort binds the bridge port and claims its capability.
func (k Keeper) BindPort(ctx sdk.Context) error {
	if k.portKeeper.IsBound(ctx, types.PortID) {
		return nil
	}
	portCap := k.portKeeper.BindPort(ctx, types.PortID)
	return k.scopedKeeper.ClaimCapability(ctx, portCap, host.PortPath(types.PortID))
}

func (k Keeper) setJSON(ctx context.Context, key []byte, v interface{}) {
	bz, err := json.Marshal(v)
	if err != nil {
		// only types owned by this module are stored
		panic(err)
	}
	k.getStore(ctx).Set(key, bz)
}

func (k Keeper) getJSON(ctx context.Context, key []byte, v interface{}) bool {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false
	}
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
	return true
}
