package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	capabilitykeeper "github.com/cosmos/ibc-go/modules/capability/keeper"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	portkeeper "github.com/cosmos/ibc-go/v8/modules/core/05-port/keeper"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/stretchr/testify/require"

	"github.com/giansalex/cw-osmo-swap/x/bridge/keeper"
	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// GenesisTime is the block time of every bridge test context.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// BridgeFixture bundles a bridge keeper with the collaborators it was built
// from. Bank, port and capabilities are the real SDK keepers; IBC core and
// the action modules are mocks.
type BridgeFixture struct {
	Keeper *keeper.Keeper
	Ctx    sdk.Context

	StoreKey   *storetypes.KVStoreKey
	BankKeeper bankkeeper.BaseKeeper
	IBC        *MockIBC
	Tokens     *MockTokenKeeper
	Pool       *MockPoolKeeper
	Lockup     *MockLockupKeeper

	PortKeeper   *portkeeper.Keeper
	ScopedBridge capabilitykeeper.ScopedKeeper
	ScopedIBC    capabilitykeeper.ScopedKeeper
}

// BridgeKeeper creates a bridge keeper on an in-memory store, initialised
// with the default genesis.
func BridgeKeeper(t testing.TB) *BridgeFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)
	capStoreKey := storetypes.NewKVStoreKey(capabilitytypes.StoreKey)
	capMemStoreKey := storetypes.NewMemoryStoreKey(capabilitytypes.MemStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(capStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(capMemStoreKey, storetypes.StoreTypeMemory, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		minttypes.ModuleName:       {authtypes.Minter},
		types.ModuleName:           nil,
	}
	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	// the bridge account must stay able to receive escrow
	blockedAddrs := map[string]bool{
		authtypes.NewModuleAddress(authtypes.FeeCollectorName).String(): true,
	}
	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		blockedAddrs,
		authority.String(),
		log.NewNopLogger(),
	)

	capKeeper := capabilitykeeper.NewKeeper(cdc, capStoreKey, capMemStoreKey)
	scopedBridge := capKeeper.ScopeToModule(types.ModuleName)
	scopedIBC := capKeeper.ScopeToModule(ibcexported.ModuleName)
	scopedPort := capKeeper.ScopeToModule(porttypes.SubModuleName)
	portKeeper := portkeeper.NewKeeper(scopedPort)

	mockIBC := NewMockIBC()
	tokens := NewMockTokenKeeper()
	pool := NewMockPoolKeeper(bankKeeper)
	lockup := NewMockLockupKeeper()

	k := keeper.NewKeeper(
		storeKey,
		mockIBC,
		mockIBC,
		&portKeeper,
		scopedBridge,
		bankKeeper,
		tokens,
		pool,
		lockup,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: GenesisTime, Height: 1}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &BridgeFixture{
		Keeper:       k,
		Ctx:          ctx,
		StoreKey:     storeKey,
		BankKeeper:   bankKeeper,
		IBC:          mockIBC,
		Tokens:       tokens,
		Pool:         pool,
		Lockup:       lockup,
		PortKeeper:   &portKeeper,
		ScopedBridge: scopedBridge,
		ScopedIBC:    scopedIBC,
	}
}

// WithoutActionModules returns a keeper over the same state that has no
// pool or lockup module.
func (f *BridgeFixture) WithoutActionModules() *keeper.Keeper {
	return keeper.NewKeeper(f.StoreKey, f.IBC, f.IBC, f.PortKeeper, f.ScopedBridge, f.BankKeeper, f.Tokens, nil, nil)
}

// Admin returns the current bridge admin.
func (f *BridgeFixture) Admin() string {
	return f.Keeper.GetAdmin(f.Ctx)
}

// FundAccount mints coins to addr.
func (f *BridgeFixture) FundAccount(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, minttypes.ModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, minttypes.ModuleName, addr, coins))
}

// FundEscrow mints coins straight into the escrow of channelID.
func (f *BridgeFixture) FundEscrow(t testing.TB, channelID string, coins sdk.Coins) {
	f.FundAccount(t, f.Keeper.EscrowAddress(channelID), coins)
}

// OpenChannel registers an open channel towards counterpartyPort /
// counterpartyChannel as the end of a completed handshake would.
func (f *BridgeFixture) OpenChannel(t testing.TB, channelID, counterpartyPort, counterpartyChannel string) types.ChannelInfo {
	f.IBC.SetChannel(types.PortID, channelID, channeltypes.Channel{
		State:          channeltypes.OPEN,
		Ordering:       channeltypes.UNORDERED,
		Counterparty:   channeltypes.NewCounterparty(counterpartyPort, counterpartyChannel),
		ConnectionHops: []string{"connection-0"},
		Version:        types.Version,
	})

	chanCap, err := f.ScopedIBC.NewCapability(f.Ctx, host.ChannelCapabilityPath(types.PortID, channelID))
	require.NoError(t, err)
	require.NoError(t, f.Keeper.ClaimCapability(f.Ctx, chanCap, host.ChannelCapabilityPath(types.PortID, channelID)))

	info := types.ChannelInfo{
		ID:                   channelID,
		CounterpartyEndpoint: types.IbcEndpoint{PortID: counterpartyPort, ChannelID: counterpartyChannel},
		ConnectionID:         "connection-0",
	}
	f.Keeper.SetChannelInfo(f.Ctx, info)
	return info
}

// AddrFor returns a deterministic test account.
func AddrFor(name string) sdk.AccAddress {
	return authtypes.NewModuleAddress("test/" + name)
}
