package keeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// SentPacket is a packet handed to MockIBC.SendPacket.
type SentPacket struct {
	SourcePort       string
	SourceChannel    string
	Sequence         uint64
	TimeoutTimestamp uint64
	Data             []byte
}

// MockIBC stands in for IBC core: it serves channel ends and assigns send
// sequences.
type MockIBC struct {
	Channels map[string]channeltypes.Channel
	NextSeq  map[string]uint64
	Sent     []SentPacket
	// SendErr makes the next SendPacket fail
	SendErr error
}

func NewMockIBC() *MockIBC {
	return &MockIBC{
		Channels: make(map[string]channeltypes.Channel),
		NextSeq:  make(map[string]uint64),
	}
}

func channelKey(portID, channelID string) string {
	return portID + "/" + channelID
}

// SetChannel registers an open channel end and starts its sequence at 1.
func (m *MockIBC) SetChannel(portID, channelID string, channel channeltypes.Channel) {
	m.Channels[channelKey(portID, channelID)] = channel
	if _, ok := m.NextSeq[channelKey(portID, channelID)]; !ok {
		m.NextSeq[channelKey(portID, channelID)] = 1
	}
}

func (m *MockIBC) GetChannel(_ sdk.Context, srcPort, srcChan string) (channeltypes.Channel, bool) {
	channel, ok := m.Channels[channelKey(srcPort, srcChan)]
	return channel, ok
}

func (m *MockIBC) GetNextSequenceSend(_ sdk.Context, portID, channelID string) (uint64, bool) {
	seq, ok := m.NextSeq[channelKey(portID, channelID)]
	return seq, ok
}

func (m *MockIBC) SendPacket(
	_ sdk.Context,
	chanCap *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	_ clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.SendErr != nil {
		err := m.SendErr
		m.SendErr = nil
		return 0, err
	}
	if chanCap == nil {
		return 0, errors.New("missing channel capability")
	}
	key := channelKey(sourcePort, sourceChannel)
	seq, ok := m.NextSeq[key]
	if !ok {
		return 0, channeltypes.ErrSequenceSendNotFound
	}
	m.NextSeq[key] = seq + 1
	m.Sent = append(m.Sent, SentPacket{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		Sequence:         seq,
		TimeoutTimestamp: timeoutTimestamp,
		Data:             data,
	})
	return seq, nil
}

// LastSent returns the most recent packet.
func (m *MockIBC) LastSent() SentPacket {
	return m.Sent[len(m.Sent)-1]
}

// MockTokenKeeper keeps cw20 balances in memory.
type MockTokenKeeper struct {
	Balances map[string]map[string]math.Uint
	// GasPerCall is consumed on every transfer or mint before it applies
	GasPerCall uint64
	MintErr    error
}

func NewMockTokenKeeper() *MockTokenKeeper {
	return &MockTokenKeeper{Balances: make(map[string]map[string]math.Uint)}
}

func (m *MockTokenKeeper) BalanceOf(contract string, addr sdk.AccAddress) math.Uint {
	balance, ok := m.Balances[contract][addr.String()]
	if !ok {
		return math.ZeroUint()
	}
	return balance
}

func (m *MockTokenKeeper) setBalance(contract string, addr sdk.AccAddress, amount math.Uint) {
	if m.Balances[contract] == nil {
		m.Balances[contract] = make(map[string]math.Uint)
	}
	m.Balances[contract][addr.String()] = amount
}

func (m *MockTokenKeeper) Transfer(ctx sdk.Context, contract string, from, to sdk.AccAddress, amount math.Uint) error {
	ctx.GasMeter().ConsumeGas(m.GasPerCall, "cw20 transfer")
	balance := m.BalanceOf(contract, from)
	if balance.LT(amount) {
		return fmt.Errorf("insufficient %s balance: %s < %s", contract, balance, amount)
	}
	m.setBalance(contract, from, balance.Sub(amount))
	m.setBalance(contract, to, m.BalanceOf(contract, to).Add(amount))
	return nil
}

func (m *MockTokenKeeper) Mint(ctx sdk.Context, contract string, to sdk.AccAddress, amount math.Uint) error {
	ctx.GasMeter().ConsumeGas(m.GasPerCall, "cw20 mint")
	if m.MintErr != nil {
		return m.MintErr
	}
	m.setBalance(contract, to, m.BalanceOf(contract, to).Add(amount))
	return nil
}

// Credit gives addr cw20 tokens without going through a contract call.
func (m *MockTokenKeeper) Credit(contract string, addr sdk.AccAddress, amount math.Uint) {
	m.setBalance(contract, addr, m.BalanceOf(contract, addr).Add(amount))
}

// CoinSender moves native coins between plain accounts.
type CoinSender interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// PoolAddress receives the tokens MockPoolKeeper takes in.
var PoolAddress = authtypes.NewModuleAddress("mockpool")

// MockPoolKeeper fills swaps and pool operations at a fixed rate of one to one.
type MockPoolKeeper struct {
	bank CoinSender

	// Err fails every call after the input has been taken
	Err   error
	Calls []string
}

func NewMockPoolKeeper(bank CoinSender) *MockPoolKeeper {
	return &MockPoolKeeper{bank: bank}
}

func (m *MockPoolKeeper) take(ctx sdk.Context, sender sdk.AccAddress, tokenIn types.Amount) error {
	if tokenIn.IsCw20() {
		return nil
	}
	coin, err := tokenIn.Coin()
	if err != nil {
		return err
	}
	return m.bank.SendCoins(ctx, sender, PoolAddress, sdk.NewCoins(coin))
}

func (m *MockPoolKeeper) fill(ctx sdk.Context, call string, sender sdk.AccAddress, tokenIn types.Amount, outDenom string, minOut math.Uint) (types.SwapAmountInAck, error) {
	m.Calls = append(m.Calls, call)
	if err := m.take(ctx, sender, tokenIn); err != nil {
		return types.SwapAmountInAck{}, err
	}
	if m.Err != nil {
		return types.SwapAmountInAck{}, m.Err
	}
	if tokenIn.Value().LT(minOut) {
		return types.SwapAmountInAck{}, fmt.Errorf("token amount calculated (%s) is lesser than min amount (%s)", tokenIn.Value(), minOut)
	}
	return types.SwapAmountInAck{Amount: tokenIn.Value(), Denom: outDenom}, nil
}

func (m *MockPoolKeeper) SwapExactAmountIn(ctx sdk.Context, sender sdk.AccAddress, tokenIn types.Amount, routes []types.SwapAmountInRoute, tokenOutMinAmount math.Uint) (types.SwapAmountInAck, error) {
	outDenom := ""
	if len(routes) > 0 {
		outDenom = routes[len(routes)-1].TokenOutDenom
	}
	return m.fill(ctx, types.ActionTypeSwap, sender, tokenIn, outDenom, tokenOutMinAmount)
}

func (m *MockPoolKeeper) JoinPool(ctx sdk.Context, sender sdk.AccAddress, tokenIn types.Amount, poolID uint64, shareOutMinAmount math.Uint) (types.SwapAmountInAck, error) {
	return m.fill(ctx, types.ActionTypeJoinPool, sender, tokenIn, fmt.Sprintf("gamm/pool/%d", poolID), shareOutMinAmount)
}

func (m *MockPoolKeeper) ExitPool(ctx sdk.Context, sender sdk.AccAddress, shareIn types.Amount, tokenOutDenom string, tokenOutMinAmount math.Uint) (types.SwapAmountInAck, error) {
	return m.fill(ctx, types.ActionTypeExitPool, sender, shareIn, tokenOutDenom, tokenOutMinAmount)
}

// MockLockupKeeper creates lockup accounts and locks without moving funds.
type MockLockupKeeper struct {
	Accounts     map[string]sdk.AccAddress
	NextLockID   uint64
	UnlockPeriod time.Duration
	ClaimResult  types.SwapAmountInAck
	Err          error
}

func NewMockLockupKeeper() *MockLockupKeeper {
	return &MockLockupKeeper{
		Accounts:     make(map[string]sdk.AccAddress),
		NextLockID:   1,
		UnlockPeriod: 14 * 24 * time.Hour,
	}
}

func (m *MockLockupKeeper) CreateLockupAccount(_ sdk.Context, owner sdk.AccAddress) (sdk.AccAddress, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if account, ok := m.Accounts[owner.String()]; ok {
		return account, nil
	}
	account := authtypes.NewModuleAddress("lockup/" + owner.String())
	m.Accounts[owner.String()] = account
	return account, nil
}

func (m *MockLockupKeeper) LockTokens(_ sdk.Context, owner sdk.AccAddress, _ types.Amount, _ time.Duration) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if _, ok := m.Accounts[owner.String()]; !ok {
		return 0, errors.New("no lockup account")
	}
	id := m.NextLockID
	m.NextLockID++
	return id, nil
}

func (m *MockLockupKeeper) ClaimTokens(_ sdk.Context, _ sdk.AccAddress, denom string) (types.SwapAmountInAck, error) {
	if m.Err != nil {
		return types.SwapAmountInAck{}, m.Err
	}
	res := m.ClaimResult
	if res.Denom == "" {
		res = types.SwapAmountInAck{Amount: math.ZeroUint(), Denom: denom}
	}
	return res, nil
}

func (m *MockLockupKeeper) BeginUnlocking(ctx sdk.Context, _ sdk.AccAddress, lockID uint64) (time.Time, error) {
	if m.Err != nil {
		return time.Time{}, m.Err
	}
	if lockID == 0 || lockID >= m.NextLockID {
		return time.Time{}, fmt.Errorf("lock %d not found", lockID)
	}
	return ctx.BlockTime().Add(m.UnlockPeriod), nil
}
