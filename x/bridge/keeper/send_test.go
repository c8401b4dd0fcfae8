package keeper_test

import (
	"errors"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/giansalex/cw-osmo-swap/testutil/keeper"
	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

func (suite *KeeperTestSuite) TestSendNativeTransfer() {
	seq := suite.sendTransfer("100uatom")
	suite.Require().Equal(uint64(1), seq)

	suite.Require().True(suite.balance(suite.sender, "uatom").IsZero())
	suite.Require().Equal(int64(100), suite.escrowed("uatom").Int64())
	suite.requireState("uatom", 100, 100)

	sent := suite.fixture.IBC.LastSent()
	suite.Require().Equal(types.PortID, sent.SourcePort)
	suite.Require().Equal(testChannel, sent.SourceChannel)
	suite.Require().Equal(uint64(keepertest.GenesisTime.Add(600*time.Second).UnixNano()), sent.TimeoutTimestamp)

	// without an action the packet is a plain ICS20 transfer
	expected := `{"amount":"100","denom":"uatom","receiver":"osmo1remote","sender":"` + suite.sender.String() + `"}`
	suite.Require().JSONEq(expected, string(sent.Data))
	suite.Require().NotContains(string(sent.Data), "action")

	pending, found := suite.keeper.GetPendingPacket(suite.ctx, testChannel, seq)
	suite.Require().True(found)
	suite.Require().Equal(suite.sender.String(), pending.Sender)
	suite.Require().Equal(types.ActionTypeTransfer, pending.Action)
	suite.Require().Equal("uatom", pending.Amount.Denom())
	suite.Require().True(suite.hasEvent(types.EventTypeTransfer))
}

func (suite *KeeperTestSuite) TestSendSequencesIncrease() {
	first := suite.sendTransfer("10uatom")
	second := suite.sendTransfer("15uatom")
	suite.Require().Equal(first+1, second)
	suite.requireState("uatom", 25, 25)
	suite.Require().Len(suite.keeper.GetAllPendingPackets(suite.ctx), 2)
}

func (suite *KeeperTestSuite) TestSendTimeoutOverride() {
	suite.fund("5uatom")
	timeout := uint64(30)
	_, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("5uatom"), types.TransferMsg{
		Channel:       testChannel,
		RemoteAddress: testRemoteAddress,
		Timeout:       &timeout,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(keepertest.GenesisTime.Add(30*time.Second).UnixNano()), suite.fixture.IBC.LastSent().TimeoutTimestamp)
}

func (suite *KeeperTestSuite) TestSendRejections() {
	zero := uint64(0)
	huge := ^uint64(0)

	tests := []struct {
		name  string
		funds string
		msg   types.OutboundMsg
		err   error
	}{
		{"no funds", "", types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress}, types.ErrNoFunds},
		{"two denoms", "1uatom,1uosmo", types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress}, types.ErrMultipleDenoms},
		{"unknown channel", "1uatom", types.TransferMsg{Channel: "channel-9", RemoteAddress: testRemoteAddress}, types.ErrNoSuchChannel},
		{"malformed channel", "1uatom", types.TransferMsg{Channel: "x", RemoteAddress: testRemoteAddress}, types.ErrNoSuchChannel},
		{"empty remote", "1uatom", types.TransferMsg{Channel: testChannel}, types.ErrInvalidMsg},
		{"zero timeout", "1uatom", types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress, Timeout: &zero}, types.ErrInvalidMsg},
		{"timeout overflow", "1uatom", types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress, Timeout: &huge}, types.ErrInvalidMsg},
		{"swap into itself", "1uatom", types.SwapMsg{Channel: testChannel, Pool: 1, TokenOut: "uatom", MinAmountOut: math.ZeroUint()}, types.ErrInvalidAction},
		{"swap without pool", "1uatom", types.SwapMsg{Channel: testChannel, TokenOut: "uosmo", MinAmountOut: math.ZeroUint()}, types.ErrInvalidAction},
		{"lock without lockup", "1uatom", types.LockTokensMsg{Channel: testChannel, Duration: 60}, types.ErrNoLockup},
		{"claim without lockup", "1uatom", types.ClaimTokensMsg{Channel: testChannel, Denom: "uosmo"}, types.ErrNoLockup},
		{"unlock without lockup", "1uatom", types.UnlockTokensMsg{Channel: testChannel, LockID: 1}, types.ErrNoLockup},
		{"zero lock duration", "1uatom", types.LockTokensMsg{Channel: testChannel}, types.ErrInvalidAction},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			funds := sdk.NewCoins()
			if tc.funds != "" {
				funds = suite.coins(tc.funds)
				suite.fund(tc.funds)
			}

			_, err := suite.keeper.SendNative(suite.ctx, suite.sender, funds, tc.msg)
			suite.Require().ErrorIs(err, tc.err)

			// nothing was escrowed or booked
			suite.Require().True(suite.escrowed("uatom").IsZero())
			suite.requireState("uatom", 0, 0)
			suite.Require().Empty(suite.fixture.IBC.Sent)
			suite.Require().Empty(suite.keeper.GetAllPendingPackets(suite.ctx))
		})
	}
}

func (suite *KeeperTestSuite) TestSendCw20RequiresAllowList() {
	rcv := types.Cw20ReceiveMsg{Sender: suite.sender.String(), Amount: math.NewUint(50)}
	msg := types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress}
	denom := types.Cw20DenomPrefix + testCw20

	_, err := suite.keeper.SendCw20(suite.ctx, testCw20, rcv, msg)
	suite.Require().ErrorIs(err, types.ErrNotOnAllowList)
	suite.requireState(denom, 0, 0)
	suite.Require().Empty(suite.fixture.IBC.Sent)

	suite.allow(testCw20, nil)
	suite.fixture.Tokens.Credit(testCw20, suite.keeper.ModuleAddress(), math.NewUint(50))
	seq, err := suite.keeper.SendCw20(suite.ctx, testCw20, rcv, msg)
	suite.Require().NoError(err)
	suite.requireState(denom, 50, 50)
	suite.Require().True(suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.ModuleAddress()).IsZero())
	suite.Require().Equal("50", suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.EscrowAddress(testChannel)).String())

	data, err := types.DecodePacket(suite.fixture.IBC.LastSent().Data)
	suite.Require().NoError(err)
	suite.Require().Equal(denom, data.Denom)
	suite.Require().Equal(suite.sender.String(), data.Sender)

	pending, found := suite.keeper.GetPendingPacket(suite.ctx, testChannel, seq)
	suite.Require().True(found)
	suite.Require().True(pending.Amount.IsCw20())
}

func (suite *KeeperTestSuite) TestSendActionPacketShapes() {
	suite.Require().NoError(suite.keeper.Allow(suite.ctx, suite.fixture.Admin(), types.AllowMsg{Contract: testCw20}))
	suite.keeper.SetLockup(suite.ctx, types.Lockup{Channel: testChannel, Owner: suite.sender.String(), Address: "osmo1lockup"})

	tests := []struct {
		name   string
		msg    types.OutboundMsg
		action string
	}{
		{"join pool", types.JoinPoolMsg{Channel: testChannel, Pool: 3, ShareMinOut: math.NewUint(1)}, types.ActionTypeJoinPool},
		{"exit pool", types.ExitPoolMsg{Channel: testChannel, TokenOut: "uosmo", MinAmountOut: math.NewUint(1)}, types.ActionTypeExitPool},
		{"create lockup", types.CreateLockupMsg{Channel: testChannel}, types.ActionTypeLockupAccount},
		{"lock", types.LockTokensMsg{Channel: testChannel, Duration: 86400}, types.ActionTypeLock},
		{"claim", types.ClaimTokensMsg{Channel: testChannel, Denom: "uosmo"}, types.ActionTypeClaim},
		{"unlock", types.UnlockTokensMsg{Channel: testChannel, LockID: 4}, types.ActionTypeUnlock},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.fund("1uatom")
			seq, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("1uatom"), tc.msg)
			suite.Require().NoError(err)

			data, err := types.DecodePacket(suite.fixture.IBC.LastSent().Data)
			suite.Require().NoError(err)
			// action packets are addressed to the sender's own proxy
			suite.Require().Equal(suite.sender.String(), data.Receiver)
			suite.Require().Equal(tc.action, data.ActionType())
			suite.Require().NoError(data.Validate())

			pending, found := suite.keeper.GetPendingPacket(suite.ctx, testChannel, seq)
			suite.Require().True(found)
			suite.Require().Equal(tc.action, pending.Action)
		})
	}
}

func (suite *KeeperTestSuite) TestSendFailureAbortsCall() {
	suite.fund("100uatom")
	suite.fixture.IBC.SendErr = errors.New("light client frozen")

	// the host transaction is what makes the call atomic
	cacheCtx, _ := suite.ctx.CacheContext()
	_, err := suite.keeper.SendNative(cacheCtx, suite.sender, suite.coins("100uatom"), types.TransferMsg{
		Channel:       testChannel,
		RemoteAddress: testRemoteAddress,
	})
	suite.Require().ErrorContains(err, "light client frozen")
	suite.requireState("uatom", 0, 0)
	suite.Require().Equal(int64(100), suite.balance(suite.sender, "uatom").Int64())
}

func (suite *KeeperTestSuite) TestSendWithoutCapability() {
	suite.fixture.IBC.SetChannel(types.PortID, "channel-3", suite.fixture.IBC.Channels[types.PortID+"/"+testChannel])
	suite.keeper.SetChannelInfo(suite.ctx, types.ChannelInfo{
		ID:                   "channel-3",
		CounterpartyEndpoint: types.IbcEndpoint{PortID: testCounterpartyPort, ChannelID: "channel-8"},
		ConnectionID:         "connection-0",
	})

	suite.fund("1uatom")
	cacheCtx, _ := suite.ctx.CacheContext()
	_, err := suite.keeper.SendNative(cacheCtx, suite.sender, suite.coins("1uatom"), types.TransferMsg{
		Channel:       "channel-3",
		RemoteAddress: testRemoteAddress,
	})
	suite.Require().ErrorContains(err, "capability")
}
