package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

func (suite *KeeperTestSuite) TestAckSuccessFinalizes() {
	seq := suite.sendTransfer("100uatom")

	err := suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), types.NewResultAck(nil).Acknowledgement())
	suite.Require().NoError(err)

	suite.requireState("uatom", 0, 100)
	// funds stay escrowed against the tokens now living on the counterparty
	suite.Require().Equal(int64(100), suite.escrowed("uatom").Int64())
	suite.Require().True(suite.balance(suite.sender, "uatom").IsZero())

	_, found := suite.keeper.GetPendingPacket(suite.ctx, testChannel, seq)
	suite.Require().False(found)
	suite.Require().True(suite.keeper.IsPacketResolved(suite.ctx, testChannel, seq))
	suite.Require().True(suite.hasEvent(types.EventTypeAcknowledge))
}

func (suite *KeeperTestSuite) TestAckErrorRefunds() {
	seq := suite.sendTransfer("100uatom")

	err := suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), errorAck("insufficient liquidity"))
	suite.Require().NoError(err)

	suite.requireState("uatom", 0, 100)
	suite.Require().Equal(int64(100), suite.balance(suite.sender, "uatom").Int64())
	suite.Require().True(suite.escrowed("uatom").IsZero())
	suite.Require().True(suite.hasEvent(types.EventTypeRefund))
}

func (suite *KeeperTestSuite) TestTimeoutRefunds() {
	seq := suite.sendTransfer("100uatom")

	suite.Require().NoError(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(seq)))

	suite.requireState("uatom", 0, 100)
	suite.Require().Equal(int64(100), suite.balance(suite.sender, "uatom").Int64())
	suite.Require().True(suite.hasEvent(types.EventTypeTimeout))
}

func (suite *KeeperTestSuite) TestCw20Refund() {
	suite.allow(testCw20, nil)
	suite.fixture.Tokens.Credit(testCw20, suite.keeper.ModuleAddress(), math.NewUint(60))

	seq, err := suite.keeper.SendCw20(suite.ctx, testCw20,
		types.Cw20ReceiveMsg{Sender: suite.sender.String(), Amount: math.NewUint(60)},
		types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress},
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(seq)))
	suite.Require().Equal("60", suite.fixture.Tokens.BalanceOf(testCw20, suite.sender).String())
	suite.Require().True(suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.ModuleAddress()).IsZero())
	suite.Require().True(suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.EscrowAddress(testChannel)).IsZero())
}

func (suite *KeeperTestSuite) TestReplayRejected() {
	first := suite.sendTransfer("100uatom")
	second := suite.sendTransfer("50uatom")

	suite.Require().NoError(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(first)))
	suite.Require().NoError(suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(second), types.NewResultAck(nil).Acknowledgement()))
	suite.requireState("uatom", 0, 150)

	suite.Require().ErrorIs(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(first)), types.ErrPacketAlreadyReconciled)
	suite.Require().ErrorIs(suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(first), errorAck("again")), types.ErrPacketAlreadyReconciled)
	suite.Require().ErrorIs(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(second)), types.ErrPacketAlreadyReconciled)

	// balances did not move
	suite.requireState("uatom", 0, 150)
	suite.Require().Equal(int64(100), suite.balance(suite.sender, "uatom").Int64())
	suite.Require().Equal(int64(50), suite.escrowed("uatom").Int64())

	suite.Require().ErrorIs(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(99)), types.ErrUnknownPacket)
}

func (suite *KeeperTestSuite) TestMalformedAckLeavesPacketPending() {
	seq := suite.sendTransfer("100uatom")

	for _, ack := range [][]byte{
		[]byte("garbage"),
		[]byte(`{"result":"AA==","error":"both"}`),
		[]byte(`{}`),
	} {
		err := suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), ack)
		suite.Require().ErrorIs(err, types.ErrInvalidAck, string(ack))
	}

	suite.requireState("uatom", 100, 100)
	_, found := suite.keeper.GetPendingPacket(suite.ctx, testChannel, seq)
	suite.Require().True(found)
}

func (suite *KeeperTestSuite) TestAccountingViolationIsFatal() {
	seq := suite.sendTransfer("100uatom")
	// corrupt the balance under the pending packet
	suite.keeper.SetChannelState(suite.ctx, testChannel, "uatom", types.ChannelState{Outstanding: math.NewUint(10), TotalSent: math.NewUint(100)})

	cacheCtx, _ := suite.ctx.CacheContext()
	err := suite.keeper.OnTimeoutPacket(cacheCtx, outgoing(seq))
	suite.Require().ErrorIs(err, types.ErrChannelAccounting)

	// never clamped
	state := suite.keeper.GetChannelState(cacheCtx, testChannel, "uatom")
	suite.Require().Equal("10", state.Outstanding.String())
}

func (suite *KeeperTestSuite) TestLockupAccountAckStoresLockup() {
	suite.fund("1uatom")
	seq, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("1uatom"), types.CreateLockupMsg{Channel: testChannel})
	suite.Require().NoError(err)

	err = suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), resultAck(types.CreateLockupAck{Contract: "osmo1lockupaccount"}))
	suite.Require().NoError(err)

	lockup, found := suite.keeper.GetLockup(suite.ctx, testChannel, suite.sender.String())
	suite.Require().True(found)
	suite.Require().Equal("osmo1lockupaccount", lockup.Address)
	suite.Require().True(suite.hasEvent(types.EventTypeLockupCreated))

	// the lockup now unlocks the lock, claim and unlock messages
	suite.fund("5uatom")
	_, err = suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("5uatom"), types.LockTokensMsg{Channel: testChannel, Duration: 86400})
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestUndecodableResultStillFinalizes() {
	suite.fund("1uatom")
	seq, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("1uatom"), types.CreateLockupMsg{Channel: testChannel})
	suite.Require().NoError(err)

	err = suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), types.NewResultAck([]byte("not json")).Acknowledgement())
	suite.Require().NoError(err)

	suite.requireState("uatom", 0, 1)
	_, found := suite.keeper.GetLockup(suite.ctx, testChannel, suite.sender.String())
	suite.Require().False(found)
	suite.Require().True(suite.keeper.IsPacketResolved(suite.ctx, testChannel, seq))
}

func (suite *KeeperTestSuite) TestActionResultDecoding() {
	suite.keeper.SetLockup(suite.ctx, types.Lockup{Channel: testChannel, Owner: suite.sender.String(), Address: "osmo1lockup"})

	tests := []struct {
		name   string
		msg    types.OutboundMsg
		result interface{}
	}{
		{"lock", types.LockTokensMsg{Channel: testChannel, Duration: 60}, types.LockResultAck{LockID: 8}},
		{"unlock", types.UnlockTokensMsg{Channel: testChannel, LockID: 8}, types.UnLockResultAck{EndTime: 1700000000000000000}},
		{"claim", types.ClaimTokensMsg{Channel: testChannel, Denom: "uosmo"}, types.SwapAmountInAck{Amount: math.NewUint(3), Denom: "uosmo"}},
		{"exit pool", types.ExitPoolMsg{Channel: testChannel, TokenOut: "uosmo", MinAmountOut: math.ZeroUint()}, types.SwapAmountInAck{Amount: math.NewUint(9), Denom: "uosmo"}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.fund("2uatom")
			seq, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("2uatom"), tc.msg)
			suite.Require().NoError(err)
			suite.Require().NoError(suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), resultAck(tc.result)))
			suite.Require().True(suite.hasEvent(types.EventTypeActionResult))
		})
	}
	suite.requireState("uatom", 0, 8)
}

// A transfer of 100 uatom produces a plain ICS20 packet and books 100 against
// channel-0.
func (suite *KeeperTestSuite) TestScenarioPlainTransfer() {
	suite.fixture.FundAccount(suite.T(), suite.sender, suite.coins("100uatom"))
	_, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("100uatom"), types.TransferMsg{Channel: "channel-0", RemoteAddress: "addr1"})
	suite.Require().NoError(err)

	data, err := types.DecodePacket(suite.fixture.IBC.LastSent().Data)
	suite.Require().NoError(err)
	suite.Require().Equal("100", data.Amount.String())
	suite.Require().Equal("uatom", data.Denom)
	suite.Require().Equal(suite.sender.String(), data.Sender)
	suite.Require().Equal("addr1", data.Receiver)
	suite.Require().Nil(data.Action)
	suite.requireState("uatom", 100, 100)
}

// A swap through pool 7 carries the swap action, and a result below the
// minimum still parses as a successful ack here.
func (suite *KeeperTestSuite) TestScenarioSwap() {
	suite.fund("100uatom")
	seq, err := suite.keeper.SendNative(suite.ctx, suite.sender, suite.coins("100uatom"), types.SwapMsg{
		Channel:      "channel-0",
		Pool:         7,
		TokenOut:     "uosmo",
		MinAmountOut: math.NewUint(50),
	})
	suite.Require().NoError(err)

	data, err := types.DecodePacket(suite.fixture.IBC.LastSent().Data)
	suite.Require().NoError(err)
	suite.Require().NotNil(data.Action)
	suite.Require().NotNil(data.Action.Swap)
	suite.Require().Equal([]types.SwapAmountInRoute{{PoolID: 7, TokenOutDenom: "uosmo"}}, data.Action.Swap.Routes)
	suite.Require().Equal("50", data.Action.Swap.TokenOutMinAmount.String())

	err = suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), resultAck(types.SwapAmountInAck{Amount: math.NewUint(48), Denom: "uosmo"}))
	suite.Require().NoError(err)
	suite.requireState("uatom", 0, 100)
}

// A timed out transfer of 100 uatom releases outstanding and keeps total_sent.
func (suite *KeeperTestSuite) TestScenarioTimeout() {
	seq := suite.sendTransfer("100uatom")
	suite.requireState("uatom", 100, 100)

	suite.Require().NoError(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(seq)))
	suite.requireState("uatom", 0, 100)
}
