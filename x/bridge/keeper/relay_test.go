package keeper_test

import (
	"errors"

	"cosmossdk.io/math"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	keepertest "github.com/giansalex/cw-osmo-swap/testutil/keeper"
	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// homeDenom is how the counterparty names a token we sent it.
func homeDenom(denom string) string {
	return testCounterpartyPort + "/" + testCounterpartyChannel + "/" + denom
}

func (suite *KeeperTestSuite) TestRecvOurTokenReleasesEscrow() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("300uatom"))
	receiver := keepertest.AddrFor("bob")

	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(120), homeDenom("uatom"), "osmo1sender", receiver.String(), nil))
	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)

	suite.Require().True(ack.Success())
	suite.Require().False(ack.Ack.IsError())
	suite.Require().JSONEq(`{"result":""}`, string(ack.Acknowledgement()))
	suite.Require().Equal(int64(120), suite.balance(receiver, "uatom").Int64())
	suite.Require().Equal(int64(180), suite.escrowed("uatom").Int64())
	suite.Require().True(suite.hasEvent(types.EventTypeReceive))
}

// A channel can only return what was escrowed for it, whatever is held for
// other channels.
func (suite *KeeperTestSuite) TestRecvCannotReleaseOtherChannelEscrow() {
	seq := suite.sendTransfer("300uatom")
	suite.Require().NoError(suite.keeper.OnAcknowledgementPacket(suite.ctx, outgoing(seq), types.NewResultAck(nil).Acknowledgement()))
	suite.requireState("uatom", 0, 300)

	suite.allow(testCw20, nil)
	suite.fixture.Tokens.Credit(testCw20, suite.keeper.EscrowAddress(testChannel), math.NewUint(40))

	suite.fixture.OpenChannel(suite.T(), "channel-1", testCounterpartyPort, "channel-66")
	thief := keepertest.AddrFor("mallory")

	tests := []struct {
		name   string
		denom  string
		amount uint64
		errMsg string
	}{
		{"native", "transfer/channel-66/uatom", 300, "insufficient funds"},
		{"cw20", "transfer/channel-66/" + types.Cw20DenomPrefix + testCw20, 40, "insufficient"},
	}
	for i, tc := range tests {
		suite.Run(tc.name, func() {
			data, err := types.NewIcs20Packet(math.NewUint(tc.amount), tc.denom, "osmo1thief", thief.String(), nil).GetBytes()
			suite.Require().NoError(err)
			packet := channeltypes.Packet{
				Sequence:           uint64(i + 1),
				SourcePort:         testCounterpartyPort,
				SourceChannel:      "channel-66",
				DestinationPort:    types.PortID,
				DestinationChannel: "channel-1",
				Data:               data,
			}

			ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
			suite.Require().False(ack.Success())
			suite.Require().Contains(ack.Ack.Error, tc.errMsg)
		})
	}

	suite.Require().True(suite.balance(thief, "uatom").IsZero())
	suite.Require().True(suite.fixture.Tokens.BalanceOf(testCw20, thief).IsZero())
	suite.Require().Equal(int64(300), suite.escrowed("uatom").Int64())
	suite.Require().Equal("40", suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.EscrowAddress(testChannel)).String())
}

func (suite *KeeperTestSuite) TestRecvOurCw20RequiresAllowList() {
	receiver := keepertest.AddrFor("bob")
	suite.fixture.Tokens.Credit(testCw20, suite.keeper.EscrowAddress(testChannel), math.NewUint(50))
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(20), homeDenom(types.Cw20DenomPrefix+testCw20), "osmo1sender", receiver.String(), nil))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().False(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "allow list")

	suite.allow(testCw20, nil)
	ack = suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().Equal("20", suite.fixture.Tokens.BalanceOf(testCw20, receiver).String())
	suite.Require().Equal("30", suite.fixture.Tokens.BalanceOf(testCw20, suite.keeper.EscrowAddress(testChannel)).String())
}

func (suite *KeeperTestSuite) TestRecvExternalTokenMints() {
	receiver := keepertest.AddrFor("bob")
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(77), "uosmo", "osmo1sender", receiver.String(), nil))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().False(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "external denom uosmo")

	suite.Require().NoError(suite.keeper.AllowExternalToken(suite.ctx, suite.fixture.Admin(), types.ExternalTokenMsg{Denom: "uosmo", Contract: "cosmos1wrappedosmo"}))
	ack = suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().Equal("77", suite.fixture.Tokens.BalanceOf("cosmos1wrappedosmo", receiver).String())
}

func (suite *KeeperTestSuite) TestRecvRejections() {
	receiver := keepertest.AddrFor("bob").String()
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("10uatom"))

	tests := []struct {
		name   string
		packet func() []byte
		errMsg string
	}{
		{
			"not json",
			func() []byte { return []byte("not-json") },
			"cannot decode packet",
		},
		{
			"amount over 2^64-1",
			func() []byte {
				return []byte(`{"amount":"18446744073709551616","denom":"uosmo","receiver":"` + receiver + `","sender":"osmo1sender"}`)
			},
			"overflow",
		},
		{
			"unknown action",
			func() []byte {
				return []byte(`{"amount":"1","denom":"uosmo","receiver":"` + receiver + `","sender":"osmo1sender","action":{"stake":{}}}`)
			},
			"unknown action",
		},
		{
			"bad receiver",
			func() []byte {
				return []byte(`{"amount":"1","denom":"` + homeDenom("uatom") + `","receiver":"nope","sender":"osmo1sender"}`)
			},
			"invalid receiver",
		},
		{
			"escrow shortfall",
			func() []byte {
				return []byte(`{"amount":"11","denom":"` + homeDenom("uatom") + `","receiver":"` + receiver + `","sender":"osmo1sender"}`)
			},
			"insufficient funds",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(1), "uosmo", "osmo1sender", receiver, nil))
			packet.Data = tc.packet()

			ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
			suite.Require().False(ack.Success())
			suite.Require().True(ack.Ack.IsError())
			suite.Require().Contains(ack.Ack.Error, tc.errMsg)
			suite.Require().Equal(int64(10), suite.escrowed("uatom").Int64())
		})
	}
}

func (suite *KeeperTestSuite) TestRecvUnknownChannel() {
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(1), "uosmo", "osmo1sender", keepertest.AddrFor("bob").String(), nil))
	packet.DestinationChannel = "channel-5"

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().False(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "no such channel")
}

func (suite *KeeperTestSuite) TestRecvSwapAction() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("100uatom"))
	action := types.SwapPacket{
		Routes:            []types.SwapAmountInRoute{{PoolID: 1, TokenOutDenom: "uosmo"}},
		TokenOutMinAmount: math.NewUint(10),
	}
	packet := suite.incoming(4, types.NewIcs20Packet(math.NewUint(40), homeDenom("uatom"), "osmo1sender", "osmo1sender", action))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().False(ack.Ack.IsError())

	var res types.SwapAmountInAck
	suite.Require().NoError(ack.Ack.DecodeResult(&res))
	suite.Require().Equal("40", res.Amount.String())
	suite.Require().Equal("uosmo", res.Denom)

	// the pool took the tokens from the sender's proxy
	proxy := suite.keeper.ProxyAddress(testChannel, "osmo1sender")
	suite.Require().True(suite.balance(proxy, "uatom").IsZero())
	suite.Require().Equal(int64(40), suite.balance(keepertest.PoolAddress, "uatom").Int64())
	suite.Require().Equal([]string{types.ActionTypeSwap}, suite.fixture.Pool.Calls)
}

func (suite *KeeperTestSuite) TestRecvActionFailureKeepsSettlement() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("100uatom"))
	suite.fixture.Pool.Err = errors.New("pool 9 not found")

	action := types.JoinPoolPacket{PoolID: 9, ShareOutMinAmount: math.NewUint(1)}
	packet := suite.incoming(2, types.NewIcs20Packet(math.NewUint(25), homeDenom("uatom"), "osmo1sender", "osmo1sender", action))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	// the transfer is committed, only the action failed
	suite.Require().True(ack.Success())
	suite.Require().True(ack.Ack.IsError())
	suite.Require().Contains(ack.Ack.Error, "pool 9 not found")

	// the pool's partial move was dropped, the funds sit with the proxy
	proxy := suite.keeper.ProxyAddress(testChannel, "osmo1sender")
	suite.Require().Equal(int64(25), suite.balance(proxy, "uatom").Int64())
	suite.Require().True(suite.balance(keepertest.PoolAddress, "uatom").IsZero())
	suite.Require().Equal(int64(75), suite.escrowed("uatom").Int64())
}

func (suite *KeeperTestSuite) TestRecvSwapBelowMinimum() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("100uatom"))
	action := types.SwapPacket{
		Routes:            []types.SwapAmountInRoute{{PoolID: 1, TokenOutDenom: "uosmo"}},
		TokenOutMinAmount: math.NewUint(1000),
	}
	packet := suite.incoming(3, types.NewIcs20Packet(math.NewUint(40), homeDenom("uatom"), "osmo1sender", "osmo1sender", action))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "lesser than min amount")
}

func (suite *KeeperTestSuite) TestRecvLockupActions() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("100uatom"))
	proxy := suite.keeper.ProxyAddress(testChannel, "osmo1sender")

	create := suite.incoming(1, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.LockupAccountPacket{}))
	ack := suite.keeper.OnRecvPacket(suite.ctx, create)
	suite.Require().False(ack.Ack.IsError())
	var created types.CreateLockupAck
	suite.Require().NoError(ack.Ack.DecodeResult(&created))
	suite.Require().Equal(suite.fixture.Lockup.Accounts[proxy.String()].String(), created.Contract)

	lock := suite.incoming(2, types.NewIcs20Packet(math.NewUint(10), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.LockPacket{Duration: 3600}))
	ack = suite.keeper.OnRecvPacket(suite.ctx, lock)
	suite.Require().False(ack.Ack.IsError())
	var locked types.LockResultAck
	suite.Require().NoError(ack.Ack.DecodeResult(&locked))
	suite.Require().Equal(uint64(1), locked.LockID)

	unlock := suite.incoming(3, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.UnlockPacket{ID: locked.LockID}))
	ack = suite.keeper.OnRecvPacket(suite.ctx, unlock)
	suite.Require().False(ack.Ack.IsError())
	var unlocking types.UnLockResultAck
	suite.Require().NoError(ack.Ack.DecodeResult(&unlocking))
	suite.Require().True(keepertest.GenesisTime.Add(suite.fixture.Lockup.UnlockPeriod).Equal(unlocking.Time()))

	// an unknown lock id is an action-level failure
	unknown := suite.incoming(4, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.UnlockPacket{ID: 42}))
	ack = suite.keeper.OnRecvPacket(suite.ctx, unknown)
	suite.Require().True(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "lock 42 not found")

	claim := suite.incoming(5, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.ClaimPacket{Denom: "uosmo"}))
	ack = suite.keeper.OnRecvPacket(suite.ctx, claim)
	var claimed types.SwapAmountInAck
	suite.Require().NoError(ack.Ack.DecodeResult(&claimed))
	suite.Require().Equal("uosmo", claimed.Denom)
}

func (suite *KeeperTestSuite) TestRecvLockTooLong() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("10uatom"))
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", types.LockPacket{Duration: ^uint64(0)}))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "too large")
}

func (suite *KeeperTestSuite) TestRecvWithoutActionModules() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("10uatom"))
	k := suite.fixture.WithoutActionModules()

	for i, action := range []types.Action{
		types.SwapPacket{Routes: []types.SwapAmountInRoute{{PoolID: 1, TokenOutDenom: "uosmo"}}, TokenOutMinAmount: math.ZeroUint()},
		types.ExitPoolPacket{TokenOutDenom: "uosmo", TokenOutMinAmount: math.ZeroUint()},
		types.LockupAccountPacket{},
		types.ClaimPacket{Denom: "uosmo"},
	} {
		packet := suite.incoming(uint64(i+1), types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", "osmo1sender", action))
		ack := k.OnRecvPacket(suite.ctx, packet)
		suite.Require().True(ack.Success(), action.ActionType())
		suite.Require().Contains(ack.Ack.Error, "action module unavailable", action.ActionType())
	}

	proxy := k.ProxyAddress(testChannel, "osmo1sender")
	suite.Require().Equal(int64(4), suite.balance(proxy, "uatom").Int64())
}

func (suite *KeeperTestSuite) TestRecvCw20GasLimit() {
	gasLimit := uint64(1000)
	suite.allow(testCw20, &gasLimit)
	suite.fixture.Tokens.Credit(testCw20, suite.keeper.EscrowAddress(testChannel), math.NewUint(10))
	suite.fixture.Tokens.GasPerCall = 5000

	receiver := keepertest.AddrFor("bob")
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(10), homeDenom(types.Cw20DenomPrefix+testCw20), "osmo1sender", receiver.String(), nil))

	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().False(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "exceeded gas limit")
	suite.Require().True(suite.fixture.Tokens.BalanceOf(testCw20, receiver).IsZero())

	// within the limit the call goes through and its gas is charged
	suite.fixture.Tokens.GasPerCall = 500
	before := suite.ctx.GasMeter().GasConsumed()
	ack = suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().True(ack.Success())
	suite.Require().GreaterOrEqual(suite.ctx.GasMeter().GasConsumed()-before, uint64(500))
	suite.Require().Equal("10", suite.fixture.Tokens.BalanceOf(testCw20, receiver).String())
}

func (suite *KeeperTestSuite) TestRecvBlockedReceiver() {
	suite.fixture.FundEscrow(suite.T(), testChannel, suite.coins("10uatom"))
	blocked := authtypes.NewModuleAddress(authtypes.FeeCollectorName)
	packet := suite.incoming(1, types.NewIcs20Packet(math.NewUint(1), homeDenom("uatom"), "osmo1sender", blocked.String(), nil))
	ack := suite.keeper.OnRecvPacket(suite.ctx, packet)
	suite.Require().False(ack.Success())
	suite.Require().Contains(ack.Ack.Error, "not allowed to receive funds")
}
