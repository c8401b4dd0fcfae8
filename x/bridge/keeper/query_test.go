package keeper_test

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

func (suite *KeeperTestSuite) query(raw string, target interface{}) error {
	bz, err := suite.keeper.Query(suite.ctx, []byte(raw))
	if err != nil {
		return err
	}
	suite.Require().NoError(json.Unmarshal(bz, target))
	return nil
}

func (suite *KeeperTestSuite) TestQueryChannels() {
	suite.sendTransfer("100uatom")
	seq := suite.sendTransfer("20ustake")
	suite.Require().NoError(suite.keeper.OnTimeoutPacket(suite.ctx, outgoing(seq)))

	var list types.ListChannelsResponse
	suite.Require().NoError(suite.query(`{"list_channels":{}}`, &list))
	suite.Require().Len(list.Channels, 1)
	suite.Require().Equal(testChannel, list.Channels[0].ID)

	var channel types.ChannelResponse
	suite.Require().NoError(suite.query(`{"channel":{"id":"channel-0"}}`, &channel))
	suite.Require().Equal(testCounterpartyChannel, channel.Info.CounterpartyEndpoint.ChannelID)
	suite.Require().Len(channel.Balances, 2)
	suite.Require().Equal("uatom", channel.Balances[0].Denom())
	suite.Require().Equal("100", channel.Balances[0].Value().String())
	suite.Require().Equal("ustake", channel.Balances[1].Denom())
	suite.Require().True(channel.Balances[1].Value().IsZero())
	suite.Require().Equal("20", channel.TotalSent[1].Value().String())

	_, err := suite.keeper.Query(suite.ctx, []byte(`{"channel":{"id":"channel-4"}}`))
	suite.Require().Equal(codes.NotFound, status.Code(err))
	_, err = suite.keeper.Query(suite.ctx, []byte(`{"channel":{"id":""}}`))
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))
}

func (suite *KeeperTestSuite) TestQueryConfigAndAdmin() {
	var cfg types.ConfigResponse
	suite.Require().NoError(suite.query(`{"config":{}}`, &cfg))
	suite.Require().Equal(types.DefaultTimeoutSeconds, cfg.DefaultTimeout)

	var admin types.AdminResponse
	suite.Require().NoError(suite.query(`{"admin":{}}`, &admin))
	suite.Require().Equal(cfg.GovContract, admin.Admin)

	_, err := suite.keeper.Query(suite.ctx, []byte(`{"config":{},"admin":{}}`))
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))
}

func (suite *KeeperTestSuite) TestQueryAllowListPagination() {
	for i := 0; i < 35; i++ {
		suite.allow(fmt.Sprintf("cosmos1contract%02d", i), nil)
	}

	var page types.ListAllowedResponse
	suite.Require().NoError(suite.query(`{"list_allowed":{}}`, &page))
	suite.Require().Len(page.Allow, int(types.DefaultPageLimit))
	suite.Require().Equal("cosmos1contract00", page.Allow[0].Contract)

	suite.Require().NoError(suite.query(`{"list_allowed":{"start_after":"cosmos1contract09","limit":100}}`, &page))
	suite.Require().Len(page.Allow, int(types.MaxPageLimit))
	suite.Require().Equal("cosmos1contract10", page.Allow[0].Contract)

	suite.Require().NoError(suite.query(`{"list_allowed":{"start_after":"cosmos1contract30","limit":10}}`, &page))
	suite.Require().Len(page.Allow, 4)

	var allowed types.AllowedResponse
	suite.Require().NoError(suite.query(`{"allowed":{"contract":"cosmos1contract07"}}`, &allowed))
	suite.Require().True(allowed.IsAllowed)
	suite.Require().NoError(suite.query(`{"allowed":{"contract":"cosmos1missing"}}`, &allowed))
	suite.Require().False(allowed.IsAllowed)
}

func (suite *KeeperTestSuite) TestQueryExternalTokens() {
	admin := suite.fixture.Admin()
	suite.Require().NoError(suite.keeper.AllowExternalToken(suite.ctx, admin, types.ExternalTokenMsg{Denom: "uosmo", Contract: "cosmos1wosmo"}))
	suite.Require().NoError(suite.keeper.AllowExternalToken(suite.ctx, admin, types.ExternalTokenMsg{Denom: "ujuno", Contract: "cosmos1wjuno"}))

	var token types.ExternalTokenResponse
	suite.Require().NoError(suite.query(`{"external_token":{"denom":"uosmo"}}`, &token))
	suite.Require().True(token.IsAllowed)
	suite.Require().Equal("cosmos1wosmo", token.Contract)

	var list types.ListExternalTokensResponse
	suite.Require().NoError(suite.query(`{"list_external_tokens":{"limit":1}}`, &list))
	suite.Require().Len(list.Tokens, 1)
	suite.Require().Equal("ujuno", list.Tokens[0].Denom)
}

func (suite *KeeperTestSuite) TestQueryLockup() {
	var lockup types.LockupResponse
	suite.Require().NoError(suite.query(`{"lockup":{"channel":"channel-0","owner":"cosmos1owner"}}`, &lockup))
	suite.Require().Equal("cosmos1owner", lockup.Owner)
	suite.Require().Empty(lockup.Address)

	_, err := suite.keeper.Query(suite.ctx, []byte(`{"lockup":{"channel":"channel-0"}}`))
	suite.Require().Equal(codes.InvalidArgument, status.Code(err))

	suite.keeper.SetLockup(suite.ctx, types.Lockup{Channel: testChannel, Owner: "cosmos1owner", Address: "osmo1lock"})
	lockup = types.LockupResponse{}
	suite.Require().NoError(suite.query(`{"lockup":{"channel":"channel-0","owner":"cosmos1owner"}}`, &lockup))
	suite.Require().Equal("osmo1lock", lockup.Address)
}
