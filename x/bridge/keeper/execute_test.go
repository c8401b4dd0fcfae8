package keeper_test

import (
	"encoding/json"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	keepertest "github.com/giansalex/cw-osmo-swap/testutil/keeper"
	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

func (suite *KeeperTestSuite) TestExecuteTransfer() {
	suite.fund("40uatom")
	raw := []byte(`{"transfer":{"channel":"channel-0","remote_address":"osmo1remote","timeout":120}}`)

	suite.Require().NoError(suite.keeper.Execute(suite.ctx, suite.sender.String(), suite.coins("40uatom"), raw))
	suite.requireState("uatom", 40, 40)
}

func (suite *KeeperTestSuite) TestExecuteSwap() {
	suite.fund("40uatom")
	raw := []byte(`{"swap":{"channel":"channel-0","pool":"7","token_out":"uosmo","min_amount_out":"30"}}`)

	suite.Require().NoError(suite.keeper.Execute(suite.ctx, suite.sender.String(), suite.coins("40uatom"), raw))
	data, err := types.DecodePacket(suite.fixture.IBC.LastSent().Data)
	suite.Require().NoError(err)
	suite.Require().Equal(types.ActionTypeSwap, data.ActionType())
}

func (suite *KeeperTestSuite) TestExecuteCw20Receive() {
	contract := sdk.AccAddress([]byte("cw20-contract-addr--")).String()
	suite.allow(contract, nil)
	// the contract has already moved the tokens to the bridge
	suite.fixture.Tokens.Credit(contract, suite.keeper.ModuleAddress(), math.NewUint(25))

	payload, err := json.Marshal(types.ExecuteMsg{Transfer: &types.TransferMsg{Channel: testChannel, RemoteAddress: testRemoteAddress}})
	suite.Require().NoError(err)
	raw, err := json.Marshal(types.ExecuteMsg{Receive: &types.Cw20ReceiveMsg{
		Sender: suite.sender.String(),
		Amount: math.NewUint(25),
		Msg:    payload,
	}})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.keeper.Execute(suite.ctx, contract, sdk.NewCoins(), raw))
	suite.requireState(types.Cw20DenomPrefix+contract, 25, 25)

	// admin messages cannot be smuggled through the hook
	admin, err := json.Marshal(types.ExecuteMsg{UpdateAdmin: &types.UpdateAdminMsg{Admin: suite.sender.String()}})
	suite.Require().NoError(err)
	raw, err = json.Marshal(types.ExecuteMsg{Receive: &types.Cw20ReceiveMsg{Sender: suite.sender.String(), Amount: math.NewUint(1), Msg: admin}})
	suite.Require().NoError(err)
	suite.Require().ErrorIs(suite.keeper.Execute(suite.ctx, contract, sdk.NewCoins(), raw), types.ErrInvalidMsg)
}

func (suite *KeeperTestSuite) TestExecuteRejections() {
	tests := []struct {
		name   string
		sender string
		funds  sdk.Coins
		raw    string
		err    error
	}{
		{"not json", suite.sender.String(), nil, `nope`, types.ErrInvalidMsg},
		{"two variants", suite.sender.String(), nil, `{"allow":{"contract":"a"},"update_admin":{"admin":"b"}}`, types.ErrInvalidMsg},
		{"unknown variant", suite.sender.String(), nil, `{"burn":{}}`, types.ErrInvalidMsg},
		{"funds on admin message", suite.fixture.Admin(), sdk.NewCoins(sdk.NewInt64Coin("uatom", 1)), `{"allow":{"contract":"a"}}`, types.ErrInvalidMsg},
		{"allow by non admin", suite.sender.String(), nil, `{"allow":{"contract":"a"}}`, types.ErrUnauthorized},
		{"external token by non admin", suite.sender.String(), nil, `{"allow_external_token":{"denom":"uosmo","contract":"a"}}`, types.ErrUnauthorized},
		{"update admin by non admin", suite.sender.String(), nil, `{"update_admin":{"admin":"` + suite.sender.String() + `"}}`, types.ErrUnauthorized},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := suite.keeper.Execute(suite.ctx, tc.sender, tc.funds, []byte(tc.raw))
			suite.Require().ErrorIs(err, tc.err)
		})
	}
	suite.Require().Empty(suite.keeper.ListAllowed(suite.ctx, nil, -1))
}

func (suite *KeeperTestSuite) TestAdminHandover() {
	oldAdmin := suite.fixture.Admin()
	newAdmin := keepertest.AddrFor("dao").String()

	suite.Require().NoError(suite.keeper.Execute(suite.ctx, oldAdmin, nil, []byte(`{"update_admin":{"admin":"`+newAdmin+`"}}`)))
	suite.Require().Equal(newAdmin, suite.keeper.GetAdmin(suite.ctx))
	suite.Require().True(suite.hasEvent(types.EventTypeUpdateAdmin))

	suite.Require().ErrorIs(suite.keeper.Allow(suite.ctx, oldAdmin, types.AllowMsg{Contract: testCw20}), types.ErrUnauthorized)
	suite.Require().NoError(suite.keeper.Allow(suite.ctx, newAdmin, types.AllowMsg{Contract: testCw20}))

	suite.Require().ErrorIs(suite.keeper.UpdateAdmin(suite.ctx, newAdmin, types.UpdateAdminMsg{Admin: "not-an-address"}), sdkerrors.ErrInvalidAddress)
}

func (suite *KeeperTestSuite) TestAllowUpdatesGasLimit() {
	limit := uint64(5000)
	suite.allow(testCw20, nil)
	suite.allow(testCw20, &limit)

	info, found := suite.keeper.GetAllowed(suite.ctx, testCw20)
	suite.Require().True(found)
	suite.Require().NotNil(info.GasLimit)
	suite.Require().Equal(limit, *info.GasLimit)

	zero := uint64(0)
	suite.Require().ErrorIs(suite.keeper.Allow(suite.ctx, suite.fixture.Admin(), types.AllowMsg{Contract: testCw20, GasLimit: &zero}), types.ErrInvalidMsg)
}
