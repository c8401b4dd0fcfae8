package keeper

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// Query decodes a QueryMsg and returns the JSON encoded response.
func (k Keeper) Query(ctx sdk.Context, raw []byte) ([]byte, error) {
	msg, err := types.DecodeQueryMsg(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var res interface{}
	switch {
	case msg.ListChannels != nil:
		res = k.QueryListChannels(ctx)
	case msg.Channel != nil:
		res, err = k.QueryChannel(ctx, *msg.Channel)
	case msg.Config != nil:
		res = k.QueryConfig(ctx)
	case msg.Admin != nil:
		res = k.QueryAdmin(ctx)
	case msg.Allowed != nil:
		res, err = k.QueryAllowed(ctx, *msg.Allowed)
	case msg.ExternalToken != nil:
		res, err = k.QueryExternalToken(ctx, *msg.ExternalToken)
	case msg.ListAllowed != nil:
		res = k.QueryListAllowed(ctx, *msg.ListAllowed)
	case msg.ListExternalTokens != nil:
		res = k.QueryListExternalTokens(ctx, *msg.ListExternalTokens)
	case msg.Lockup != nil:
		res, err = k.QueryLockup(ctx, *msg.Lockup)
	}
	if err != nil {
		return nil, err
	}

	bz, err := json.Marshal(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return bz, nil
}

// QueryListChannels returns every channel in ascending id order.
func (k Keeper) QueryListChannels(ctx sdk.Context) types.ListChannelsResponse {
	return types.ListChannelsResponse{Channels: k.GetAllChannels(ctx)}
}

// QueryChannel returns a channel with its outstanding balances and the total
// ever sent, per denom.
func (k Keeper) QueryChannel(ctx sdk.Context, req types.QueryChannelRequest) (types.ChannelResponse, error) {
	if req.ID == "" {
		return types.ChannelResponse{}, status.Error(codes.InvalidArgument, "channel id cannot be empty")
	}
	info, found := k.GetChannelInfo(ctx, req.ID)
	if !found {
		return types.ChannelResponse{}, status.Error(codes.NotFound, fmt.Sprintf("channel %s not found", req.ID))
	}

	res := types.ChannelResponse{
		Info:      info,
		Balances:  []types.Amount{},
		TotalSent: []types.Amount{},
	}
	k.IterateChannelStates(ctx, req.ID, func(denom string, state types.ChannelState) bool {
		res.Balances = append(res.Balances, types.AmountFromDenom(denom, state.Outstanding))
		res.TotalSent = append(res.TotalSent, types.AmountFromDenom(denom, state.TotalSent))
		return false
	})
	return res, nil
}

func (k Keeper) QueryConfig(ctx sdk.Context) types.ConfigResponse {
	cfg := k.GetConfig(ctx)
	return types.ConfigResponse{DefaultTimeout: cfg.DefaultTimeout, GovContract: cfg.GovContract}
}

func (k Keeper) QueryAdmin(ctx sdk.Context) types.AdminResponse {
	return types.AdminResponse{Admin: k.GetAdmin(ctx)}
}

func (k Keeper) QueryAllowed(ctx sdk.Context, req types.QueryAllowedRequest) (types.AllowedResponse, error) {
	if req.Contract == "" {
		return types.AllowedResponse{}, status.Error(codes.InvalidArgument, "contract cannot be empty")
	}
	info, found := k.GetAllowed(ctx, req.Contract)
	if !found {
		return types.AllowedResponse{IsAllowed: false}, nil
	}
	return types.AllowedResponse{IsAllowed: true, GasLimit: info.GasLimit}, nil
}

func (k Keeper) QueryExternalToken(ctx sdk.Context, req types.QueryExternalTokenRequest) (types.ExternalTokenResponse, error) {
	if req.Denom == "" {
		return types.ExternalTokenResponse{}, status.Error(codes.InvalidArgument, "denom cannot be empty")
	}
	info, found := k.GetExternalToken(ctx, req.Denom)
	if !found {
		return types.ExternalTokenResponse{IsAllowed: false}, nil
	}
	return types.ExternalTokenResponse{IsAllowed: true, Contract: info.Contract}, nil
}

func (k Keeper) QueryListAllowed(ctx sdk.Context, req types.QueryListRequest) types.ListAllowedResponse {
	return types.ListAllowedResponse{Allow: k.ListAllowed(ctx, req.StartAfter, req.PageLimit())}
}

func (k Keeper) QueryListExternalTokens(ctx sdk.Context, req types.QueryListRequest) types.ListExternalTokensResponse {
	return types.ListExternalTokensResponse{Tokens: k.ListExternalTokens(ctx, req.StartAfter, req.PageLimit())}
}

// QueryLockup returns the lockup account created for owner over a channel. An
// owner without a lockup yet gets an empty address.
func (k Keeper) QueryLockup(ctx sdk.Context, req types.QueryLockupRequest) (types.LockupResponse, error) {
	if req.Channel == "" || req.Owner == "" {
		return types.LockupResponse{}, status.Error(codes.InvalidArgument, "channel and owner are required")
	}
	address, _ := k.LockupAddress(ctx, req.Channel, req.Owner)
	return types.LockupResponse{Owner: req.Owner, Address: address}, nil
}
