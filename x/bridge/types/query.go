package types

import (
	errorsmod "cosmossdk.io/errors"
)

// QueryChannelRequest asks for one channel and its balances.
type QueryChannelRequest struct {
	ID string `json:"id"`
}

// QueryAllowedRequest asks whether a cw20 contract is allowed.
type QueryAllowedRequest struct {
	Contract string `json:"contract"`
}

// QueryExternalTokenRequest asks whether an external denom is allowed.
type QueryExternalTokenRequest struct {
	Denom string `json:"denom"`
}

// QueryListRequest pages through a list. StartAfter is exclusive.
type QueryListRequest struct {
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// QueryLockupRequest asks for the lockup account of owner on channel.
type QueryLockupRequest struct {
	Channel string `json:"channel"`
	Owner   string `json:"owner"`
}

// QueryMsg is the query surface of the bridge. Exactly one field is set.
type QueryMsg struct {
	ListChannels       *struct{}                  `json:"list_channels,omitempty"`
	Channel            *QueryChannelRequest       `json:"channel,omitempty"`
	Config             *struct{}                  `json:"config,omitempty"`
	Admin              *struct{}                  `json:"admin,omitempty"`
	Allowed            *QueryAllowedRequest       `json:"allowed,omitempty"`
	ExternalToken      *QueryExternalTokenRequest `json:"external_token,omitempty"`
	ListAllowed        *QueryListRequest          `json:"list_allowed,omitempty"`
	ListExternalTokens *QueryListRequest          `json:"list_external_tokens,omitempty"`
	Lockup             *QueryLockupRequest        `json:"lockup,omitempty"`
}

// DecodeQueryMsg parses a query and checks a single variant is set.
func DecodeQueryMsg(bz []byte) (QueryMsg, error) {
	var msg QueryMsg
	if err := decodeStrict(bz, &msg); err != nil {
		return QueryMsg{}, errorsmod.Wrapf(ErrInvalidMsg, "cannot decode query: %s", err)
	}
	n := 0
	for _, set := range []bool{
		msg.ListChannels != nil, msg.Channel != nil, msg.Config != nil, msg.Admin != nil,
		msg.Allowed != nil, msg.ExternalToken != nil, msg.ListAllowed != nil,
		msg.ListExternalTokens != nil, msg.Lockup != nil,
	} {
		if set {
			n++
		}
	}
	if n != 1 {
		return QueryMsg{}, errorsmod.Wrapf(ErrInvalidMsg, "expected exactly one query variant, got %d", n)
	}
	return msg, nil
}

// PageLimit resolves the requested page size against the default and maximum.
func (r QueryListRequest) PageLimit() int {
	limit := DefaultPageLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return int(limit)
}

type ListChannelsResponse struct {
	Channels []ChannelInfo `json:"channels"`
}

// ChannelResponse lists what is outstanding on a channel and what was ever
// sent over it, one entry per denom.
type ChannelResponse struct {
	Info      ChannelInfo `json:"info"`
	Balances  []Amount    `json:"balances"`
	TotalSent []Amount    `json:"total_sent"`
}

type ConfigResponse struct {
	DefaultTimeout uint64 `json:"default_timeout"`
	GovContract    string `json:"gov_contract"`
}

type AdminResponse struct {
	Admin string `json:"admin"`
}

type AllowedResponse struct {
	IsAllowed bool    `json:"is_allowed"`
	GasLimit  *uint64 `json:"gas_limit,omitempty"`
}

type ExternalTokenResponse struct {
	IsAllowed bool   `json:"is_allowed"`
	Contract  string `json:"contract,omitempty"`
}

type ListAllowedResponse struct {
	Allow []AllowedInfo `json:"allow"`
}

type ListExternalTokensResponse struct {
	Tokens []ExternalTokenInfo `json:"tokens"`
}

type LockupResponse struct {
	Owner   string `json:"owner"`
	Address string `json:"address"`
}
