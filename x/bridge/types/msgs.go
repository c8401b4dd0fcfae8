package types

import (
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// OutboundMsg is an execute message that moves funds over a channel. Each
// one maps to exactly one packet shape in BuildAction.
type OutboundMsg interface {
	GetChannel() string
	GetTimeout() *uint64
	ValidateBasic() error

	isOutboundMsg()
}

// TransferMsg sends the attached funds to RemoteAddress without an action.
type TransferMsg struct {
	// Channel is the local channel to send the packet on
	Channel string `json:"channel"`
	// RemoteAddress is not validated locally, it uses the counterparty's bech32 prefix
	RemoteAddress string `json:"remote_address"`
	// Timeout in seconds, the configured default when unset
	Timeout *uint64 `json:"timeout,omitempty"`
}

// SwapMsg swaps the attached funds on the counterparty.
type SwapMsg struct {
	Channel      string    `json:"channel"`
	Pool         uint64    `json:"pool,string"`
	TokenOut     string    `json:"token_out"`
	MinAmountOut math.Uint `json:"min_amount_out"`
	Timeout      *uint64   `json:"timeout,omitempty"`
}

// JoinPoolMsg adds the attached funds as liquidity on the counterparty.
type JoinPoolMsg struct {
	Channel     string    `json:"channel"`
	Pool        uint64    `json:"pool,string"`
	ShareMinOut math.Uint `json:"share_min_out"`
	Timeout     *uint64   `json:"timeout,omitempty"`
}

// ExitPoolMsg removes liquidity with the attached pool shares.
type ExitPoolMsg struct {
	Channel      string    `json:"channel"`
	TokenOut     string    `json:"token_out"`
	MinAmountOut math.Uint `json:"min_amount_out"`
	Timeout      *uint64   `json:"timeout,omitempty"`
}

// CreateLockupMsg creates the sender's lockup account on the counterparty.
type CreateLockupMsg struct {
	Channel string  `json:"channel"`
	Timeout *uint64 `json:"timeout,omitempty"`
}

// LockTokensMsg locks the attached funds for Duration seconds.
type LockTokensMsg struct {
	Channel  string  `json:"channel"`
	Timeout  *uint64 `json:"timeout,omitempty"`
	Duration uint64  `json:"duration,string"`
}

// ClaimTokensMsg claims rewards and unlocked tokens of Denom.
type ClaimTokensMsg struct {
	Channel string  `json:"channel"`
	Timeout *uint64 `json:"timeout,omitempty"`
	Denom   string  `json:"denom"`
}

// UnlockTokensMsg begins unlocking LockID.
type UnlockTokensMsg struct {
	Channel string  `json:"channel"`
	Timeout *uint64 `json:"timeout,omitempty"`
	LockID  uint64  `json:"lock_id,string"`
}

// AllowMsg allows a cw20 contract to be sent, optionally capping the gas of
// its token calls.
type AllowMsg struct {
	Contract string  `json:"contract"`
	GasLimit *uint64 `json:"gas_limit,omitempty"`
}

// ExternalTokenMsg allows an external denom to be received and minted as the
// given cw20 contract.
type ExternalTokenMsg struct {
	Denom    string `json:"denom"`
	Contract string `json:"contract"`
}

// UpdateAdminMsg hands the admin role to a new address.
type UpdateAdminMsg struct {
	Admin string `json:"admin"`
}

// Cw20ReceiveMsg is the hook a cw20 contract calls after moving Amount of its
// tokens to the bridge on behalf of Sender. Msg holds an encoded ExecuteMsg
// with one of the outbound variants.
type Cw20ReceiveMsg struct {
	Sender string    `json:"sender"`
	Amount math.Uint `json:"amount"`
	Msg    []byte    `json:"msg"`
}

// ExecuteMsg is the execute surface of the bridge. Exactly one field is set.
type ExecuteMsg struct {
	Receive            *Cw20ReceiveMsg   `json:"receive,omitempty"`
	Transfer           *TransferMsg      `json:"transfer,omitempty"`
	Swap               *SwapMsg          `json:"swap,omitempty"`
	JoinPool           *JoinPoolMsg      `json:"join_pool,omitempty"`
	ExitPool           *ExitPoolMsg      `json:"exit_pool,omitempty"`
	CreateLockup       *CreateLockupMsg  `json:"create_lockup,omitempty"`
	LockTokens         *LockTokensMsg    `json:"lock_tokens,omitempty"`
	ClaimTokens        *ClaimTokensMsg   `json:"claim_tokens,omitempty"`
	UnlockTokens       *UnlockTokensMsg  `json:"unlock_tokens,omitempty"`
	Allow              *AllowMsg         `json:"allow,omitempty"`
	AllowExternalToken *ExternalTokenMsg `json:"allow_external_token,omitempty"`
	UpdateAdmin        *UpdateAdminMsg   `json:"update_admin,omitempty"`
}

// DecodeExecuteMsg parses an execute message and checks a single variant is set.
func DecodeExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var msg ExecuteMsg
	if err := decodeStrict(bz, &msg); err != nil {
		return ExecuteMsg{}, errorsmod.Wrapf(ErrInvalidMsg, "cannot decode execute message: %s", err)
	}
	if n := msg.variants(); n != 1 {
		return ExecuteMsg{}, errorsmod.Wrapf(ErrInvalidMsg, "expected exactly one message variant, got %d", n)
	}
	return msg, nil
}

func (m ExecuteMsg) variants() int {
	n := 0
	for _, set := range []bool{
		m.Receive != nil, m.Transfer != nil, m.Swap != nil, m.JoinPool != nil,
		m.ExitPool != nil, m.CreateLockup != nil, m.LockTokens != nil,
		m.ClaimTokens != nil, m.UnlockTokens != nil, m.Allow != nil,
		m.AllowExternalToken != nil, m.UpdateAdmin != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Outbound returns the fund-moving variant, or nil for Receive and the
// admin messages.
func (m ExecuteMsg) Outbound() OutboundMsg {
	switch {
	case m.Transfer != nil:
		return *m.Transfer
	case m.Swap != nil:
		return *m.Swap
	case m.JoinPool != nil:
		return *m.JoinPool
	case m.ExitPool != nil:
		return *m.ExitPool
	case m.CreateLockup != nil:
		return *m.CreateLockup
	case m.LockTokens != nil:
		return *m.LockTokens
	case m.ClaimTokens != nil:
		return *m.ClaimTokens
	case m.UnlockTokens != nil:
		return *m.UnlockTokens
	default:
		return nil
	}
}

func (m TransferMsg) GetChannel() string     { return m.Channel }
func (m SwapMsg) GetChannel() string         { return m.Channel }
func (m JoinPoolMsg) GetChannel() string     { return m.Channel }
func (m ExitPoolMsg) GetChannel() string     { return m.Channel }
func (m CreateLockupMsg) GetChannel() string { return m.Channel }
func (m LockTokensMsg) GetChannel() string   { return m.Channel }
func (m ClaimTokensMsg) GetChannel() string  { return m.Channel }
func (m UnlockTokensMsg) GetChannel() string { return m.Channel }

func (m TransferMsg) GetTimeout() *uint64     { return m.Timeout }
func (m SwapMsg) GetTimeout() *uint64         { return m.Timeout }
func (m JoinPoolMsg) GetTimeout() *uint64     { return m.Timeout }
func (m ExitPoolMsg) GetTimeout() *uint64     { return m.Timeout }
func (m CreateLockupMsg) GetTimeout() *uint64 { return m.Timeout }
func (m LockTokensMsg) GetTimeout() *uint64   { return m.Timeout }
func (m ClaimTokensMsg) GetTimeout() *uint64  { return m.Timeout }
func (m UnlockTokensMsg) GetTimeout() *uint64 { return m.Timeout }

func (TransferMsg) isOutboundMsg()     {}
func (SwapMsg) isOutboundMsg()         {}
func (JoinPoolMsg) isOutboundMsg()     {}
func (ExitPoolMsg) isOutboundMsg()     {}
func (CreateLockupMsg) isOutboundMsg() {}
func (LockTokensMsg) isOutboundMsg()   {}
func (ClaimTokensMsg) isOutboundMsg()  {}
func (UnlockTokensMsg) isOutboundMsg() {}

func validateChannel(channel string) error {
	if err := host.ChannelIdentifierValidator(channel); err != nil {
		return errorsmod.Wrapf(ErrNoSuchChannel, "invalid channel %q: %s", channel, err)
	}
	return nil
}

func (m TransferMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if strings.TrimSpace(m.RemoteAddress) == "" {
		return errorsmod.Wrap(ErrInvalidMsg, "remote address cannot be empty")
	}
	return nil
}

func (m SwapMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if m.Pool == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "pool id cannot be zero")
	}
	if strings.TrimSpace(m.TokenOut) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "token out cannot be empty")
	}
	if m.MinAmountOut.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "min amount out must be set")
	}
	return nil
}

func (m JoinPoolMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if m.Pool == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "pool id cannot be zero")
	}
	if m.ShareMinOut.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "share min out must be set")
	}
	return nil
}

func (m ExitPoolMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if strings.TrimSpace(m.TokenOut) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "token out cannot be empty")
	}
	if m.MinAmountOut.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "min amount out must be set")
	}
	return nil
}

func (m CreateLockupMsg) ValidateBasic() error {
	return validateChannel(m.Channel)
}

func (m LockTokensMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if m.Duration == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "lock duration cannot be zero")
	}
	return nil
}

func (m ClaimTokensMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if strings.TrimSpace(m.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "claim denom cannot be empty")
	}
	return nil
}

func (m UnlockTokensMsg) ValidateBasic() error {
	if err := validateChannel(m.Channel); err != nil {
		return err
	}
	if m.LockID == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "lock id cannot be zero")
	}
	return nil
}

// BuildAction maps an outbound message to the action it attaches to the
// packet, nil for a plain transfer. inputDenom is the denom being sent.
func BuildAction(msg OutboundMsg, inputDenom string) (Action, error) {
	switch m := msg.(type) {
	case TransferMsg:
		return nil, nil
	case SwapMsg:
		if m.TokenOut == inputDenom {
			return nil, errorsmod.Wrapf(ErrInvalidAction, "cannot swap %s into itself", inputDenom)
		}
		return SwapPacket{
			Routes:            []SwapAmountInRoute{{PoolID: m.Pool, TokenOutDenom: m.TokenOut}},
			TokenOutMinAmount: m.MinAmountOut,
		}, nil
	case JoinPoolMsg:
		return JoinPoolPacket{PoolID: m.Pool, ShareOutMinAmount: m.ShareMinOut}, nil
	case ExitPoolMsg:
		return ExitPoolPacket{TokenOutDenom: m.TokenOut, TokenOutMinAmount: m.MinAmountOut}, nil
	case CreateLockupMsg:
		return LockupAccountPacket{}, nil
	case LockTokensMsg:
		return LockPacket{Duration: m.Duration}, nil
	case ClaimTokensMsg:
		return ClaimPacket{Denom: m.Denom}, nil
	case UnlockTokensMsg:
		return UnlockPacket{ID: m.LockID}, nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidMsg, "unsupported outbound message %T", msg)
	}
}

// Validate checks the allow entry.
func (m AllowMsg) Validate() error {
	if strings.TrimSpace(m.Contract) == "" {
		return errorsmod.Wrap(ErrInvalidMsg, "contract cannot be empty")
	}
	if m.GasLimit != nil && *m.GasLimit == 0 {
		return errorsmod.Wrap(ErrInvalidMsg, "gas limit cannot be zero")
	}
	return nil
}

// Validate checks the external token entry.
func (m ExternalTokenMsg) Validate() error {
	if strings.TrimSpace(m.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidDenom, "denom cannot be empty")
	}
	if strings.TrimSpace(m.Contract) == "" {
		return errorsmod.Wrap(ErrInvalidMsg, "contract cannot be empty")
	}
	return nil
}

// DecodeReceivePayload parses the payload of a cw20 receive hook. Only the
// outbound variants may be nested.
func DecodeReceivePayload(bz []byte) (OutboundMsg, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(bz, &msg); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidMsg, "cannot decode receive payload: %s", err)
	}
	if n := msg.variants(); n != 1 {
		return nil, errorsmod.Wrapf(ErrInvalidMsg, "expected exactly one message variant, got %d", n)
	}
	outbound := msg.Outbound()
	if outbound == nil {
		return nil, errorsmod.Wrap(ErrInvalidMsg, "receive payload must be a transfer or action message")
	}
	return outbound, nil
}
