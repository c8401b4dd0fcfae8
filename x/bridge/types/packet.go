package types

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Action type identifiers, also the JSON tags of OsmoPacket.
const (
	ActionTypeSwap          = "swap"
	ActionTypeJoinPool      = "join_pool"
	ActionTypeExitPool      = "exit_pool"
	ActionTypeLockupAccount = "lockup_account"
	ActionTypeLock          = "lock"
	ActionTypeClaim         = "claim"
	ActionTypeUnlock        = "unlock"

	// ActionTypeTransfer labels packets without an action in events and metrics
	ActionTypeTransfer = "transfer"
)

// Action is one of the instructions a packet can carry. The set is closed:
// only the packet types in this file implement it.
type Action interface {
	ActionType() string
	ValidateBasic() error

	isAction()
}

// SwapAmountInRoute is one hop of a swap.
type SwapAmountInRoute struct {
	PoolID        uint64 `json:"pool_id,string"`
	TokenOutDenom string `json:"token_out_denom"`
}

// SwapPacket swaps the transferred tokens along Routes.
type SwapPacket struct {
	Routes            []SwapAmountInRoute `json:"routes"`
	TokenOutMinAmount math.Uint           `json:"token_out_min_amount"`
}

// JoinPoolPacket adds the transferred tokens as liquidity.
type JoinPoolPacket struct {
	PoolID            uint64    `json:"pool_id,string"`
	ShareOutMinAmount math.Uint `json:"share_out_min_amount"`
}

// ExitPoolPacket burns the transferred pool shares for TokenOutDenom.
type ExitPoolPacket struct {
	TokenOutDenom     string    `json:"token_out_denom"`
	TokenOutMinAmount math.Uint `json:"token_out_min_amount"`
}

// LockupAccountPacket creates the sender's lockup account.
type LockupAccountPacket struct{}

// LockPacket locks the transferred tokens for Duration seconds.
type LockPacket struct {
	Duration uint64 `json:"duration,string"`
}

// ClaimPacket claims rewards and unlocked tokens of Denom.
type ClaimPacket struct {
	Denom string `json:"denom"`
}

// UnlockPacket begins unlocking the lock with ID.
type UnlockPacket struct {
	ID uint64 `json:"id,string"`
}

func (SwapPacket) ActionType() string          { return ActionTypeSwap }
func (JoinPoolPacket) ActionType() string      { return ActionTypeJoinPool }
func (ExitPoolPacket) ActionType() string      { return ActionTypeExitPool }
func (LockupAccountPacket) ActionType() string { return ActionTypeLockupAccount }
func (LockPacket) ActionType() string          { return ActionTypeLock }
func (ClaimPacket) ActionType() string         { return ActionTypeClaim }
func (UnlockPacket) ActionType() string        { return ActionTypeUnlock }

func (SwapPacket) isAction()          {}
func (JoinPoolPacket) isAction()      {}
func (ExitPoolPacket) isAction()      {}
func (LockupAccountPacket) isAction() {}
func (LockPacket) isAction()          {}
func (ClaimPacket) isAction()         {}
func (UnlockPacket) isAction()        {}

func (p SwapPacket) ValidateBasic() error {
	if len(p.Routes) == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "swap routes cannot be empty")
	}
	for i, route := range p.Routes {
		if route.PoolID == 0 {
			return errorsmod.Wrapf(ErrInvalidAction, "route %d: pool id cannot be zero", i)
		}
		if strings.TrimSpace(route.TokenOutDenom) == "" {
			return errorsmod.Wrapf(ErrInvalidAction, "route %d: token out denom cannot be empty", i)
		}
	}
	if p.TokenOutMinAmount.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "token out min amount must be set")
	}
	return nil
}

func (p JoinPoolPacket) ValidateBasic() error {
	if p.PoolID == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "pool id cannot be zero")
	}
	if p.ShareOutMinAmount.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "share out min amount must be set")
	}
	return nil
}

func (p ExitPoolPacket) ValidateBasic() error {
	if strings.TrimSpace(p.TokenOutDenom) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "token out denom cannot be empty")
	}
	if p.TokenOutMinAmount.IsNil() {
		return errorsmod.Wrap(ErrInvalidAction, "token out min amount must be set")
	}
	return nil
}

func (LockupAccountPacket) ValidateBasic() error { return nil }

func (p LockPacket) ValidateBasic() error {
	if p.Duration == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "lock duration cannot be zero")
	}
	return nil
}

func (p ClaimPacket) ValidateBasic() error {
	if strings.TrimSpace(p.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "claim denom cannot be empty")
	}
	return nil
}

func (p UnlockPacket) ValidateBasic() error {
	if p.ID == 0 {
		return errorsmod.Wrap(ErrInvalidAction, "lock id cannot be zero")
	}
	return nil
}

// OsmoPacket is the wire form of an Action: a JSON object with exactly one
// key naming the action.
type OsmoPacket struct {
	Swap          *SwapPacket          `json:"swap,omitempty"`
	JoinPool      *JoinPoolPacket      `json:"join_pool,omitempty"`
	ExitPool      *ExitPoolPacket      `json:"exit_pool,omitempty"`
	LockupAccount *LockupAccountPacket `json:"lockup_account,omitempty"`
	Lock          *LockPacket          `json:"lock,omitempty"`
	Claim         *ClaimPacket         `json:"claim,omitempty"`
	Unlock        *UnlockPacket        `json:"unlock,omitempty"`
}

// NewOsmoPacket wraps an action for the wire.
func NewOsmoPacket(action Action) *OsmoPacket {
	switch a := action.(type) {
	case SwapPacket:
		return &OsmoPacket{Swap: &a}
	case JoinPoolPacket:
		return &OsmoPacket{JoinPool: &a}
	case ExitPoolPacket:
		return &OsmoPacket{ExitPool: &a}
	case LockupAccountPacket:
		return &OsmoPacket{LockupAccount: &a}
	case LockPacket:
		return &OsmoPacket{Lock: &a}
	case ClaimPacket:
		return &OsmoPacket{Claim: &a}
	case UnlockPacket:
		return &OsmoPacket{Unlock: &a}
	default:
		return nil
	}
}

// Action returns the single action carried by the packet.
func (p OsmoPacket) Action() (Action, error) {
	var actions []Action
	if p.Swap != nil {
		actions = append(actions, *p.Swap)
	}
	if p.JoinPool != nil {
		actions = append(actions, *p.JoinPool)
	}
	if p.ExitPool != nil {
		actions = append(actions, *p.ExitPool)
	}
	if p.LockupAccount != nil {
		actions = append(actions, *p.LockupAccount)
	}
	if p.Lock != nil {
		actions = append(actions, *p.Lock)
	}
	if p.Claim != nil {
		actions = append(actions, *p.Claim)
	}
	if p.Unlock != nil {
		actions = append(actions, *p.Unlock)
	}
	if len(actions) != 1 {
		return nil, errorsmod.Wrapf(ErrUnknownAction, "expected exactly one action, got %d", len(actions))
	}
	return actions[0], nil
}

// UnmarshalJSON rejects unknown action tags and objects carrying more than
// one action.
func (p *OsmoPacket) UnmarshalJSON(bz []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bz, &raw); err != nil {
		return errorsmod.Wrapf(ErrUnknownAction, "action must be an object: %s", err)
	}
	if len(raw) != 1 {
		return errorsmod.Wrapf(ErrUnknownAction, "expected exactly one action, got %d", len(raw))
	}

	var out OsmoPacket
	for tag, body := range raw {
		var err error
		switch tag {
		case ActionTypeSwap:
			out.Swap = new(SwapPacket)
			err = decodeStrict(body, out.Swap)
		case ActionTypeJoinPool:
			out.JoinPool = new(JoinPoolPacket)
			err = decodeStrict(body, out.JoinPool)
		case ActionTypeExitPool:
			out.ExitPool = new(ExitPoolPacket)
			err = decodeStrict(body, out.ExitPool)
		case ActionTypeLockupAccount:
			out.LockupAccount = new(LockupAccountPacket)
			err = decodeStrict(body, out.LockupAccount)
		case ActionTypeLock:
			out.Lock = new(LockPacket)
			err = decodeStrict(body, out.Lock)
		case ActionTypeClaim:
			out.Claim = new(ClaimPacket)
			err = decodeStrict(body, out.Claim)
		case ActionTypeUnlock:
			out.Unlock = new(UnlockPacket)
			err = decodeStrict(body, out.Unlock)
		default:
			return errorsmod.Wrapf(ErrUnknownAction, "unknown action %q", tag)
		}
		if err != nil {
			return errorsmod.Wrapf(ErrUnknownAction, "malformed %s action: %s", tag, err)
		}
	}

	*p = out
	return nil
}

// Ics20Packet is the ICS20 FungibleTokenPacketData extended with an optional
// action. Without an action it encodes exactly like a plain ICS20 transfer.
type Ics20Packet struct {
	// Amount is encoded as a decimal string and limited to 2^64-1 by Validate
	Amount   math.Uint   `json:"amount"`
	Denom    string      `json:"denom"`
	Receiver string      `json:"receiver"`
	Sender   string      `json:"sender"`
	Action   *OsmoPacket `json:"action,omitempty"`
}

// NewIcs20Packet builds a packet. A nil action yields a plain transfer.
func NewIcs20Packet(amount math.Uint, denom, sender, receiver string, action Action) Ics20Packet {
	packet := Ics20Packet{
		Amount:   amount,
		Denom:    denom,
		Receiver: receiver,
		Sender:   sender,
	}
	if action != nil {
		packet.Action = NewOsmoPacket(action)
	}
	return packet
}

// GetBytes returns the JSON wire encoding of the packet.
func (p Ics20Packet) GetBytes() ([]byte, error) {
	return json.Marshal(p)
}

// GetAction returns the attached action, nil for a plain transfer.
func (p Ics20Packet) GetAction() (Action, error) {
	if p.Action == nil {
		return nil, nil
	}
	return p.Action.Action()
}

// ActionType returns the action tag, or ActionTypeTransfer without action.
func (p Ics20Packet) ActionType() string {
	action, err := p.GetAction()
	if err != nil || action == nil {
		return ActionTypeTransfer
	}
	return action.ActionType()
}

// Validate checks the packet fields and the attached action.
func (p Ics20Packet) Validate() error {
	if err := ValidateTransferAmount(p.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(p.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidPacket, "denom cannot be empty")
	}
	if strings.TrimSpace(p.Sender) == "" {
		return errorsmod.Wrap(ErrInvalidPacket, "sender cannot be empty")
	}
	if strings.TrimSpace(p.Receiver) == "" {
		return errorsmod.Wrap(ErrInvalidPacket, "receiver cannot be empty")
	}
	action, err := p.GetAction()
	if err != nil {
		return err
	}
	if action != nil {
		return action.ValidateBasic()
	}
	return nil
}

// UnmarshalJSON accepts the amount as a decimal string or a JSON number and
// rejects anything wider than 128 bits.
func (p *Ics20Packet) UnmarshalJSON(bz []byte) error {
	var wire struct {
		Amount   json.RawMessage `json:"amount"`
		Denom    string          `json:"denom"`
		Receiver string          `json:"receiver"`
		Sender   string          `json:"sender"`
		Memo     string          `json:"memo"`
		Action   *OsmoPacket     `json:"action"`
	}
	if err := json.Unmarshal(bz, &wire); err != nil {
		return err
	}
	if len(wire.Amount) == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "amount is missing")
	}

	literal := string(wire.Amount)
	if wire.Amount[0] == '"' {
		if err := json.Unmarshal(wire.Amount, &literal); err != nil {
			return errorsmod.Wrapf(ErrInvalidAmount, "amount: %s", err)
		}
	}
	amount, err := ParseAmount(literal)
	if err != nil {
		return err
	}

	*p = Ics20Packet{
		Amount:   amount,
		Denom:    wire.Denom,
		Receiver: wire.Receiver,
		Sender:   wire.Sender,
		Action:   wire.Action,
	}
	return nil
}

// DecodePacket parses packet bytes received from a counterparty.
func DecodePacket(bz []byte) (Ics20Packet, error) {
	var packet Ics20Packet
	if err := json.Unmarshal(bz, &packet); err != nil {
		return Ics20Packet{}, errorsmod.Wrapf(ErrInvalidPacket, "cannot decode packet: %s", err)
	}
	return packet, nil
}

// ActionTypes lists every action tag in sorted order.
func ActionTypes() []string {
	tags := []string{
		ActionTypeSwap,
		ActionTypeJoinPool,
		ActionTypeExitPool,
		ActionTypeLockupAccount,
		ActionTypeLock,
		ActionTypeClaim,
		ActionTypeUnlock,
	}
	sort.Strings(tags)
	return tags
}

func decodeStrict(bz []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
