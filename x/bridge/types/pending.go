package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// PendingPacket is recorded for every packet sent and removed once its ack or
// timeout is processed. It carries what is needed to refund the sender and to
// decode the acknowledgement of the action.
type PendingPacket struct {
	ChannelID string `json:"channel_id"`
	Sequence  uint64 `json:"sequence,string"`
	// Sender is the local account the escrow is refunded to
	Sender string `json:"sender"`
	Amount Amount `json:"amount"`
	// Action is the action tag, ActionTypeTransfer for plain transfers
	Action string `json:"action"`
}

// Validate checks the record.
func (p PendingPacket) Validate() error {
	if err := validateChannel(p.ChannelID); err != nil {
		return err
	}
	if p.Sequence == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "sequence cannot be zero")
	}
	if strings.TrimSpace(p.Sender) == "" {
		return errorsmod.Wrap(ErrInvalidPacket, "sender cannot be empty")
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	switch p.Action {
	case ActionTypeTransfer, ActionTypeSwap, ActionTypeJoinPool, ActionTypeExitPool,
		ActionTypeLockupAccount, ActionTypeLock, ActionTypeClaim, ActionTypeUnlock:
		return nil
	default:
		return errorsmod.Wrapf(ErrUnknownAction, "unknown action %q", p.Action)
	}
}

// Lockup is the lockup account created for Owner over Channel.
type Lockup struct {
	Channel string `json:"channel"`
	Owner   string `json:"owner"`
	Address string `json:"address"`
}

// Validate checks the record.
func (l Lockup) Validate() error {
	if err := validateChannel(l.Channel); err != nil {
		return err
	}
	if strings.TrimSpace(l.Owner) == "" || strings.TrimSpace(l.Address) == "" {
		return errorsmod.Wrap(ErrInvalidMsg, "lockup owner and address cannot be empty")
	}
	return nil
}
