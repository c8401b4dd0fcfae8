package types

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// IbcEndpoint identifies one end of a channel.
type IbcEndpoint struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

// ChannelInfo is recorded when a channel finishes its handshake and never
// changes afterwards.
type ChannelInfo struct {
	// ID is the local channel id
	ID string `json:"id"`
	// CounterpartyEndpoint is the remote port and channel
	CounterpartyEndpoint IbcEndpoint `json:"counterparty_endpoint"`
	// ConnectionID is the connection the channel was opened over
	ConnectionID string `json:"connection_id"`
}

// Validate checks the identifiers of the channel info.
func (c ChannelInfo) Validate() error {
	if err := host.ChannelIdentifierValidator(c.ID); err != nil {
		return errorsmod.Wrapf(ErrNoSuchChannel, "invalid channel id %q: %s", c.ID, err)
	}
	if err := host.PortIdentifierValidator(c.CounterpartyEndpoint.PortID); err != nil {
		return errorsmod.Wrapf(ErrNoSuchChannel, "invalid counterparty port %q: %s", c.CounterpartyEndpoint.PortID, err)
	}
	if err := host.ChannelIdentifierValidator(c.CounterpartyEndpoint.ChannelID); err != nil {
		return errorsmod.Wrapf(ErrNoSuchChannel, "invalid counterparty channel %q: %s", c.CounterpartyEndpoint.ChannelID, err)
	}
	if err := host.ConnectionIdentifierValidator(c.ConnectionID); err != nil {
		return errorsmod.Wrapf(ErrNoSuchChannel, "invalid connection id %q: %s", c.ConnectionID, err)
	}
	return nil
}

// ChannelState is the running balance of one denom over one channel.
//
// Outstanding is what is currently escrowed against the counterparty and
// TotalSent only ever grows. Outstanding <= TotalSent always holds.
type ChannelState struct {
	Outstanding math.Uint `json:"outstanding"`
	TotalSent   math.Uint `json:"total_sent"`
}

// NewChannelState returns an empty balance.
func NewChannelState() ChannelState {
	return ChannelState{Outstanding: math.ZeroUint(), TotalSent: math.ZeroUint()}
}

// Increase records a send of amount.
func (s ChannelState) Increase(amount math.Uint) ChannelState {
	return ChannelState{
		Outstanding: s.Outstanding.Add(amount),
		TotalSent:   s.TotalSent.Add(amount),
	}
}

// Reduce releases amount from the outstanding balance. It never clamps: a
// reduction past zero is an accounting violation.
func (s ChannelState) Reduce(amount math.Uint) (ChannelState, error) {
	if s.Outstanding.LT(amount) {
		return s, errorsmod.Wrapf(ErrChannelAccounting,
			"outstanding %s is lower than reduction %s", s.Outstanding, amount)
	}
	return ChannelState{
		Outstanding: s.Outstanding.Sub(amount),
		TotalSent:   s.TotalSent,
	}, nil
}

// Validate checks the balance invariant.
func (s ChannelState) Validate() error {
	if s.Outstanding.IsNil() || s.TotalSent.IsNil() {
		return errorsmod.Wrap(ErrChannelAccounting, "balance fields must be set")
	}
	if s.Outstanding.GT(s.TotalSent) {
		return errorsmod.Wrapf(ErrChannelAccounting,
			"outstanding %s exceeds total sent %s", s.Outstanding, s.TotalSent)
	}
	if s.TotalSent.BigInt().Cmp(new(big.Int).Lsh(big.NewInt(1), maxAmountBits)) >= 0 {
		return errorsmod.Wrapf(ErrAmountOverflow, "total sent %s does not fit in %d bits", s.TotalSent, maxAmountBits)
	}
	return nil
}
