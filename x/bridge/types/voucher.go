package types

import (
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
)

// Voucher is the denom of an incoming packet resolved against the channel
// it arrived on. It is never stored.
type Voucher struct {
	// Denom is the local denom: the unprefixed denom when OurChain is set,
	// the denom exactly as sent otherwise
	Denom string
	// OurChain is set when the token originated on this chain and is returning
	OurChain bool
}

// ParseVoucher resolves the denom of a packet received from
// sourcePort/sourceChannel. A token we sent out comes back prefixed with the
// counterparty's end of the channel.
func ParseVoucher(sourcePort, sourceChannel, denom string) Voucher {
	if transfertypes.ReceiverChainIsSource(sourcePort, sourceChannel, denom) {
		prefix := transfertypes.GetDenomPrefix(sourcePort, sourceChannel)
		return Voucher{Denom: denom[len(prefix):], OurChain: true}
	}
	return Voucher{Denom: denom, OurChain: false}
}
