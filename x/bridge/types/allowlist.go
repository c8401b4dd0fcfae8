package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// AllowedInfo is a cw20 contract permitted to be bridged out.
type AllowedInfo struct {
	Contract string `json:"contract"`
	// GasLimit caps the gas of token calls made against the contract
	GasLimit *uint64 `json:"gas_limit,omitempty"`
}

// Validate checks the entry.
func (a AllowedInfo) Validate() error {
	if strings.TrimSpace(a.Contract) == "" {
		return errorsmod.Wrap(ErrInvalidMsg, "contract cannot be empty")
	}
	if a.GasLimit != nil && *a.GasLimit == 0 {
		return errorsmod.Wrap(ErrInvalidMsg, "gas limit cannot be zero")
	}
	return nil
}

// ExternalTokenInfo maps a denom arriving from another chain to the token
// contract that mints its local representation.
type ExternalTokenInfo struct {
	Denom    string `json:"denom"`
	Contract string `json:"contract"`
}

// Validate checks the entry.
func (e ExternalTokenInfo) Validate() error {
	return ExternalTokenMsg(e).Validate()
}
