package types

import (
	"math/big"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// maxAmountBits is the width of the on-wire amount field.
const maxAmountBits = 128

// MaxTransferAmount is the largest amount a counterparty chain can represent.
// Amounts are carried at 128-bit width but must not exceed 2^64-1.
var MaxTransferAmount = math.NewUint(^uint64(0))

// NativeAmount is a bank coin held by this chain.
type NativeAmount struct {
	Denom  string    `json:"denom"`
	Amount math.Uint `json:"amount"`
}

// Cw20Amount is a balance of a CW20-style token contract.
type Cw20Amount struct {
	Address string    `json:"address"`
	Amount  math.Uint `json:"amount"`
}

// Amount is either a native coin or a cw20 balance. Exactly one of the
// fields is set.
type Amount struct {
	Native *NativeAmount `json:"native,omitempty"`
	Cw20   *Cw20Amount   `json:"cw20,omitempty"`
}

// NewNativeAmount returns a native Amount.
func NewNativeAmount(denom string, amount math.Uint) Amount {
	return Amount{Native: &NativeAmount{Denom: denom, Amount: amount}}
}

// NewCw20Amount returns a cw20 Amount.
func NewCw20Amount(contract string, amount math.Uint) Amount {
	return Amount{Cw20: &Cw20Amount{Address: contract, Amount: amount}}
}

// AmountFromCoin converts a bank coin. Negative coins are rejected by sdk.Coin
// validation before reaching here.
func AmountFromCoin(coin sdk.Coin) Amount {
	return NewNativeAmount(coin.Denom, math.NewUintFromBigInt(coin.Amount.BigInt()))
}

// AmountFromDenom rebuilds an Amount from the denom form returned by Denom.
func AmountFromDenom(denom string, amount math.Uint) Amount {
	if contract, ok := strings.CutPrefix(denom, Cw20DenomPrefix); ok {
		return NewCw20Amount(contract, amount)
	}
	return NewNativeAmount(denom, amount)
}

// Denom returns the denom used in packets and channel accounting.
func (a Amount) Denom() string {
	switch {
	case a.Native != nil:
		return a.Native.Denom
	case a.Cw20 != nil:
		return Cw20DenomPrefix + a.Cw20.Address
	default:
		return ""
	}
}

// Value returns the raw amount.
func (a Amount) Value() math.Uint {
	switch {
	case a.Native != nil:
		return a.Native.Amount
	case a.Cw20 != nil:
		return a.Cw20.Amount
	default:
		return math.ZeroUint()
	}
}

// IsCw20 reports whether the amount refers to a token contract.
func (a Amount) IsCw20() bool {
	return a.Cw20 != nil
}

// Validate checks the amount is well formed and small enough to be sent.
func (a Amount) Validate() error {
	if (a.Native == nil) == (a.Cw20 == nil) {
		return errorsmod.Wrap(ErrInvalidAmount, "exactly one of native or cw20 must be set")
	}
	if strings.TrimSpace(a.Denom()) == "" || a.Denom() == Cw20DenomPrefix {
		return errorsmod.Wrap(ErrInvalidDenom, "denom cannot be empty")
	}
	return ValidateTransferAmount(a.Value())
}

// Coin converts a native amount into a bank coin.
func (a Amount) Coin() (sdk.Coin, error) {
	if a.Native == nil {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidDenom, "%s is not a native denom", a.Denom())
	}
	return sdk.NewCoin(a.Native.Denom, math.NewIntFromBigInt(a.Native.Amount.BigInt())), nil
}

// ValidateTransferAmount checks a raw amount against the wire limits.
func ValidateTransferAmount(amount math.Uint) error {
	if amount.IsNil() || amount.IsZero() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	if amount.GT(MaxTransferAmount) {
		return errorsmod.Wrapf(ErrAmountOverflow, "%s exceeds %s", amount, MaxTransferAmount)
	}
	return nil
}

// ParseAmount parses a decimal amount limited to 128 bits. Only ASCII digits
// are accepted, so signs and spaces are rejected.
func ParseAmount(s string) (math.Uint, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return math.Uint{}, errorsmod.Wrapf(ErrInvalidAmount, "cannot parse %q as an unsigned integer", s)
	}
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return math.Uint{}, errorsmod.Wrapf(ErrInvalidAmount, "cannot parse %q as an unsigned integer", s)
	}
	if i.BitLen() > maxAmountBits {
		return math.Uint{}, errorsmod.Wrapf(ErrAmountOverflow, "%s does not fit in %d bits", s, maxAmountBits)
	}
	return math.NewUintFromBigInt(i), nil
}
