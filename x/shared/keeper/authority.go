// Package keeper provides shared keeper interfaces and utilities for cross-module communication.
package keeper

import (
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// ValidateAuthority checks that actual is the configured authority. An empty
// expected authority matches nobody, so a role that was never assigned cannot
// be exercised.
//
// Usage example:
//
//	if err := keeper.ValidateAuthority(k.GetAdmin(ctx), sender); err != nil {
//	    return err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected == "" {
		return govtypes.ErrInvalidSigner.Wrap("no authority configured")
	}
	if expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}
