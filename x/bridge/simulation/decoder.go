package simulation

import (
	"bytes"
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// NewDecodeStore returns a decoder function closure that renders the bridge
// KVPair values side by side. Values are JSON documents except for the admin
// address and the resolved packet markers.
func NewDecodeStore() func(kvA, kvB kv.Pair) string {
	return func(kvA, kvB kv.Pair) string {
		switch {
		case bytes.Equal(kvA.Key[:1], types.ConfigKey):
			return fmt.Sprintf("Config A: %s\nConfig B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.AdminKey):
			return fmt.Sprintf("Admin A: %s\nAdmin B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.ChannelInfoKeyPrefix):
			return fmt.Sprintf("Channel A: %s\nChannel B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.ChannelStateKeyPrefix):
			return fmt.Sprintf("Balance A: %s\nBalance B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.AllowListKeyPrefix):
			return fmt.Sprintf("Allowed A: %s\nAllowed B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.ExternalTokenKeyPrefix):
			return fmt.Sprintf("External token A: %s\nExternal token B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.PendingPacketKeyPrefix):
			return fmt.Sprintf("Pending A: %s\nPending B: %s", kvA.Value, kvB.Value)

		case bytes.Equal(kvA.Key[:1], types.ResolvedPacketKeyPrefix):
			return fmt.Sprintf("Resolved A: %t\nResolved B: %t", len(kvA.Value) > 0, len(kvB.Value) > 0)

		case bytes.Equal(kvA.Key[:1], types.LockupKeyPrefix):
			return fmt.Sprintf("Lockup A: %s\nLockup B: %s", kvA.Value, kvB.Value)

		default:
			panic(fmt.Errorf("invalid %s key prefix %X", types.ModuleName, kvA.Key[:1]))
		}
	}
}
