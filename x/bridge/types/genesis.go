package types

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// Config holds the module settings fixed at genesis.
type Config struct {
	// DefaultTimeout is applied, in seconds, to sends without a timeout
	DefaultTimeout uint64 `json:"default_timeout"`
	// GovContract is the initial admin
	GovContract string `json:"gov_contract"`
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.DefaultTimeout == 0 {
		return fmt.Errorf("default timeout must be positive")
	}
	if strings.TrimSpace(c.GovContract) == "" {
		return fmt.Errorf("gov contract cannot be empty")
	}
	return nil
}

// ChannelStateEntry is a (channel, denom) balance in genesis.
type ChannelStateEntry struct {
	ChannelID string       `json:"channel_id"`
	Denom     string       `json:"denom"`
	State     ChannelState `json:"state"`
}

// GenesisState is the bridge state exported and imported at genesis.
type GenesisState struct {
	Config         Config              `json:"config"`
	Admin          string              `json:"admin"`
	Allowlist      []AllowedInfo       `json:"allowlist"`
	ExternalTokens []ExternalTokenInfo `json:"external_tokens"`
	Channels       []ChannelInfo       `json:"channels"`
	ChannelStates  []ChannelStateEntry `json:"channel_states"`
	PendingPackets []PendingPacket     `json:"pending_packets"`
	Lockups        []Lockup            `json:"lockups"`
}

// DefaultConfig uses the governance module account as the initial admin.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: DefaultTimeoutSeconds,
		GovContract:    authtypes.NewModuleAddress(govtypes.ModuleName).String(),
	}
}

// DefaultGenesis returns the default genesis state for the bridge module.
func DefaultGenesis() *GenesisState {
	cfg := DefaultConfig()
	return &GenesisState{
		Config:         cfg,
		Admin:          cfg.GovContract,
		Allowlist:      []AllowedInfo{},
		ExternalTokens: []ExternalTokenInfo{},
		Channels:       []ChannelInfo{},
		ChannelStates:  []ChannelStateEntry{},
		PendingPackets: []PendingPacket{},
		Lockups:        []Lockup{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(gs.Admin) == "" {
		return fmt.Errorf("admin cannot be empty")
	}

	seen := make(map[string]struct{})
	for _, entry := range gs.Allowlist {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("allowlist: %w", err)
		}
		if _, dup := seen[entry.Contract]; dup {
			return fmt.Errorf("duplicate allowed contract %s", entry.Contract)
		}
		seen[entry.Contract] = struct{}{}
	}

	seen = make(map[string]struct{})
	for _, token := range gs.ExternalTokens {
		if err := token.Validate(); err != nil {
			return fmt.Errorf("external tokens: %w", err)
		}
		if _, dup := seen[token.Denom]; dup {
			return fmt.Errorf("duplicate external token %s", token.Denom)
		}
		seen[token.Denom] = struct{}{}
	}

	channels := make(map[string]struct{})
	for _, info := range gs.Channels {
		if err := info.Validate(); err != nil {
			return fmt.Errorf("channels: %w", err)
		}
		if _, dup := channels[info.ID]; dup {
			return fmt.Errorf("duplicate channel %s", info.ID)
		}
		channels[info.ID] = struct{}{}
	}

	seen = make(map[string]struct{})
	for _, entry := range gs.ChannelStates {
		if _, ok := channels[entry.ChannelID]; !ok {
			return fmt.Errorf("balance for unknown channel %s", entry.ChannelID)
		}
		if strings.TrimSpace(entry.Denom) == "" {
			return fmt.Errorf("balance on %s has an empty denom", entry.ChannelID)
		}
		if err := entry.State.Validate(); err != nil {
			return fmt.Errorf("balance %s/%s: %w", entry.ChannelID, entry.Denom, err)
		}
		key := entry.ChannelID + "/" + entry.Denom
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate balance %s", key)
		}
		seen[key] = struct{}{}
	}

	inFlight := make(map[string]math.Uint)
	seen = make(map[string]struct{})
	for _, pending := range gs.PendingPackets {
		if _, ok := channels[pending.ChannelID]; !ok {
			return fmt.Errorf("pending packet on unknown channel %s", pending.ChannelID)
		}
		if err := pending.Validate(); err != nil {
			return fmt.Errorf("pending packets: %w", err)
		}
		key := fmt.Sprintf("%s/%d", pending.ChannelID, pending.Sequence)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate pending packet %s", key)
		}
		seen[key] = struct{}{}

		balanceKey := pending.ChannelID + "/" + pending.Amount.Denom()
		sum, ok := inFlight[balanceKey]
		if !ok {
			sum = math.ZeroUint()
		}
		inFlight[balanceKey] = sum.Add(pending.Amount.Value())
	}

	// every outstanding balance is exactly what its pending packets carry
	for _, entry := range gs.ChannelStates {
		key := entry.ChannelID + "/" + entry.Denom
		sum, ok := inFlight[key]
		if !ok {
			sum = math.ZeroUint()
		}
		if !sum.Equal(entry.State.Outstanding) {
			return fmt.Errorf("balance %s: outstanding %s does not match pending packets %s", key, entry.State.Outstanding, sum)
		}
		delete(inFlight, key)
	}
	for key, sum := range inFlight {
		return fmt.Errorf("pending packets %s carry %s without a balance entry", key, sum)
	}

	for _, lockup := range gs.Lockups {
		if err := lockup.Validate(); err != nil {
			return fmt.Errorf("lockups: %w", err)
		}
	}
	return nil
}
