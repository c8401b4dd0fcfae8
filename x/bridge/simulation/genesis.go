package simulation

import (
	"encoding/json"
	"math/rand"

	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// RandomizedGenState generates a bridge genesis with a random default timeout.
// Channels only appear once simulated relayers open them.
func RandomizedGenState(simState *module.SimulationState) {
	genesis := types.DefaultGenesis()
	genesis.Config.DefaultTimeout = randomTimeout(simState.Rand)

	bz, err := json.Marshal(genesis)
	if err != nil {
		panic(err)
	}
	simState.GenState[types.ModuleName] = bz
}

// randomTimeout is between one minute and one day, in seconds.
func randomTimeout(r *rand.Rand) uint64 {
	return uint64(60 + r.Intn(24*60*60-60))
}
