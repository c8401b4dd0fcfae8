package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

// GetQueryCmd returns the cli query commands for the bridge module. They read
// the module store directly, so they work against any node serving ABCI queries.
func GetQueryCmd() *cobra.Command {
	bridgeQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the bridge module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	bridgeQueryCmd.AddCommand(
		GetCmdQueryConfig(),
		GetCmdQueryAdmin(),
		GetCmdQueryChannel(),
		GetCmdQueryBalance(),
		GetCmdQueryAllowed(),
		GetCmdQueryExternalToken(),
		GetCmdQueryLockup(),
	)

	return bridgeQueryCmd
}

// GetCmdQueryConfig returns the command to query the module config
func GetCmdQueryConfig() *cobra.Command {
	return storeQueryCmd("config", "Query the bridge config", cobra.NoArgs, func([]string) []byte {
		return types.ConfigKey
	})
}

// GetCmdQueryAdmin returns the command to query the current admin
func GetCmdQueryAdmin() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Query the current bridge admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			bz, _, err := clientCtx.QueryStore(types.AdminKey, types.StoreKey)
			if err != nil {
				return err
			}
			out, err := json.Marshal(types.AdminResponse{Admin: string(bz)})
			if err != nil {
				return err
			}
			return clientCtx.PrintRaw(out)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryChannel returns the command to query a registered channel
func GetCmdQueryChannel() *cobra.Command {
	return storeQueryCmd("channel [channel-id]", "Query a channel registered with the bridge", cobra.ExactArgs(1), func(args []string) []byte {
		return types.GetChannelInfoKey(args[0])
	})
}

// GetCmdQueryBalance returns the command to query a (channel, denom) balance
func GetCmdQueryBalance() *cobra.Command {
	return storeQueryCmd("balance [channel-id] [denom]", "Query the outstanding and total sent amounts of a denom on a channel", cobra.ExactArgs(2), func(args []string) []byte {
		return types.GetChannelStateKey(args[0], args[1])
	})
}

// GetCmdQueryAllowed returns the command to query an allowed cw20 contract
func GetCmdQueryAllowed() *cobra.Command {
	return storeQueryCmd("allowed [contract]", "Query the allow-list entry of a cw20 contract", cobra.ExactArgs(1), func(args []string) []byte {
		return types.GetAllowListKey(args[0])
	})
}

// GetCmdQueryExternalToken returns the command to query an allowed external denom
func GetCmdQueryExternalToken() *cobra.Command {
	return storeQueryCmd("external-token [denom]", "Query the cw20 contract registered for an external denom", cobra.ExactArgs(1), func(args []string) []byte {
		return types.GetExternalTokenKey(args[0])
	})
}

// GetCmdQueryLockup returns the command to query the lockup account of an owner
func GetCmdQueryLockup() *cobra.Command {
	return storeQueryCmd("lockup [channel-id] [owner]", "Query the remote lockup account of an owner", cobra.ExactArgs(2), func(args []string) []byte {
		return types.GetLockupKey(args[0], args[1])
	})
}

// storeQueryCmd builds a command printing the JSON value stored under key.
func storeQueryCmd(use, short string, args cobra.PositionalArgs, key func([]string) []byte) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}
			bz, _, err := clientCtx.QueryStore(key(args), types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				return fmt.Errorf("%s: not found", cmd.Name())
			}
			return clientCtx.PrintRaw(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
