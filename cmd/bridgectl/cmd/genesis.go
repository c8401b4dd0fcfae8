package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

func genesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Build and check bridge genesis state",
	}
	cmd.AddCommand(genesisDefaultCmd(), genesisValidateCmd())
	return cmd
}

func genesisDefaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print the default bridge genesis",
		Long: `Print the default bridge genesis. The default timeout and initial admin can be
set by flag, by BRIDGE_DEFAULT_TIMEOUT / BRIDGE_GOV_CONTRACT or in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			gs := types.DefaultGenesis()
			if s.DefaultTimeout != 0 {
				gs.Config.DefaultTimeout = s.DefaultTimeout
			}
			if s.GovContract != "" {
				gs.Config.GovContract = s.GovContract
				gs.Admin = s.GovContract
			}
			if err := gs.Validate(); err != nil {
				return err
			}
			return printJSON(cmd, gs)
		},
	}
	cmd.Flags().Uint64(flagDefaultTimeout, types.DefaultTimeoutSeconds, "default packet timeout in seconds")
	cmd.Flags().String(flagGovContract, "", "initial admin, the gov module account when empty")
	return cmd
}

func genesisValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a bridge genesis or an application genesis carrying one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			gs, err := readGenesis(args[0])
			if err != nil {
				return err
			}
			if err := gs.Validate(); err != nil {
				return fmt.Errorf("invalid %s genesis: %w", types.ModuleName, err)
			}

			logger(cmd, s).Info("genesis valid",
				"channels", len(gs.Channels),
				"pending_packets", len(gs.PendingPackets),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s genesis is valid\n", types.ModuleName)
			return err
		},
	}
}
