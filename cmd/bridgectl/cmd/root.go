package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

const (
	envPrefix = "BRIDGE"

	flagConfig         = "config"
	flagOutput         = "output"
	flagVerbose        = "verbose"
	flagDefaultTimeout = "default-timeout"
	flagGovContract    = "gov-contract"

	outputJSON = "json"
	outputText = "text"
)

// settings are the options resolved from flags, BRIDGE_* environment
// variables and the optional config file, in that order of precedence.
type settings struct {
	Output         string
	Verbose        bool
	DefaultTimeout uint64
	GovContract    string
}

// NewRootCmd creates the bridgectl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bridgectl",
		Short: "Offline tooling for the bridge module",
		Long: `bridgectl encodes and inspects bridge packets and acknowledgements and
builds or checks bridge genesis state. It never talks to a node.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (toml, yaml or json)")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", outputJSON, "output format (json|text)")
	rootCmd.PersistentFlags().Bool(flagVerbose, false, "log resolved settings to stderr")

	rootCmd.AddCommand(
		packetCmd(),
		ackCmd(),
		voucherCmd(),
		genesisCmd(),
	)
	return rootCmd
}

// newViper layers BRIDGE_* environment variables and the config file named
// by --config under the flags in fs.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return v, nil
}

// loadSettings resolves the settings visible to cmd.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return settings{}, err
	}

	timeout, err := cast.ToUint64E(v.Get(flagDefaultTimeout))
	if err != nil {
		return settings{}, fmt.Errorf("invalid %s: %w", flagDefaultTimeout, err)
	}
	verbose, err := cast.ToBoolE(v.Get(flagVerbose))
	if err != nil {
		return settings{}, fmt.Errorf("invalid %s: %w", flagVerbose, err)
	}

	s := settings{
		Output:         strings.ToLower(cast.ToString(v.Get(flagOutput))),
		Verbose:        verbose,
		DefaultTimeout: timeout,
		GovContract:    cast.ToString(v.Get(flagGovContract)),
	}
	switch s.Output {
	case "":
		s.Output = outputJSON
	case outputJSON, outputText:
	default:
		return settings{}, fmt.Errorf("unknown output format %q", s.Output)
	}

	logger(cmd, s).Info("settings resolved",
		"output", s.Output,
		"default_timeout", s.DefaultTimeout,
		"config", v.ConfigFileUsed(),
	)
	return s, nil
}

func logger(cmd *cobra.Command, s settings) log.Logger {
	if !s.Verbose {
		return log.NewNopLogger()
	}
	return log.NewLogger(cmd.ErrOrStderr()).With("module", "bridgectl")
}

// readInput returns the bytes behind an argument: stdin for "-", the argument
// itself when it is JSON, base64 otherwise.
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		bz, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		arg = string(bz)
	}

	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "{") {
		return []byte(arg), nil
	}
	bz, err := base64.StdEncoding.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("input is neither JSON nor base64: %w", err)
	}
	return bz, nil
}

// printJSON writes v indented.
func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// printFields writes key: value lines in the order given.
func printFields(cmd *cobra.Command, fields ...[2]string) error {
	for _, f := range fields {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

// readGenesis loads either a bare bridge genesis or a full application
// genesis carrying it under app_state.
func readGenesis(path string) (*types.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		AppState map[string]json.RawMessage `json:"app_state"`
	}
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.AppState != nil {
		raw, ok := doc.AppState[types.ModuleName]
		if !ok {
			return nil, fmt.Errorf("%s has no %s app state", path, types.ModuleName)
		}
		bz = raw
	}

	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse %s genesis: %w", types.ModuleName, err)
	}
	return &gs, nil
}
