package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

const (
	flagAmount   = "amount"
	flagDenom    = "denom"
	flagSender   = "sender"
	flagReceiver = "receiver"
	flagAction   = "action"
	flagBase64   = "base64"
)

type packetReport struct {
	ActionType string            `json:"action_type"`
	Packet     types.Ics20Packet `json:"packet"`
}

func packetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packet",
		Short: "Encode and decode bridge packets",
	}
	cmd.AddCommand(packetEncodeCmd(), packetDecodeCmd())
	return cmd
}

func packetEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build the packet data a send would emit",
		Example: `bridgectl packet encode --amount 100 --denom uatom --sender cosmos1... --receiver osmo1...
bridgectl packet encode --amount 100 --denom uatom --sender cosmos1... --receiver cosmos1... \
  --action '{"swap":{"routes":[{"pool_id":"1","token_out_denom":"uosmo"}],"token_out_min_amount":"90"}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			rawAmount, _ := cmd.Flags().GetString(flagAmount)
			amount, err := math.ParseUint(rawAmount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
			}
			denom, _ := cmd.Flags().GetString(flagDenom)
			sender, _ := cmd.Flags().GetString(flagSender)
			receiver, _ := cmd.Flags().GetString(flagReceiver)

			var action types.Action
			if rawAction, _ := cmd.Flags().GetString(flagAction); rawAction != "" {
				var wire types.OsmoPacket
				if err := json.Unmarshal([]byte(rawAction), &wire); err != nil {
					return err
				}
				if action, err = wire.Action(); err != nil {
					return err
				}
			}

			packet := types.NewIcs20Packet(amount, denom, sender, receiver, action)
			if err := packet.Validate(); err != nil {
				return err
			}
			bz, err := packet.GetBytes()
			if err != nil {
				return err
			}

			logger(cmd, s).Info("packet encoded", "action", packet.ActionType(), "bytes", len(bz))
			if asBase64, _ := cmd.Flags().GetBool(flagBase64); asBase64 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(bz))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagAmount, "", "amount to send")
	cmd.Flags().String(flagDenom, "", "denom as it appears on the wire")
	cmd.Flags().String(flagSender, "", "sender address")
	cmd.Flags().String(flagReceiver, "", "receiver address")
	cmd.Flags().String(flagAction, "", "optional action JSON")
	cmd.Flags().Bool(flagBase64, false, "print base64 instead of JSON")
	for _, name := range []string{flagAmount, flagDenom, flagSender, flagReceiver} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func packetDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [data]",
		Short: "Decode and validate packet data given as JSON, base64 or - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			bz, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			packet, err := types.DecodePacket(bz)
			if err != nil {
				return err
			}
			if err := packet.Validate(); err != nil {
				return err
			}

			report := packetReport{ActionType: packet.ActionType(), Packet: packet}
			if s.Output == outputText {
				return printFields(cmd,
					[2]string{"action", report.ActionType},
					[2]string{"amount", packet.Amount.String()},
					[2]string{"denom", packet.Denom},
					[2]string{"sender", packet.Sender},
					[2]string{"receiver", packet.Receiver},
				)
			}
			return printJSON(cmd, report)
		},
	}
}

type voucherReport struct {
	Denom    string `json:"denom"`
	OurChain bool   `json:"our_chain"`
}

func voucherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voucher [source-port] [source-channel] [denom]",
		Short: "Resolve the local denom of a packet received from source-port/source-channel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			voucher := types.ParseVoucher(args[0], args[1], args[2])
			if s.Output == outputText {
				return printFields(cmd,
					[2]string{"denom", voucher.Denom},
					[2]string{"our_chain", strconv.FormatBool(voucher.OurChain)},
				)
			}
			return printJSON(cmd, voucherReport{Denom: voucher.Denom, OurChain: voucher.OurChain})
		},
	}
}
