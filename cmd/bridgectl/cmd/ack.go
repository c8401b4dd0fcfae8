package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

type ackReport struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

func ackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ack",
		Short: "Build and inspect acknowledgements",
	}
	cmd.AddCommand(ackDecodeCmd(), ackResultCmd(), ackErrorCmd())
	return cmd
}

func ackDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [ack]",
		Short: "Decode an acknowledgement given as JSON, base64 or - for stdin",
		Long: `Decode an acknowledgement envelope. With --action the result payload is
decoded as the result of that action.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			bz, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			ack, err := types.DecodeAck(bz)
			if err != nil {
				return err
			}

			report := ackReport{Success: ack.Success(), Error: ack.Error}
			if ack.Success() && len(ack.Result) > 0 {
				action, _ := cmd.Flags().GetString(flagAction)
				if report.Result, err = decodeResult(ack, action); err != nil {
					return err
				}
			}

			if s.Output == outputText {
				fields := [][2]string{{"success", strconv.FormatBool(report.Success)}}
				if report.Error != "" {
					fields = append(fields, [2]string{"error", report.Error})
				}
				if report.Result != nil {
					fields = append(fields, [2]string{"result", string(report.Result)})
				}
				return printFields(cmd, fields...)
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().String(flagAction, "", "action the packet carried")
	return cmd
}

// decodeResult renders a result payload, typed when the action is known.
func decodeResult(ack types.Ics20Ack, action string) (json.RawMessage, error) {
	var target interface{}
	switch action {
	case "":
		if json.Valid(ack.Result) {
			return json.RawMessage(ack.Result), nil
		}
		return json.Marshal(string(ack.Result))
	case types.ActionTypeTransfer:
		return nil, nil
	case types.ActionTypeSwap, types.ActionTypeJoinPool, types.ActionTypeExitPool, types.ActionTypeClaim:
		target = &types.SwapAmountInAck{}
	case types.ActionTypeLockupAccount:
		target = &types.CreateLockupAck{}
	case types.ActionTypeLock:
		target = &types.LockResultAck{}
	case types.ActionTypeUnlock:
		target = &types.UnLockResultAck{}
	default:
		return nil, fmt.Errorf("unknown action %q, expected one of %v", action, types.ActionTypes())
	}

	if err := ack.DecodeResult(target); err != nil {
		return nil, err
	}
	return json.Marshal(target)
}

func ackResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result [payload]",
		Short: "Build a success acknowledgement carrying a JSON payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 1 {
				if !json.Valid([]byte(args[0])) {
					return fmt.Errorf("payload is not valid JSON")
				}
				payload = []byte(args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(types.NewResultAck(payload).Acknowledgement()))
			return err
		},
	}
}

func ackErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "error [message]",
		Short: "Build an error acknowledgement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack := types.Ics20Ack{Error: args[0]}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(ack.Acknowledgement()))
			return err
		},
	}
}
