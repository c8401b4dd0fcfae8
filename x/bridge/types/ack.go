package types

import (
	"encoding/json"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

var (
	_ ibcexported.Acknowledgement = Ics20Ack{}
	_ ibcexported.Acknowledgement = ReceiveAcknowledgement{}
)

// SwapAmountInAck reports the tokens produced by a swap, pool join, pool exit
// or claim.
type SwapAmountInAck struct {
	Amount math.Uint `json:"amount"`
	Denom  string    `json:"denom"`
}

// CreateLockupAck reports the address of a newly created lockup account.
type CreateLockupAck struct {
	Contract string `json:"contract"`
}

// LockResultAck reports the id of a new lock.
type LockResultAck struct {
	LockID uint64 `json:"lock_id,string"`
}

// UnLockResultAck reports when an unlock completes.
type UnLockResultAck struct {
	// EndTime is in nanoseconds since the unix epoch
	EndTime uint64 `json:"end_time,string"`
}

// NewUnLockResultAck converts an unlock completion time.
func NewUnLockResultAck(endTime time.Time) UnLockResultAck {
	return UnLockResultAck{EndTime: uint64(endTime.UnixNano())}
}

// Time returns the unlock completion time.
func (a UnLockResultAck) Time() time.Time {
	return time.Unix(0, int64(a.EndTime)).UTC()
}

// Ics20Ack is the acknowledgement envelope: {"result": <base64>} on success,
// {"error": <message>} on failure.
type Ics20Ack struct {
	Result []byte
	Error  string
}

// NewResultAck returns a successful acknowledgement with a raw payload.
func NewResultAck(result []byte) Ics20Ack {
	if result == nil {
		result = []byte{}
	}
	return Ics20Ack{Result: result}
}

// NewResultAckFor JSON encodes a typed payload into a success acknowledgement.
func NewResultAckFor(payload interface{}) (Ics20Ack, error) {
	bz, err := json.Marshal(payload)
	if err != nil {
		return Ics20Ack{}, errorsmod.Wrapf(ErrInvalidAck, "cannot encode result: %s", err)
	}
	return NewResultAck(bz), nil
}

// NewErrorAck returns a failed acknowledgement carrying the error message.
func NewErrorAck(err error) Ics20Ack {
	msg := "unknown error"
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		msg = err.Error()
	}
	return Ics20Ack{Error: msg}
}

// IsError reports whether the acknowledgement carries an error.
func (a Ics20Ack) IsError() bool {
	return a.Error != ""
}

// Success implements ibcexported.Acknowledgement.
func (a Ics20Ack) Success() bool {
	return !a.IsError()
}

// Acknowledgement implements ibcexported.Acknowledgement.
func (a Ics20Ack) Acknowledgement() []byte {
	bz, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return bz
}

// DecodeResult unmarshals the success payload into target.
func (a Ics20Ack) DecodeResult(target interface{}) error {
	if a.IsError() {
		return errorsmod.Wrap(ErrInvalidAck, "acknowledgement is an error")
	}
	if err := json.Unmarshal(a.Result, target); err != nil {
		return errorsmod.Wrapf(ErrInvalidAck, "cannot decode result: %s", err)
	}
	return nil
}

func (a Ics20Ack) MarshalJSON() ([]byte, error) {
	if a.IsError() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{a.Error})
	}
	result := a.Result
	if result == nil {
		result = []byte{}
	}
	return json.Marshal(struct {
		Result []byte `json:"result"`
	}{result})
}

func (a *Ics20Ack) UnmarshalJSON(bz []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return errorsmod.Wrapf(ErrInvalidAck, "expected exactly one of result or error, got %d keys", len(raw))
	}
	if body, ok := raw["result"]; ok {
		var result []byte
		if err := json.Unmarshal(body, &result); err != nil {
			return errorsmod.Wrapf(ErrInvalidAck, "result: %s", err)
		}
		*a = NewResultAck(result)
		return nil
	}
	if body, ok := raw["error"]; ok {
		var msg string
		if err := json.Unmarshal(body, &msg); err != nil {
			return errorsmod.Wrapf(ErrInvalidAck, "error: %s", err)
		}
		if msg == "" {
			msg = "unknown error"
		}
		*a = Ics20Ack{Error: msg}
		return nil
	}
	return errorsmod.Wrap(ErrInvalidAck, "expected result or error")
}

// DecodeAck parses acknowledgement bytes written by a counterparty.
func DecodeAck(bz []byte) (Ics20Ack, error) {
	var ack Ics20Ack
	if err := json.Unmarshal(bz, &ack); err != nil {
		return Ics20Ack{}, errorsmod.Wrapf(ErrInvalidAck, "cannot decode acknowledgement: %s", err)
	}
	return ack, nil
}

// ReceiveAcknowledgement is what the bridge hands back to IBC core on packet
// receipt. Commit decides whether the receive writes are persisted, which
// differs from Ack.Success when the base transfer settled but the attached
// action failed.
type ReceiveAcknowledgement struct {
	Ack    Ics20Ack
	Commit bool
}

// Success implements ibcexported.Acknowledgement.
func (r ReceiveAcknowledgement) Success() bool {
	return r.Commit
}

// Acknowledgement implements ibcexported.Acknowledgement.
func (r ReceiveAcknowledgement) Acknowledgement() []byte {
	return r.Ack.Acknowledgement()
}
