package types

import (
	"cosmossdk.io/errors"
)

// Bridge module sentinel errors
var (
	ErrInvalidPacket           = errors.Register(ModuleName, 2, "invalid packet")
	ErrAmountOverflow          = errors.Register(ModuleName, 3, "amount overflow")
	ErrInvalidAmount           = errors.Register(ModuleName, 4, "invalid amount")
	ErrUnknownAction           = errors.Register(ModuleName, 5, "unknown action")
	ErrNoSuchChannel           = errors.Register(ModuleName, 6, "no such channel")
	ErrNotOnAllowList          = errors.Register(ModuleName, 7, "token not on allow list")
	ErrNoFunds                 = errors.Register(ModuleName, 8, "no funds sent")
	ErrMultipleDenoms          = errors.Register(ModuleName, 9, "only one denom can be sent")
	ErrUnauthorized            = errors.Register(ModuleName, 10, "unauthorized")
	ErrInvalidAck              = errors.Register(ModuleName, 11, "invalid acknowledgement")
	ErrUnknownPacket           = errors.Register(ModuleName, 12, "unknown packet")
	ErrPacketAlreadyReconciled = errors.Register(ModuleName, 13, "packet already reconciled")
	ErrChannelAccounting       = errors.Register(ModuleName, 14, "channel accounting violation")
	ErrInvalidAction           = errors.Register(ModuleName, 15, "invalid action parameters")
	ErrNoLockup                = errors.Register(ModuleName, 16, "lockup account not created")
	ErrActionFailed            = errors.Register(ModuleName, 17, "action execution failed")
	ErrActionUnavailable       = errors.Register(ModuleName, 18, "action module unavailable")
	ErrInvalidVersion          = errors.Register(ModuleName, 19, "invalid ICS20 version")
	ErrInvalidMsg              = errors.Register(ModuleName, 20, "invalid message")
	ErrInvalidGenesis          = errors.Register(ModuleName, 21, "invalid genesis")
	ErrInvalidDenom            = errors.Register(ModuleName, 22, "invalid denom")
)
