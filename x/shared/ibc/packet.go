package ibc

import (
	"encoding/json"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/hashicorp/go-metrics"
)

// MaxAcknowledgementSize bounds the acknowledgements accepted from a
// counterparty.
const MaxAcknowledgementSize = 1024 * 1024

// CapabilityClaimer defines the interface for claiming channel capabilities.
type CapabilityClaimer interface {
	// ClaimCapability claims a channel capability
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// ChannelOpenValidator provides common channel opening validation logic.
type ChannelOpenValidator struct {
	expectedVersion  string
	expectedPort     string
	expectedOrdering channeltypes.Order
	claimer          CapabilityClaimer
	versionErr       error
}

// NewChannelOpenValidator creates a new channel open validator.
func NewChannelOpenValidator(
	version string,
	port string,
	ordering channeltypes.Order,
	claimer CapabilityClaimer,
) *ChannelOpenValidator {
	return &ChannelOpenValidator{
		expectedVersion:  version,
		expectedPort:     port,
		expectedOrdering: ordering,
		claimer:          claimer,
		versionErr:       sdkerrors.ErrInvalidRequest,
	}
}

// WithVersionError sets the error that version mismatches are reported with.
func (cov *ChannelOpenValidator) WithVersionError(err error) *ChannelOpenValidator {
	cov.versionErr = err
	return cov
}

// Version returns the application version channels are negotiated on.
func (cov *ChannelOpenValidator) Version() string {
	return cov.expectedVersion
}

// ValidateChannelOpenInit checks the ordering, version and port of a channel
// this chain opens and claims its capability.
func (cov *ChannelOpenValidator) ValidateChannelOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	version string,
) error {
	if err := cov.validateOrderAndPort(order, portID); err != nil {
		return err
	}
	if version != cov.expectedVersion {
		return errorsmod.Wrapf(cov.versionErr,
			"expected version %s, got %s", cov.expectedVersion, version)
	}
	return cov.claim(ctx, portID, channelID, chanCap)
}

// ValidateChannelOpenTry is ValidateChannelOpenInit for channels opened by
// the counterparty.
func (cov *ChannelOpenValidator) ValidateChannelOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterpartyVersion string,
) error {
	if err := cov.validateOrderAndPort(order, portID); err != nil {
		return err
	}
	if err := cov.ValidateChannelOpenAck(counterpartyVersion); err != nil {
		return err
	}
	return cov.claim(ctx, portID, channelID, chanCap)
}

// ValidateChannelOpenAck validates channel opening acknowledgement.
func (cov *ChannelOpenValidator) ValidateChannelOpenAck(counterpartyVersion string) error {
	if counterpartyVersion != cov.expectedVersion {
		return errorsmod.Wrapf(cov.versionErr,
			"invalid counterparty version: expected %s, got %s", cov.expectedVersion, counterpartyVersion)
	}
	return nil
}

func (cov *ChannelOpenValidator) validateOrderAndPort(order channeltypes.Order, portID string) error {
	if order != cov.expectedOrdering {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", cov.expectedOrdering, order)
	}
	if portID != cov.expectedPort {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", cov.expectedPort, portID)
	}
	return nil
}

func (cov *ChannelOpenValidator) claim(ctx sdk.Context, portID, channelID string, chanCap *capabilitytypes.Capability) error {
	if err := cov.claimer.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}

// AcknowledgementHelper provides common acknowledgement handling logic.
type AcknowledgementHelper struct{}

// NewAcknowledgementHelper creates a new acknowledgement helper.
func NewAcknowledgementHelper() *AcknowledgementHelper {
	return &AcknowledgementHelper{}
}

// ValidateAndUnmarshalAck bounds the size of a JSON acknowledgement and
// decodes it into target.
func (ah *AcknowledgementHelper) ValidateAndUnmarshalAck(acknowledgement []byte, target interface{}) error {
	if len(acknowledgement) > MaxAcknowledgementSize {
		return errorsmod.Wrapf(
			sdkerrors.ErrInvalidRequest,
			"ack too large: %d > %d bytes", len(acknowledgement), MaxAcknowledgementSize)
	}
	if err := json.Unmarshal(acknowledgement, target); err != nil {
		return errorsmod.Wrapf(
			sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}
	return nil
}

// EmitValidationFailure records a packet rejected before it reached
// application logic.
func EmitValidationFailure(ctx sdk.Context, port, channel, reason string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"ibc_packet_validation_failed",
			sdk.NewAttribute("port", port),
			sdk.NewAttribute("channel", channel),
			sdk.NewAttribute("reason", reason),
		),
	)
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "packet_validation_failed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("port", port),
			telemetry.NewLabel("channel", channel),
		},
	)
}

// EventEmitter provides common event emission logic for IBC operations.
type EventEmitter struct{}

// NewEventEmitter creates a new event emitter.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// EmitChannelOpenEvent emits a channel open event.
func (ee *EventEmitter) EmitChannelOpenEvent(
	ctx sdk.Context,
	eventType string,
	channelID string,
	portID string,
	counterpartyPortID string,
	counterpartyChannelID string,
) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("counterparty_port_id", counterpartyPortID),
			sdk.NewAttribute("counterparty_channel_id", counterpartyChannelID),
		),
	)
}

// EmitChannelOpenAckEvent emits a channel open acknowledgement event.
func (ee *EventEmitter) EmitChannelOpenAckEvent(
	ctx sdk.Context,
	eventType string,
	channelID string,
	portID string,
	counterpartyChannelID string,
) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("counterparty_channel_id", counterpartyChannelID),
		),
	)
}

// EmitChannelOpenConfirmEvent emits a channel open confirm event.
func (ee *EventEmitter) EmitChannelOpenConfirmEvent(
	ctx sdk.Context,
	eventType string,
	channelID string,
	portID string,
) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
		),
	)
}

// EmitChannelCloseEvent emits a channel close event with the number of
// packets still awaiting an ack or timeout.
func (ee *EventEmitter) EmitChannelCloseEvent(
	ctx sdk.Context,
	eventType string,
	channelID string,
	portID string,
	pendingCount int,
) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("pending_operations", strconv.Itoa(pendingCount)),
		),
	)
}
