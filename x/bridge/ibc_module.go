package bridge

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	"github.com/giansalex/cw-osmo-swap/x/bridge/keeper"
	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
	sharedibc "github.com/giansalex/cw-osmo-swap/x/shared/ibc"
)

var (
	_ porttypes.IBCModule = (*IBCModule)(nil)
)

// IBCModule implements the ICS26 interface for the bridge. Channels speak
// ics20-1 over unordered channels, so the counterparty can be a plain ICS20
// transfer module as long as no action is attached.
type IBCModule struct {
	keeper    *keeper.Keeper
	validator *sharedibc.ChannelOpenValidator
	events    *sharedibc.EventEmitter
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k *keeper.Keeper) IBCModule {
	return IBCModule{
		keeper: k,
		validator: sharedibc.NewChannelOpenValidator(
			types.Version,
			types.PortID,
			channeltypes.UNORDERED,
			k,
		).WithVersionError(types.ErrInvalidVersion),
		events: sharedibc.NewEventEmitter(),
	}
}

// OnChanOpenInit implements the IBCModule interface. An empty version is
// negotiated to ics20-1.
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	if version == "" {
		version = im.validator.Version()
	}
	if err := im.validator.ValidateChannelOpenInit(ctx, order, portID, channelID, chanCap, version); err != nil {
		return "", err
	}

	im.events.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty.PortId, counterparty.ChannelId)
	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	if err := im.validator.ValidateChannelOpenTry(ctx, order, portID, channelID, chanCap, counterpartyVersion); err != nil {
		return "", err
	}

	im.events.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty.PortId, counterparty.ChannelId)
	return types.Version, nil
}

// OnChanOpenAck implements the IBCModule interface. The channel becomes usable
// for transfers from here on.
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.validator.ValidateChannelOpenAck(counterpartyVersion); err != nil {
		return err
	}
	if _, err := im.keeper.RegisterChannel(ctx, portID, channelID, counterpartyChannelID); err != nil {
		return err
	}

	im.events.EmitChannelOpenAckEvent(ctx, types.EventTypeChannelOpenAck, channelID, portID, counterpartyChannelID)
	return nil
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	if _, err := im.keeper.RegisterChannel(ctx, portID, channelID, ""); err != nil {
		return err
	}

	im.events.EmitChannelOpenConfirmEvent(ctx, types.EventTypeChannelOpenConfirm, channelID, portID)
	return nil
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	// escrowed funds would be stranded
	return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "user cannot close channel")
}

// OnChanCloseConfirm implements the IBCModule interface. Packets still in
// flight are refunded through their timeouts.
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	pending := im.keeper.CountPendingPackets(ctx, channelID)
	if pending > 0 {
		im.keeper.Logger(ctx).Info("bridge channel closed with packets in flight",
			"channel", channelID,
			"pending", pending,
		)
	}

	im.events.EmitChannelCloseEvent(ctx, types.EventTypeChannelClose, channelID, portID, pending)
	return nil
}

// OnRecvPacket implements the IBCModule interface
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	return im.keeper.OnRecvPacket(ctx, packet)
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	return im.keeper.OnAcknowledgementPacket(ctx, packet, acknowledgement)
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	return im.keeper.OnTimeoutPacket(ctx, packet)
}
