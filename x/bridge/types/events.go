package types

// Event types for the bridge module
const (
	EventTypeChannelOpen        = "bridge_channel_open"
	EventTypeChannelOpenAck     = "bridge_channel_open_ack"
	EventTypeChannelOpenConfirm = "bridge_channel_open_confirm"
	EventTypeChannelClose       = "bridge_channel_close"

	EventTypeTransfer      = "bridge_transfer"
	EventTypeReceive       = "bridge_receive"
	EventTypeActionResult  = "bridge_action_result"
	EventTypeAcknowledge   = "bridge_acknowledge"
	EventTypeTimeout       = "bridge_timeout"
	EventTypeRefund        = "bridge_refund"
	EventTypeLockupCreated = "bridge_lockup_created"

	EventTypeAllow              = "bridge_allow"
	EventTypeAllowExternalToken = "bridge_allow_external_token"
	EventTypeUpdateAdmin        = "bridge_update_admin"
)

// Event attribute keys
const (
	AttributeKeyChannelID             = "channel_id"
	AttributeKeyPortID                = "port_id"
	AttributeKeyCounterpartyPortID    = "counterparty_port_id"
	AttributeKeyCounterpartyChannelID = "counterparty_channel_id"
	AttributeKeySequence              = "sequence"
	AttributeKeySender                = "sender"
	AttributeKeyReceiver              = "receiver"
	AttributeKeyDenom                 = "denom"
	AttributeKeyAmount                = "amount"
	AttributeKeyAction                = "action"
	AttributeKeySuccess               = "success"
	AttributeKeyError                 = "error"
	AttributeKeyOurChain              = "our_chain"
	AttributeKeyContract              = "contract"
	AttributeKeyGasLimit              = "gas_limit"
	AttributeKeyAdmin                 = "admin"
	AttributeKeyAddress               = "address"
	AttributeKeyResult                = "result"
)
