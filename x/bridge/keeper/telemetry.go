package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	coretypes "github.com/cosmos/ibc-go/v8/modules/core/types"
	"github.com/hashicorp/go-metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/giansalex/cw-osmo-swap/x/bridge/types"
)

const tracerName = "x/" + types.ModuleName

// startPacketSpan starts a span for one packet callback.
func startPacketSpan(ctx context.Context, operation, port, channel string, sequence uint64) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ibc.bridge."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("ibc.port", port),
			attribute.String("ibc.channel", channel),
			attribute.Int64("ibc.sequence", int64(sequence)),
		),
	)
}

// endSpan records err, if any, and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	} else {
		span.SetStatus(otelcodes.Ok, "")
	}
	span.End()
}

func reportSend(destinationPort, destinationChannel, denom, action string, amount math.Uint) {
	if amount.BigInt().IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"tx", "msg", "ibc", types.ModuleName},
			float32(amount.BigInt().Int64()),
			[]metrics.Label{telemetry.NewLabel(coretypes.LabelDenom, denom)},
		)
	}
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "send"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coretypes.LabelDestinationPort, destinationPort),
			telemetry.NewLabel(coretypes.LabelDestinationChannel, destinationChannel),
			telemetry.NewLabel("action", action),
		},
	)
}

func reportReceive(sourcePort, sourceChannel, denom, action string, ourChain bool, amount math.Uint) {
	if amount.BigInt().IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"ibc", types.ModuleName, "packet", "receive"},
			float32(amount.BigInt().Int64()),
			[]metrics.Label{telemetry.NewLabel(coretypes.LabelDenom, denom)},
		)
	}
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "receive"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coretypes.LabelSourcePort, sourcePort),
			telemetry.NewLabel(coretypes.LabelSourceChannel, sourceChannel),
			telemetry.NewLabel(coretypes.LabelSource, strconv.FormatBool(ourChain)),
			telemetry.NewLabel("action", action),
		},
	)
}

func reportReconcile(kind, channel, action string) {
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, kind},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coretypes.LabelSourceChannel, channel),
			telemetry.NewLabel("action", action),
		},
	)
}
