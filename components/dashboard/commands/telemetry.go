package commands

import (
	"context"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// Telemetry allows commands to emit structured events.
type Telemetry = dashboard.Telemetry

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
