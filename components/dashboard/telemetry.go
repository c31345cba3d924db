package dashboard

import "context"

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function to Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record calls f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// MultiTelemetry fans every event out to each sink in order.
func MultiTelemetry(sinks ...Telemetry) Telemetry {
	var out multiTelemetry
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	if len(out) == 0 {
		return noopTelemetry{}
	}
	return out
}

type multiTelemetry []Telemetry

func (m multiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, sink := range m {
		sink.Record(ctx, event, payload)
	}
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
