package telemetry

import "log/slog"

// TransitionRecord is one state change as written to transitions.csv.
type TransitionRecord struct {
	Tick       int64   `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`
	From       string  `csv:"from"`
	To         string  `csv:"to"`
	Reason     string  `csv:"reason"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r TransitionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", r.Tick),
		slog.Float64("sim_time", r.SimTimeSec),
		slog.String("from", r.From),
		slog.String("to", r.To),
		slog.String("reason", r.Reason),
	)
}
