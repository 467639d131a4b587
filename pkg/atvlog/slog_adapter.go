package atvlog

import "log/slog"

// SlogAdapter turns Events into structured log/slog records, used for
// console/operator-facing output. The CBOR file logger (cbor.go) is the one
// that keeps a complete, replayable trace; this adapter is for humans.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger uses slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Log(e Event) {
	attrs := []any{
		slog.String("layer", e.Layer.String()),
		slog.String("conn_id", e.ConnID),
	}

	switch e.Category {
	case CategoryFrame:
		if e.Frame == nil {
			return
		}
		attrs = append(attrs,
			slog.String("direction", e.Direction.String()),
			slog.Int("size", e.Frame.Size),
			slog.Bool("truncated", e.Frame.Truncated),
		)
		a.logger.Debug("frame", attrs...)
	case CategoryStateChange:
		if e.StateChange == nil {
			return
		}
		attrs = append(attrs,
			slog.String("from", e.StateChange.From),
			slog.String("to", e.StateChange.To),
		)
		a.logger.Info("state change", attrs...)
	case CategoryError:
		if e.Error == nil {
			return
		}
		attrs = append(attrs, slog.String("message", e.Error.Message))
		a.logger.Warn("error", attrs...)
	}
}
