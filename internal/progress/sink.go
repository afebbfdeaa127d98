package progress

import "go.uber.org/zap"

// Emitter publishes individual events; emitters must never block the run.
type Emitter interface {
	Emit(evt Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(Event) {}

// LogSink emits structured logs for each progress event. Invalid events are
// logged at warn level instead of being dropped silently.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the emitter interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Emit logs the event using structured fields.
func (s *LogSink) Emit(evt Event) {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID.String()),
		zap.String("stage", string(evt.Stage)),
		zap.String("source", evt.Source),
		zap.String("url", evt.URL),
		zap.Int("count", evt.Count),
		zap.String("note", evt.Note),
	}
	if err := evt.Validate(); err != nil {
		s.logger.Warn("invalid progress event", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("progress event", fields...)
}
