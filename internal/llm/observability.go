package llm

import "go.uber.org/zap"

// CallEvent records metadata about a single LLM invocation.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
	Streamed  bool
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver writes call events to a zap logger.
type ZapObserver struct {
	logger *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger.Named("llm")}
}

func (o *ZapObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("task", string(event.Task)),
		zap.String("model", event.Model),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Bool("streamed", event.Streamed),
	}
	if event.Success {
		o.logger.Info("llm call completed", fields...)
		return
	}
	o.logger.Warn("llm call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
