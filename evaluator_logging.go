package param

import "time"

// EvalEvent describes one dynamic-default evaluation for logging.
type EvalEvent struct {
	Engine   string
	Expr     string
	Field    string
	Duration time.Duration
	Err      error
}

// EvalLogger records evaluator events.
type EvalLogger interface {
	LogEvaluation(EvalEvent)
}

// EvalLoggerFunc adapts a function to EvalLogger.
type EvalLoggerFunc func(EvalEvent)

// LogEvaluation implements EvalLogger.
func (f EvalLoggerFunc) LogEvaluation(event EvalEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvalLogger struct{}

func (noopEvalLogger) LogEvaluation(EvalEvent) {}
