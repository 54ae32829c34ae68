package domain

import "context"

// ProcessorPort runs the full pipeline
type ProcessorPort interface {
	Process(ctx context.Context, in ProcessInput) (Result, error)
	Batch(ctx context.Context, texts []string) ([]Result, error)
}

// InspectorPort runs one pipeline stage at a time
type InspectorPort interface {
	Language(ctx context.Context, text string) (Detection, error)
	Intent(ctx context.Context, text string) (Match, error)
	Entities(ctx context.Context, text string) (Entities, error)
	Split(ctx context.Context, text string) ([]string, error)
	Rules(ctx context.Context) (RulesView, error)
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	ProcessorPort
	InspectorPort
}

// Sink receives every processed utterance; failures never reach the caller
type Sink interface {
	Observe(ctx context.Context, o Observation) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, o Observation) error

// Observe calls f
func (f SinkFunc) Observe(ctx context.Context, o Observation) error { return f(ctx, o) }

// Named pairs a sink with a name for logs
type Named struct {
	Name string
	Sink Sink
}
