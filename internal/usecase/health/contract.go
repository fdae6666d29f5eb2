package health

import "context"

// StorePinger checks key-value store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Checker checks an upstream dependency (generation backend, document storage).
type Checker interface {
	HealthCheck(ctx context.Context) error
}
