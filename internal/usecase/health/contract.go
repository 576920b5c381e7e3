package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CheckFunc checks one optional component, such as the sequence backend.
type CheckFunc func(ctx context.Context) error
