package heartbeat

import "context"

// Status is the liveness state pushed with each heartbeat.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Notifier pushes one liveness signal per run to the monitoring endpoint.
// This is the sole externally observable failure signal of the bot; a send
// error must never fail the run itself.
type Notifier interface {
	Send(ctx context.Context, status Status, msg string) error
}
