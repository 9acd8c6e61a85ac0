package app

import (
	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/dispatch"
)

// FilterEventsForChannel narrows the run's new events to the users the
// channel's audience names, preserving input order. An empty result is a
// valid outcome (the channel is skipped downstream), not an error.
func FilterEventsForChannel(cfg dispatch.ChannelConfig, events []availability.Event) []availability.Event {
	audience := cfg.AudienceSet()
	var filtered []availability.Event
	for _, ev := range events {
		if _, ok := audience[ev.UserID]; ok {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}
