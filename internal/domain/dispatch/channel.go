package dispatch

import (
	"context"
	"strings"

	"availability_notification_bot/internal/domain/availability"
)

// ChannelKind selects the delivery mechanism for a channel.
type ChannelKind string

const (
	ChannelDiscord  ChannelKind = "discord"
	ChannelTelegram ChannelKind = "telegram"
)

// ChannelConfig is one outbound notification target from the webhooks
// config file. It is read-only to the pipeline.
type ChannelConfig struct {
	Description string
	Disabled    bool
	Kind        ChannelKind

	// WebhookURL is set for discord channels, ChatID for telegram channels.
	WebhookURL string
	ChatID     int64

	// Audience holds raw config entries of the form "<userId> <comment>";
	// only the leading token is the identity.
	Audience []string
}

// AudienceIDs parses the configured audience entries into user IDs. The
// trailing free-text comment after the first whitespace is discarded, and
// entries with no leading token contribute nothing.
func (c ChannelConfig) AudienceIDs() []availability.UserID {
	ids := make([]availability.UserID, 0, len(c.Audience))
	for _, entry := range c.Audience {
		token, _, _ := strings.Cut(entry, " ")
		if token == "" {
			continue
		}
		ids = append(ids, availability.UserID(token))
	}
	return ids
}

// AudienceSet returns the parsed audience as a membership set.
func (c ChannelConfig) AudienceSet() map[availability.UserID]struct{} {
	set := make(map[availability.UserID]struct{})
	for _, id := range c.AudienceIDs() {
		set[id] = struct{}{}
	}
	return set
}

// Sender delivers one already-formatted message body to a single channel
// destination. Implementations own transport-specific retries and payload
// shape; the pipeline only sees success or an error.
type Sender interface {
	Send(ctx context.Context, ch ChannelConfig, body string) error
}
