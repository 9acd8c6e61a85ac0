package config

import (
	"encoding/json"
	"fmt"
	"os"

	"availability_notification_bot/internal/domain/dispatch"
)

// webhooksFile mirrors the on-disk webhooks.json shape. The "$schema" key
// from the original config files is tolerated and ignored.
type webhooksFile struct {
	Schema   string                 `json:"$schema"`
	Discord  []discordWebhookEntry  `json:"discord"`
	Telegram []telegramChannelEntry `json:"telegram"`
}

type discordWebhookEntry struct {
	Description string        `json:"description"`
	Disabled    bool          `json:"disabled"`
	URL         string        `json:"url"`
	Filter      channelFilter `json:"filter"`
}

type telegramChannelEntry struct {
	Description string        `json:"description"`
	Disabled    bool          `json:"disabled"`
	ChatID      int64         `json:"chatId"`
	Filter      channelFilter `json:"filter"`
}

type channelFilter struct {
	UserIDs []string `json:"userIds"`
}

// LoadChannels reads and validates the webhooks config file into the ordered
// channel list (discord entries first, then telegram, each in file order).
// A missing or invalid file is a hard startup failure; the pipeline must not
// run with unknown channel configuration.
func LoadChannels(path string) ([]dispatch.ChannelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s is not configured yet: %w", path, err)
	}

	var file webhooksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	channels := make([]dispatch.ChannelConfig, 0, len(file.Discord)+len(file.Telegram))
	for i, entry := range file.Discord {
		if entry.Description == "" {
			return nil, fmt.Errorf("discord webhook #%d in %s has no description", i, path)
		}
		if entry.URL == "" {
			return nil, fmt.Errorf("discord webhook %q in %s has no url", entry.Description, path)
		}
		channels = append(channels, dispatch.ChannelConfig{
			Description: entry.Description,
			Disabled:    entry.Disabled,
			Kind:        dispatch.ChannelDiscord,
			WebhookURL:  entry.URL,
			Audience:    entry.Filter.UserIDs,
		})
	}
	for i, entry := range file.Telegram {
		if entry.Description == "" {
			return nil, fmt.Errorf("telegram channel #%d in %s has no description", i, path)
		}
		if entry.ChatID == 0 {
			return nil, fmt.Errorf("telegram channel %q in %s has no chatId", entry.Description, path)
		}
		channels = append(channels, dispatch.ChannelConfig{
			Description: entry.Description,
			Disabled:    entry.Disabled,
			Kind:        dispatch.ChannelTelegram,
			ChatID:      entry.ChatID,
			Audience:    entry.Filter.UserIDs,
		})
	}

	return channels, nil
}

// HasChannelOfKind reports whether any configured channel uses the given
// delivery mechanism. Used at startup to validate that the matching sender
// can actually be constructed (e.g. telegram channels need a bot token).
func HasChannelOfKind(channels []dispatch.ChannelConfig, kind dispatch.ChannelKind) bool {
	for _, ch := range channels {
		if ch.Kind == kind {
			return true
		}
	}
	return false
}
