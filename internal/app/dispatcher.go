package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/dispatch"

	"github.com/sirupsen/logrus"
)

// Dispatcher fans one run's new events out to every configured channel
// concurrently and captures a per-channel outcome. No channel's failure ever
// propagates past the dispatcher or blocks a sibling send.
type Dispatcher struct {
	senders map[dispatch.ChannelKind]dispatch.Sender
	logger  *logrus.Logger
}

func NewDispatcher(senders map[dispatch.ChannelKind]dispatch.Sender, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{senders: senders, logger: logger}
}

// Dispatch sends the formatted events to all channels in parallel and waits
// for every send to settle. Results come back in channel order.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	channels []dispatch.ChannelConfig,
	users map[availability.UserID]availability.User,
	events []availability.Event,
	dryRun bool,
) []dispatch.ChannelResult {
	results := make([]dispatch.ChannelResult, len(channels))
	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch dispatch.ChannelConfig) {
			defer wg.Done()
			results[i] = dispatch.ChannelResult{
				Channel: ch.Description,
				Outcome: d.sendToChannel(ctx, ch, users, events, dryRun),
			}
		}(i, ch)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) sendToChannel(
	ctx context.Context,
	ch dispatch.ChannelConfig,
	users map[availability.UserID]availability.User,
	events []availability.Event,
	dryRun bool,
) (outcome dispatch.Outcome) {
	// A panicking sender must not take down sibling sends or the run.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("[%s] Sender panicked: %v", ch.Description, r)
			outcome = dispatch.Outcome{Result: dispatch.ResultFailed, Detail: fmt.Sprintf("sender panic: %v", r)}
		}
	}()

	if ch.Disabled {
		d.logger.Infof("[%s] Disabled from config, skipping", ch.Description)
		return dispatch.Outcome{Result: dispatch.ResultSkippedDisabled}
	}

	eventsToSend := FilterEventsForChannel(ch, events)
	if len(eventsToSend) == 0 {
		d.logger.Infof("[%s] No message to send, skipping", ch.Description)
		return dispatch.Outcome{Result: dispatch.ResultSkippedNoAudience}
	}

	messages := make([]string, 0, len(eventsToSend))
	for _, ev := range eventsToSend {
		messages = append(messages, FormatEventMessage(users, ev))
	}
	body := strings.Join(messages, "\n")

	if dryRun {
		d.logger.Infof("[%s] Running in dry run mode, message:\n%s", ch.Description, body)
		return dispatch.Outcome{Result: dispatch.ResultSkippedDryRun}
	}

	sender, ok := d.senders[ch.Kind]
	if !ok {
		d.logger.Errorf("[%s] No sender registered for channel kind %q", ch.Description, ch.Kind)
		return dispatch.Outcome{Result: dispatch.ResultFailed, Detail: fmt.Sprintf("no sender for channel kind %q", ch.Kind)}
	}

	d.logger.Infof("[%s] Attempting to send message, message:\n%s", ch.Description, body)
	if err := sender.Send(ctx, ch, body); err != nil {
		d.logger.Errorf("[%s] Error when sending message, error: %v", ch.Description, err)
		return dispatch.Outcome{Result: dispatch.ResultFailed, Detail: err.Error()}
	}

	d.logger.Infof("[%s] Message sent", ch.Description)
	return dispatch.Outcome{Result: dispatch.ResultSent}
}
