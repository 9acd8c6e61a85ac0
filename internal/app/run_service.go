package app

import (
	"context"
	"errors"
	"time"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/dispatch"
	"availability_notification_bot/internal/domain/heartbeat"
	"availability_notification_bot/internal/domain/snapshot"

	"github.com/sirupsen/logrus"
)

// TerminalState is where a single run ended up.
type TerminalState string

const (
	TerminalCommittedOk       TerminalState = "COMMITTED_OK"
	TerminalCommittedSkip     TerminalState = "COMMITTED_SKIP"
	TerminalAbortedFetchError TerminalState = "ABORTED_FETCH_ERROR"
)

// RunReport summarizes one pipeline pass for logging and callers.
type RunReport struct {
	Terminal  TerminalState
	Outcome   dispatch.RunOutcome
	Channels  []dispatch.ChannelResult
	NewEvents int
	Persisted bool
	Heartbeat string
}

// RunService orchestrates one pipeline pass:
// fetch -> reconcile -> dispatch -> aggregate -> commit -> heartbeat.
// Each run is finite and non-reentrant; all intermediate state is run-local.
type RunService struct {
	fetcher    availability.Fetcher
	snapshots  snapshot.Repository
	dispatcher *Dispatcher
	notifier   heartbeat.Notifier
	channels   []dispatch.ChannelConfig
	location   *time.Location
	dryRun     bool
	logger     *logrus.Logger
	now        func() time.Time
}

func NewRunService(
	fetcher availability.Fetcher,
	snapshots snapshot.Repository,
	dispatcher *Dispatcher,
	notifier heartbeat.Notifier,
	channels []dispatch.ChannelConfig,
	location *time.Location,
	dryRun bool,
	logger *logrus.Logger,
) *RunService {
	return &RunService{
		fetcher:    fetcher,
		snapshots:  snapshots,
		dispatcher: dispatcher,
		notifier:   notifier,
		channels:   channels,
		location:   location,
		dryRun:     dryRun,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one pass. Every handled failure (fetch abort, all channels
// failed, persistence error) is reported through the heartbeat and returns a
// nil error so the process exits cleanly; the report carries the terminal
// state.
func (s *RunService) Run(ctx context.Context) (*RunReport, error) {
	now := s.now()
	s.logger.Infof("Starting availability run for %s (dry run: %t)", now.Format("2006-01-02"), s.dryRun)

	fetched, err := s.fetcher.FetchAvailability(ctx, now)
	if err != nil {
		msg := fetchAbortMessage(err)
		s.logger.Errorf("Fetch failed, aborting run: %v", err)
		s.beat(ctx, heartbeat.StatusDown, msg)
		return &RunReport{Terminal: TerminalAbortedFetchError, Heartbeat: msg}, nil
	}
	s.logger.Infof("Fetched availability: %d available, %d unavailable", len(fetched.Available), len(fetched.Unavailable))

	old, err := s.snapshots.Load(ctx)
	if err != nil {
		// The snapshot store contract is "empty when absent"; a load error
		// degrades to a fresh snapshot rather than failing the run.
		s.logger.Warnf("Failed to load snapshot, starting from empty: %v", err)
		old = snapshot.Empty()
	}

	result := Reconcile(old, fetched.Available, fetched.Unavailable, now, s.location)
	s.logger.Infof("Reconciled snapshot: %d users known, %d new unavailability events", len(result.Users), len(result.NewEvents))
	for _, ev := range result.NewEvents {
		s.logger.Infof("Added unavailability for %s: %s - %s", userName(result.Users, ev.UserID), ev.Availability, ev.UnavailableTime)
	}

	channelResults := s.dispatcher.Dispatch(ctx, s.channels, result.Users, result.NewEvents, s.dryRun)
	outcomes := make([]dispatch.Outcome, 0, len(channelResults))
	for _, cr := range channelResults {
		outcomes = append(outcomes, cr.Outcome)
	}
	runOutcome := dispatch.Aggregate(outcomes)
	s.logger.Infof("Dispatch finished with outcome %s across %d channel(s)", runOutcome, len(channelResults))

	report := &RunReport{
		Outcome:   runOutcome,
		Channels:  channelResults,
		NewEvents: len(result.NewEvents),
	}

	if runOutcome == dispatch.RunFailed {
		// Not persisting keeps the events eligible for a later retry run.
		report.Terminal = TerminalCommittedSkip
		report.Heartbeat = "Error all webhooks failed"
		s.beat(ctx, heartbeat.StatusDown, report.Heartbeat)
		return report, nil
	}

	if s.dryRun {
		s.logger.Info("Dry run, snapshot not persisted")
	} else {
		if err := s.snapshots.Save(ctx, result.Snapshot()); err != nil {
			s.logger.Errorf("Failed to persist snapshot: %v", err)
			report.Terminal = TerminalCommittedSkip
			report.Heartbeat = "Error persisting snapshot"
			s.beat(ctx, heartbeat.StatusDown, report.Heartbeat)
			return report, nil
		}
		report.Persisted = true
	}

	report.Terminal = TerminalCommittedOk
	report.Heartbeat = heartbeatMessage(runOutcome)
	s.beat(ctx, heartbeat.StatusUp, report.Heartbeat)
	return report, nil
}

func fetchAbortMessage(err error) string {
	var fe *availability.FetchError
	if !errors.As(err, &fe) {
		return "Error fetching availability: " + err.Error()
	}
	switch fe.Kind {
	case availability.FetchErrorTimeout:
		return "Error fetching availability: timeout"
	case availability.FetchErrorMalformedResponse:
		return "Error fetching availability: malformed response: " + fe.Detail
	default:
		return "Error fetching availability: " + fe.Detail
	}
}

func heartbeatMessage(outcome dispatch.RunOutcome) string {
	switch outcome {
	case dispatch.RunAllSent:
		return "Ok all sent"
	case dispatch.RunPartiallySent:
		return "Ok partially sent"
	default:
		return "Ok nothing sent"
	}
}

// beat pushes the liveness signal. Heartbeat errors are logged and dropped;
// they must never fail the run.
func (s *RunService) beat(ctx context.Context, status heartbeat.Status, msg string) {
	if s.notifier == nil {
		s.logger.Debugf("Heartbeat not configured, would have sent status=%s msg=%q", status, msg)
		return
	}
	if err := s.notifier.Send(ctx, status, msg); err != nil {
		s.logger.Errorf("Failed to send heartbeat (status=%s msg=%q): %v", status, msg, err)
	}
}

func userName(users map[availability.UserID]availability.User, id availability.UserID) string {
	if u, ok := users[id]; ok && u.Name != "" {
		return u.Name
	}
	return NoNamePlaceholder
}
