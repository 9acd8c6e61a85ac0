package dispatch

// Result is the per-channel outcome of one dispatch attempt.
type Result string

const (
	ResultSent              Result = "SENT"
	ResultSkippedNoAudience Result = "SKIPPED_NO_MATCHING_AUDIENCE"
	ResultSkippedDisabled   Result = "SKIPPED_DISABLED"
	ResultSkippedDryRun     Result = "SKIPPED_DRY_RUN"
	ResultFailed            Result = "FAILED"
)

// Outcome pairs a per-channel result with failure detail. Detail is empty
// unless Result is ResultFailed.
type Outcome struct {
	Result Result
	Detail string
}

// ChannelResult ties an outcome back to the channel that produced it.
type ChannelResult struct {
	Channel string
	Outcome Outcome
}

// RunOutcome is the aggregate status of one run over all channels. It drives
// the snapshot commit decision and the heartbeat message.
type RunOutcome string

const (
	RunAllSent       RunOutcome = "ALL_SENT"
	RunPartiallySent RunOutcome = "PARTIALLY_SENT"
	RunSkipped       RunOutcome = "SKIPPED"
	RunFailed        RunOutcome = "FAILED"
)

func (o Outcome) skipped() bool {
	switch o.Result {
	case ResultSkippedDisabled, ResultSkippedNoAudience, ResultSkippedDryRun:
		return true
	}
	return false
}

// Aggregate reduces the per-channel outcomes of one run into a single
// RunOutcome. The precedence is total over the outcome space:
//
//	no channels at all             -> RunSkipped
//	every channel skipped          -> RunSkipped
//	every channel sent             -> RunAllSent
//	any channel sent or skipped    -> RunPartiallySent
//	every channel failed           -> RunFailed
func Aggregate(outcomes []Outcome) RunOutcome {
	if len(outcomes) == 0 {
		return RunSkipped
	}

	allSkipped := true
	allSent := true
	anyNotFailed := false
	for _, o := range outcomes {
		if !o.skipped() {
			allSkipped = false
		}
		if o.Result != ResultSent {
			allSent = false
		}
		if o.Result != ResultFailed {
			anyNotFailed = true
		}
	}

	// Only an all-failed run counts as failed; any delivered or skipped
	// channel keeps the run partial.
	switch {
	case allSkipped:
		return RunSkipped
	case allSent:
		return RunAllSent
	case anyNotFailed:
		return RunPartiallySent
	default:
		return RunFailed
	}
}
