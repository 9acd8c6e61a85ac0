package availability

// UserID identifies a user in the scheduling system.
type UserID string

// User is the persisted identity of a tracked employee. Users are upserted
// from every fetch and never deleted, so names stay resolvable for events
// of people who are no longer reported on.
type User struct {
	ID   UserID
	Name string
}

// TimeRange is the portion of the day a user is unavailable, as reported by
// the scheduling API. Values outside the known set are kept verbatim and
// surfaced in messages rather than dropped.
type TimeRange string

const (
	TimeRangeFullDay   TimeRange = "FULL_DAY"
	TimeRangeMorning   TimeRange = "MORNING"
	TimeRangeAfternoon TimeRange = "AFTERNOON"
	TimeRangeEvening   TimeRange = "EVENING"
)

// Kind is the reported reason for a user being unavailable. The wire values
// come straight from the scheduling API.
type Kind string

const (
	KindSickLeave Kind = "onSickLeave"
	KindPto       Kind = "onPto"
)

// PtoRequest is a pending/approved PTO request attached to a fetched user.
// It is decoded at the fetch boundary but not persisted; only same-day
// unavailability drives notifications.
type PtoRequest struct {
	ID              string
	RequestDate     string
	EndDate         string
	TotalDay        float64
	Status          string
	UnavailableTime TimeRange
	RequestReason   string
}

// FetchedUser is one user record as reported by the scheduling API for the
// queried date.
type FetchedUser struct {
	ID              UserID
	Name            string
	Availability    Kind
	UnavailableTime TimeRange
	PtoRequests     []PtoRequest
}
