package app

import (
	"testing"

	"availability_notification_bot/internal/domain/availability"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		in   availability.TimeRange
		want string
	}{
		{availability.TimeRangeFullDay, "for all day"},
		{availability.TimeRangeMorning, "at morning"},
		{availability.TimeRangeAfternoon, "at afternoon"},
		{availability.TimeRangeEvening, "at evening"},
		{availability.TimeRange("HALF_DAY"), "at HALF_DAY (raw)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimeRange(tt.in))
	}
}

func TestFormatEventMessage(t *testing.T) {
	users := map[availability.UserID]availability.User{
		"alice": {ID: "alice", Name: "Alice Smith"},
		"bob":   {ID: "bob", Name: "Bob"},
	}

	tests := []struct {
		name string
		ev   availability.Event
		want string
	}{
		{
			name: "sick leave uses first name only",
			ev: availability.Event{
				UserID: "alice", Availability: availability.KindSickLeave,
				UnavailableTime: availability.TimeRangeMorning, Day: "2024-03-10",
			},
			want: "Alice will be on sick leave today at morning.",
		},
		{
			name: "pto renders as unavailable",
			ev: availability.Event{
				UserID: "alice", Availability: availability.KindPto,
				UnavailableTime: availability.TimeRangeFullDay, Day: "2024-03-10",
			},
			want: "Alice will be unavailable today for all day.",
		},
		{
			name: "name without whitespace is used whole",
			ev: availability.Event{
				UserID: "bob", Availability: availability.KindPto,
				UnavailableTime: availability.TimeRangeEvening, Day: "2024-03-10",
			},
			want: "Bob will be unavailable today at evening.",
		},
		{
			name: "unknown user gets placeholder",
			ev: availability.Event{
				UserID: "stranger", Availability: availability.KindSickLeave,
				UnavailableTime: availability.TimeRangeMorning, Day: "2024-03-10",
			},
			want: "<no name> will be on sick leave today at morning.",
		},
		{
			name: "unknown kind surfaces the raw value",
			ev: availability.Event{
				UserID: "alice", Availability: availability.Kind("onSabbatical"),
				UnavailableTime: availability.TimeRangeFullDay, Day: "2024-03-10",
			},
			want: "Alice will be missing today for all day. (debug: onSabbatical)",
		},
		{
			name: "unknown kind and raw time range combine",
			ev: availability.Event{
				UserID: "alice", Availability: availability.Kind("onSabbatical"),
				UnavailableTime: availability.TimeRange("NIGHT"), Day: "2024-03-10",
			},
			want: "Alice will be missing today at NIGHT (raw). (debug: onSabbatical)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEventMessage(users, tt.ev))
		})
	}
}
