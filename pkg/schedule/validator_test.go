package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/webclient/pkg/timeslot"
)

func rule(t *testing.T, err error) Rule {
	t.Helper()

	var ve *ValidationError

	require.ErrorAs(t, err, &ve)

	return ve.Rule
}

func TestValidateTitle(t *testing.T) {
	_, err := Validate(&Draft{Title: "  "}, time.Now())

	assert.Equal(t, RuleTitle, rule(t, err))
}

func TestValidateLeadTime(t *testing.T) {
	now := time.Now()

	d := &Draft{
		Title:      "Week 5 Review",
		StartLocal: now.Add(time.Minute * 10).Format(timeslot.LocalMinute),
	}

	_, err := Validate(d, now)
	assert.Equal(t, RuleLeadTime, rule(t, err))

	// 90 minutes out, on a slot boundary
	d.StartLocal = timeslot.EarliestAllowedStart(now).Add(time.Minute * 30).Format(timeslot.LocalMinute)

	s, err := Validate(d, now)
	require.NoError(t, err)
	assert.Equal(t, 1, s.DurationDays)
}

func TestValidateOrdering(t *testing.T) {
	now := time.Now()
	start := timeslot.EarliestAllowedStart(now).Add(time.Hour)

	d := &Draft{
		Title:      "review",
		StartLocal: start.Format(timeslot.LocalMinute),
		EndLocal:   start.Add(-time.Minute * 30).Format(timeslot.LocalMinute),
	}

	_, err := Validate(d, now)
	assert.Equal(t, RuleOrdering, rule(t, err))

	d.EndLocal = d.StartLocal

	_, err = Validate(d, now)
	assert.Equal(t, RuleOrdering, rule(t, err))

	d.EndLocal = start.Add(time.Minute * 90).Format(timeslot.LocalMinute)

	s, err := Validate(d, now)
	require.NoError(t, err)
	assert.Equal(t, start.Format("15:04"), s.StartClock)
	assert.Equal(t, start.Add(time.Minute*90).Format("15:04"), s.EndClock)
	assert.Equal(t, start.Format("2006-01-02"), s.Date)
}

func TestValidateCrossDayEndWithInvitees(t *testing.T) {
	now := time.Date(2024, 11, 7, 20, 0, 0, 0, time.Local)

	d := &Draft{
		Title:      "late review",
		StartLocal: "2024-11-07T23:00",
		EndLocal:   "2024-11-08T01:00",
		CreatorID:  9,
		InviteeIDs: []uint{5},
	}

	// the bundled body has one date and bare clocks, 23:00..01:00 would
	// arrive inverted
	_, err := Validate(d, now)
	assert.Equal(t, RuleOrdering, rule(t, err))

	// without invitees there is no bundled body, the span stays legal
	d.InviteeIDs = nil

	s, err := Validate(d, now)
	require.NoError(t, err)
	assert.Equal(t, "23:00", s.StartClock)
	assert.Equal(t, "01:00", s.EndClock)

	// an invited session ending the same day is fine
	d.InviteeIDs = []uint{5}
	d.EndLocal = "2024-11-07T23:30"

	s, err = Validate(d, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-11-07", s.Date)
	assert.Equal(t, "23:30", s.EndClock)
}

func TestValidateMalformed(t *testing.T) {
	_, err := Validate(&Draft{Title: "x", StartLocal: "tomorrow"}, time.Now())

	assert.Equal(t, RuleMalformed, rule(t, err))

	var ve *ValidationError

	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Message)
}

func TestValidateDuration(t *testing.T) {
	now := time.Now()
	zero := 0

	d := &Draft{
		Title:        "review",
		StartLocal:   timeslot.EarliestAllowedStart(now).Format(timeslot.LocalMinute),
		DurationDays: &zero,
	}

	_, err := Validate(d, now)
	assert.Equal(t, RuleDuration, rule(t, err))
}

func TestValidateInvitees(t *testing.T) {
	now := time.Now()

	d := &Draft{
		Title:      "review",
		StartLocal: timeslot.EarliestAllowedStart(now).Format(timeslot.LocalMinute),
		CreatorID:  9,
		InviteeIDs: []uint{5, 5, 7, 9},
	}

	s, err := Validate(d, now)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 7}, s.InvitedUserIDs)

	p := s.InvitePayload(42)
	assert.EqualValues(t, 42, p.GroupID)
	assert.Equal(t, []uint{5, 7}, p.InvitedUserIDs)
}
