package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/studyhub/webclient/pkg/model"
	"github.com/studyhub/webclient/pkg/timeslot"
	"github.com/studyhub/webclient/pkg/util"
)

type Rule string

const (
	RuleTitle     Rule = "title"
	RuleLeadTime  Rule = "lead_time"
	RuleOrdering  Rule = "ordering"
	RuleDuration  Rule = "duration"
	RuleMalformed Rule = "malformed"
)

// ValidationError is a local policy violation, it never reaches the
// network. Message is display-ready.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fail(rule Rule, msg string) error {
	return &ValidationError{Rule: rule, Message: msg}
}

// Draft is the authoring surface's transient input. StartLocal and
// EndLocal are wall-clock values in timeslot.LocalMinute form.
type Draft struct {
	Title        string
	Description  string
	StartLocal   string
	EndLocal     string
	DurationDays *int
	MeetingLink  string
	CreatorID    uint
	InviteeIDs   []uint
}

// Submission is a normalized draft that passed every rule, with
// offset-formatted instants ready for the wire.
type Submission struct {
	Title          string
	Description    string
	StartTime      string
	StartTimeLocal string
	EndTime        string
	Date           string
	StartClock     string
	EndClock       string
	DurationDays   int
	MeetingLink    string
	InvitedUserIDs []uint
}

// Validate gates a draft before it reaches the command gateway. Rules
// run in order, first failure wins: title, lead time, start/end
// ordering, duration. Invitee ids are de-duplicated and the creator's
// own id is dropped.
func Validate(d *Draft, now time.Time) (*Submission, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, fail(RuleTitle, "title required")
	}

	start, err := timeslot.ParseLocal(d.StartLocal)
	if err != nil {
		return nil, fail(RuleMalformed, fmt.Sprintf("invalid start time %q", d.StartLocal))
	}

	earliest := timeslot.EarliestAllowedStart(now)
	if start.Before(earliest) {
		return nil, fail(RuleLeadTime,
			"start time too soon: sessions start at least 1 hour out, on a 30-minute slot")
	}

	invitees := normalizeInvitees(d.InviteeIDs, d.CreatorID)

	var end time.Time

	if d.EndLocal != "" {
		end, err = timeslot.ParseLocal(d.EndLocal)
		if err != nil {
			return nil, fail(RuleMalformed, fmt.Sprintf("invalid end time %q", d.EndLocal))
		}

		if !end.After(start) {
			return nil, fail(RuleOrdering, "end must be after start")
		}

		// the bundled invite body carries a single date with bare start
		// and end clocks, a cross-midnight end cannot be encoded there
		if len(invitees) > 0 && end.Format("2006-01-02") != start.Format("2006-01-02") {
			return nil, fail(RuleOrdering, "end must be on the same day as start when inviting users")
		}
	}

	days := timeslot.ResolveDurationDays(d.DurationDays, d.StartLocal, d.EndLocal)
	if days < 1 {
		return nil, fail(RuleDuration, "duration must be at least one day")
	}

	startWire, err := timeslot.FormatWithOffset(start.Format(timeslot.LocalMinute), now)
	if err != nil {
		return nil, fail(RuleMalformed, err.Error())
	}

	s := &Submission{
		Title:          strings.TrimSpace(d.Title),
		Description:    d.Description,
		StartTime:      startWire,
		StartTimeLocal: start.Format(timeslot.LocalMinute),
		Date:           start.Format("2006-01-02"),
		StartClock:     start.Format("15:04"),
		DurationDays:   days,
		MeetingLink:    d.MeetingLink,
		InvitedUserIDs: invitees,
	}

	if !end.IsZero() {
		endWire, err := timeslot.FormatWithOffset(end.Format(timeslot.LocalMinute), now)
		if err != nil {
			return nil, fail(RuleMalformed, err.Error())
		}

		s.EndTime = endWire
		s.EndClock = end.Format("15:04")
	}

	return s, nil
}

func normalizeInvitees(ids []uint, creatorID uint) []uint {
	set := util.NewSet(ids...)
	set.Remove(creatorID)

	res := set.List()
	slices.Sort(res)

	return res
}

// Payload builds the body for plain create and update calls.
func (s *Submission) Payload() *model.SessionPayload {
	return &model.SessionPayload{
		Title:          s.Title,
		Description:    s.Description,
		StartTime:      s.StartTime,
		StartTimeLocal: s.StartTimeLocal,
		DurationDays:   s.DurationDays,
		MeetingLink:    s.MeetingLink,
	}
}

// InvitePayload builds the body for the bundled create-with-invitations
// call.
func (s *Submission) InvitePayload(groupID uint) *model.SessionWithInvitationsPayload {
	return &model.SessionWithInvitationsPayload{
		GroupID:        groupID,
		Title:          s.Title,
		Description:    s.Description,
		Date:           s.Date,
		StartTime:      s.StartClock,
		EndTime:        s.EndClock,
		DurationDays:   s.DurationDays,
		MeetingLink:    s.MeetingLink,
		InvitedUserIDs: s.InvitedUserIDs,
	}
}
