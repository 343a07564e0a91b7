package model

// Session is the durable scheduling entity as the backend returns it.
// StartTime is an offset-annotated instant, StartTimeLocal is the
// wall-clock echo without a timezone marker.
type Session struct {
	ID             uint   `json:"id"`
	GroupID        uint   `json:"groupId"`
	CreatedByID    uint   `json:"createdById"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	StartTime      string `json:"startTime"`
	StartTimeLocal string `json:"startTimeLocal,omitempty"`
	DurationDays   int    `json:"durationDays"`
	MeetingLink    string `json:"meetingLink,omitempty"`
}

// SessionPayload is the body for plain create and update calls.
type SessionPayload struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	StartTime      string `json:"startTime"`
	StartTimeLocal string `json:"startTimeLocal"`
	DurationDays   int    `json:"durationDays"`
	MeetingLink    string `json:"meetingLink,omitempty"`
}

// SessionWithInvitationsPayload is the body for the bundled
// create-with-invitations call. Date and the clock fields are local
// wall-clock values, StartTime/EndTime are "15:04" clocks.
type SessionWithInvitationsPayload struct {
	GroupID        uint   `json:"groupId"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	DurationDays   int    `json:"durationDays"`
	MeetingLink    string `json:"meetingLink,omitempty"`
	InvitedUserIDs []uint `json:"invitedUserIds"`
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}
