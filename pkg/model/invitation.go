package model

import "time"

type InvitationStatus string

const (
	StatusPending  InvitationStatus = "PENDING"
	StatusAccepted InvitationStatus = "ACCEPTED"
	StatusDeclined InvitationStatus = "DECLINED"
)

// Invitation links one session to one invited user. RespondedAt is set
// on the first accept or decline.
type Invitation struct {
	ID          uint             `json:"id"`
	SessionID   uint             `json:"sessionId"`
	UserID      uint             `json:"userId"`
	Status      InvitationStatus `json:"status"`
	InvitedAt   time.Time        `json:"invitedAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
}

func (i *Invitation) IsPending() bool {
	return i != nil && i.Status == StatusPending
}

func (i *Invitation) IsAccepted() bool {
	return i != nil && i.Status == StatusAccepted
}

func (i *Invitation) IsDeclined() bool {
	return i != nil && i.Status == StatusDeclined
}

// Participant is a read-side roster entry, a user with accepted
// participation in a session.
type Participant struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}
