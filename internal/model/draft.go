package model

import (
	"strconv"
	"strings"
	"time"
)

const idSep = ";"

// SessionDraft is authoring state persisted locally until submission.
// It never mirrors remote session state.
type SessionDraft struct {
	ID           string    `gorm:"primaryKey;size:36"`
	CreatedAt    time.Time `gorm:"type:timestamp"`
	UpdatedAt    time.Time `gorm:"type:timestamp"`
	GroupID      uint      `gorm:"index"`
	CreatorID    uint      `gorm:"index"`
	Title        string    `gorm:"size:255"`
	Description  string    `gorm:"size:1024"`
	StartLocal   string    `gorm:"size:255"`
	EndLocal     string    `gorm:"size:255"`
	DurationDays int
	MeetingLink  string `gorm:"size:255"`
	Invitees     string `gorm:"size:1024"`
}

func (d *SessionDraft) InviteeIDs() []uint {
	if d.Invitees == "" {
		return nil
	}

	parts := strings.Split(d.Invitees, idSep)
	res := make([]uint, 0, len(parts))

	for _, p := range parts {
		if v, err := strconv.ParseUint(p, 10, 32); err == nil {
			res = append(res, uint(v))
		}
	}

	return res
}

func (d *SessionDraft) SetInviteeIDs(ids []uint) {
	parts := make([]string, 0, len(ids))

	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}

	d.Invitees = strings.Join(parts, idSep)
}
