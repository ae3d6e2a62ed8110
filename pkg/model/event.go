package model

import (
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
)

// Event domain object defining an event. Exactly one of DateTime or the
// recurrence fields (RecurringDay/RecurringWeek/RecurringTime) is populated,
// flagged by IsRecurring.
type Event struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Title           string            `gorm:"not null" json:"title"`
	Description     string            `json:"description"`
	Link            string            `json:"link,omitempty"`
	Address         string            `json:"address"`
	ZipCode         string            `json:"zipCode"`
	DateTime        *time.Time        `json:"dateTime,omitempty"`
	IsRecurring     bool              `json:"isRecurring"`
	RecurringDay    string            `json:"recurringDay,omitempty"`
	RecurringWeek   string            `json:"recurringWeek,omitempty"`
	RecurringTime   string            `json:"recurringTime,omitempty"`
	CalendarURL     string            `gorm:"-" json:"calendarUrl,omitempty"`
	Status          moderation.Status `gorm:"default:pending" json:"status"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	GroupID         *uint             `json:"groupId"`
	Group           *Group            `json:"-"`
	UserID          uint              `json:"userId"`
	User            *User             `json:"-"`
}

func (e *Event) ModerationStatus() moderation.Status {
	return e.Status
}

func (e *Event) SetModerationStatus(status moderation.Status) {
	e.Status = status
}

func (e *Event) SetRejectionReason(reason string) {
	e.RejectionReason = reason
}

// IsOwnedBy reports whether the event was submitted by the given user.
func (e *Event) IsOwnedBy(user *User) bool {
	return user != nil && e.UserID == user.ID
}
