package model

import (
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
)

// Geocoding confidence carried on a group. Unverified groups passed the gate
// without a geocoder result and need manual geographic review.
const (
	GeoConfidenceVerified   = "verified"
	GeoConfidenceUnverified = "unverified"
)

// Group domain object defining a community group
type Group struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Name            string            `gorm:"unique;not null" json:"name"`
	City            string            `json:"city"`
	State           string            `json:"state"`
	ZipCode         string            `json:"zipCode"`
	Details         string            `json:"details"`
	Website         string            `json:"website"`
	SocialMedia     string            `json:"socialMedia"`
	ImageURL        string            `json:"imageUrl"`
	MapURL          string            `json:"mapUrl"`
	AgeRange        string            `json:"ageRange"`
	Lat             *float64          `json:"lat"`
	Lon             *float64          `json:"lon"`
	GeoConfidence   string            `json:"geoConfidence"`
	Status          moderation.Status `gorm:"default:pending" json:"status"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	UserID          *uint             `json:"userId"`
	User            *User             `json:"-"`
	Events          []Event           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (g *Group) ModerationStatus() moderation.Status {
	return g.Status
}

func (g *Group) SetModerationStatus(status moderation.Status) {
	g.Status = status
}

func (g *Group) SetRejectionReason(reason string) {
	g.RejectionReason = reason
}

// IsOwnedBy reports whether the group was submitted by the given user.
func (g *Group) IsOwnedBy(user *User) bool {
	return user != nil && g.UserID != nil && *g.UserID == user.ID
}
