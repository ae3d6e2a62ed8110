package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User domain object defining a user
type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Email      string    `gorm:"index;unique" json:"email"`
	Password   string    `json:"-"`
	Validated  bool      `json:"validated"`
	EmailToken uuid.UUID `gorm:"type:uuid" json:"-"`
	Admin      bool      `gorm:"column:is_admin" json:"admin"`
}

// IsAdministrator satisfies moderation.Actor.
func (u *User) IsAdministrator() bool {
	return u != nil && u.Admin
}

type ctxKey int

var userKey ctxKey

// NewContextWithUser returns a new [context.Context] that carries value user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in the ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
