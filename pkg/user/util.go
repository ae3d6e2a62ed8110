package user

import (
	"context"
	"fmt"

	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
)

type userServiceUtil interface {
	FindOrCreate(ctx context.Context, email, password string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

// CreateAdminUser ensures the configured administrator account exists and is usable without
// going through email validation.
func CreateAdminUser(ctx context.Context, email, password string, userService userServiceUtil) error {
	u, err := userService.FindOrCreate(ctx, email, password)
	if err != nil {
		return fmt.Errorf("error creating admin user: %v", err)
	}

	u.Validated = true
	u.Admin = true

	err = userService.Save(ctx, u)
	if err != nil {
		return fmt.Errorf("error saving admin user: %v", err)
	}

	return nil
}
