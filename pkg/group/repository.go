package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{
		db: db,
	}
}

func (r repository) create(ctx context.Context, group *model.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("group %q already exists", group.Name)
	}

	return err
}

func (r repository) findById(ctx context.Context, id uint) (*model.Group, error) {
	var group *model.Group
	err := r.db.
		WithContext(ctx).
		Preload("Events").
		First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("group %d doesn't exist", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find group: %v", err)
	}

	return group, nil
}

func (r repository) findByStatus(ctx context.Context, status moderation.Status, zipCode string) ([]model.Group, error) {
	db := r.db.
		WithContext(ctx).
		Where("status = ?", status)
	if zipCode != "" {
		db = db.Where("zip_code = ?", zipCode)
	}

	var groups []model.Group
	err := db.Order("name").Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find groups: %v", err)
	}

	return groups, nil
}

// updateModeration writes the moderation outcome in a single statement so concurrent decisions
// linearize on the row; the last statement to commit wins.
func (r repository) updateModeration(ctx context.Context, group *model.Group) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", group.ID).
		Select("Status", "RejectionReason").
		Updates(model.Group{Status: group.Status, RejectionReason: group.RejectionReason})
	if db.Error != nil {
		return fmt.Errorf("failed to update group %d: %v", group.ID, db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("group %d doesn't exist", group.ID)
	}

	return nil
}

// delete removes the group and all of its events in one transaction.
func (r repository) delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return fmt.Errorf("failed to delete events of group %d: %v", id, err)
		}

		db := tx.Delete(&model.Group{}, id)
		if db.Error != nil {
			return fmt.Errorf("failed to delete group %d: %v", id, db.Error)
		}
		if db.RowsAffected < 1 {
			return errdef.NewNotFound("group %d doesn't exist", id)
		}

		return nil
	})
}
