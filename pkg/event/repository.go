package event

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

func (r repository) create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// createWithGroup stores the event together with its named group, creating the group first if
// no group of that name exists yet. Both writes share one transaction so a failed event insert
// never leaves an orphaned group behind.
func (r repository) createWithGroup(ctx context.Context, event *model.Event, group *model.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where(model.Group{Name: group.Name}).
			Attrs(group).
			FirstOrCreate(group).Error
		if err != nil {
			return fmt.Errorf("failed to resolve group %q: %v", group.Name, err)
		}

		event.GroupID = &group.ID
		return tx.Create(event).Error
	})
}

func (r repository) findById(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Preload("Group").
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event %d doesn't exist", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find event: %v", err)
	}

	return event, nil
}

func (r repository) findByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("status = ?", status).
		Order("date_time, title").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %v", err)
	}

	return events, nil
}

// updateModeration writes the moderation outcome in a single statement so concurrent decisions
// linearize on the row; the last statement to commit wins.
func (r repository) updateModeration(ctx context.Context, event *model.Event) error {
	db := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", event.ID).
		Select("Status", "RejectionReason").
		Updates(model.Event{Status: event.Status, RejectionReason: event.RejectionReason})
	if db.Error != nil {
		return fmt.Errorf("failed to update event %d: %v", event.ID, db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("event %d doesn't exist", event.ID)
	}

	return nil
}

func (r repository) delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx).Delete(&model.Event{}, id)
	if db.Error != nil {
		return fmt.Errorf("failed to delete event %d: %v", id, db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("event %d doesn't exist", id)
	}

	return nil
}
