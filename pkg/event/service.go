package event

import (
	"context"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/calendar"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/recurrence"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(eventRepository eventRepository, groupService groupService, horizonMonths int) *service {
	return &service{
		eventRepository: eventRepository,
		groupService:    groupService,
		horizonMonths:   horizonMonths,
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	createWithGroup(ctx context.Context, event *model.Event, group *model.Group) error
	findById(ctx context.Context, id uint) (*model.Event, error)
	findByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error)
	updateModeration(ctx context.Context, event *model.Event) error
	delete(ctx context.Context, id uint) error
}

type groupService interface {
	Placeholder(name string, user *model.User) *model.Group
}

type service struct {
	eventRepository eventRepository
	groupService    groupService
	horizonMonths   int
}

// Submission carries the user supplied fields of a new event.
type Submission struct {
	Title         string
	Description   string
	Link          string
	Address       string
	ZipCode       string
	DateTime      *time.Time
	RecurringDay  string
	RecurringWeek string
	RecurringTime string
	GroupID       *uint
	GroupName     string
}

// Submit validates the schedule and stores the event in the pending queue. An event is either
// singular, carrying a date, or recurring, carrying a weekday, a week-of-month ordinal and a
// time of day. Naming an unknown group creates it as a pending placeholder.
func (s *service) Submit(ctx context.Context, user *model.User, submission Submission) (*model.Event, error) {
	hasDate := submission.DateTime != nil
	hasRecurrence := submission.RecurringDay != "" || submission.RecurringWeek != "" || submission.RecurringTime != ""

	if hasDate && hasRecurrence {
		return nil, errdef.NewBadRequest("an event is either singular or recurring, not both")
	}
	if !hasDate && !hasRecurrence {
		return nil, errdef.NewBadRequest("an event needs either a date or a recurrence schedule")
	}

	if hasRecurrence {
		if _, err := recurrence.ParseRule(submission.RecurringDay, submission.RecurringWeek, submission.RecurringTime); err != nil {
			return nil, err
		}
	}

	event := &model.Event{
		Title:         submission.Title,
		Description:   submission.Description,
		Link:          submission.Link,
		Address:       submission.Address,
		ZipCode:       submission.ZipCode,
		DateTime:      submission.DateTime,
		IsRecurring:   hasRecurrence,
		RecurringDay:  submission.RecurringDay,
		RecurringWeek: submission.RecurringWeek,
		RecurringTime: submission.RecurringTime,
		GroupID:       submission.GroupID,
		UserID:        user.ID,
	}
	moderation.Submit(event)

	if submission.GroupID == nil && submission.GroupName != "" {
		// the placeholder group and the event commit in the same transaction
		group := s.groupService.Placeholder(submission.GroupName, user)
		if err := s.eventRepository.createWithGroup(ctx, event, group); err != nil {
			return nil, err
		}
		return event, nil
	}

	if err := s.eventRepository.create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.eventRepository.findById(ctx, id)
}

func (s *service) FindByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error) {
	return s.eventRepository.findByStatus(ctx, status)
}

// Approve publishes a pending or rejected event.
func (s *service) Approve(ctx context.Context, actor *model.User, id uint) (*model.Event, error) {
	event, err := s.eventRepository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := moderation.Approve(actor, event); err != nil {
		return nil, err
	}

	if err := s.eventRepository.updateModeration(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Reject refuses the event. The reason may be empty.
func (s *service) Reject(ctx context.Context, actor *model.User, id uint, reason string) (*model.Event, error) {
	event, err := s.eventRepository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := moderation.Reject(actor, event, reason); err != nil {
		return nil, err
	}

	if err := s.eventRepository.updateModeration(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Delete removes an event. Administrators can delete any event, everyone else only their own.
func (s *service) Delete(ctx context.Context, actor *model.User, id uint) error {
	event, err := s.eventRepository.findById(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdministrator() && !event.IsOwnedBy(actor) {
		return errdef.NewForbidden("event %d can only be deleted by its submitter or an administrator", id)
	}

	return s.eventRepository.delete(ctx, id)
}

// Calendar materializes the event's occurrences into an iCalendar document. Singular events
// yield one entry, recurring events one per occurrence within the resolution horizon starting
// at now. Only approved events have a feed.
func (s *service) Calendar(ctx context.Context, id uint, now time.Time) ([]byte, string, error) {
	event, err := s.eventRepository.findById(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if event.Status != moderation.StatusApproved {
		return nil, "", errdef.NewNotFound("event %d doesn't exist", id)
	}

	var occurrences []time.Time
	if event.IsRecurring {
		rule, err := recurrence.ParseRule(event.RecurringDay, event.RecurringWeek, event.RecurringTime)
		if err != nil {
			return nil, "", err
		}
		occurrences = recurrence.Resolve(rule, now, s.horizonMonths)
	} else {
		occurrences = []time.Time{*event.DateTime}
	}

	feed, err := calendar.Render(event, occurrences)
	if err != nil {
		return nil, "", err
	}

	return feed, calendar.Filename(event.Title), nil
}
