package event

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Submit_Recurring(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	repository := &mockEventRepository{}
	repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.Event")).
		Return(nil)
	service := NewService(repository, &mockGroupService{}, 3)

	event, err := service.Submit(context.Background(), user, Submission{
		Title:         "Young Adult Meetup",
		RecurringDay:  "Tuesday",
		RecurringWeek: "third",
		RecurringTime: "7:00 PM",
	})

	require.NoError(t, err)
	assert.True(t, event.IsRecurring)
	assert.Equal(t, moderation.StatusPending, event.Status)
	assert.Equal(t, uint(9), event.UserID)
	repository.AssertExpectations(t)
}

func TestService_Submit_BothDateAndRecurrence(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	date := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)
	repository := &mockEventRepository{}
	service := NewService(repository, &mockGroupService{}, 3)

	_, err := service.Submit(context.Background(), user, Submission{
		Title:         "Ambiguous Event",
		DateTime:      &date,
		RecurringDay:  "Tuesday",
		RecurringWeek: "third",
		RecurringTime: "7:00 PM",
	})

	require.Error(t, err)
	assert.True(t, errdef.IsBadRequest(err))
	repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
}

func TestService_Submit_NoSchedule(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	service := NewService(&mockEventRepository{}, &mockGroupService{}, 3)

	_, err := service.Submit(context.Background(), user, Submission{Title: "Unscheduled Event"})

	require.Error(t, err)
	assert.True(t, errdef.IsBadRequest(err))
}

func TestService_Submit_InvalidRecurrence(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	service := NewService(&mockEventRepository{}, &mockGroupService{}, 3)

	_, err := service.Submit(context.Background(), user, Submission{
		Title:         "Bad Schedule",
		RecurringDay:  "Someday",
		RecurringWeek: "third",
		RecurringTime: "7:00 PM",
	})

	require.Error(t, err)
	assert.True(t, errdef.IsBadRequest(err))
}

func TestService_Submit_PlaceholderGroup(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	group := &model.Group{Name: "New Group", Status: moderation.StatusPending}
	groupService := &mockGroupService{}
	groupService.
		On("Placeholder", "New Group", user).
		Return(group)
	repository := &mockEventRepository{}
	repository.
		On("createWithGroup", mock.Anything, mock.AnythingOfType("*model.Event"), group).
		Run(func(args mock.Arguments) {
			g := args.Get(2).(*model.Group)
			g.ID = 4
			event := args.Get(1).(*model.Event)
			event.GroupID = &g.ID
		}).
		Return(nil)
	service := NewService(repository, groupService, 3)

	date := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)
	event, err := service.Submit(context.Background(), user, Submission{
		Title:     "Launch Night",
		DateTime:  &date,
		GroupName: "New Group",
	})

	require.NoError(t, err)
	require.NotNil(t, event.GroupID)
	assert.Equal(t, uint(4), *event.GroupID)
	repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
	groupService.AssertExpectations(t)
}

func TestService_Submit_PlaceholderGroupSharesEventTransaction(t *testing.T) {
	user := &model.User{}
	user.ID = 9

	group := &model.Group{Name: "New Group", Status: moderation.StatusPending}
	groupService := &mockGroupService{}
	groupService.
		On("Placeholder", "New Group", user).
		Return(group)
	repository := &mockEventRepository{}
	repository.
		On("createWithGroup", mock.Anything, mock.AnythingOfType("*model.Event"), group).
		Return(errors.New("insert failed"))
	service := NewService(repository, groupService, 3)

	date := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)
	_, err := service.Submit(context.Background(), user, Submission{
		Title:     "Launch Night",
		DateTime:  &date,
		GroupName: "New Group",
	})

	// the group is only ever written inside the combined repository call, so a
	// failed event insert cannot leave a group behind
	require.Error(t, err)
	repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
	repository.AssertNumberOfCalls(t, "createWithGroup", 1)
}

func TestService_Delete_Owner(t *testing.T) {
	owner := &model.User{}
	owner.ID = 9

	event := &model.Event{UserID: 9}
	event.ID = 3
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(3)).
		Return(event, nil)
	repository.
		On("delete", mock.Anything, uint(3)).
		Return(nil)
	service := NewService(repository, &mockGroupService{}, 3)

	err := service.Delete(context.Background(), owner, 3)

	require.NoError(t, err)
	repository.AssertExpectations(t)
}

func TestService_Delete_NotOwner(t *testing.T) {
	stranger := &model.User{}
	stranger.ID = 2

	event := &model.Event{UserID: 9}
	event.ID = 3
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(3)).
		Return(event, nil)
	service := NewService(repository, &mockGroupService{}, 3)

	err := service.Delete(context.Background(), stranger, 3)

	require.Error(t, err)
	assert.True(t, errdef.IsForbidden(err))
	repository.AssertNotCalled(t, "delete", mock.Anything, mock.Anything)
}

func TestService_Delete_Administrator(t *testing.T) {
	admin := &model.User{Admin: true}
	admin.ID = 1

	event := &model.Event{UserID: 9}
	event.ID = 3
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(3)).
		Return(event, nil)
	repository.
		On("delete", mock.Anything, uint(3)).
		Return(nil)
	service := NewService(repository, &mockGroupService{}, 3)

	err := service.Delete(context.Background(), admin, 3)

	require.NoError(t, err)
	repository.AssertExpectations(t)
}

func TestService_Calendar_Recurring(t *testing.T) {
	event := &model.Event{
		Title:         "Young Adult Meetup",
		IsRecurring:   true,
		RecurringDay:  "Tuesday",
		RecurringWeek: "third",
		RecurringTime: "7:00 PM",
		Status:        moderation.StatusApproved,
	}
	event.ID = 42
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(42)).
		Return(event, nil)
	service := NewService(repository, &mockGroupService{}, 3)

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	feed, filename, err := service.Calendar(context.Background(), 42, now)

	require.NoError(t, err)
	assert.Equal(t, "young-adult-meetup.ics", filename)
	text := string(feed)
	assert.Contains(t, text, "UID:42-0@catholicgroups.org")
	assert.Contains(t, text, "UID:42-2@catholicgroups.org")
	assert.Contains(t, text, "DTSTART:20250121T190000")
	assert.Contains(t, text, "DTSTART:20250218T190000")
	assert.Contains(t, text, "DTSTART:20250318T190000")
	assert.Equal(t, 3, strings.Count(text, "BEGIN:VEVENT"))
}

func TestService_Calendar_Singular(t *testing.T) {
	date := time.Date(2025, time.June, 1, 18, 30, 0, 0, time.UTC)
	event := &model.Event{
		Title:    "Launch Night",
		DateTime: &date,
		Status:   moderation.StatusApproved,
	}
	event.ID = 7
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(7)).
		Return(event, nil)
	service := NewService(repository, &mockGroupService{}, 3)

	feed, filename, err := service.Calendar(context.Background(), 7, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "launch-night.ics", filename)
	text := string(feed)
	assert.Contains(t, text, "UID:7@catholicgroups.org")
	assert.Contains(t, text, "DTSTART:20250601T183000")
	assert.Contains(t, text, "DTEND:20250601T203000")
	assert.Equal(t, 1, strings.Count(text, "BEGIN:VEVENT"))
}

func TestService_Calendar_NotApproved(t *testing.T) {
	event := &model.Event{
		Title:  "Pending Event",
		Status: moderation.StatusPending,
	}
	event.ID = 8
	repository := &mockEventRepository{}
	repository.
		On("findById", mock.Anything, uint(8)).
		Return(event, nil)
	service := NewService(repository, &mockGroupService{}, 3)

	_, _, err := service.Calendar(context.Background(), 8, time.Now())

	require.Error(t, err)
	assert.True(t, errdef.IsNotFound(err))
}

type mockEventRepository struct{ mock.Mock }

func (m *mockEventRepository) create(ctx context.Context, event *model.Event) error {
	called := m.Called(ctx, event)
	return called.Error(0)
}

func (m *mockEventRepository) createWithGroup(ctx context.Context, event *model.Event, group *model.Group) error {
	called := m.Called(ctx, event, group)
	return called.Error(0)
}

func (m *mockEventRepository) findById(ctx context.Context, id uint) (*model.Event, error) {
	called := m.Called(ctx, id)
	return called.Get(0).(*model.Event), called.Error(1)
}

func (m *mockEventRepository) findByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error) {
	called := m.Called(ctx, status)
	return called.Get(0).([]model.Event), called.Error(1)
}

func (m *mockEventRepository) updateModeration(ctx context.Context, event *model.Event) error {
	called := m.Called(ctx, event)
	return called.Error(0)
}

func (m *mockEventRepository) delete(ctx context.Context, id uint) error {
	called := m.Called(ctx, id)
	return called.Error(0)
}

type mockGroupService struct{ mock.Mock }

func (m *mockGroupService) Placeholder(name string, user *model.User) *model.Group {
	called := m.Called(name, user)
	result, _ := called.Get(0).(*model.Group)
	return result
}
