package event

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Calendar(t *testing.T) {
	service := &mockEventService{}
	feed := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	service.
		On("Calendar", mock.Anything, uint(42), mock.AnythingOfType("time.Time")).
		Return(feed, "young-adult-meetup.ics", nil)
	handler := NewHandler(service, &mockUserService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/events/42/calendar.ics", nil)
	require.NoError(t, err)
	c.Request = req
	c.AddParam("id", "42")

	handler.Calendar(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/calendar", recorder.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="young-adult-meetup.ics"`, recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, feed, recorder.Body.Bytes())
	service.AssertExpectations(t)
}

func TestHandler_Calendar_NotFound(t *testing.T) {
	service := &mockEventService{}
	service.
		On("Calendar", mock.Anything, uint(42), mock.AnythingOfType("time.Time")).
		Return([]byte(nil), "", errdef.NewNotFound("event 42 doesn't exist"))
	handler := NewHandler(service, &mockUserService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/events/42/calendar.ics", nil)
	require.NoError(t, err)
	c.Request = req
	c.AddParam("id", "42")

	handler.Calendar(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.True(t, errdef.IsNotFound(c.Errors.Last()))
}

func TestHandler_FindById_PendingHiddenFromAnonymous(t *testing.T) {
	event := &model.Event{Title: "Pending Event", Status: moderation.StatusPending}
	event.ID = 1
	service := &mockEventService{}
	service.
		On("FindById", mock.Anything, uint(1)).
		Return(event, nil)
	handler := NewHandler(service, &mockUserService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/events/1", nil)
	require.NoError(t, err)
	c.Request = req
	c.AddParam("id", "1")

	handler.FindById(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.Contains(t, c.Errors.Last().Error(), "doesn't exist")
}

func TestHandler_FindAll_IncludesCalendarLink(t *testing.T) {
	event := model.Event{Title: "Parish Dinner", Status: moderation.StatusApproved}
	event.ID = 7
	service := &mockEventService{}
	service.
		On("FindByStatus", mock.Anything, moderation.StatusApproved).
		Return([]model.Event{event}, nil)
	handler := NewHandler(service, &mockUserService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/events", nil)
	require.NoError(t, err)
	c.Request = req

	handler.FindAll(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"calendarUrl":"/events/7/calendar.ics"`)
	service.AssertExpectations(t)
}

func TestHandler_FindAll_StatusFilterRevokedAdministrator(t *testing.T) {
	// the token still claims admin but the user row no longer does
	claimed := &model.User{Admin: true}
	claimed.ID = 1
	demoted := &model.User{Admin: false}
	demoted.ID = 1
	service := &mockEventService{}
	users := &mockUserService{}
	users.
		On("FindById", mock.Anything, uint(1)).
		Return(demoted, nil)
	handler := NewHandler(service, users)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/events?status=pending", nil)
	require.NoError(t, err)
	c.Request = req
	c.Set("user", claimed)

	handler.FindAll(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.Contains(t, c.Errors.Last().Error(), "administrator access denied")
	service.AssertNotCalled(t, "FindByStatus", mock.Anything, mock.Anything)
}

type mockEventService struct{ mock.Mock }

type mockUserService struct{ mock.Mock }

func (m *mockUserService) FindById(ctx context.Context, id uint) (*model.User, error) {
	called := m.Called(ctx, id)
	return called.Get(0).(*model.User), called.Error(1)
}

func (m *mockEventService) Submit(ctx context.Context, user *model.User, submission Submission) (*model.Event, error) {
	called := m.Called(ctx, user, submission)
	return called.Get(0).(*model.Event), called.Error(1)
}

func (m *mockEventService) FindById(ctx context.Context, id uint) (*model.Event, error) {
	called := m.Called(ctx, id)
	return called.Get(0).(*model.Event), called.Error(1)
}

func (m *mockEventService) FindByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error) {
	called := m.Called(ctx, status)
	return called.Get(0).([]model.Event), called.Error(1)
}

func (m *mockEventService) Approve(ctx context.Context, actor *model.User, id uint) (*model.Event, error) {
	called := m.Called(ctx, actor, id)
	return called.Get(0).(*model.Event), called.Error(1)
}

func (m *mockEventService) Reject(ctx context.Context, actor *model.User, id uint, reason string) (*model.Event, error) {
	called := m.Called(ctx, actor, id, reason)
	return called.Get(0).(*model.Event), called.Error(1)
}

func (m *mockEventService) Delete(ctx context.Context, actor *model.User, id uint) error {
	called := m.Called(ctx, actor, id)
	return called.Error(0)
}

func (m *mockEventService) Calendar(ctx context.Context, id uint, now time.Time) ([]byte, string, error) {
	called := m.Called(ctx, id, now)
	return called.Get(0).([]byte), called.String(1), called.Error(2)
}
