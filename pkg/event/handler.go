package event

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/handler"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/calendar"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"github.com/gin-gonic/gin"
)

func NewHandler(eventService eventService, userService userService) Handler {
	return Handler{
		eventService: eventService,
		userService:  userService,
	}
}

type Handler struct {
	eventService eventService
	userService  userService
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type eventService interface {
	Submit(ctx context.Context, user *model.User, submission Submission) (*model.Event, error)
	FindById(ctx context.Context, id uint) (*model.Event, error)
	FindByStatus(ctx context.Context, status moderation.Status) ([]model.Event, error)
	Approve(ctx context.Context, actor *model.User, id uint) (*model.Event, error)
	Reject(ctx context.Context, actor *model.User, id uint, reason string) (*model.Event, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
	Calendar(ctx context.Context, id uint, now time.Time) ([]byte, string, error)
}

type SubmitEventRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Link          string     `json:"link" binding:"omitempty,url"`
	Address       string     `json:"address"`
	ZipCode       string     `json:"zipCode"`
	DateTime      *time.Time `json:"dateTime"`
	RecurringDay  string     `json:"recurringDay" binding:"omitempty,oneOf=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	RecurringWeek string     `json:"recurringWeek" binding:"omitempty,oneOf=first second third fourth last"`
	RecurringTime string     `json:"recurringTime"`
	GroupID       *uint      `json:"groupId"`
	GroupName     string     `json:"groupName"`
}

// Create submits a new event into the moderation queue.
func (h Handler) Create(c *gin.Context) {
	var request SubmitEventRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Submit(c.Request.Context(), user, Submission{
		Title:         request.Title,
		Description:   request.Description,
		Link:          request.Link,
		Address:       request.Address,
		ZipCode:       request.ZipCode,
		DateTime:      request.DateTime,
		RecurringDay:  request.RecurringDay,
		RecurringWeek: request.RecurringWeek,
		RecurringTime: request.RecurringTime,
		GroupID:       request.GroupID,
		GroupName:     request.GroupName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// FindAll lists approved events. Administrators can list another moderation state by passing
// ?status=pending or ?status=rejected.
func (h Handler) FindAll(c *gin.Context) {
	status := moderation.StatusApproved

	if requested := c.Query("status"); requested != "" {
		if !h.isAdministrator(c) {
			_ = c.Error(errdef.NewUnauthorized("administrator access denied"))
			return
		}

		status = moderation.Status(requested)
		if !status.Valid() {
			_ = c.Error(errdef.NewBadRequest("unknown status %q", requested))
			return
		}
	}

	events, err := h.eventService.FindByStatus(c.Request.Context(), status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	for i := range events {
		events[i].CalendarURL = calendarURL(events[i].ID)
	}

	c.JSON(http.StatusOK, events)
}

// isAdministrator re-checks the user row so a revoked administrator loses queue access
// immediately rather than at token expiry.
func (h Handler) isAdministrator(c *gin.Context) bool {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		return false
	}

	current, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		return false
	}

	return current.IsAdministrator()
}

// FindById returns an event. Events that aren't approved are only visible to their submitter and
// to administrators; everyone else gets a not found.
func (h Handler) FindById(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if event.Status != moderation.StatusApproved {
		user, err := handler.GetUserFromContext(c)
		if err != nil || (!user.IsAdministrator() && !event.IsOwnedBy(user)) {
			_ = c.Error(errdef.NewNotFound("event %d doesn't exist", id))
			return
		}
	}

	event.CalendarURL = calendarURL(event.ID)

	c.JSON(http.StatusOK, event)
}

func calendarURL(id uint) string {
	return fmt.Sprintf("/events/%d/calendar.ics", id)
}

// Calendar serves the event's occurrences as a downloadable iCalendar file.
func (h Handler) Calendar(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	feed, filename, err := h.eventService.Calendar(c.Request.Context(), id, time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, calendar.ContentType, feed)
}

// Approve publishes a pending or rejected event.
func (h Handler) Approve(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Approve(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject refuses an event, optionally recording why.
func (h Handler) Reject(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request RejectRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Reject(c.Request.Context(), user, id, request.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete removes an event. Submitters can withdraw their own, administrators any.
func (h Handler) Delete(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), user, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
