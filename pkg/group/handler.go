package group

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/handler"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
	"github.com/gin-gonic/gin"
)

func NewHandler(groupService groupService, userService userService) Handler {
	return Handler{
		groupService: groupService,
		userService:  userService,
	}
}

type Handler struct {
	groupService groupService
	userService  userService
}

type groupService interface {
	Submit(ctx context.Context, user *model.User, submission Submission) (*model.Group, error)
	FindById(ctx context.Context, id uint) (*model.Group, error)
	FindByStatus(ctx context.Context, status moderation.Status, zipCode string) ([]model.Group, error)
	Approve(ctx context.Context, actor *model.User, id uint) (*model.Group, error)
	Reject(ctx context.Context, actor *model.User, id uint, reason string) (*model.Group, error)
	Delete(ctx context.Context, id uint) error
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type SubmitGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	ZipCode     string `json:"zipCode"`
	Details     string `json:"details"`
	Website     string `json:"website" binding:"omitempty,url"`
	SocialMedia string `json:"socialMedia"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
	MapURL      string `json:"mapUrl" binding:"omitempty,url"`
	AgeRange    string `json:"ageRange"`
}

// Create submits a new group into the moderation queue.
func (h Handler) Create(c *gin.Context) {
	var request SubmitGroupRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	group, err := h.groupService.Submit(c.Request.Context(), user, Submission{
		Name:        request.Name,
		City:        request.City,
		State:       request.State,
		ZipCode:     request.ZipCode,
		Details:     request.Details,
		Website:     request.Website,
		SocialMedia: request.SocialMedia,
		ImageURL:    request.ImageURL,
		MapURL:      request.MapURL,
		AgeRange:    request.AgeRange,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// FindAll lists approved groups, optionally narrowed to a zip code with ?zip=. Administrators
// can list another moderation state by passing ?status=pending or ?status=rejected.
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

	groups, err := h.groupService.FindByStatus(c.Request.Context(), status, c.Query("zip"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, groups)
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

// ExportCSV downloads the approved groups as a CSV file, optionally narrowed to a zip code.
func (h Handler) ExportCSV(c *gin.Context) {
	groups, err := h.groupService.FindByStatus(c.Request.Context(), moderation.StatusApproved, c.Query("zip"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	records := [][]string{
		{"name", "city", "state", "zipCode", "details", "website", "socialMedia", "imageUrl", "mapUrl", "ageRange"},
	}
	for _, group := range groups {
		records = append(records, []string{
			group.Name,
			group.City,
			group.State,
			group.ZipCode,
			group.Details,
			group.Website,
			group.SocialMedia,
			group.ImageURL,
			group.MapURL,
			group.AgeRange,
		})
	}
	if err := writer.WriteAll(records); err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="groups.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// FindById returns a group. Groups that aren't approved are only visible to their submitter and
// to administrators; everyone else gets a not found.
func (h Handler) FindById(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if group.Status != moderation.StatusApproved {
		user, err := handler.GetUserFromContext(c)
		if err != nil || (!user.IsAdministrator() && !group.IsOwnedBy(user)) {
			_ = c.Error(errdef.NewNotFound("group %d doesn't exist", id))
			return
		}
	}

	c.JSON(http.StatusOK, group)
}

// Approve publishes a pending or rejected group.
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

	group, err := h.groupService.Approve(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, group)
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject refuses a group, optionally recording why.
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

	group, err := h.groupService.Reject(c.Request.Context(), user, id, request.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// Delete removes a group and all of its events.
func (h Handler) Delete(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
