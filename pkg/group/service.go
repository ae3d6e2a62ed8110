package group

import (
	"context"
	"strings"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/geocode"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(groupRepository groupRepository, gate regionGate) *service {
	return &service{
		groupRepository,
		gate,
	}
}

type groupRepository interface {
	create(ctx context.Context, group *model.Group) error
	findById(ctx context.Context, id uint) (*model.Group, error)
	findByStatus(ctx context.Context, status moderation.Status, zipCode string) ([]model.Group, error)
	updateModeration(ctx context.Context, group *model.Group) error
	delete(ctx context.Context, id uint) error
}

type regionGate interface {
	Classify(ctx context.Context, city string, state string, zip string) geocode.Classification
	AllowedStates() []string
}

type service struct {
	groupRepository groupRepository
	gate            regionGate
}

// Submission carries the user supplied fields of a new group.
type Submission struct {
	Name        string
	City        string
	State       string
	ZipCode     string
	Details     string
	Website     string
	SocialMedia string
	ImageURL    string
	MapURL      string
	AgeRange    string
}

// Submit gates the submission's location and stores it in the pending queue. Submissions whose
// verified location falls outside the served region are refused outright.
func (s *service) Submit(ctx context.Context, user *model.User, submission Submission) (*model.Group, error) {
	classification := s.gate.Classify(ctx, submission.City, submission.State, submission.ZipCode)
	if !classification.Accepted {
		states := strings.Join(s.gate.AllowedStates(), ", ")
		return nil, errdef.NewForbidden("%q is outside the served region, groups must be located in one of: %s", classification.StateCode, states)
	}

	group := &model.Group{
		Name:          submission.Name,
		City:          submission.City,
		State:         classification.StateCode,
		ZipCode:       submission.ZipCode,
		Details:       submission.Details,
		Website:       submission.Website,
		SocialMedia:   submission.SocialMedia,
		ImageURL:      submission.ImageURL,
		MapURL:        submission.MapURL,
		AgeRange:      submission.AgeRange,
		Lat:           classification.Lat,
		Lon:           classification.Lon,
		GeoConfidence: classification.Confidence,
		UserID:        &user.ID,
	}
	moderation.Submit(group)

	err := s.groupRepository.create(ctx, group)
	if err != nil {
		return nil, err
	}

	return group, nil
}

func (s *service) FindById(ctx context.Context, id uint) (*model.Group, error) {
	return s.groupRepository.findById(ctx, id)
}

// FindByStatus lists groups in the given moderation state, optionally narrowed to a zip code.
func (s *service) FindByStatus(ctx context.Context, status moderation.Status, zipCode string) ([]model.Group, error) {
	return s.groupRepository.findByStatus(ctx, status, zipCode)
}

// Placeholder builds the pending group backing an event submission that names a group which
// doesn't exist yet. It is not persisted here; the event intake stores it together with the
// event so a failed event insert leaves no group behind.
func (s *service) Placeholder(name string, user *model.User) *model.Group {
	return &model.Group{
		Name:          name,
		GeoConfidence: model.GeoConfidenceUnverified,
		Status:        moderation.StatusPending,
		UserID:        &user.ID,
	}
}

// Approve moves the group out of the pending queue. Approving again after a rejection clears the
// stored reason.
func (s *service) Approve(ctx context.Context, actor *model.User, id uint) (*model.Group, error) {
	group, err := s.groupRepository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := moderation.Approve(actor, group); err != nil {
		return nil, err
	}

	if err := s.groupRepository.updateModeration(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Reject refuses the group, keeping it out of the public directory. The reason may be empty.
func (s *service) Reject(ctx context.Context, actor *model.User, id uint, reason string) (*model.Group, error) {
	group, err := s.groupRepository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := moderation.Reject(actor, group, reason); err != nil {
		return nil, err
	}

	if err := s.groupRepository.updateModeration(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Delete removes the group along with every event attached to it.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.groupRepository.delete(ctx, id)
}
