package moderation_test

import (
	"testing"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActor struct {
	admin bool
}

func (a fakeActor) IsAdministrator() bool {
	return a.admin
}

type fakeTarget struct {
	status moderation.Status
	reason string
}

func (t *fakeTarget) ModerationStatus() moderation.Status {
	return t.status
}

func (t *fakeTarget) SetModerationStatus(status moderation.Status) {
	t.status = status
}

func (t *fakeTarget) SetRejectionReason(reason string) {
	t.reason = reason
}

func TestSubmit(t *testing.T) {
	target := &fakeTarget{}

	decision := moderation.Submit(target)

	assert.Equal(t, moderation.StatusPending, target.status)
	assert.Equal(t, moderation.StatusPending, decision.To)
}

func TestApprove(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending}

	decision, err := moderation.Approve(fakeActor{admin: true}, target)

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusApproved, target.status)
	assert.Equal(t, moderation.StatusPending, decision.From)
	assert.Equal(t, moderation.StatusApproved, decision.To)
	assert.False(t, decision.DecidedAt.IsZero())
}

func TestApproveClearsRejectionReason(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusRejected, reason: "duplicate listing"}

	_, err := moderation.Approve(fakeActor{admin: true}, target)

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusApproved, target.status)
	assert.Empty(t, target.reason)
}

func TestReject(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending}

	decision, err := moderation.Reject(fakeActor{admin: true}, target, "outside the region")

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusRejected, target.status)
	assert.Equal(t, "outside the region", target.reason)
	assert.Equal(t, "outside the region", decision.Reason)
}

func TestRejectEmptyReasonPermitted(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending}

	_, err := moderation.Reject(fakeActor{admin: true}, target, "")

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusRejected, target.status)
	assert.Empty(t, target.reason)
}

func TestApproveThenRejectLastDecisionWins(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending}
	admin := fakeActor{admin: true}

	_, err := moderation.Approve(admin, target)
	require.NoError(t, err)
	_, err = moderation.Reject(admin, target, "second thoughts")
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusRejected, target.status)
	assert.Equal(t, "second thoughts", target.reason)
}

func TestRejectThenReApprove(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusRejected, reason: "incomplete"}

	_, err := moderation.Approve(fakeActor{admin: true}, target)

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusApproved, target.status)
	assert.Empty(t, target.reason)
}

func TestNonAdministratorLeavesTargetUnchanged(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending, reason: ""}
	user := fakeActor{admin: false}

	_, err := moderation.Approve(user, target)
	assert.True(t, errdef.IsUnauthorized(err))

	_, err = moderation.Reject(user, target, "nope")
	assert.True(t, errdef.IsUnauthorized(err))

	assert.Equal(t, moderation.StatusPending, target.status)
	assert.Empty(t, target.reason)
}

func TestNilActor(t *testing.T) {
	target := &fakeTarget{status: moderation.StatusPending}

	_, err := moderation.Approve(nil, target)

	assert.True(t, errdef.IsUnauthorized(err))
	assert.Equal(t, moderation.StatusPending, target.status)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, moderation.StatusPending.Valid())
	assert.True(t, moderation.StatusApproved.Valid())
	assert.True(t, moderation.StatusRejected.Valid())
	assert.False(t, moderation.Status("archived").Valid())
}
