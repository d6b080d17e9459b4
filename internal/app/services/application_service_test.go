package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/notification"
)

type lifecycleFixture struct {
	*harness
	recruiter *models.User
	other     *models.User
	student   *models.User
	job       *models.JobPosting
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	h := newHarness()
	f := &lifecycleFixture{harness: h}
	f.recruiter = h.users.add(t, models.User{FirstName: "Rita", LastName: "Recruiter", RoleType: models.RoleRecruiter})
	f.other = h.users.add(t, models.User{FirstName: "Oscar", LastName: "Other", RoleType: models.RoleRecruiter, Email: "oscar@example.com"})
	f.student = h.users.add(t, models.User{
		FirstName:  "Sam",
		LastName:   "Student",
		RoleType:   models.RoleStudent,
		ResumeText: ptr("Python developer with a taste for data"),
		CGPA:       ptr(8.5),
	})
	f.job = h.jobs.add(t, f.recruiter.ID, "Data Intern", "python", "sql")
	return f
}

func (f *lifecycleFixture) apply(t *testing.T) {
	t.Helper()
	_, err := f.applications.Apply(context.Background(), f.job.ID, f.student.ID)
	require.NoError(t, err)
}

func TestApplyScoresApplication(t *testing.T) {
	f := newLifecycleFixture(t)

	resp, err := f.applications.Apply(context.Background(), f.job.ID, f.student.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApplied, resp.Status)
	assert.Equal(t, 75, resp.Score)
	assert.Equal(t, models.StatusApplied, f.apps.status(f.job.ID, f.student.ID))
}

func TestApplyTwiceIsRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)

	// a better resume must not leak into the stored score
	u, _ := f.users.GetByID(context.Background(), f.student.ID)
	u.ResumeText = ptr("python and sql")
	require.NoError(t, f.users.UpdateProfile(context.Background(), u))

	_, err := f.applications.Apply(context.Background(), f.job.ID, f.student.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyApplied))

	stored, err := f.apps.Get(context.Background(), f.job.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, stored.Score)
	assert.Equal(t, models.StatusApplied, stored.Status)
}

func TestApplyRejectsMissingJobAndNonStudents(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.applications.Apply(context.Background(), 999, f.student.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = f.applications.Apply(context.Background(), f.job.ID, f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
}

func TestListApplicantsRanksByScoreThenAcademicFigure(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	recruiter := h.users.add(t, models.User{FirstName: "Rita", RoleType: models.RoleRecruiter})
	job := h.jobs.add(t, recruiter.ID, "Go Developer", "go")

	low := h.users.add(t, models.User{FirstName: "Low", RoleType: models.RoleStudent, CGPA: ptr(5.0)})
	good := h.users.add(t, models.User{FirstName: "Good", RoleType: models.RoleStudent, ResumeText: ptr("Go"), CGPA: ptr(9.1)})
	best := h.users.add(t, models.User{FirstName: "Best", RoleType: models.RoleStudent, ResumeText: ptr("go, k8s"), CGPA: ptr(9.5)})

	for _, s := range []*models.User{low, good, best} {
		_, err := h.applications.Apply(ctx, job.ID, s.ID)
		require.NoError(t, err)
	}

	list, err := h.applications.ListApplicantsForJob(ctx, job.ID, recruiter.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, best.ID, list[0].StudentID)
	assert.Equal(t, good.ID, list[1].StudentID)
	assert.Equal(t, low.ID, list[2].StudentID)
	assert.Equal(t, 100, list[0].Score)
	assert.Equal(t, 100, list[1].Score)
	assert.Equal(t, 40, list[2].Score)
}

func TestListApplicantsRequiresOwnership(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)

	_, err := f.applications.ListApplicantsForJob(context.Background(), f.job.ID, f.other.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	_, err = f.applications.ListApplicantsForJob(context.Background(), 999, f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestShortlistProvisionsConversationAndNotifies(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)
	ctx := context.Background()

	resp, err := f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "Shortlisted", f.recruiter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShortlisted, resp.Status)
	require.NotNil(t, resp.ConversationID)

	convs, err := f.conversations.ListConversations(ctx, models.Principal{UserID: f.student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, f.job.ID, convs[0].JobID)
	assert.Equal(t, *resp.ConversationID, convs[0].ID)
	assert.Equal(t, 1, convs[0].MessageCount)

	conv, err := f.conversations.GetConversation(ctx, convs[0].ID, models.Principal{UserID: f.student.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, models.SenderRecruiter, conv.Messages[0].SenderRole)
	assert.Equal(t, f.recruiter.ID, conv.Messages[0].SenderID)
	assert.Equal(t, SeedMessage, conv.Messages[0].Body)

	events := f.notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, notification.OutcomeHire, events[0].Outcome)
	assert.Equal(t, f.student.Email, events[0].RecipientEmail)
	assert.Equal(t, "Data Intern", events[0].JobTitle)
	assert.Equal(t, resp.ConversationID, events[0].ConversationID)
}

func TestShortlistTwiceKeepsSingleSeedMessage(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)
	ctx := context.Background()

	first, err := f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "SHORTLISTED", f.recruiter.ID)
	require.NoError(t, err)
	second, err := f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "shortlisted for in-person interview", f.recruiter.ID)
	require.NoError(t, err)

	assert.Equal(t, *first.ConversationID, *second.ConversationID)
	assert.Equal(t, 1, f.convs.count())
	n, _ := f.msgs.Count(ctx, *first.ConversationID)
	assert.Equal(t, 1, n)

	// the repeat still re-sends the decision email
	assert.Len(t, f.notifier.all(), 2)
}

func TestTransitionByNonOwnerLeavesStatusUnchanged(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)

	_, err := f.applications.TransitionStatus(context.Background(), f.job.ID, f.student.ID, "SHORTLISTED", f.other.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	assert.Equal(t, models.StatusApplied, f.apps.status(f.job.ID, f.student.ID))
	assert.Equal(t, 0, f.convs.count())
	assert.Empty(t, f.notifier.all())
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)

	_, err := f.applications.TransitionStatus(context.Background(), f.job.ID, f.student.ID, "HIRED_MAYBE", f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidStatus))
	assert.Equal(t, models.StatusApplied, f.apps.status(f.job.ID, f.student.ID))
}

func TestTransitionOutOfTerminalStateFails(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)
	ctx := context.Background()

	_, err := f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "REJECTED", f.recruiter.ID)
	require.NoError(t, err)

	_, err = f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "SHORTLISTED", f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, models.StatusRejected, f.apps.status(f.job.ID, f.student.ID))
	assert.Equal(t, 0, f.convs.count())

	events := f.notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, notification.OutcomeNonHire, events[0].Outcome)
	assert.Nil(t, events[0].ConversationID)
}

func TestUnderReviewDoesNotNotify(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)
	ctx := context.Background()

	resp, err := f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "under review", f.recruiter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, resp.Status)
	assert.Nil(t, resp.ConversationID)
	assert.Empty(t, f.notifier.all())

	_, err = f.applications.TransitionStatus(ctx, f.job.ID, f.student.ID, "APPLIED", f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestTransitionWithoutApplication(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.applications.TransitionStatus(context.Background(), f.job.ID, f.student.ID, "SHORTLISTED", f.recruiter.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	assert.Equal(t, 0, f.convs.count())
}

func TestListMyApplications(t *testing.T) {
	f := newLifecycleFixture(t)
	f.apply(t)
	second := f.jobs.add(t, f.recruiter.ID, "Backend Intern")
	_, err := f.applications.Apply(context.Background(), second.ID, f.student.ID)
	require.NoError(t, err)

	mine, err := f.applications.ListMyApplications(context.Background(), f.student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Backend Intern", mine[0].Job.Title)
	assert.Equal(t, 75, mine[0].Score)
	assert.Equal(t, "Data Intern", mine[1].Job.Title)
}
