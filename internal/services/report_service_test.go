package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etugal/internal/models"
)

type fakeReportRepo struct {
	reports map[int64]*models.UserReport
	images  []models.ReportImage
	nextID  int64
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[int64]*models.UserReport)}
}

func (r *fakeReportRepo) Store(_ context.Context, report *models.UserReport) error {
	r.nextID++
	report.ID = r.nextID
	r.reports[report.ID] = report
	return nil
}

func (r *fakeReportRepo) FindByID(_ context.Context, id int64) (*models.UserReport, error) {
	return r.reports[id], nil
}

func (r *fakeReportRepo) UpdateResolution(_ context.Context, report *models.UserReport) error {
	r.reports[report.ID] = report
	return nil
}

func (r *fakeReportRepo) AddImage(_ context.Context, image *models.ReportImage) error {
	r.images = append(r.images, *image)
	return nil
}

func (r *fakeReportRepo) ListPending(_ context.Context) ([]models.UserReport, error) {
	var out []models.UserReport
	for _, rp := range r.reports {
		if rp.Status == models.ReportPending {
			out = append(out, *rp)
		}
	}
	return out, nil
}

func newReportFixture(t *testing.T) (ReportService, *fakeUserRepo, *fakeReportRepo) {
	t.Helper()
	users := newFakeUserRepo()
	repo := newFakeReportRepo()
	trust := NewTrustService(users, &fakeEmailService{})
	return NewReportService(repo, users, trust), users, repo
}

func TestFileReportRequiresReason(t *testing.T) {
	svc, _, _ := newReportFixture(t)

	_, err := svc.FileReport(context.Background(), &models.UserReport{ReportedUserID: 1}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFileReportStoresImages(t *testing.T) {
	svc, _, repo := newReportFixture(t)

	report, err := svc.FileReport(context.Background(), &models.UserReport{
		ReporterID:     1,
		ReportedUserID: 2,
		Reason:         "abusive messages",
	}, []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)

	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, models.ActionNone, report.ActionTaken)
	assert.Len(t, repo.images, 2)
}

func TestResolveReportSuspends(t *testing.T) {
	svc, users, _ := newReportFixture(t)
	reported := users.addProfile(&models.UserProfile{})
	duration := "1_week"

	report, err := svc.FileReport(context.Background(), &models.UserReport{
		ReporterID:         1,
		ReportedUserID:     reported.UserID,
		Reason:             "spam",
		SuspensionDuration: &duration,
	}, nil)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), report.ID, models.ActionSuspend, "confirmed")
	require.NoError(t, err)

	assert.Equal(t, models.ReportResolved, resolved.Status)
	assert.Equal(t, models.ActionSuspend, resolved.ActionTaken)
	require.NotNil(t, resolved.ResolvedAt)

	profile, _ := users.FindProfileByID(context.Background(), reported.ID)
	assert.True(t, profile.IsSuspended)
	require.NotNil(t, profile.SuspendedUntil)
}

func TestResolveReportTerminates(t *testing.T) {
	svc, users, _ := newReportFixture(t)
	reported := users.addProfile(&models.UserProfile{})

	report, err := svc.FileReport(context.Background(), &models.UserReport{
		ReporterID:     1,
		ReportedUserID: reported.UserID,
		Reason:         "fraud",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), report.ID, models.ActionTerminate, "")
	require.NoError(t, err)

	profile, _ := users.FindProfileByID(context.Background(), reported.ID)
	assert.True(t, profile.IsTerminated)
}

func TestResolveReportNoActionLeavesTrustAlone(t *testing.T) {
	svc, users, _ := newReportFixture(t)
	reported := users.addProfile(&models.UserProfile{})

	report, err := svc.FileReport(context.Background(), &models.UserReport{
		ReporterID:     1,
		ReportedUserID: reported.UserID,
		Reason:         "disagreement",
	}, nil)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), report.ID, models.ActionNone, "not actionable")
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, resolved.Status)

	profile, _ := users.FindProfileByID(context.Background(), reported.ID)
	assert.False(t, profile.IsSuspended)
	assert.False(t, profile.IsTerminated)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResolveReportUnknownAction(t *testing.T) {
	svc, users, _ := newReportFixture(t)
	reported := users.addProfile(&models.UserProfile{})

	report, err := svc.FileReport(context.Background(), &models.UserReport{
		ReporterID:     1,
		ReportedUserID: reported.UserID,
		Reason:         "spam",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), report.ID, "banish", "")
	assert.ErrorIs(t, err, ErrValidation)
}
