package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/filestorage"
)

type complaintFixture struct {
	svc        *ComplaintService
	complaints *fakeComplaintStore
	students   *fakeStudentStore
	blobs      *fakeBlobStore
}

func newComplaintFixture() *complaintFixture {
	f := &complaintFixture{
		complaints: newFakeComplaintStore(),
		students:   newFakeStudentStore(),
		blobs:      &fakeBlobStore{},
	}
	f.students.add("200101001", "A-101")
	f.svc = NewComplaintService(f.complaints, f.students, f.blobs, testLogger)
	f.svc.now = fixedClock(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	return f
}

func TestComplaintService_FileDefaultsAndState(t *testing.T) {
	f := newComplaintFixture()

	c, err := f.svc.File(context.Background(), FileComplaintInput{RollNo: "200101001", Description: "  Tap leaking  "})
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, models.ComplaintInfrastructure, c.Type)
	assert.Equal(t, models.ComplaintOpen, c.Status)
	assert.Equal(t, "Tap leaking", c.Description)
	assert.Equal(t, "200101001", c.RollNo)
	assert.Nil(t, c.ClosedAt)
	assert.Nil(t, c.PhotoURL)
}

func TestComplaintService_DuplicateFilingCreatesDistinctRecords(t *testing.T) {
	f := newComplaintFixture()
	input := FileComplaintInput{RollNo: "200101001", Type: "cleanliness", Description: "Corridor not swept"}

	first, err := f.svc.File(context.Background(), input)
	require.NoError(t, err)
	second, err := f.svc.File(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	list, err := f.svc.ListFor(context.Background(), "200101001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
}

func TestComplaintService_FileValidation(t *testing.T) {
	f := newComplaintFixture()

	_, err := f.svc.File(context.Background(), FileComplaintInput{RollNo: "200101001", Type: "plumbing", Description: "x"})
	assertFieldError(t, err, "type")

	_, err = f.svc.File(context.Background(), FileComplaintInput{RollNo: "200101001", Description: "   "})
	assertFieldError(t, err, "description")

	_, err = f.svc.File(context.Background(), FileComplaintInput{RollNo: "200109999", Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	assert.Empty(t, f.complaints.complaints, "no partial writes")
}

func TestComplaintService_FileWithPhoto(t *testing.T) {
	f := newComplaintFixture()
	photo := &multipart.FileHeader{Filename: "fan.jpg"}

	c, err := f.svc.File(context.Background(), FileComplaintInput{RollNo: "200101001", Description: "Fan broken", Photo: photo})
	require.NoError(t, err)
	require.NotNil(t, c.PhotoURL)
	assert.Equal(t, f.blobs.saved[0], *c.PhotoURL)
}

func TestComplaintService_FileRejectsNonImagePhoto(t *testing.T) {
	f := newComplaintFixture()
	f.blobs.saveErr = filestorage.ErrUnsupportedFileType

	_, err := f.svc.File(context.Background(), FileComplaintInput{
		RollNo: "200101001", Description: "x", Photo: &multipart.FileHeader{Filename: "a.exe"},
	})
	assertFieldError(t, err, "photo")
}

func TestComplaintService_FileRemovesPhotoWhenStoreFails(t *testing.T) {
	f := newComplaintFixture()
	f.complaints.createErr = errors.New("db down")

	_, err := f.svc.File(context.Background(), FileComplaintInput{
		RollNo: "200101001", Description: "x", Photo: &multipart.FileHeader{Filename: "fan.png"},
	})
	require.Error(t, err)
	assert.Equal(t, f.blobs.saved, f.blobs.deleted)
}

func TestComplaintService_Lifecycle(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	c, err := f.svc.File(ctx, FileComplaintInput{RollNo: "200101001", Description: "Light flickers"})
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, c.ID, TransitionInput{Status: "closed"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "open cannot jump to closed")

	_, err = f.svc.Transition(ctx, c.ID, TransitionInput{Status: "resolved"})
	assertFieldError(t, err, "resolutionInfo")

	resolved, err := f.svc.Transition(ctx, c.ID, TransitionInput{Status: "resolved", ResolutionInfo: "Tube light replaced"})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintResolved, resolved.Status)
	require.NotNil(t, resolved.ClosedAt)
	assert.True(t, resolved.ClosedAt.After(c.CreatedAt))

	closed, err := f.svc.Transition(ctx, c.ID, TransitionInput{Status: "closed"})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintClosed, closed.Status)
	assert.Equal(t, "Tube light replaced", *closed.ResolutionInfo)

	for _, status := range []string{"open", "resolved", "closed"} {
		_, err = f.svc.Transition(ctx, c.ID, TransitionInput{Status: status, ResolutionInfo: "again"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "closed is terminal (%s)", status)
	}

	_, err = f.svc.Transition(ctx, 999, TransitionInput{Status: "resolved", ResolutionInfo: "x"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.Transition(ctx, c.ID, TransitionInput{Status: "reopened"})
	assertFieldError(t, err, "status")
}

func TestComplaintService_ConcurrentTransitionAppliesOnce(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()
	c, err := f.svc.File(ctx, FileComplaintInput{RollNo: "200101001", Description: "Door lock"})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Transition(ctx, c.ID, TransitionInput{Status: "resolved", ResolutionInfo: "fixed"})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrInvalidTransition), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)
}

func TestComplaintService_ListAllFilters(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()
	f.students.add("200101002", "")

	_, err := f.svc.File(ctx, FileComplaintInput{RollNo: "200101001", Type: "technical", Description: "Wifi"})
	require.NoError(t, err)
	_, err = f.svc.File(ctx, FileComplaintInput{RollNo: "200101002", Type: "other", Description: "Noise"})
	require.NoError(t, err)

	all, total, err := f.svc.ListAll(ctx, ComplaintListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	mine, _, err := f.svc.ListAll(ctx, ComplaintListInput{RollNo: "200101002"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Noise", mine[0].Description)

	technical, _, err := f.svc.ListAll(ctx, ComplaintListInput{Type: "technical", Status: "open"})
	require.NoError(t, err)
	require.Len(t, technical, 1)
	assert.Equal(t, "Wifi", technical[0].Description)

	_, _, err = f.svc.ListAll(ctx, ComplaintListInput{Status: "pending"})
	assertFieldError(t, err, "status")
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, field, custom.Field)
}
