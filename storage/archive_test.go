package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan"
)

func samplePlan() *nutriplan.MultiDayMealPlan {
	return &nutriplan.MultiDayMealPlan{
		ID:           "plan-123",
		PatientRef:   "patient-9",
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		NumberOfDays: 1,
		Language:     "es",
		GeneratedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := NewFileArchive(filepath.Join(dir, "plans"))

	plan := samplePlan()
	require.NoError(t, a.Save(context.Background(), plan))

	data, err := os.ReadFile(filepath.Join(dir, "plans", "plan-123.json"))
	require.NoError(t, err)

	var onDisk nutriplan.MultiDayMealPlan
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "patient-9", onDisk.PatientRef)

	loaded, err := a.Load(context.Background(), "plan-123")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, loaded.ID)
	assert.True(t, plan.StartDate.Equal(loaded.StartDate))
}

func TestFileArchiveRejectsMissingID(t *testing.T) {
	a := NewFileArchive(t.TempDir())
	err := a.Save(context.Background(), &nutriplan.MultiDayMealPlan{})
	require.Error(t, err)
}

func TestFileArchiveLoadUnknownID(t *testing.T) {
	a := NewFileArchive(t.TempDir())
	_, err := a.Load(context.Background(), "nope")
	require.Error(t, err)
}

type mockS3 struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.lastInput = in
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchiveSave(t *testing.T) {
	mock := &mockS3{}
	a := &S3Archive{bucket: "plans-bucket", prefix: "archive/v1", s3: mock}

	require.NoError(t, a.Save(context.Background(), samplePlan()))

	require.NotNil(t, mock.lastInput)
	assert.Equal(t, "plans-bucket", aws.ToString(mock.lastInput.Bucket))
	assert.Equal(t, "archive/v1/plan-123.json", aws.ToString(mock.lastInput.Key))
	assert.Equal(t, "application/json", aws.ToString(mock.lastInput.ContentType))
}

func TestS3ArchiveSaveError(t *testing.T) {
	a := &S3Archive{bucket: "b", s3: &mockS3{err: errors.New("access denied")}}
	err := a.Save(context.Background(), samplePlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestTestArchive(t *testing.T) {
	a := NewTestArchive()
	require.NoError(t, a.Save(context.Background(), samplePlan()))

	got, ok := a.Get("plan-123")
	require.True(t, ok)
	assert.Equal(t, "patient-9", got.PatientRef)

	failing := NewTestArchiveWithError(errors.New("full"))
	require.Error(t, failing.Save(context.Background(), samplePlan()))
}
