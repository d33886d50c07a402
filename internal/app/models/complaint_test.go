package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

func TestParseComplaintType(t *testing.T) {
	tests := []struct {
		in       string
		expected ComplaintType
		wantErr  bool
	}{
		{"", ComplaintInfrastructure, false},
		{"  ", ComplaintInfrastructure, false},
		{"Cleanliness", ComplaintCleanliness, false},
		{"technical", ComplaintTechnical, false},
		{"other", ComplaintOther, false},
		{"plumbing", "", true},
	}

	for _, tt := range tests {
		got, err := ParseComplaintType(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, got, tt.in)
	}
}

func TestComplaintStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ComplaintOpen.CanTransitionTo(ComplaintResolved))
	assert.True(t, ComplaintResolved.CanTransitionTo(ComplaintClosed))

	assert.False(t, ComplaintOpen.CanTransitionTo(ComplaintClosed))
	assert.False(t, ComplaintOpen.CanTransitionTo(ComplaintOpen))
	assert.False(t, ComplaintResolved.CanTransitionTo(ComplaintOpen))
	assert.False(t, ComplaintClosed.CanTransitionTo(ComplaintOpen))
	assert.False(t, ComplaintClosed.CanTransitionTo(ComplaintResolved))
	assert.False(t, ComplaintClosed.CanTransitionTo(ComplaintClosed))
}

func TestComplaint_Apply(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Complaint{ID: 1, Status: ComplaintOpen}

	err := c.Apply(ComplaintResolved, "  ", now)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, ComplaintOpen, c.Status)
	assert.Nil(t, c.ClosedAt)

	err = c.Apply(ComplaintClosed, "", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	require.NoError(t, c.Apply(ComplaintResolved, "Fan replaced", now))
	assert.Equal(t, ComplaintResolved, c.Status)
	require.NotNil(t, c.ClosedAt)
	assert.Equal(t, now, *c.ClosedAt)
	assert.Equal(t, "Fan replaced", *c.ResolutionInfo)

	later := now.Add(time.Hour)
	require.NoError(t, c.Apply(ComplaintClosed, "", later))
	assert.Equal(t, ComplaintClosed, c.Status)
	assert.Equal(t, later, *c.ClosedAt)
	assert.Equal(t, "Fan replaced", *c.ResolutionInfo)

	err = c.Apply(ComplaintResolved, "again", later)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("warden")
	assert.False(t, ok)
}
