package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

func TestActor_RollNo(t *testing.T) {
	assert.Equal(t, "200101001", Actor{Email: "200101001@iiitdmj.ac.in"}.RollNo())
	assert.Equal(t, "", Actor{Email: "not-an-email"}.RollNo())
}

func TestValidateStudentAccess(t *testing.T) {
	student := Actor{Email: "200101001@iiitdmj.ac.in", Role: models.RoleStudent}
	guard := Actor{Email: "gate@iiitdmj.ac.in", Role: models.RoleGuard}
	admin := Actor{Email: "warden@iiitdmj.ac.in", Role: models.RoleAdmin}

	assert.NoError(t, ValidateStudentAccess(student, "200101001"))
	assert.ErrorIs(t, ValidateStudentAccess(student, "200101002"), apperrors.ErrPermissionDenied)
	assert.NoError(t, ValidateStudentAccess(guard, "200101002"))
	assert.NoError(t, ValidateStudentAccess(admin, "200101002"))
}

func TestValidateComplaintAccess(t *testing.T) {
	complaint := &models.Complaint{ID: 1, RollNo: "200101001"}

	assert.NoError(t, ValidateComplaintAccess(Actor{Email: "200101001@iiitdmj.ac.in", Role: models.RoleStudent}, complaint))
	assert.NoError(t, ValidateComplaintAccess(Actor{Email: "warden@iiitdmj.ac.in", Role: models.RoleAdmin}, complaint))
	assert.ErrorIs(t, ValidateComplaintAccess(Actor{Email: "gate@iiitdmj.ac.in", Role: models.RoleGuard}, complaint), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, ValidateComplaintAccess(Actor{Email: "200101002@iiitdmj.ac.in", Role: models.RoleStudent}, complaint), apperrors.ErrPermissionDenied)
}
