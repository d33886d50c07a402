package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInstitutionalEmail(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		suffix string
		want   bool
	}{
		{"exact domain", "200101001@iiitdmj.ac.in", "iiitdmj.ac.in", true},
		{"suffix with at sign", "200101001@iiitdmj.ac.in", "@iiitdmj.ac.in", true},
		{"mixed case", "Warden@IIITDMJ.AC.IN", "iiitdmj.ac.in", true},
		{"subdomain", "guard@staff.iiitdmj.ac.in", "iiitdmj.ac.in", true},
		{"lookalike domain", "someone@eviliiitdmj.ac.in", "iiitdmj.ac.in", false},
		{"personal mail", "someone@gmail.com", "iiitdmj.ac.in", false},
		{"suffix in local part", "iiitdmj.ac.in@gmail.com", "iiitdmj.ac.in", false},
		{"no at sign", "iiitdmj.ac.in", "iiitdmj.ac.in", false},
		{"empty suffix", "a@iiitdmj.ac.in", "", false},
		{"empty email", "", "iiitdmj.ac.in", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInstitutionalEmail(tt.email, tt.suffix))
		})
	}
}

func TestDeriveRollNo(t *testing.T) {
	rollNo, err := DeriveRollNo("200101001@iiitdmj.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "200101001", rollNo)

	rollNo, err = DeriveRollNo("  21bcs042@IIITDMJ.ac.in ")
	require.NoError(t, err)
	assert.Equal(t, "21BCS042", rollNo)

	_, err = DeriveRollNo("first.last@iiitdmj.ac.in")
	assert.ErrorIs(t, err, ErrInvalidRollNo)

	_, err = DeriveRollNo("@iiitdmj.ac.in")
	assert.ErrorIs(t, err, ErrInvalidRollNo)
}

func TestDeriveRollNo_Deterministic(t *testing.T) {
	first, err := DeriveRollNo("21bcs042@iiitdmj.ac.in")
	require.NoError(t, err)
	second, err := DeriveRollNo("21BCS042@iiitdmj.ac.in")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoomRules(t *testing.T) {
	assert.Equal(t, "A-101", NormalizeRoom(" a-101 "))
	assert.True(t, IsValidRoom("A-101"))
	assert.True(t, IsValidRoom("204"))
	assert.False(t, IsValidRoom(""))
	assert.False(t, IsValidRoom("-101"))
	assert.False(t, IsValidRoom("A 101"))
}

func TestSplitRecipients(t *testing.T) {
	got := SplitRecipients("a@iiitdmj.ac.in, B@iiitdmj.ac.in;a@iiitdmj.ac.in\n c@iiitdmj.ac.in ,,")
	assert.Equal(t, []string{"a@iiitdmj.ac.in", "b@iiitdmj.ac.in", "c@iiitdmj.ac.in"}, got)
	assert.Empty(t, SplitRecipients("  , ; "))
}
