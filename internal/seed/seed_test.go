package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnsurer struct {
	got []string
	err error
}

func (r *recordingEnsurer) EnsureAdmins(ctx context.Context, emails []string) (int, error) {
	r.got = emails
	if r.err != nil {
		return 0, r.err
	}
	return len(emails), nil
}

func TestBootstrapAdmins(t *testing.T) {
	lgr := zerolog.New(io.Discard)

	t.Run("normalizes and deduplicates", func(t *testing.T) {
		roles := &recordingEnsurer{}
		err := BootstrapAdmins(context.Background(), roles, []string{" Warden@IIITDMJ.ac.in", "warden@iiitdmj.ac.in", "", "dean@iiitdmj.ac.in"}, lgr)
		require.NoError(t, err)
		assert.Equal(t, []string{"warden@iiitdmj.ac.in", "dean@iiitdmj.ac.in"}, roles.got)
	})

	t.Run("nothing configured", func(t *testing.T) {
		roles := &recordingEnsurer{}
		err := BootstrapAdmins(context.Background(), roles, []string{"  "}, lgr)
		assert.ErrorIs(t, err, ErrNoBootstrapAdmins)
		assert.Nil(t, roles.got)
	})

	t.Run("store failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		err := BootstrapAdmins(context.Background(), &recordingEnsurer{err: boom}, []string{"warden@iiitdmj.ac.in"}, lgr)
		assert.ErrorIs(t, err, boom)
	})
}
