package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// AdminEnsurer grants the admin role to emails that have no role yet
type AdminEnsurer interface {
	EnsureAdmins(ctx context.Context, emails []string) (int, error)
}

// ErrNoBootstrapAdmins is returned when nothing is configured to seed
var ErrNoBootstrapAdmins = errors.New("no bootstrap admins configured")

// BootstrapAdmins makes sure every configured admin email can reach the admin
// dashboard on a fresh database. Existing assignments are left untouched so
// a demoted account stays demoted.
func BootstrapAdmins(ctx context.Context, roles AdminEnsurer, emails []string, lgr zerolog.Logger) error {
	cleaned := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = validation.NormalizeEmail(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		cleaned = append(cleaned, e)
	}
	if len(cleaned) == 0 {
		return ErrNoBootstrapAdmins
	}

	lgr.Info().Strs("emails", cleaned).Msg("Checking/Creating bootstrap admins...")
	created, err := roles.EnsureAdmins(ctx, cleaned)
	if err != nil {
		lgr.Error().Err(err).Int("created", created).Msg("Error creating bootstrap admins")
		return err
	}
	lgr.Info().Int("created", created).Int("configured", len(cleaned)).Msg("Bootstrap admins ensured")
	return nil
}
