package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/hostelhub/internal/bootstrap"
	"github.com/yigit/hostelhub/internal/config"
)

// AppContext is shared by every command. Cfg and Logger are filled by Init,
// which the root command runs before any subcommand.
type AppContext struct {
	Ctx        context.Context
	ConfigPath string
	Cfg        *config.Config
	Logger     zerolog.Logger
}

// Init loads the config and configures logging
func (a *AppContext) Init() error {
	if a.Ctx == nil {
		a.Ctx = context.Background()
	}
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Cfg = cfg
	a.Logger = lgr
	return nil
}

// Services connects to the database and wires the service layer. The
// returned func closes the pool.
func (a *AppContext) Services() (*bootstrap.Dependencies, func(), error) {
	pool, err := bootstrap.ConnectDatabase(a.Ctx, a.Cfg, a.Logger)
	if err != nil {
		return nil, nil, err
	}
	deps, err := bootstrap.BuildServices(a.Cfg, pool, a.Logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return deps, pool.Close, nil
}
