package cmd

import (
	"context"
	"fmt"

	"upload-agent/core/agent"
	"upload-agent/core/config"
	"upload-agent/core/database"
	"upload-agent/core/ledger"
	"upload-agent/core/logger"
	"upload-agent/feature/objects"

	"go.uber.org/zap"
)

// session is the state shared by every command.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *ledger.Store
	agent  *agent.Agent
}

// bootstrap loads the configuration, opens the ledger when enabled and
// creates the agent. With requireLedger a ledger failure is fatal, otherwise
// the agent runs without one.
func bootstrap(ctx context.Context, requireLedger bool) (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &session{cfg: cfg, logger: l}

	store, err := openLedger(cfg.Database, l)
	switch {
	case err != nil && requireLedger:
		return nil, err
	case err != nil:
		l.Warn("Optional ledger unavailable", zap.Error(err))
	case store == nil && requireLedger:
		return nil, fmt.Errorf("ledger disabled: set database.enabled")
	default:
		rt.store = store
	}

	var options []agent.Option
	if rt.store != nil {
		options = append(options, agent.WithHook(objects.LedgerHook(rt.store, l)))
	}
	rt.agent = agent.New(cfg.AgentOptions(), l, options...).Create(ctx)

	return rt, nil
}

// openLedger connects the ledger database. It returns nil without error when disabled.
func openLedger(cfg database.Config, l *zap.Logger) (*ledger.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := ledger.NewStore(db)
	if cfg.AutoMigrate {
		err = store.Migrate()
	} else {
		err = store.Verify()
	}
	if err != nil {
		return nil, err
	}

	l.Info("Connected to ledger database", zap.String("driver", cfg.Driver))
	return store, nil
}

// objectsLedger avoids handing a typed nil to the objects feature.
func (rt *session) objectsLedger() objects.Ledger {
	if rt.store == nil {
		return nil
	}
	return rt.store
}
