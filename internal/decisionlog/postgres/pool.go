package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/jackc/pgx/v5/pgxpool"
)

func BuildPoolConfig(cfg internal.DecisionLogConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	return poolCfg, nil
}

// NewPool opens and pings the decision log pool.
func NewPool(ctx context.Context, cfg internal.DecisionLogConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("decisionlog: ping: %w", err)
	}
	return pool, nil
}
