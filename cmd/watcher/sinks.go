package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/database"
	"github.com/rickgao/auction-watch/internal/events"
	"github.com/rickgao/auction-watch/internal/sink"
)

// runningSink is an asynchronous event sink.
type runningSink interface {
	events.Handler
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats() sink.Stats
}

// sinkSet owns the started sinks and the journal database pool.
type sinkSet struct {
	logger *slog.Logger
	names  []string
	sinks  []runningSink
	pool   *pgxpool.Pool
}

// startSinks subscribes the log sink and every enabled network sink.
func startSinks(ctx context.Context, cfg config.SinksConfig, bus *events.Bus, logger *slog.Logger) (*sinkSet, error) {
	set := &sinkSet{logger: logger}
	bus.Subscribe("log", sink.NewLog(logger))

	if cfg.Kafka.Enabled {
		k, err := sink.NewKafka(cfg.Kafka, logger)
		if err != nil {
			return nil, fmt.Errorf("create kafka sink: %w", err)
		}
		if err := set.add(ctx, bus, "kafka", k); err != nil {
			return nil, err
		}
	}

	if cfg.Telegram.Enabled {
		t, err := sink.NewTelegram(cfg.Telegram, logger)
		if err != nil {
			set.Stop(ctx)
			return nil, fmt.Errorf("create telegram sink: %w", err)
		}
		if err := set.add(ctx, bus, "telegram", t); err != nil {
			return nil, err
		}
	}

	if cfg.Journal.Enabled {
		logger.Info("connecting to journal database",
			"host", cfg.Journal.Database.Host,
			"database", cfg.Journal.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Journal.Database)
		if err != nil {
			set.Stop(ctx)
			return nil, fmt.Errorf("connect journal database: %w", err)
		}
		set.pool = pool
		j, err := sink.NewJournal(ctx, pool, cfg.Journal, logger)
		if err != nil {
			set.Stop(ctx)
			return nil, err
		}
		if err := set.add(ctx, bus, "journal", j); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (s *sinkSet) add(ctx context.Context, bus *events.Bus, name string, rs runningSink) error {
	// Sinks outlive the run context so Stop can drain them.
	if err := rs.Start(context.WithoutCancel(ctx)); err != nil {
		s.Stop(ctx)
		return fmt.Errorf("start %s sink: %w", name, err)
	}
	bus.Subscribe(name, rs)
	s.names = append(s.names, name)
	s.sinks = append(s.sinks, rs)
	s.logger.Info("event sink started", "sink", name)
	return nil
}

// Stop flushes and stops every sink, then closes the journal pool.
func (s *sinkSet) Stop(ctx context.Context) {
	for i, rs := range s.sinks {
		if err := rs.Stop(ctx); err != nil {
			s.logger.Warn("sink did not stop cleanly", "sink", s.names[i], "err", err)
		}
		st := rs.Stats()
		s.logger.Info("event sink stopped",
			"sink", s.names[i],
			"written", st.Written,
			"failed", st.Failed,
			"dropped", st.Dropped,
		)
	}
	s.sinks = nil
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}
