package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rickgao/auction-watch/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *WatcherConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if len(c.Accounts) == 0 {
		return errors.New("accounts is required")
	}
	names := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		prefix := fmt.Sprintf("accounts[%d]", i)
		if err := a.validate(prefix); err != nil {
			return err
		}
		if names[a.Name] {
			return fmt.Errorf("%s.name %q is duplicated", prefix, a.Name)
		}
		names[a.Name] = true
	}

	for i, s := range c.Searches {
		prefix := fmt.Sprintf("searches[%d]", i)
		if err := s.validate(prefix); err != nil {
			return err
		}
		if !names[s.Account] {
			return fmt.Errorf("%s.account %q is not a configured account", prefix, s.Account)
		}
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path is required")
		}
	case BackendPostgres:
		if err := c.Store.Postgres.validate("store.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("store.backend must be one of memory, sqlite, postgres, got %q", c.Store.Backend)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return c.Sinks.validate()
}

func (a *AccountConfig) validate(prefix string) error {
	if a.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if strings.Contains(a.Name, "/") {
		return fmt.Errorf("%s.name must not contain /", prefix)
	}
	if a.AppID == "" {
		return fmt.Errorf("%s.app_id is required", prefix)
	}
	if a.CertID == "" {
		return fmt.Errorf("%s.cert_id is required", prefix)
	}
	if a.BidsInterval < 0 || a.WatchlistInterval < 0 || a.PurchasesInterval < 0 {
		return fmt.Errorf("%s intervals must be >= 0", prefix)
	}
	return nil
}

func (s *SearchConfig) validate(prefix string) error {
	if s.Query == "" {
		return fmt.Errorf("%s.query is required", prefix)
	}
	if s.Account == "" {
		return fmt.Errorf("%s.account is required", prefix)
	}
	if _, err := model.ParseListingFilter(s.ListingType); err != nil {
		return fmt.Errorf("%s.listing_type: %w", prefix, err)
	}
	if s.IntervalMinutes < 0 {
		return fmt.Errorf("%s.interval_minutes must be >= 0", prefix)
	}
	for field, v := range map[string]string{"min_price": s.MinPrice, "max_price": s.MaxPrice} {
		if v == "" {
			continue
		}
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%s.%s %q is not a number", prefix, field, v)
		}
	}
	return nil
}

func (s *SinksConfig) validate() error {
	if s.Kafka.Enabled {
		if len(s.Kafka.Brokers) == 0 {
			return errors.New("sinks.kafka.brokers is required")
		}
		if s.Kafka.Topic == "" {
			return errors.New("sinks.kafka.topic is required")
		}
	}
	if s.Telegram.Enabled {
		if s.Telegram.Token == "" {
			return errors.New("sinks.telegram.token is required")
		}
		if s.Telegram.ChatID == 0 {
			return errors.New("sinks.telegram.chat_id is required")
		}
		for _, e := range s.Telegram.Events {
			if !model.EventKind(e).Valid() {
				return fmt.Errorf("sinks.telegram.events: unknown event %q", e)
			}
		}
	}
	if s.Journal.Enabled {
		if err := s.Journal.Database.validate("sinks.journal.database"); err != nil {
			return err
		}
		if s.Journal.BatchSize < 1 {
			return errors.New("sinks.journal.batch_size must be >= 1")
		}
		if s.Journal.BufferSize < 1 {
			return errors.New("sinks.journal.buffer_size must be >= 1")
		}
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
