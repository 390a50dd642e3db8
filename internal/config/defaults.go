package config

import (
	"time"

	"github.com/rickgao/auction-watch/internal/api"
)

// Default values for optional configuration fields.
const (
	DefaultAPITimeout        = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryBackoff      = 1 * time.Second
	DefaultActivityTTL       = api.DefaultActivityTTL
	DefaultSite              = "uk"
	DefaultBidsInterval      = 5 * time.Minute
	DefaultWatchlistInterval = 10 * time.Minute
	DefaultPurchasesInterval = 30 * time.Minute
	DefaultStoreBackend      = BackendSQLite
	DefaultSQLitePath        = "data/watcher.db"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultMetricsPath       = "/metrics"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultLogOutput         = "stdout"
	DefaultLogMaxSizeMB      = 100
	DefaultLogMaxAgeDays     = 14
	DefaultKafkaTopic        = "auction-watch.events"
	DefaultKafkaBufferSize   = 1000
	DefaultKafkaWriteTimeout = 10 * time.Second
	DefaultBatchSize         = 100
	DefaultFlushInterval     = 1 * time.Second
	DefaultBufferSize        = 10000
)

func (c *WatcherConfig) applyDefaults() {
	// API defaults
	if c.API.BrowseURL == "" {
		c.API.BrowseURL = api.DefaultBrowseURL
	}
	if c.API.TradingURL == "" {
		c.API.TradingURL = api.DefaultTradingURL
	}
	if c.API.ShoppingURL == "" {
		c.API.ShoppingURL = api.DefaultShoppingURL
	}
	if c.API.OAuthURL == "" {
		c.API.OAuthURL = api.DefaultOAuthURL
	}
	if c.API.AnalyticsURL == "" {
		c.API.AnalyticsURL = api.DefaultAnalyticsURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.ActivityTTL == 0 {
		c.API.ActivityTTL = DefaultActivityTTL
	}

	// Account defaults
	for i := range c.Accounts {
		a := &c.Accounts[i]
		if a.Site == "" {
			a.Site = DefaultSite
		}
		if a.BidsInterval == 0 {
			a.BidsInterval = DefaultBidsInterval
		}
		if a.WatchlistInterval == 0 {
			a.WatchlistInterval = DefaultWatchlistInterval
		}
		if a.PurchasesInterval == 0 {
			a.PurchasesInterval = DefaultPurchasesInterval
		}
	}

	// A seed without an account belongs to the only account.
	if len(c.Accounts) == 1 {
		for i := range c.Searches {
			if c.Searches[i].Account == "" {
				c.Searches[i].Account = c.Accounts[0].Name
			}
		}
	}

	// Store defaults
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	if c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = DefaultSQLitePath
	}
	if c.Store.Backend == BackendPostgres {
		applyDBDefaults(&c.Store.Postgres)
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.Mode == "" {
		c.Server.Mode = DefaultServerMode
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = DefaultLogOutput
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}

	// Sink defaults
	if c.Sinks.Kafka.Topic == "" {
		c.Sinks.Kafka.Topic = DefaultKafkaTopic
	}
	if c.Sinks.Kafka.BufferSize == 0 {
		c.Sinks.Kafka.BufferSize = DefaultKafkaBufferSize
	}
	if c.Sinks.Kafka.WriteTimeout == 0 {
		c.Sinks.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}
	j := &c.Sinks.Journal
	if j.Enabled {
		applyDBDefaults(&j.Database)
	}
	if j.BatchSize == 0 {
		j.BatchSize = DefaultBatchSize
	}
	if j.FlushInterval == 0 {
		j.FlushInterval = DefaultFlushInterval
	}
	if j.BufferSize == 0 {
		j.BufferSize = DefaultBufferSize
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
