package config

import "time"

// WatcherConfig is the root configuration for a watcher instance.
type WatcherConfig struct {
	Instance InstanceConfig  `yaml:"instance"`
	API      APIConfig       `yaml:"api"`
	Accounts []AccountConfig `yaml:"accounts"`
	Searches []SearchConfig  `yaml:"searches"`
	Store    StoreConfig     `yaml:"store"`
	Server   ServerConfig    `yaml:"server"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Logging  LoggingConfig   `yaml:"logging"`
	Sinks    SinksConfig     `yaml:"sinks"`
}

// InstanceConfig identifies this watcher.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds marketplace API settings shared by every account.
type APIConfig struct {
	BrowseURL    string        `yaml:"browse_url"`
	TradingURL   string        `yaml:"trading_url"`
	ShoppingURL  string        `yaml:"shopping_url"`
	OAuthURL     string        `yaml:"oauth_url"`
	AnalyticsURL string        `yaml:"analytics_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	ActivityTTL  time.Duration `yaml:"activity_ttl"` // how long a "my activity" fetch is reused
}

// AccountConfig holds one marketplace account.
type AccountConfig struct {
	Name      string `yaml:"name"`
	AppID     string `yaml:"app_id"`
	DevID     string `yaml:"dev_id"`
	CertID    string `yaml:"cert_id"`
	Token     string `yaml:"token"`      // user token for Trading calls
	TokenPath string `yaml:"token_path"` // read when token is empty
	Site      string `yaml:"site"`

	BidsInterval      time.Duration `yaml:"bids_interval"`
	WatchlistInterval time.Duration `yaml:"watchlist_interval"`
	PurchasesInterval time.Duration `yaml:"purchases_interval"`
}

// SearchConfig seeds a saved search at startup. Seeds are created only when
// no persisted search with the same account and query exists.
type SearchConfig struct {
	Account         string `yaml:"account"`
	Query           string `yaml:"query"`
	Site            string `yaml:"site"`
	CategoryID      string `yaml:"category_id"`
	MinPrice        string `yaml:"min_price"`
	MaxPrice        string `yaml:"max_price"`
	ListingType     string `yaml:"listing_type"`
	IntervalMinutes int    `yaml:"interval_minutes"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects where poller state and saved searches are kept.
type StoreConfig struct {
	Backend  string       `yaml:"backend"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
	Postgres DBConfig     `yaml:"postgres"`
}

// SQLiteConfig holds the embedded database file location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ServerConfig holds the operator HTTP API settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release or test
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds the root logger settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	Output     string `yaml:"output"` // stdout, stderr or a file path
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// SinksConfig enables the optional event sinks. The log sink is always on.
type SinksConfig struct {
	Kafka    KafkaConfig    `yaml:"kafka"`
	Telegram TelegramConfig `yaml:"telegram"`
	Journal  JournalConfig  `yaml:"journal"`
}

// KafkaConfig publishes events to a Kafka topic.
type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BufferSize   int           `yaml:"buffer_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TelegramConfig sends event notifications to a chat.
type TelegramConfig struct {
	Enabled bool     `yaml:"enabled"`
	Token   string   `yaml:"token"`
	ChatID  int64    `yaml:"chat_id"`
	Events  []string `yaml:"events"` // empty means every event kind
}

// JournalConfig appends every event to a PostgreSQL table.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Database      DBConfig      `yaml:"database"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}
