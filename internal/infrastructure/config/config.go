package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Documents   DocumentsConfig
	Chromedp    ChromedpConfig
	Wkhtmltopdf WkhtmltopdfConfig
	Storage     StorageConfig
	Telemetry   TelemetryConfig
	Idempotency IdempotencyConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string // debug, info, warn, error
	Format   string // json, console
	Output   string // stdout, stderr, or file path
	SQLLevel string // silent, error, warn, info
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // sqlite or postgres
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RequestTimeout bounds the context of each API request
	RequestTimeout time.Duration
	AllowOrigins   []string
	// RenderRoles lists the X-User-Roles values allowed to generate documents.
	// Empty allows every caller.
	RenderRoles []string
}

// DocumentsConfig holds document generation settings
type DocumentsConfig struct {
	TemplatesDir        string // empty uses the embedded templates
	OutputRoot          string
	PreferredEngine     string
	DefaultLanguage     string
	MaxProbeAttempts    int
	MaxSequenceAttempts int
	MaxOutputVersions   int
	GroupDocNoPrefix    string
}

// ChromedpConfig holds headless Chrome settings
type ChromedpConfig struct {
	Enabled   bool
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
}

// WkhtmltopdfConfig holds wkhtmltopdf settings
type WkhtmltopdfConfig struct {
	Enabled    bool
	BinaryPath string
	Timeout    time.Duration
}

// StorageConfig holds the optional archive of produced documents
type StorageConfig struct {
	Enabled bool
	Driver  string // s3 or fs
	// Dir is the archive root for the fs driver
	Dir          string
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
	KeyPrefix    string
	// PresignExpiration bounds download links handed out for archived files
	PresignExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry export settings. Traces, metrics and
// logs share one OTLP gRPC collector.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	Insecure          bool
	ServiceName       string
	SamplingRatio     float64
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	LogsLevel         string
	DBTracing         bool
}

// IdempotencyConfig holds the Idempotency-Key replay store
type IdempotencyConfig struct {
	Enabled bool
	Driver  string // memory or redis
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DOCGEN_ prefix (e.g., DOCGEN_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("DOCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Format:   v.GetString("log.format"),
			Output:   v.GetString("log.output"),
			SQLLevel: v.GetString("log.sql_level"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			RequestTimeout: v.GetDuration("http.request_timeout"),
			AllowOrigins:   v.GetStringSlice("http.allow_origins"),
			RenderRoles:    v.GetStringSlice("http.render_roles"),
		},
		Documents: DocumentsConfig{
			TemplatesDir:        v.GetString("documents.templates_dir"),
			OutputRoot:          v.GetString("documents.output_root"),
			PreferredEngine:     v.GetString("documents.preferred_engine"),
			DefaultLanguage:     v.GetString("documents.default_language"),
			MaxProbeAttempts:    v.GetInt("documents.max_probe_attempts"),
			MaxSequenceAttempts: v.GetInt("documents.max_sequence_attempts"),
			MaxOutputVersions:   v.GetInt("documents.max_output_versions"),
			GroupDocNoPrefix:    v.GetString("documents.group_doc_no_prefix"),
		},
		Chromedp: ChromedpConfig{
			Enabled:   v.GetBool("chromedp.enabled"),
			RemoteURL: v.GetString("chromedp.remote_url"),
			NoSandbox: v.GetBool("chromedp.no_sandbox"),
			Timeout:   v.GetDuration("chromedp.timeout"),
		},
		Wkhtmltopdf: WkhtmltopdfConfig{
			Enabled:    v.GetBool("wkhtmltopdf.enabled"),
			BinaryPath: v.GetString("wkhtmltopdf.binary_path"),
			Timeout:    v.GetDuration("wkhtmltopdf.timeout"),
		},
		Storage: StorageConfig{
			Enabled:           v.GetBool("storage.enabled"),
			Driver:            v.GetString("storage.driver"),
			Dir:               v.GetString("storage.dir"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			KeyPrefix:         v.GetString("storage.key_prefix"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ServiceName:       v.GetString("telemetry.service_name"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			LogsLevel:         v.GetString("telemetry.logs_level"),
			DBTracing:         v.GetBool("telemetry.db_tracing"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			Driver:  v.GetString("idempotency.driver"),
			TTL:     v.GetDuration("idempotency.ttl"),
			Redis: RedisConfig{
				Addr:      v.GetString("idempotency.redis.addr"),
				Password:  v.GetString("idempotency.redis.password"),
				DB:        v.GetInt("idempotency.redis.db"),
				KeyPrefix: v.GetString("idempotency.redis.key_prefix"),
			},
		},
	}

	// Engines are on unless explicitly disabled
	if !v.IsSet("chromedp.enabled") {
		cfg.Chromedp.Enabled = true
	}
	if !v.IsSet("wkhtmltopdf.enabled") {
		cfg.Wkhtmltopdf.Enabled = true
	}
	if !v.IsSet("telemetry.sampling_ratio") {
		cfg.Telemetry.SamplingRatio = 1.0
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "docgen"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/docgen.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "docgen"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.SQLLevel == "" {
		cfg.Log.SQLLevel = "warn"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// PDF rendering blocks the request for its full duration
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 2 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 90 * time.Second
	}
	if cfg.Documents.OutputRoot == "" {
		cfg.Documents.OutputRoot = "documents/output"
	}
	if cfg.Documents.PreferredEngine == "" {
		cfg.Documents.PreferredEngine = "chromedp"
	}
	if cfg.Documents.DefaultLanguage == "" {
		cfg.Documents.DefaultLanguage = "ar"
	}
	if cfg.Documents.MaxProbeAttempts == 0 {
		cfg.Documents.MaxProbeAttempts = 200
	}
	if cfg.Documents.MaxSequenceAttempts == 0 {
		cfg.Documents.MaxSequenceAttempts = 8
	}
	if cfg.Documents.MaxOutputVersions == 0 {
		cfg.Documents.MaxOutputVersions = 200
	}
	if cfg.Documents.GroupDocNoPrefix == "" {
		cfg.Documents.GroupDocNoPrefix = "INVPL"
	}
	if cfg.Wkhtmltopdf.BinaryPath == "" {
		cfg.Wkhtmltopdf.BinaryPath = "wkhtmltopdf"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "s3"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = "warn"
	}
	if cfg.Idempotency.Driver == "" {
		cfg.Idempotency.Driver = "memory"
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
	if cfg.Idempotency.Redis.Addr == "" {
		cfg.Idempotency.Redis.Addr = "localhost:6379"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch strings.ToLower(c.Documents.DefaultLanguage) {
	case "ar", "en", "tr":
	default:
		return fmt.Errorf("documents.default_language must be ar, en or tr, got %q", c.Documents.DefaultLanguage)
	}
	if c.Documents.MaxProbeAttempts < 1 {
		return fmt.Errorf("documents.max_probe_attempts must be positive")
	}
	if c.Documents.MaxSequenceAttempts < 1 {
		return fmt.Errorf("documents.max_sequence_attempts must be positive")
	}
	if c.Documents.MaxOutputVersions < 2 {
		return fmt.Errorf("documents.max_output_versions must be at least 2")
	}

	if c.Storage.Enabled {
		switch c.Storage.Driver {
		case "s3":
			if c.Storage.Bucket == "" {
				return fmt.Errorf("storage.bucket is required when storage is enabled")
			}
			if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
				return fmt.Errorf("storage.access_key and storage.secret_key are required when storage is enabled")
			}
		case "fs":
			if c.Storage.Dir == "" {
				return fmt.Errorf("storage.dir is required for the fs storage driver")
			}
		default:
			return fmt.Errorf("storage.driver must be s3 or fs, got %q", c.Storage.Driver)
		}
	}

	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %v", c.Telemetry.SamplingRatio)
	}

	switch c.Idempotency.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("idempotency.driver must be memory or redis, got %q", c.Idempotency.Driver)
	}

	if c.App.Env == "production" && c.Database.Driver == "postgres" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
