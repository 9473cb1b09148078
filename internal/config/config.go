package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Tools  ToolsConfig
	CORS   CORSConfig
	Views  ViewsConfig
}

// ViewsConfig controls transient preview/edit state held by the server.
type ViewsConfig struct {
	TTL                time.Duration `mapstructure:"ttl"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
	EmptyPlaceholder   string        `mapstructure:"empty_placeholder"`
	UnprocessedMessage string        `mapstructure:"unprocessed_message"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ToolProviderConfig holds settings for a single AI provider.
type ToolProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ToolsConfig holds AI tool provider settings. The flat fields are used when
// no primary provider is configured.
type ToolsConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ToolProviderConfig `mapstructure:"primary"`
	Secondary ToolProviderConfig `mapstructure:"secondary"`
	Tertiary  ToolProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat fields.
func (t *ToolsConfig) PrimaryConfig() *ToolProviderConfig {
	if t.Primary.Provider != "" {
		return &t.Primary
	}
	return &ToolProviderConfig{
		Provider:     t.Provider,
		APIKey:       t.APIKey,
		DefaultModel: t.DefaultModel,
		MaxRetries:   t.MaxRetries,
		TimeoutSecs:  t.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (t *ToolsConfig) SecondaryConfig() *ToolProviderConfig {
	if t.Secondary.Provider != "" {
		return &t.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (t *ToolsConfig) TertiaryConfig() *ToolProviderConfig {
	if t.Tertiary.Provider != "" {
		return &t.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds token validation settings. Tokens are minted by the account service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings. File is optional; when set, JSON logs are
// also written there with rotation.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

const envPrefix = "DOCASSIST"

var envKeys = []string{
	"server.port", "server.read_timeout", "server.write_timeout", "server.environment",
	"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.max_open", "db.max_idle",
	"jwt.secret", "jwt.issuer",
	"s3.region", "s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key", "s3.max_file_size_mb", "s3.presign_expiry",
	"log.level", "log.format", "log.file",
	"cors.allowed_origins",
	"views.ttl", "views.cleanup_interval", "views.empty_placeholder", "views.unprocessed_message",
	"tools.provider", "tools.api_key", "tools.default_model", "tools.max_retries", "tools.timeout_secs",
}

var providerSlots = []string{"primary", "secondary", "tertiary"}

var providerFields = []string{"provider", "api_key", "default_model", "max_retries", "timeout_secs"}

// envName maps a viper key such as "tools.primary.api_key" to DOCASSIST_TOOLS_PRIMARY_API_KEY.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads configuration from environment variables with the DOCASSIST_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docassist")
	v.SetDefault("db.password", "docassist_secret")
	v.SetDefault("db.name", "docassist_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "docassist")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docassist-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// View state defaults
	v.SetDefault("views.ttl", "30m")
	v.SetDefault("views.cleanup_interval", "5m")
	v.SetDefault("views.empty_placeholder", "")
	v.SetDefault("views.unprocessed_message", "")

	// Tool provider defaults (flat)
	v.SetDefault("tools.provider", "claude")
	v.SetDefault("tools.api_key", "")
	v.SetDefault("tools.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("tools.max_retries", 2)
	v.SetDefault("tools.timeout_secs", 120)

	for _, slot := range providerSlots {
		v.SetDefault("tools."+slot+".provider", "")
		v.SetDefault("tools."+slot+".api_key", "")
		v.SetDefault("tools."+slot+".default_model", "")
		v.SetDefault("tools."+slot+".max_retries", 2)
		v.SetDefault("tools."+slot+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	keys := append([]string{}, envKeys...)
	for _, slot := range providerSlots {
		for _, field := range providerFields {
			keys = append(keys, "tools."+slot+"."+field)
		}
	}
	for _, key := range keys {
		_ = v.BindEnv(key, envName(key))
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCASSIST_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envName("server.port")) == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		File:   v.GetString("log.file"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Views = ViewsConfig{
		TTL:                v.GetDuration("views.ttl"),
		CleanupInterval:    v.GetDuration("views.cleanup_interval"),
		EmptyPlaceholder:   v.GetString("views.empty_placeholder"),
		UnprocessedMessage: v.GetString("views.unprocessed_message"),
	}
	cfg.Tools = ToolsConfig{
		Provider:     v.GetString("tools.provider"),
		APIKey:       v.GetString("tools.api_key"),
		DefaultModel: v.GetString("tools.default_model"),
		MaxRetries:   v.GetInt("tools.max_retries"),
		TimeoutSecs:  v.GetInt("tools.timeout_secs"),
		Primary:      providerConfig(v, "primary"),
		Secondary:    providerConfig(v, "secondary"),
		Tertiary:     providerConfig(v, "tertiary"),
	}

	if cfg.Views.TTL <= 0 {
		return nil, fmt.Errorf("config: views.ttl must be positive, got %s", cfg.Views.TTL)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, slot string) ToolProviderConfig {
	prefix := "tools." + slot + "."
	return ToolProviderConfig{
		Provider:     v.GetString(prefix + "provider"),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		MaxRetries:   v.GetInt(prefix + "max_retries"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
