package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	JwtSecret     string
	Issuer        string
	TokenLifetime time.Duration

	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbSSLMode  string

	ServerPort     string
	AllowedOrigins []string

	RedisURL          string
	SyncQueuePrefix   string
	SyncMaxAttempts   int
	SyncRetryBackoff  time.Duration
	SyncRatePerSecond float64
	SyncBurst         int

	LDAPURL          string
	LDAPBindDN       string
	LDAPBindPassword string
	LDAPProjectBase  string
	LDAPStatusAttr   string
	GIDBase          uint

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	InstitutionsFile   string
	AuditRetentionDays int

	LogLevel  string
	LogFormat string
)

// Settings mirrors the environment keys. LoadConfig copies it into the
// package level variables above.
type Settings struct {
	JwtSecret     string        `mapstructure:"JWT_SECRET"`
	Issuer        string        `mapstructure:"JWT_ISSUER"`
	TokenLifetime time.Duration `mapstructure:"JWT_LIFETIME"`

	DbHost     string `mapstructure:"DB_HOST"`
	DbPort     string `mapstructure:"DB_PORT"`
	DbUser     string `mapstructure:"DB_USER"`
	DbPassword string `mapstructure:"DB_PASSWORD"`
	DbName     string `mapstructure:"DB_NAME"`
	DbSSLMode  string `mapstructure:"DB_SSLMODE"`

	ServerPort     string `mapstructure:"SERVER_PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	RedisURL          string        `mapstructure:"REDIS_URL"`
	SyncQueuePrefix   string        `mapstructure:"SYNC_QUEUE_PREFIX"`
	SyncMaxAttempts   int           `mapstructure:"SYNC_MAX_ATTEMPTS"`
	SyncRetryBackoff  time.Duration `mapstructure:"SYNC_RETRY_BACKOFF"`
	SyncRatePerSecond float64       `mapstructure:"SYNC_RATE_PER_SECOND"`
	SyncBurst         int           `mapstructure:"SYNC_BURST"`

	LDAPURL          string `mapstructure:"LDAP_URL"`
	LDAPBindDN       string `mapstructure:"LDAP_BIND_DN"`
	LDAPBindPassword string `mapstructure:"LDAP_BIND_PASSWORD"`
	LDAPProjectBase  string `mapstructure:"LDAP_PROJECT_BASE"`
	LDAPStatusAttr   string `mapstructure:"LDAP_STATUS_ATTRIBUTE"`
	GIDBase          uint   `mapstructure:"GID_BASE"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`

	InstitutionsFile   string `mapstructure:"INSTITUTIONS_FILE"`
	AuditRetentionDays int    `mapstructure:"AUDIT_RETENTION_DAYS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("JWT_SECRET", "defaultsecret")
	v.SetDefault("JWT_ISSUER", "hpc-portal")
	v.SetDefault("JWT_LIFETIME", 8*time.Hour)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "portal")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SYNC_QUEUE_PREFIX", "portal:directory")
	v.SetDefault("SYNC_MAX_ATTEMPTS", 8)
	v.SetDefault("SYNC_RETRY_BACKOFF", 5*time.Second)
	v.SetDefault("SYNC_RATE_PER_SECOND", 5.0)
	v.SetDefault("SYNC_BURST", 5)

	v.SetDefault("LDAP_URL", "ldap://localhost:389")
	v.SetDefault("LDAP_BIND_DN", "cn=admin,dc=example,dc=org")
	v.SetDefault("LDAP_BIND_PASSWORD", "")
	v.SetDefault("LDAP_PROJECT_BASE", "ou=projects,dc=example,dc=org")
	v.SetDefault("LDAP_STATUS_ATTRIBUTE", "businessCategory")
	v.SetDefault("GID_BASE", 5000000)

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "allocation-documents")

	v.SetDefault("INSTITUTIONS_FILE", "institutions.yaml")
	v.SetDefault("AUDIT_RETENTION_DAYS", 365)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads .env (if present) and the process environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the services cannot run with.
func (s *Settings) Validate() error {
	if s.JwtSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if s.SyncMaxAttempts <= 0 {
		return errors.New("SYNC_MAX_ATTEMPTS must be positive")
	}
	if s.SyncRatePerSecond <= 0 {
		return errors.New("SYNC_RATE_PER_SECOND must be positive")
	}
	if s.SyncBurst <= 0 {
		return errors.New("SYNC_BURST must be positive")
	}
	if s.GIDBase == 0 {
		return errors.New("GID_BASE must be positive")
	}
	return nil
}

// LoadConfig loads the settings and publishes them as package variables.
func LoadConfig() {
	s, err := Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	Apply(s)
}

func Apply(s *Settings) {
	JwtSecret = s.JwtSecret
	Issuer = s.Issuer
	TokenLifetime = s.TokenLifetime

	DbHost = s.DbHost
	DbPort = s.DbPort
	DbUser = s.DbUser
	DbPassword = s.DbPassword
	DbName = s.DbName
	DbSSLMode = s.DbSSLMode

	ServerPort = s.ServerPort
	AllowedOrigins = splitList(s.AllowedOrigins)

	RedisURL = s.RedisURL
	SyncQueuePrefix = s.SyncQueuePrefix
	SyncMaxAttempts = s.SyncMaxAttempts
	SyncRetryBackoff = s.SyncRetryBackoff
	SyncRatePerSecond = s.SyncRatePerSecond
	SyncBurst = s.SyncBurst

	LDAPURL = s.LDAPURL
	LDAPBindDN = s.LDAPBindDN
	LDAPBindPassword = s.LDAPBindPassword
	LDAPProjectBase = s.LDAPProjectBase
	LDAPStatusAttr = s.LDAPStatusAttr
	GIDBase = s.GIDBase

	MinioEndpoint = s.MinioEndpoint
	MinioAccessKey = s.MinioAccessKey
	MinioSecretKey = s.MinioSecretKey
	MinioUseSSL = s.MinioUseSSL
	MinioBucket = s.MinioBucket

	InstitutionsFile = s.InstitutionsFile
	AuditRetentionDays = s.AuditRetentionDays

	LogLevel = s.LogLevel
	LogFormat = s.LogFormat
}

// PostgresDSN builds the key/value DSN used by gorm.
func PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		DbHost, DbPort, DbUser, DbPassword, DbName, DbSSLMode,
	)
}

// PostgresURL builds the URL form golang-migrate expects.
func PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		DbUser, url.QueryEscape(DbPassword), DbHost, DbPort, DbName, DbSSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
