package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the gateway process.
// All values must come from env (or env-file loaded by the process runner).
// No component should read raw environment variables.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Backend BackendConfig
	Tenant  TenantConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// DBConfig is optional. An empty Host selects the in-memory tenant registry and audit trail.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional. An empty Host selects in-memory revocation and write guards.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	SessionTTL  time.Duration

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	// CookieInsecure drops the Secure attribute; only honoured outside production.
	CookieInsecure bool
}

type BackendConfig struct {
	URL        string
	ServiceKey string
	// Timeout of zero leaves the transport defaults in place.
	Timeout        time.Duration
	MaxUploadBytes int64
}

type TenantConfig struct {
	CookieTTL         time.Duration
	DefaultThemeColor string
	WriteGuardTTL     time.Duration
}

const (
	defaultJWTSecret     = "default-secret-key"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "password"
	defaultBackendURL    = "http://localhost:8000"
	defaultServiceKey    = "test-key"
	defaultThemeColor    = "#007bff"
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.DB.Host != "" {
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	{
		n, err := optionalInt("DB_MAX_OPEN_CONNS")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.MaxOpenConns = n
	}

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	for _, v := range []struct {
		key string
		dst *int
	}{
		{"REDIS_DB", &c.Redis.DB},
		{"REDIS_POOL_SIZE", &c.Redis.PoolSize},
	} {
		n, err := optionalInt(v.key)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		*v.dst = n
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.AdminUsername = strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	c.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	c.Auth.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	c.Auth.CookieInsecure = optionalBool("COOKIE_INSECURE")

	c.Backend.URL = strings.TrimSpace(os.Getenv("BACKEND_URL"))
	c.Backend.ServiceKey = os.Getenv("BACKEND_SERVICE_KEY")
	c.Tenant.DefaultThemeColor = strings.TrimSpace(os.Getenv("THEME_DEFAULT_COLOR"))
	{
		n, err := optionalInt("MAX_UPLOAD_BYTES")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Backend.MaxUploadBytes = int64(n)
	}

	// Duration env vars are optional; defaults applied in Validate().
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"DB_CONN_MAX_LIFETIME", &c.DB.ConnMaxLifetime},
		{"SESSION_TTL", &c.Auth.SessionTTL},
		{"BACKEND_TIMEOUT", &c.Backend.Timeout},
		{"TENANT_COOKIE_TTL", &c.Tenant.CookieTTL},
		{"WRITE_GUARD_TTL", &c.Tenant.WriteGuardTTL},
	} {
		v, err := optionalDuration(d.key)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		*d.dst = v
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the config and fills local-friendly defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.HasPostgres() {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
		if c.DB.MaxOpenConns < 0 {
			errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must not be negative"))
		} else if c.DB.MaxOpenConns == 0 {
			c.DB.MaxOpenConns = 10
		}
		if c.DB.ConnMaxLifetime < 0 {
			errs = append(errs, errors.New("DB_CONN_MAX_LIFETIME must not be negative"))
		} else if c.DB.ConnMaxLifetime == 0 {
			c.DB.ConnMaxLifetime = 30 * time.Minute
		}
	}

	if c.HasRedis() {
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
		if c.Redis.DB < 0 {
			errs = append(errs, fmt.Errorf("REDIS_DB must not be negative, got %d", c.Redis.DB))
		}
		if c.Redis.PoolSize < 0 {
			errs = append(errs, errors.New("REDIS_POOL_SIZE must not be negative"))
		} else if c.Redis.PoolSize == 0 {
			c.Redis.PoolSize = 10
		}
	}

	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		} else {
			c.Auth.JWTSecret = defaultJWTSecret
		}
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
		if c.Auth.AdminPasswordHash == "" {
			errs = append(errs, errors.New("ADMIN_PASSWORD_HASH is required in production"))
		}
		if c.Auth.CookieInsecure {
			errs = append(errs, errors.New("COOKIE_INSECURE is not allowed in production"))
		}
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = time.Hour
	}
	if c.Auth.AdminUsername == "" {
		c.Auth.AdminUsername = defaultAdminUsername
	}
	if c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == "" && !c.IsProduction() {
		c.Auth.AdminPassword = defaultAdminPassword
	}

	if c.Backend.URL == "" {
		c.Backend.URL = defaultBackendURL
	}
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.Backend.URL))
	}
	if c.Backend.ServiceKey == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("BACKEND_SERVICE_KEY is required in production"))
		} else {
			c.Backend.ServiceKey = defaultServiceKey
		}
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must not be negative"))
	}
	if c.Backend.MaxUploadBytes <= 0 {
		c.Backend.MaxUploadBytes = 32 << 20
	}

	if c.Tenant.CookieTTL <= 0 {
		c.Tenant.CookieTTL = 7 * 24 * time.Hour
	}
	if c.Tenant.DefaultThemeColor == "" {
		c.Tenant.DefaultThemeColor = defaultThemeColor
	}
	if c.Tenant.WriteGuardTTL <= 0 {
		c.Tenant.WriteGuardTTL = 30 * time.Second
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HasPostgres() bool { return c.DB.Host != "" }

func (c Config) HasRedis() bool { return c.Redis.Host != "" }

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (d DBConfig) DSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) (int, error) {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return 0, nil
	}
	return mustInt(key)
}

func optionalDuration(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func optionalBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
