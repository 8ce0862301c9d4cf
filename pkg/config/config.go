package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	PostgresURL    string
	MigrateOnStart bool

	JWTSecret string
	JWTTTL    time.Duration

	// AppBaseURL is the origin of the customer facing app; emailed links and campaign links point here.
	AppBaseURL string
	// PublicAPIURL is the origin of this service, used for locally served storage objects.
	PublicAPIURL       string
	CORSAllowedOrigins []string

	Mail    MailConfig
	Storage StorageConfig
	Redis   RedisConfig

	FormCacheTTL   time.Duration
	RealtimeDriver string
	MaxUploadBytes int64
}

type MailConfig struct {
	Provider     string // resend | smtp | log
	ResendAPIKey string
	FromAddress  string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseSSL   bool
}

type StorageConfig struct {
	Driver             string // local | gcs
	Dir                string
	GCSBucketPrefix    string
	GCSCredentialsFile string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AppBaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:5173"), "/"),
		RealtimeDriver: getEnv("REALTIME_DRIVER", "memory"),
		Mail: MailConfig{
			Provider:     getEnv("MAIL_PROVIDER", "log"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromAddress:  getEnv("MAIL_FROM_ADDRESS", "onboarding@resend.dev"),
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		},
		Storage: StorageConfig{
			Driver:             getEnv("STORAGE_DRIVER", "local"),
			Dir:                getEnv("STORAGE_DIR", "./data/storage"),
			GCSBucketPrefix:    os.Getenv("GCS_BUCKET_PREFIX"),
			GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
	cfg.PublicAPIURL = strings.TrimRight(getEnv("PUBLIC_API_URL", "http://localhost:"+cfg.Port), "/")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	var err error
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FormCacheTTL, err = getDuration("FORM_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Mail.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.Mail.SMTPUseSSL, err = getBool("SMTP_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	maxUploadMB, err := getInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "trustly-dev-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer for %s", key)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid boolean for %s", key)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
