package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	PriceProviderYahoo = "yahoo"
	PriceProviderMoex  = "moex"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Storage     string `env:"STORAGE" envDefault:"postgres"`
	HTTP        HTTP
	Auth        Auth
	Postgres    Postgres
	Redis       Redis
	Telegram    Telegram
	API         API
	Prices      Prices
	Cache       Cache
	Jobs        Jobs
	GoogleDrive GoogleDrive
}

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"JWT_ISSUER" envDefault:""`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"trade_journal"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"data/migrations"`
}

type Redis struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Telegram struct {
	Enabled          bool          `env:"TELEGRAM_ENABLED" envDefault:"false"`
	Token            string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES" envDefault:"52428800"`
}

type API struct {
	Debug    bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout  time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
	YahooApi YahooApi
	MoexApi  MoexApi
}

type YahooApi struct {
	Url string `env:"YAHOO_API_URL" envDefault:"https://query2.finance.yahoo.com"`
}

type MoexApi struct {
	Url string `env:"MOEX_API_URL" envDefault:"https://iss.moex.com"`
}

type Prices struct {
	Provider      string        `env:"PRICE_PROVIDER" envDefault:"yahoo"`
	LookupTimeout time.Duration `env:"PRICE_LOOKUP_TIMEOUT" envDefault:"3s"`
	MaxParallel   int           `env:"PRICE_MAX_PARALLEL" envDefault:"8"`
}

type Cache struct {
	PricesExpiration   time.Duration `env:"CACHE_PRICES_EXPIRATION" envDefault:"1m"`
	SessionsExpiration time.Duration `env:"CACHE_SESSIONS_EXPIRATION" envDefault:"24h"`
}

type Jobs struct {
	Timeout                  time.Duration `env:"JOBS_TIMEOUT" envDefault:"5m"`
	RefreshPricesInterval    time.Duration `env:"REFRESH_PRICES_JOB_INTERVAL" envDefault:"0s"`
	DeleteOldReportsInterval time.Duration `env:"DELETE_OLD_REPORTS_JOB_INTERVAL" envDefault:"1h"`
}

type GoogleDrive struct {
	Enabled         bool          `env:"GOOGLE_DRIVE_ENABLED" envDefault:"false"`
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

// Load parses the environment. JWT_SECRET has no default and is required.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}
