package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppName names the per-user data directory.
const AppName = "hygiene-analyzer"

// DefaultDatasetURL is the FHRS open-data file the analyzer reads by default.
const DefaultDatasetURL = "https://ratings.food.gov.uk/api/open-data-files/FHRS529en-GB.json"

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatasetURLs    []string      `envconfig:"DATASET_URLS" default:"https://ratings.food.gov.uk/api/open-data-files/FHRS529en-GB.json" validate:"required_unless=FetchMode file,dive,url"`
	InputFile      string        `envconfig:"INPUT_FILE" validate:"required_if=FetchMode file"`
	FetchMode      string        `envconfig:"FETCH_MODE" default:"http" validate:"oneof=http browser file"`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxConcurrency int           `envconfig:"MAX_CONCURRENCY" default:"3" validate:"min=1"`
	RateLimitMs    int           `envconfig:"RATE_LIMIT_MS" default:"500" validate:"min=0"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3" validate:"min=1"`
	ChromeBin      string        `envconfig:"CHROME_BIN"`

	PriorSeed        *uint64 `envconfig:"PRIOR_SEED"`
	TopBusinessTypes int     `envconfig:"TOP_BUSINESS_TYPES" default:"5" validate:"min=1"`
	TopRatedLimit    int     `envconfig:"TOP_RATED_LIMIT" default:"10" validate:"min=1"`

	OutputDir string `envconfig:"OUTPUT_DIR"`

	StoreDriver      string `envconfig:"STORE_DRIVER" default:"none" validate:"oneof=none postgres sqlite"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"hygiene"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"hygiene123"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"hygiene_db"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath       string `envconfig:"SQLITE_PATH"`

	LogLevel        string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`
	ServerAddr      string `envconfig:"SERVER_ADDR" default:":8080" validate:"required"`
}

// Load reads the .env file(s) and returns a populated, validated Config.
// With no files given it looks for ./.env.
func Load(envFiles ...string) (*Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply overrides
// (command line flags) before calling Validate.
func Read(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	urls := c.DatasetURLs[:0]
	for _, u := range c.DatasetURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 && c.FetchMode != "file" {
		urls = append(urls, DefaultDatasetURL)
	}
	c.DatasetURLs = urls

	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(xdg.DataHome, AppName, "exports")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(xdg.DataHome, AppName, "hygiene.db")
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// CSVOutputPath is where the authority insights CSV is written.
func (c *Config) CSVOutputPath() string {
	return filepath.Join(c.OutputDir, "authority_insights.csv")
}
