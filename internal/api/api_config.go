package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/pressly/goose/v3"
	"golang.org/x/time/rate"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/fsnd-labs/fsnd-api/internal/auth"
	"github.com/fsnd-labs/fsnd-api/internal/database"
	"github.com/fsnd-labs/fsnd-api/internal/identity"
)

// TokenVerifier validates bearer tokens and returns their claims.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// UserLister lists users held by the identity provider.
type UserLister interface {
	ListUsers(ctx context.Context) ([]identity.User, error)
}

// APIConfig is the service context handed to every handler.
type APIConfig struct {
	db       *database.Queries
	sqlDB    *sql.DB
	dbDriver string
	dbURL    string
	platform string
	port     string
	logger   *slog.Logger

	verifier TokenVerifier
	users    UserLister

	corsOrigins []string
	rateLimit   rate.Limit
	rateBurst   int
	trustProxy  bool

	randIntN func(n int) int
}

// driver name, goose dialect and migrations directory per DB_DRIVER
var dbDrivers = map[string]struct {
	sqlDriver string
	dialect   string
	dir       string
}{
	"postgres": {"postgres", "postgres", "postgres"},
	"pgx":      {"pgx", "postgres", "postgres"},
	"sqlite":   {"sqlite", "sqlite3", "sqlite"},
}

func LoadEnvConfig(envPath string) *APIConfig {
	cfg := &APIConfig{}
	cfg.Init(envPath, "")
	return cfg
}

func (cfg *APIConfig) Init(envPath string, altDBUrl string) {
	// get environment variables
	if len(envPath) != 0 {
		_ = godotenv.Load(envPath)
	}

	cfg.platform = os.Getenv("PLATFORM")
	cfg.port = envOrDefault("PORT", "8080")
	cfg.dbDriver = envOrDefault("DB_DRIVER", "postgres")

	switch {
	case len(altDBUrl) != 0:
		cfg.dbURL = altDBUrl
	case os.Getenv("DB_URL") != "":
		cfg.dbURL = os.Getenv("DB_URL")
	default:
		cfg.GenerateDBConnectionString()
	}

	{
		slogLevel := os.Getenv("SLOG_LEVEL")
		switch slogLevel {
		case "DEBUG":
			cfg.NewLogger(slog.LevelDebug)
		case "WARN":
			cfg.NewLogger(slog.LevelWarn)
		case "ERROR":
			cfg.NewLogger(slog.LevelError)
		default:
			cfg.NewLogger(slog.LevelInfo)
		}
	}

	cfg.corsOrigins = strings.Split(envOrDefault("CORS_ORIGINS", "*"), ",")

	if rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64); err == nil && rps > 0 {
		cfg.rateLimit = rate.Limit(rps)
		cfg.rateBurst = 10
		if burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && burst > 0 {
			cfg.rateBurst = burst
		}
	}

	cfg.trustProxy, _ = strconv.ParseBool(os.Getenv("TRUSTED_PROXY"))

	cfg.initIdentityProvider()
	cfg.randIntN = rand.IntN
}

// initIdentityProvider wires token verification and the management API
// client when the provider is configured.
func (cfg *APIConfig) initIdentityProvider() {
	domain := strings.TrimSuffix(strings.TrimPrefix(os.Getenv("AUTH0_DOMAIN"), "https://"), "/")
	jwksURL := os.Getenv("AUTH0_JWKS_URL")
	if jwksURL == "" && domain != "" {
		jwksURL = "https://" + domain + "/.well-known/jwks.json"
	}
	if jwksURL != "" {
		issuer := ""
		if domain != "" {
			issuer = "https://" + domain + "/"
		}
		// background refresh lives as long as the process
		keys, err := auth.NewKeySet(context.Background(), auth.KeySetConfig{
			URL:             jwksURL,
			RefreshInterval: time.Hour,
		})
		if err != nil {
			slog.Error("token verification disabled", slog.String("error", err.Error()))
		} else {
			cfg.verifier = auth.NewVerifier(keys, os.Getenv("API_AUDIENCE"), issuer)
		}
	}

	clientID := os.Getenv("M2M_CLIENT_ID")
	if domain != "" && clientID != "" {
		cfg.users = identity.NewClient(identity.Config{
			BaseURL:      "https://" + domain,
			ClientID:     clientID,
			ClientSecret: os.Getenv("M2M_CLIENT_SECRET"),
		})
	}
}

// NewLogger installs the default logger: JSON on stdout, or tinted text
// when LOG_FORMAT=text.
func (cfg *APIConfig) NewLogger(level slog.Level) {
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "text" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	cfg.logger = slog.New(handler)
	slog.SetDefault(cfg.logger)
}

func envOrDefault(envVar string, defaultVal string) string {
	envVal := os.Getenv(envVar)
	if len(envVal) == 0 {
		envVal = defaultVal
	}
	return envVal
}

func (cfg *APIConfig) GenerateDBConnectionString() *string {
	if cfg.dbDriver == "sqlite" {
		cfg.dbURL = "file:" + envOrDefault("DB_NAME", "fsnd") + ".db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		return &cfg.dbURL
	}

	dbUser := envOrDefault("DB_USER", "postgres")
	dbPassword := envOrDefault("DB_PASSWORD", "postgres")
	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "fsnd")

	cfg.dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser,
		dbPassword,
		dbHost,
		dbPort,
		dbName,
	)
	return &cfg.dbURL
}

// ConnectToDB opens the configured database and applies the migrations found
// under schemaFS/<dialect directory>.
func (cfg *APIConfig) ConnectToDB(schemaFS fs.FS) error {
	driver, ok := dbDrivers[cfg.dbDriver]
	if !ok {
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.dbDriver)
	}

	db, err := sql.Open(driver.sqlDriver, cfg.dbURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if driver.sqlDriver == "sqlite" {
		// one connection keeps in-memory databases alive and serialises writers
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	goose.SetBaseFS(schemaFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(driver.dialect); err != nil {
		db.Close()
		return err
	}

	if err = goose.Up(db, driver.dir); err != nil {
		db.Close()
		return fmt.Errorf("could not apply database migrations with goose: %w", err)
	}

	cfg.sqlDB = db
	cfg.db = database.New(db)
	slog.Info("database ready", slog.String("driver", cfg.dbDriver))
	return nil
}

// RequireIdentityProvider reports whether token verification is configured.
func (cfg *APIConfig) RequireIdentityProvider() error {
	if cfg.verifier == nil {
		return errors.New("identity provider not configured: set AUTH0_DOMAIN or AUTH0_JWKS_URL")
	}
	return nil
}

func (cfg *APIConfig) Port() string {
	return cfg.port
}

func (cfg *APIConfig) Close() error {
	if cfg.sqlDB == nil {
		return nil
	}
	return cfg.sqlDB.Close()
}

func (cfg *APIConfig) pick(n int) int {
	if cfg.randIntN == nil {
		return rand.IntN(n)
	}
	return cfg.randIntN(n)
}
