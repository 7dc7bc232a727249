// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the job board.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: JOBBOARD_MONGO_URI, JOBBOARD_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "jobboard", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "jobboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (generated per process in dev when blank)"},

	// Shared price cache
	{Name: "redis_url", Default: "", Desc: "Redis URL for the shared price cache (blank: in-process only)"},

	// Price tickers
	{Name: "ticker_btc_usd_url", Default: ticker.DefaultBTCUSDURL, Desc: "BTC/USD ticker endpoint"},
	{Name: "ticker_trx_btc_url", Default: ticker.DefaultTRXBTCURL, Desc: "TRX/BTC ticker endpoint"},
	{Name: "ticker_ttl", Default: "5m", Desc: "How long a fetched quote stays fresh (e.g., 5m, 90s)"},
	{Name: "ticker_timeout", Default: "10s", Desc: "Timeout for each outbound ticker request"},
	{Name: "ticker_refresh_spec", Default: ticker.DefaultRefreshSpec, Desc: "Cron schedule for background ticker refresh"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, JOBBOARD_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "JOBBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		CSRFKey:          appValues.String("csrf_key"),

		RedisURL: appValues.String("redis_url"),

		TickerBTCUSDURL:   appValues.String("ticker_btc_usd_url"),
		TickerTRXBTCURL:   appValues.String("ticker_trx_btc_url"),
		TickerTTL:         appValues.Duration("ticker_ttl", ticker.DefaultTTL),
		TickerTimeout:     appValues.Duration("ticker_timeout", 10*time.Second),
		TickerRefreshSpec: appValues.String("ticker_refresh_spec"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI and the refresh schedule are checked here so that typos
// fail fast, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must not be empty")
	}
	if err := ticker.ValidateSpec(appCfg.TickerRefreshSpec); err != nil {
		logger.Error("invalid ticker refresh spec", zap.Error(err))
		return err
	}
	if appCfg.TickerTTL <= 0 || appCfg.TickerTimeout <= 0 {
		return errors.New("ticker_ttl and ticker_timeout must be positive")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != csrfKeyLen {
		return fmt.Errorf("csrf_key must be exactly %d bytes", csrfKeyLen)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.CSRFKey == "" {
		return errors.New("csrf_key is required in production")
	}
	return nil
}
