// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, logging level
// and CORS live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: jobboard-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection for every form post (32 bytes; generated in dev when blank)
	CSRFKey string

	// Optional Redis shared by all instances for the price cache (blank disables it)
	RedisURL string

	// Price tickers
	TickerBTCUSDURL   string
	TickerTRXBTCURL   string
	TickerTTL         time.Duration
	TickerTimeout     time.Duration
	TickerRefreshSpec string
}
