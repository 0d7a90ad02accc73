// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS, timeouts). AppConfig is everything specific to TaskHub:
// database connection, session signing, and Google OAuth credentials.
//
// Values come from environment variables, config files, or command-line
// flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session token configuration
	SessionSecret string        // HMAC secret for signing session tokens (must be strong in production)
	SessionName   string        // Cookie name for the session token (default: taskhub_session)
	SessionTTL    time.Duration // Token lifetime (default: 24h)

	// Google OAuth configuration
	GoogleClientID     string // Google OAuth2 client ID (blank disables Google sign-in)
	GoogleClientSecret string // Google OAuth2 client secret

	// Base URL used to build the OAuth callback and notification links
	BaseURL string // e.g., "https://taskhub.example.com" or "http://localhost:3000"
}
