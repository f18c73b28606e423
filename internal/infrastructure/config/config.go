// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Document backends
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion        string
	LogFile           string
	SentryDSN         string
	SentryEnvironment string

	// Discord
	Token             string
	GuildID           string
	PublicChannelID   string
	AdminChannelID    string
	AnnounceChannelID string
	LogChannelID      string
	RoleRequired      string
	InterestRole      string
	DiscordRateLimit  int

	// Store
	DataFile        string
	DocumentBackend string

	// MongoDB
	MongoURI        string
	MongoDB         string
	MongoUser       string
	MongoPassword   string
	MongoCollection string

	// PostgreSQL
	PostgresURI string

	// Dashboard
	Port         string
	DashboardDir string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	// OAuth
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	SecretKey           string

	// Ticket
	FontLight        string
	FontRegular      string
	TicketBaseImage  string
	AircraftImageDir string
	TicketOutputDir  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:        getEnv("APP_VERSION", "1.0.0"),
		LogFile:           getEnv("LOG_FILE", "utilities.log"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		Token:             getEnv("TOKEN", ""),
		GuildID:           getEnv("GUILD_ID", ""),
		PublicChannelID:   getEnv("PUBLIC_CHANNEL_ID", ""),
		AdminChannelID:    getEnv("ADMIN_CHANNEL_ID", ""),
		AnnounceChannelID: getEnv("ANNOUNCE_CHANNEL_ID", ""),
		LogChannelID:      getEnv("LOG_CHANNEL_ID", ""),
		RoleRequired:      getEnv("ROLE_REQUIRED", ""),
		InterestRole:      getEnv("INTEREST_ROLE", ""),
		DiscordRateLimit:  getEnvAsInt("DISCORD_RATE_LIMIT", 5),

		DataFile:        getEnv("DATA_FILE", "user_data.json"),
		DocumentBackend: strings.ToLower(getEnv("DOCUMENT_BACKEND", BackendFile)),

		MongoURI:        getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "flightdesk"),
		MongoUser:       getEnv("MONGO_USER", ""),
		MongoPassword:   getEnv("MONGO_PASSWORD", ""),
		MongoCollection: getEnv("MONGO_COLLECTION", "documents"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		Port:         getEnv("DASHBOARD_PORT", "8080"),
		DashboardDir: getEnv("DASHBOARD_DIR", "."),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordRedirectURI:  getEnv("DISCORD_REDIRECT_URI", "http://localhost:8080/auth/callback"),
		SecretKey:           getEnv("SECRET_KEY", ""),

		FontLight:        getEnv("FONT_LIGHT", "fonts/light.ttf"),
		FontRegular:      getEnv("FONT_REGULAR", "fonts/regular.ttf"),
		TicketBaseImage:  getEnv("TICKET_BASE_IMAGE", "image.png"),
		AircraftImageDir: getEnv("AIRCRAFT_IMAGE_DIR", "aircraft"),
		TicketOutputDir:  getEnv("TICKET_OUTPUT_DIR", "."),
	}

	return config, nil
}

// OAuthConfigured reports whether the dashboard login can run
func (c *Config) OAuthConfigured() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != "" && c.SecretKey != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
