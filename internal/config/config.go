package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	StoreDriver   string        // Document store backend: mysql or memory
	JWTSecret     string        // JWT secret key
	JWTTTL        time.Duration // Lifetime of issued tokens
	RedisAddr     string        // Redis server address, empty disables caching
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	CacheTTL      time.Duration // Lifetime of cached responses
	IsProd        bool          // Is production environment
	NessieBaseURL string        // Nessie API base URL
	NessieAPIKey  string        // Nessie API key, sent as ?key=
	NessieTimeout time.Duration // Timeout for outbound Nessie calls
	PlaidEnv      string        // Plaid environment name
	PlaidClientID string        // Plaid client id
	PlaidSecret   string        // Plaid secret
	LinkGuard     bool          // Refuse to relink users that already have a Nessie customer
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),                                // Application port
		DBUser:        os.Getenv("DB_USER"),                                      // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                                  // Database password
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),                            // Database host
		DBPort:        getEnv("DB_PORT", "3306"),                                 // Database port
		DBName:        os.Getenv("DB_NAME"),                                      // Database name
		StoreDriver:   getEnv("STORE_DRIVER", "mysql"),                           // Document store backend
		JWTSecret:     os.Getenv("JWT_SECRET"),                                   // JWT secret key
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),                      // Token lifetime
		RedisAddr:     os.Getenv("REDIS_ADDR"),                                   // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                                   // Redis password
		RedisDB:       redisDB,                                                   // Redis database number
		CacheTTL:      getDuration("CACHE_TTL", 60*time.Second),                  // Cache lifetime
		IsProd:        os.Getenv("IS_PROD") == "true",                            // Is production environment
		NessieBaseURL: getEnv("NESSIE_BASE_URL", "http://api.nessieisreal.com/"), // Nessie base URL
		NessieAPIKey:  os.Getenv("NESSIE_API_KEY"),                               // Nessie API key
		NessieTimeout: getDuration("NESSIE_TIMEOUT", 15*time.Second),             // Nessie timeout
		PlaidEnv:      getEnv("PLAID_ENV", "sandbox"),                            // Plaid environment
		PlaidClientID: os.Getenv("PLAID_CLIENT"),                                 // Plaid client id
		PlaidSecret:   os.Getenv("PLAID_SECRET"),                                 // Plaid secret
		LinkGuard:     os.Getenv("LINK_GUARD") == "true",                         // Relink guard
	}
}

// DSN builds the MySQL Data Source Name used by the server and the migrator
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the variable or a fallback when it is unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v // Use value from environment
	}
	return fallback
}

// getDuration parses a duration variable such as "15s", falling back on absence or bad input
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback // Ignore malformed values
	}
	return d
}
