package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application. It is loaded once at
// startup and passed explicitly into constructors; business logic never reads
// the environment directly.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Google       GoogleConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
	JWTSecret    string `env:"JWT_SECRET,required"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

type SMTPConfig struct {
	From     string `env:"SMTP_FROM"`
	Password string `env:"SMTP_PASSWORD"`
	Username string `env:"SMTP_USERNAME"`
	Port     int    `env:"SMTP_PORT"`
	Host     string `env:"SMTP_HOST"`
}

// VerificationConfig controls the one-time-code flow. RequireOnRegister decides
// whether new accounts must confirm a code before they count as verified, or
// are marked verified immediately at registration.
type VerificationConfig struct {
	RequireOnRegister     bool `mapstructure:"require_on_register"`
	TTLMinutes            int  `mapstructure:"ttl_minutes"`
	ResendCooldownSeconds int  `mapstructure:"resend_cooldown_seconds"`
	MaxAttempts           int  `mapstructure:"max_attempts"`
}

// Load creates a new Config object from the .env file and environment
// variables. A missing JWT secret or database URL is a fatal misconfiguration:
// the process refuses to serve rather than failing per-request.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into the process environment so BindEnv sees file-based values.
	if err := godotenv.Load(); err != nil {
		log.Printf("godotenv could not load .env: %v", err)
	}

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("jwtsecret", "JWT_SECRET")
	_ = viper.BindEnv("google.clientid", "GOOGLE_CLIENT_ID")
	_ = viper.BindEnv("google.clientsecret", "GOOGLE_CLIENT_SECRET")
	_ = viper.BindEnv("google.redirecturl", "GOOGLE_REDIRECT_URL")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("verification.require_on_register", "VERIFICATION_REQUIRE_ON_REGISTER")
	_ = viper.BindEnv("verification.ttl_minutes", "VERIFICATION_TTL_MINUTES")
	_ = viper.BindEnv("verification.resend_cooldown_seconds", "VERIFICATION_RESEND_COOLDOWN_SECONDS")
	_ = viper.BindEnv("verification.max_attempts", "VERIFICATION_MAX_ATTEMPTS")

	if err := viper.ReadInConfig(); err != nil {
		// Proceed without a .env file; environment variables may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("error reading config file: %s", err)
		}
		log.Printf(".env file not found, relying on environment variables")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("unable to decode config into struct: %v", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Verification.TTLMinutes <= 0 {
		cfg.Verification.TTLMinutes = 10
	}
	if cfg.Verification.ResendCooldownSeconds <= 0 {
		cfg.Verification.ResendCooldownSeconds = 60
	}
	if cfg.Verification.MaxAttempts <= 0 {
		cfg.Verification.MaxAttempts = 5
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	return &cfg
}

// IsDevelopment reports whether the server runs in development mode. Error
// responses include extra detail only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
