package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration parameters loaded from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"3000"`

	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	TokenExpiry string `envconfig:"TOKEN_EXPIRY" default:"1h"`

	// Home institute name, used as the affiliation of supervised students.
	InstituteName string `envconfig:"INSTITUTE_NAME" default:"IIT Delhi"`

	// Comma separated list of allowed CORS origins. "*" allows everything.
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// Schedule for the directory stats refresh job.
	StatsCronSchedule string `envconfig:"STATS_CRON_SCHEDULE" default:"@every 15m"`

	MediaS3Key    string `envconfig:"MEDIA_S3_KEY" required:"true"`
	MediaS3Secret string `envconfig:"MEDIA_S3_SECRET" required:"true"`
	MediaS3URL    string `envconfig:"MEDIA_S3_URL" required:"true"`
	MediaS3Region string `envconfig:"MEDIA_S3_REGION" required:"true"`
	MediaS3Bucket string `envconfig:"MEDIA_S3_BUCKET" required:"true"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
