package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Drive     DriveConfig
	MongoDB   MongoDBConfig
	Notify    NotifyConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DriveConfig contains credentials and options for the Google Drive archive.
type DriveConfig struct {
	CredentialsPath string
	RootFolderID    string
	ShareFiles      bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// NotifyConfig holds the optional submission webhook settings.
type NotifyConfig struct {
	WebhookURL string
}

// SchedulerConfig holds the folder pre-creation schedule.
type SchedulerConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	shareFiles, err := strconv.ParseBool(getenvWithDefault("DRIVE_SHARE_FILES", "false"))
	if err != nil {
		return nil, fmt.Errorf("DRIVE_SHARE_FILES must be a boolean: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Drive: DriveConfig{
			CredentialsPath: os.Getenv("DRIVE_CREDENTIALS_PATH"),
			RootFolderID:    os.Getenv("DRIVE_ROOT_FOLDER_ID"),
			ShareFiles:      shareFiles,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "comtec"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		Scheduler: SchedulerConfig{
			CronSchedule: getenvWithDefault("FOLDER_CRON_SCHEDULE", "5 0 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Drive.CredentialsPath == "":
		return errors.New("DRIVE_CREDENTIALS_PATH must be provided")
	case c.Drive.RootFolderID == "":
		return errors.New("DRIVE_ROOT_FOLDER_ID must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Scheduler.CronSchedule == "" {
		return errors.New("FOLDER_CRON_SCHEDULE must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
