package constants

import "time"

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string, including credentials
	EnvDBConnection = "HABITUAL_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when displaying completion timestamps
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Seed constants
	SeedHistory  = 4 * 7 * 24 * time.Hour
	DemoUsername = "demo"
	DemoEmail    = "demo@example.com"

	// Log rendering
	DefaultLogDays  = 14
	DefaultLogWeeks = 8
)
