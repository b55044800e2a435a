package config

import (
	"flag"
	"os"
	"sync"
)

const (
	defaultServerAddress     = ":8080"
	defaultDatabaseDSN       = ""
	defaultBoardAPIURL       = "https://api.monday.com/v2"
	defaultBoardStatusColumn = "status"
	defaultMessageAPIURL     = ""
	defaultAdminLogin        = "admin"
	defaultLogLevel          = "debug"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	BoardAPIURL       string
	BoardAPIToken     string
	BoardID           string
	BoardStatusColumn string
	MessageAPIURL     string
	MessageAPIToken   string
	AdminLogin        string
	AdminPasswordHash string
	LogLevel          string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.BoardAPIURL, "b", defaultBoardAPIURL, "board API URL")
		flag.StringVar(&cfg.BoardStatusColumn, "c", defaultBoardStatusColumn, "board status column id")
		flag.StringVar(&cfg.MessageAPIURL, "m", defaultMessageAPIURL, "message API URL")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseDSNEnv := os.Getenv("DATABASE_URI"); databaseDSNEnv != "" {
			cfg.DatabaseDSN = databaseDSNEnv
		}
		if boardURLEnv := os.Getenv("BOARD_API_URL"); boardURLEnv != "" {
			cfg.BoardAPIURL = boardURLEnv
		}
		if statusColumnEnv := os.Getenv("BOARD_STATUS_COLUMN"); statusColumnEnv != "" {
			cfg.BoardStatusColumn = statusColumnEnv
		}
		if messageURLEnv := os.Getenv("MESSAGE_API_URL"); messageURLEnv != "" {
			cfg.MessageAPIURL = messageURLEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}

		cfg.BoardAPIToken = os.Getenv("BOARD_API_TOKEN")
		cfg.BoardID = os.Getenv("BOARD_ID")
		cfg.MessageAPIToken = os.Getenv("MESSAGE_API_TOKEN")
		cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

		cfg.AdminLogin = defaultAdminLogin
		if adminLoginEnv := os.Getenv("ADMIN_LOGIN"); adminLoginEnv != "" {
			cfg.AdminLogin = adminLoginEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
