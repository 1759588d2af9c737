package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server represents the aggregator endpoint configuration loaded from the environment.
type Server struct {
	AppEnv           string
	Port             string
	Credentials      []byte // service account JSON
	SpreadsheetID    string
	Range            string
	CORSOrigins      []string
	ProviderTimeout  time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

const defaultServerRange = "Sheet1!I9"

// LoadServer reads the environment, optionally seeded from envFile, and fails
// when the credential or spreadsheet id is missing. There is no fallback
// identity.
func LoadServer(envFile string) (Server, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Server{}, err
	}

	cfg := Server{
		AppEnv:           getEnv("APP_ENV", "production"),
		Port:             getEnv("PORT", "3000"),
		SpreadsheetID:    strings.TrimSpace(os.Getenv("SPREADSHEET_ID")),
		Range:            getEnv("RANGE", defaultServerRange),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		ProviderTimeout:  time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ShutdownTimeout:  time.Second * time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)),
	}

	creds, err := loadCredentials()
	if err != nil {
		return Server{}, err
	}
	cfg.Credentials = creds

	if cfg.SpreadsheetID == "" {
		return Server{}, fmt.Errorf("SPREADSHEET_ID is required")
	}
	return cfg, nil
}

// Addr returns the listen address for Port.
func (c Server) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		// .env in the working directory is optional.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func loadCredentials() ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT"))
	if raw == "" {
		if path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read GOOGLE_SERVICE_ACCOUNT_FILE: %w", err)
			}
			raw = strings.TrimSpace(string(data))
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT or GOOGLE_SERVICE_ACCOUNT_FILE is required")
	}

	var account struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	if account.ClientEmail == "" || account.PrivateKey == "" {
		return nil, fmt.Errorf("service account is missing client_email or private_key")
	}
	return []byte(raw), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
