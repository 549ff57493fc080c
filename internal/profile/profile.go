package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where confmate stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your confmate instance
	InstanceURL string

	// JWTSecret signs access tokens. Empty disables authenticated features
	// and every request runs as a guest.
	JWTSecret string

	// AI configuration
	AIEnabled      bool   // CONFMATE_AI_ENABLED
	OpenAIAPIKey   string // CONFMATE_OPENAI_API_KEY
	OpenAIBaseURL  string // CONFMATE_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	ChatModel      string // CONFMATE_CHAT_MODEL (default: gpt-4o-mini)
	EmbeddingModel string // CONFMATE_EMBEDDING_MODEL (default: text-embedding-3-small)

	// EventStart is the first conference day in RFC 3339 date form
	// (e.g. 2026-09-14). It anchors "day N" queries; empty disables them.
	EventStart string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.OpenAIAPIKey != ""
}

// EventStartTime parses EventStart. Returns nil when unset or malformed.
func (p *Profile) EventStartTime() *time.Time {
	if p.EventStart == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", p.EventStart)
	if err != nil {
		return nil
	}
	return &t
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from CONFMATE_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("CONFMATE_AI_ENABLED") == "true"
	p.OpenAIAPIKey = os.Getenv("CONFMATE_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("CONFMATE_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.ChatModel = getEnvOrDefault("CONFMATE_CHAT_MODEL", "gpt-4o-mini")
	p.EmbeddingModel = getEnvOrDefault("CONFMATE_EMBEDDING_MODEL", "text-embedding-3-small")
	if v := os.Getenv("CONFMATE_JWT_SECRET"); v != "" {
		p.JWTSecret = v
	}
	if v := os.Getenv("CONFMATE_EVENT_START"); v != "" {
		p.EventStart = v
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/confmate"
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("confmate_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a dsn")
	}

	if p.EventStart != "" {
		if _, err := time.Parse("2006-01-02", p.EventStart); err != nil {
			return errors.Wrapf(err, "invalid event start date %q", p.EventStart)
		}
	}
	return nil
}
