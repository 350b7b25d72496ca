// Package config loads service configuration from an optional TOML
// file with environment variable overrides. Environment values win so
// deployments can keep secrets out of the config file.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 8080
	DefaultDimensions = 1536
	DefaultModel      = "text-embedding-3-small"
)

// GoogleConfig configures the Google Docs fetcher and webhook checks.
type GoogleConfig struct {
	// ServiceAccountKey is the service account JSON, inline or base64.
	ServiceAccountKey string `toml:"service_account_key"`

	// ServiceAccountKeyFile is a path to the service account JSON.
	// Used when ServiceAccountKey is empty.
	ServiceAccountKeyFile string `toml:"service_account_key_file"`

	// WatchFolderID restricts ingestion to documents within this Drive
	// folder. Empty disables the check.
	WatchFolderID string `toml:"watch_folder_id"`

	// WebhookSecret is compared against the X-Goog-Channel-Token header
	// before a webhook payload is processed. Empty disables the check.
	WebhookSecret string `toml:"webhook_secret"`
}

// SupabaseConfig configures the hosted vector store.
type SupabaseConfig struct {
	URL            string `toml:"url"`
	ServiceRoleKey string `toml:"service_role_key"`
	Schema         string `toml:"schema"`
	DocumentTable  string `toml:"document_table"`
	ChunkTable     string `toml:"chunk_table"`
	MatchFunction  string `toml:"match_function"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// OpenAIAPIKey selects the OpenAI provider when set; otherwise the
	// deterministic hashing stand-in is used.
	OpenAIAPIKey string `toml:"openai_api_key"`

	// Model is the OpenAI embedding model name.
	Model string `toml:"model"`

	// Dimensions is the embedding vector size shared by the provider
	// and every vector store variant.
	Dimensions int `toml:"dimensions"`
}

// IngestionConfig configures the chunking pass.
type IngestionConfig struct {
	// ChunkSize is the chunk length threshold in characters.
	// Zero means the chunker default.
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the carry-over length in characters. Negative means
	// the chunker default.
	Overlap int `toml:"overlap"`
}

// Config is the root service configuration.
type Config struct {
	// Host and Port bind the HTTP API.
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	// Store forces a vector store variant: "supabase", "sqlite" or
	// "noop". Empty selects automatically from what is configured.
	Store string `toml:"store"`

	// DataDir is where the sqlite variant keeps its database.
	DataDir string `toml:"data_dir"`

	Google     GoogleConfig     `toml:"google"`
	Supabase   SupabaseConfig   `toml:"supabase"`
	Embeddings EmbeddingsConfig `toml:"embeddings"`
	Ingestion  IngestionConfig  `toml:"ingestion"`
}

// DefaultPath returns the default config file location,
// ~/.vellum/config.toml, or empty when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vellum", "config.toml")
}

// Load reads configuration from path (optional) and the environment.
// A missing file at the default path is not an error; an explicitly
// given path must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Host: DefaultHost,
		Port: DefaultPort,
		Embeddings: EmbeddingsConfig{
			Model:      DefaultModel,
			Dimensions: DefaultDimensions,
		},
		Ingestion: IngestionConfig{
			Overlap: -1,
		},
	}

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// No config file is fine; env and defaults apply.
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Embeddings.Dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", cfg.Embeddings.Dimensions)
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	setString(&c.Host, "HOST")
	setInt(&c.Port, "PORT")
	setString(&c.Store, "VELLUM_STORE")
	setString(&c.DataDir, "VELLUM_DATA_DIR")

	setString(&c.Google.ServiceAccountKey, "GOOGLE_SERVICE_ACCOUNT_KEY")
	setString(&c.Google.ServiceAccountKeyFile, "GOOGLE_SERVICE_ACCOUNT_KEY_FILE")
	setString(&c.Google.WatchFolderID, "GOOGLE_DRIVE_WATCH_FOLDER_ID")
	setString(&c.Google.WebhookSecret, "GOOGLE_DRIVE_WEBHOOK_SECRET")

	setString(&c.Supabase.URL, "SUPABASE_URL")
	setString(&c.Supabase.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")
	setString(&c.Supabase.Schema, "SUPABASE_SCHEMA")
	setString(&c.Supabase.DocumentTable, "SUPABASE_DOCUMENT_TABLE")
	setString(&c.Supabase.ChunkTable, "SUPABASE_CHUNK_TABLE")
	setString(&c.Supabase.MatchFunction, "SUPABASE_MATCH_FUNCTION")

	setString(&c.Embeddings.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Embeddings.Model, "OPENAI_EMBEDDING_MODEL")
	setInt(&c.Embeddings.Dimensions, "SUPABASE_EMBEDDING_DIMENSIONS")

	setInt(&c.Ingestion.ChunkSize, "INGESTION_CHUNK_SIZE")
	setInt(&c.Ingestion.Overlap, "INGESTION_CHUNK_OVERLAP")
}

// ServiceAccountJSON returns the service account key material, reading
// the key file when the inline value is empty. An inline value that is
// not raw JSON is treated as base64-encoded JSON, the usual form for
// environment-injected keys. Returns nil when neither is configured.
func (c *Config) ServiceAccountJSON() ([]byte, error) {
	if key := strings.TrimSpace(c.Google.ServiceAccountKey); key != "" {
		if strings.HasPrefix(key, "{") {
			return []byte(key), nil
		}
		decoded, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("decoding service account key: %w", err)
		}
		return decoded, nil
	}
	if c.Google.ServiceAccountKeyFile != "" {
		data, err := os.ReadFile(c.Google.ServiceAccountKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading service account key file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
