package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// Config holds the hitreport configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Sequences SequencesConfig `yaml:"sequences"`
	Blob      BlobConfig      `yaml:"blob"`
	Report    ReportConfig    `yaml:"report"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Sequence backends.
const (
	SequencesRedis      = "redis"
	SequencesSQLite     = "sqlite"
	SequencesPostgres   = "postgres"
	SequencesBlastdbcmd = "blastdbcmd"
)

// SequencesConfig selects where hit sequences are resolved from.
type SequencesConfig struct {
	Driver string `yaml:"driver"` // redis (default), sqlite, postgres, blastdbcmd
	DSN    string `yaml:"dsn"`
	// Blastdbcmd is the executable for the blastdbcmd driver.
	Blastdbcmd string `yaml:"blastdbcmd"`
	// Databases maps database ids to BLAST database paths.
	Databases   map[string]string `yaml:"databases"`
	CacheTTLSec int               `yaml:"cache_ttl_sec"` // 0 disables the cache
}

// BlobConfig holds blob storage settings.
type BlobConfig struct {
	Driver    string `yaml:"driver"` // fs (default), s3
	Root      string `yaml:"root"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
	Prefix    string `yaml:"prefix"`
}

// ReportConfig holds hit rendering and export settings.
type ReportConfig struct {
	Locale           string `yaml:"locale"`
	VeryBigHits      int    `yaml:"very_big_hits"`
	TTLSec           int    `yaml:"ttl_sec"`          // 0 keeps reports forever
	FASTALineWidth   *int   `yaml:"fasta_line_width"` // unset means 60, 0 disables wrapping
	RenderCacheSize  int    `yaml:"render_cache_size"`
	ReportCacheSize  int    `yaml:"report_cache_size"`
	ExportTimeoutSec int    `yaml:"export_timeout_sec"`
}

// LineWidth returns the FASTA wrap width, 0 meaning no wrapping.
func (r ReportConfig) LineWidth() int {
	if r.FASTALineWidth == nil {
		return domain.DefaultViewDefaults().FASTALineWidth
	}
	return *r.FASTALineWidth
}

// Load reads configuration from config/{env}.yaml.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Sequences.Driver == "" {
		c.Sequences.Driver = SequencesRedis
	}
	if c.Sequences.Blastdbcmd == "" {
		c.Sequences.Blastdbcmd = "blastdbcmd"
	}
	if c.Blob.Driver == "" {
		c.Blob.Driver = "fs"
	}
	if c.Blob.Root == "" {
		c.Blob.Root = "./blobdata"
	}
	d := domain.DefaultViewDefaults()
	if c.Report.Locale == "" {
		c.Report.Locale = d.Locale
	}
	if c.Report.VeryBigHits <= 0 {
		c.Report.VeryBigHits = d.VeryBigHits
	}
	if c.Report.FASTALineWidth == nil {
		w := d.FASTALineWidth
		c.Report.FASTALineWidth = &w
	}
	if c.Report.RenderCacheSize <= 0 {
		c.Report.RenderCacheSize = d.RenderCacheSize
	}
	if c.Report.ReportCacheSize <= 0 {
		c.Report.ReportCacheSize = 64
	}
	if c.Report.ExportTimeoutSec <= 0 {
		c.Report.ExportTimeoutSec = d.ExportTimeoutSec
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Sequences.Driver {
	case SequencesRedis:
	case SequencesSQLite, SequencesPostgres:
		if c.Sequences.DSN == "" {
			return fmt.Errorf("sequences.dsn is required for driver %q", c.Sequences.Driver)
		}
	case SequencesBlastdbcmd:
		if len(c.Sequences.Databases) == 0 {
			return fmt.Errorf("sequences.databases is required for driver %q", c.Sequences.Driver)
		}
	default:
		return fmt.Errorf(
			"sequences.driver must be one of redis, sqlite, postgres, blastdbcmd, got %q",
			c.Sequences.Driver,
		)
	}
	if w := c.Report.FASTALineWidth; w != nil && *w < 0 {
		return fmt.Errorf("report.fasta_line_width must be >= 0, got %d", *w)
	}
	switch c.Blob.Driver {
	case "fs":
	case "s3":
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required for driver \"s3\"")
		}
	default:
		return fmt.Errorf("blob.driver must be \"fs\" or \"s3\", got %q", c.Blob.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
