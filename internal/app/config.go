package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	// APIBaseURL is the root of the remote catalog API, e.g.
	// "https://backend.example.com/api". Fixed at deploy time.
	APIBaseURL      string        `usage:"Catalog API base URL (STOREFRONT_API_BASE_URL or API_BASE_URL)" flag:"api-base-url"`
	UpstreamTimeout time.Duration `default:"30s" usage:"Timeout for catalog API calls" flag:"upstream-timeout"`
	SecureCookies   bool          `default:"false" usage:"Mark session cookies Secure (HTTPS deployments)" flag:"secure-cookies"`
	LoginRate       LoginRateConfig
	Graceful        GracefulConfig
}

// LoginRateConfig throttles credential guessing on the login action.
type LoginRateConfig struct {
	Max    int           `default:"10" usage:"Max login attempts per window"`
	Window time.Duration `default:"1m" usage:"Login rate limit window"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.APIBaseURL == "" {
		return nil, errors.New("catalog API base URL is required: set STOREFRONT_API_BASE_URL or API_BASE_URL")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like PORT to the
// application's STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.APIBaseURL == "" {
		if v := os.Getenv("API_BASE_URL"); v != "" {
			c.APIBaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
