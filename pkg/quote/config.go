package quote

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"marketdesk-api/pkg/confkit"
)

// Config lists the configured quote sources and names the one the sync cycle
// reads from.
type Config struct {
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures one quote source. Every string field accepts
// ${VAR} references, so the API key normally comes from the environment.
type ProviderConfig struct {
	Type       string `yaml:"type"`
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	MaxRetries int    `yaml:"max_retries"`

	// Timeout bounds one provider call including retries; HTTPTimeout bounds
	// a single round trip.
	TimeoutRaw     string        `yaml:"timeout"`
	Timeout        time.Duration `yaml:"-"`
	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// ProviderBuilder constructs a Provider from its configuration block.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var builders = struct {
	sync.RWMutex
	byType map[string]ProviderBuilder
}{byType: make(map[string]ProviderBuilder)}

func typeKey(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// RegisterProvider makes a provider type available to configuration. Provider
// packages call it from init.
func RegisterProvider(typeName string, builder ProviderBuilder) {
	builders.Lock()
	defer builders.Unlock()
	builders.byType[typeKey(typeName)] = builder
}

func builderFor(typeName string) (ProviderBuilder, error) {
	builders.RLock()
	defer builders.RUnlock()
	if b, ok := builders.byType[typeKey(typeName)]; ok {
		return b, nil
	}
	known := make([]string, 0, len(builders.byType))
	for t := range builders.byType {
		known = append(known, t)
	}
	sort.Strings(known)
	return nil, fmt.Errorf("unsupported type %q (registered: %s)", typeName, strings.Join(known, ", "))
}

// LoadConfig reads a quote config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quote config: %w", err)
	}
	return parseConfig(data)
}

// LoadConfigFromReader reads a quote config document from r.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read quote config: %w", err)
	}
	return parseConfig(data)
}

// parseConfig rejects unknown keys: a misspelt api_key would otherwise leave
// the provider silently unauthenticated.
func parseConfig(data []byte) (*Config, error) {
	confkit.LoadDotenvOnce()

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal quote config: %w", err)
	}
	for name, p := range cfg.Providers {
		if p == nil {
			p = &ProviderConfig{}
			cfg.Providers[name] = p
		}
		if err := p.resolve(); err != nil {
			return nil, fmt.Errorf("quote provider %s: %w", name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *ProviderConfig) resolve() error {
	for _, field := range []*string{&p.Type, &p.BaseURL, &p.APIKey, &p.TimeoutRaw, &p.HTTPTimeoutRaw} {
		*field = strings.TrimSpace(os.ExpandEnv(*field))
	}
	var err error
	if p.Timeout, err = positiveDuration("timeout", p.TimeoutRaw); err != nil {
		return err
	}
	if p.HTTPTimeout, err = positiveDuration("http_timeout", p.HTTPTimeoutRaw); err != nil {
		return err
	}
	return nil
}

// positiveDuration parses raw; empty means unset and yields zero.
func positiveDuration(field, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, d)
	}
	return d, nil
}

// Validate checks the structure only. A missing API key is not an error here;
// it surfaces per sync cycle through CheckCredentials.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("quote config: providers cannot be empty")
	}
	if _, err := c.DefaultName(); err != nil {
		return err
	}
	for name, p := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return errors.New("quote config: provider name cannot be empty")
		}
		if err := p.validate(); err != nil {
			return fmt.Errorf("quote config: provider %s: %w", name, err)
		}
	}
	return nil
}

func (p *ProviderConfig) validate() error {
	if p == nil {
		return errors.New("block is empty")
	}
	if p.Type == "" {
		return errors.New("type is required")
	}
	if _, err := builderFor(p.Type); err != nil {
		return err
	}
	if p.MaxRetries < 0 {
		return errors.New("max_retries cannot be negative")
	}
	if p.BaseURL != "" {
		u, err := url.Parse(p.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url %q must be an absolute http(s) URL", p.BaseURL)
		}
	}
	return nil
}

// DefaultName returns the provider the sync cycle uses: Default when set,
// otherwise the single configured provider.
func (c *Config) DefaultName() (string, error) {
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return "", fmt.Errorf("quote config: default provider %q not defined", c.Default)
		}
		return c.Default, nil
	}
	if len(c.Providers) == 1 {
		for name := range c.Providers {
			return name, nil
		}
	}
	return "", fmt.Errorf("quote config: default is required with %d providers", len(c.Providers))
}

// Build instantiates the named provider.
func (c *Config) Build(name string) (Provider, error) {
	p, ok := c.Providers[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("quote config: provider %q not defined", name)
	}
	builder, err := builderFor(p.Type)
	if err != nil {
		return nil, fmt.Errorf("quote provider %s: %w", name, err)
	}
	provider, err := builder(name, p)
	if err != nil {
		return nil, fmt.Errorf("quote provider %s: %w", name, err)
	}
	return provider, nil
}

// BuildDefault instantiates only the provider named by DefaultName.
func (c *Config) BuildDefault() (Provider, error) {
	name, err := c.DefaultName()
	if err != nil {
		return nil, err
	}
	return c.Build(name)
}
