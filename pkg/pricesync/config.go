package pricesync

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"marketdesk-api/pkg/confkit"
)

const (
	DefaultBackfillDays        = 365
	DefaultStandaloneDays      = 30
	DefaultBackfillBatchSize   = 100
	DefaultBackfillDelay       = 8 * time.Second
	DefaultMonthlyWindowMonths = 12
)

// DefaultYearlyFloor is the first day included in yearly rollups.
var DefaultYearlyFloor = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// Config is the pair registry plus pipeline tuning knobs.
type Config struct {
	BackfillDays        int    `yaml:"backfill_days"`
	StandaloneDays      int    `yaml:"standalone_backfill_days"`
	BackfillBatchSize   int    `yaml:"backfill_batch_size"`
	BackfillDelayRaw    string `yaml:"backfill_delay"`
	MonthlyWindowMonths int    `yaml:"monthly_window_months"`
	YearlyFloorRaw      string `yaml:"yearly_floor"`
	Pairs               []Pair `yaml:"pairs"`

	BackfillDelay time.Duration `yaml:"-"`
	YearlyFloor   time.Time     `yaml:"-"`
}

// LoadConfig reads the sync configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sync config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sync config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal sync config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.BackfillDays == 0 {
		c.BackfillDays = DefaultBackfillDays
	}
	if c.StandaloneDays == 0 {
		c.StandaloneDays = DefaultStandaloneDays
	}
	if c.BackfillBatchSize == 0 {
		c.BackfillBatchSize = DefaultBackfillBatchSize
	}
	if c.MonthlyWindowMonths == 0 {
		c.MonthlyWindowMonths = DefaultMonthlyWindowMonths
	}

	c.BackfillDelay = DefaultBackfillDelay
	if raw := strings.TrimSpace(os.ExpandEnv(c.BackfillDelayRaw)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("sync config: invalid backfill_delay %q: %w", raw, err)
		}
		c.BackfillDelay = d
	}

	c.YearlyFloor = DefaultYearlyFloor
	if raw := strings.TrimSpace(c.YearlyFloorRaw); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("sync config: invalid yearly_floor %q: %w", raw, err)
		}
		c.YearlyFloor = t
	}

	for i := range c.Pairs {
		p := &c.Pairs[i]
		p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
		p.ProviderSymbol = strings.TrimSpace(p.ProviderSymbol)
		market, err := ParseMarket(string(p.Market))
		if err != nil {
			return fmt.Errorf("sync config: pair %d: %w", i, err)
		}
		p.Market = market
	}
	return nil
}

// Validate ensures the configuration is structurally sound. Pairs without a
// provider symbol are allowed; they are reported as failed on every run.
func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("sync config: pairs cannot be empty")
	}
	if c.BackfillDays < 0 || c.StandaloneDays < 0 {
		return fmt.Errorf("sync config: backfill days cannot be negative")
	}
	if c.BackfillBatchSize < 0 {
		return fmt.Errorf("sync config: backfill_batch_size cannot be negative")
	}
	if c.BackfillDelay < 0 {
		return fmt.Errorf("sync config: backfill_delay cannot be negative")
	}
	if c.MonthlyWindowMonths < 0 {
		return fmt.Errorf("sync config: monthly_window_months cannot be negative")
	}
	seen := make(map[string]struct{}, len(c.Pairs))
	for _, p := range c.Pairs {
		if p.Symbol == "" {
			return fmt.Errorf("sync config: pair symbol cannot be empty")
		}
		if _, dup := seen[p.Key()]; dup {
			return fmt.Errorf("sync config: duplicate pair %s", p.Key())
		}
		seen[p.Key()] = struct{}{}
	}
	return nil
}

// FindPair looks up a configured pair by symbol and market.
func (c *Config) FindPair(symbol string, market Market) (Pair, bool) {
	key := PairKey(symbol, market)
	for _, p := range c.Pairs {
		if p.Key() == key {
			return p, true
		}
	}
	return Pair{}, false
}
