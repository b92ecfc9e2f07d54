package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Accounts []AccountConfig `mapstructure:"accounts"`
	Paths    PathsConfig     `mapstructure:"paths"`
	Format   FormatConfig    `mapstructure:"format"`
	UI       UIConfig        `mapstructure:"ui"`
}

// AccountConfig describes how to read one kind of statement file.
type AccountConfig struct {
	Identifier     string `mapstructure:"identifier"`
	LedgerSource   string `mapstructure:"ledger_source"`
	DateColumn     int    `mapstructure:"date_column"`
	DateFormat     string `mapstructure:"date_format"`
	PayeeColumns   []int  `mapstructure:"payee_columns"`
	DebitColumn    int    `mapstructure:"debit_column"`
	DebitFormat    string `mapstructure:"debit_format"`
	CreditColumn   int    `mapstructure:"credit_column"`
	CreditFormat   string `mapstructure:"credit_format"`
	DisplayColumns []int  `mapstructure:"display_columns"`
}

// PathsConfig holds file locations.
type PathsConfig struct {
	Accounts string `mapstructure:"accounts"`
	Cache    string `mapstructure:"cache"`
	Output   string `mapstructure:"output"`
	Log      string `mapstructure:"log"`
}

// FormatConfig controls journal output.
type FormatConfig struct {
	Currency    string `mapstructure:"currency"`
	Indentation int    `mapstructure:"indentation"`
	Margin      int    `mapstructure:"margin"`
	DateFormat  string `mapstructure:"date_format"`
}

// UIConfig holds interactive settings.
type UIConfig struct {
	HintDistance float64 `mapstructure:"hint_distance"`
}

// DefaultPath is the config file used when neither --config nor RECONCILE_CONFIG is set.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "reconcile", "config.toml")
}

// Load reads configuration from path (or RECONCILE_CONFIG, or DefaultPath) and env.
// Env var overrides use prefix RECONCILE_. A missing file yields the defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "reconcile")
	v.SetDefault("paths.accounts", "")
	v.SetDefault("paths.cache", filepath.Join(dataDir, "hints.db"))
	v.SetDefault("paths.output", "-")
	v.SetDefault("paths.log", "")
	v.SetDefault("format.currency", "$")
	v.SetDefault("format.indentation", 4)
	v.SetDefault("format.margin", 2)
	v.SetDefault("format.date_format", "2006/01/02")
	v.SetDefault("ui.hint_distance", 0.3)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("RECONCILE_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("RECONCILE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports configuration that cannot drive a session.
func (c Config) Validate() error {
	if len(c.Accounts) == 0 {
		return errors.New("no [[accounts]] configured")
	}
	for i, a := range c.Accounts {
		switch {
		case strings.TrimSpace(a.Identifier) == "":
			return fmt.Errorf("accounts[%d]: identifier is required", i)
		case strings.TrimSpace(a.LedgerSource) == "":
			return fmt.Errorf("accounts[%d] %q: ledger_source is required", i, a.Identifier)
		case strings.TrimSpace(a.DateFormat) == "":
			return fmt.Errorf("accounts[%d] %q: date_format is required", i, a.Identifier)
		case a.DebitFormat != "" && !strings.Contains(a.DebitFormat, "{}"):
			return fmt.Errorf("accounts[%d] %q: debit_format needs a {} placeholder", i, a.Identifier)
		case a.CreditFormat != "" && !strings.Contains(a.CreditFormat, "{}"):
			return fmt.Errorf("accounts[%d] %q: credit_format needs a {} placeholder", i, a.Identifier)
		}
	}
	return nil
}
