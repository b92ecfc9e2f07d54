package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[paths]
accounts = "/tmp/accounts.ledger"
output = "out.ledger"

[format]
indentation = 2

[[accounts]]
identifier = "ACME CHECKING"
ledger_source = "Assets:Checking"
date_column = 0
date_format = "02/01/2006"
payee_columns = [1, 2]
debit_column = 3
debit_format = "-{}"
credit_column = 3
credit_format = "{}"
display_columns = [0, 1, 3]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadReadsAccounts(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Accounts, 1)
	acct := cfg.Accounts[0]
	require.Equal(t, "ACME CHECKING", acct.Identifier)
	require.Equal(t, "Assets:Checking", acct.LedgerSource)
	require.Equal(t, []int{1, 2}, acct.PayeeColumns)
	require.Equal(t, 3, acct.DebitColumn)
	require.Equal(t, "-{}", acct.DebitFormat)
	require.Equal(t, []int{0, 1, 3}, acct.DisplayColumns)

	require.Equal(t, "/tmp/accounts.ledger", cfg.Paths.Accounts)
	require.Equal(t, "out.ledger", cfg.Paths.Output)
	require.Equal(t, 2, cfg.Format.Indentation)
	require.Equal(t, 2, cfg.Format.Margin)
	require.Equal(t, "$", cfg.Format.Currency)
	require.InDelta(t, 0.3, cfg.UI.HintDistance, 1e-9)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "-", cfg.Paths.Output)
	require.Equal(t, "2006/01/02", cfg.Format.DateFormat)
	require.Error(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RECONCILE_FORMAT_CURRENCY", "€")
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "€", cfg.Format.Currency)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	_, err := Load(writeConfig(t, "[[accounts]\nidentifier = "))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := AccountConfig{Identifier: "X", LedgerSource: "Assets:X", DateFormat: "2006-01-02", DebitFormat: "{}"}
	require.NoError(t, Config{Accounts: []AccountConfig{valid}}.Validate())

	for name, mutate := range map[string]func(*AccountConfig){
		"identifier":    func(a *AccountConfig) { a.Identifier = " " },
		"ledger_source": func(a *AccountConfig) { a.LedgerSource = "" },
		"date_format":   func(a *AccountConfig) { a.DateFormat = "" },
		"placeholder":   func(a *AccountConfig) { a.DebitFormat = "-" },
	} {
		acct := valid
		mutate(&acct)
		err := Config{Accounts: []AccountConfig{acct}}.Validate()
		require.ErrorContains(t, err, name)
	}
}
