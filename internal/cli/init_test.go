package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/config"
)

func TestLoadConfig_OverridesApplyBeforeValidation(t *testing.T) {
	t.Setenv("DATA_BACKEND", "bogus")
	t.Setenv("LOG_LEVEL", "warn")

	_, err := LoadConfig(nil)
	require.ErrorContains(t, err, "invalid data backend 'bogus'")

	file := filepath.Join(t.TempDir(), "tx.csv")
	cfg, err := LoadConfig(func(c *config.Config) {
		c.DataBackend = "csv"
		c.LedgerFile = file
	})
	require.NoError(t, err)
	require.Equal(t, "csv", cfg.DataBackend)
	require.Equal(t, file, cfg.LedgerFile)
}

func TestSetupLogger_UnknownLevelFallsBack(t *testing.T) {
	require.NotNil(t, SetupLogger("loud"))
	require.NotNil(t, SetupLogger("debug"))
}
