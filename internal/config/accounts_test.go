package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/openclaw/reward-poller/internal/errors"
)

func TestParseAccounts(t *testing.T) {
	t.Run("parses json list", func(t *testing.T) {
		data := []byte(`[{"name":"main","authToken":"tok-1"},{"name":"alt","authToken":"tok-2"}]`)

		accounts, err := ParseAccounts(data, ".json")
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "main", accounts[0].Name)
		assert.Equal(t, "tok-2", accounts[1].AuthToken)
	})

	t.Run("parses yaml list", func(t *testing.T) {
		data := []byte("- name: main\n  authToken: tok-1\n- name: alt\n  authToken: tok-2\n")

		accounts, err := ParseAccounts(data, ".yaml")
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "alt", accounts[1].Name)
	})

	t.Run("fills missing names", func(t *testing.T) {
		accounts, err := ParseAccounts([]byte(`[{"authToken":"tok-1"}]`), ".json")
		require.NoError(t, err)
		assert.Equal(t, "account-1", accounts[0].Name)
	})

	t.Run("rejects empty list", func(t *testing.T) {
		_, err := ParseAccounts([]byte(`[]`), ".json")
		assert.Equal(t, apperrors.ErrCodeConfig, apperrors.GetCode(err))
	})

	t.Run("rejects missing token", func(t *testing.T) {
		_, err := ParseAccounts([]byte(`[{"name":"main","authToken":"  "}]`), ".json")
		assert.Equal(t, apperrors.ErrCodeConfig, apperrors.GetCode(err))
	})

	t.Run("rejects duplicate token", func(t *testing.T) {
		data := []byte(`[{"name":"a","authToken":"same"},{"name":"b","authToken":"same"}]`)
		_, err := ParseAccounts(data, ".json")
		assert.Equal(t, apperrors.ErrCodeConfig, apperrors.GetCode(err))
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := ParseAccounts([]byte(`{not json`), ".json")
		assert.Equal(t, apperrors.ErrCodeConfig, apperrors.GetCode(err))
	})
}

func TestLoadAccounts(t *testing.T) {
	t.Run("reads file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "accounts.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"main","authToken":"tok-1"}]`), 0o600))

		accounts, err := LoadAccounts(path)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		_, err := LoadAccounts(filepath.Join(t.TempDir(), "missing.json"))
		assert.Equal(t, apperrors.ErrCodeConfig, apperrors.GetCode(err))
	})
}
