package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/openclaw/reward-poller/internal/errors"
	"github.com/openclaw/reward-poller/internal/model"
)

// LoadAccounts reads the account list once at startup. JSON and YAML are
// accepted, chosen by file extension.
func LoadAccounts(path string) ([]model.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Config("failed to read accounts file").WithCause(err)
	}
	return ParseAccounts(data, filepath.Ext(path))
}

func ParseAccounts(data []byte, ext string) ([]model.Credential, error) {
	var accounts []model.Credential

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &accounts); err != nil {
			return nil, apperrors.Config("failed to parse accounts yaml").WithCause(err)
		}
	default:
		if err := json.Unmarshal(data, &accounts); err != nil {
			return nil, apperrors.Config("failed to parse accounts json").WithCause(err)
		}
	}

	if err := validateAccounts(accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func validateAccounts(accounts []model.Credential) error {
	if len(accounts) == 0 {
		return apperrors.Config("accounts file contains no accounts")
	}

	seen := make(map[string]int, len(accounts))
	for i, acc := range accounts {
		if strings.TrimSpace(acc.AuthToken) == "" {
			return apperrors.Config(fmt.Sprintf("account %d has no authToken", i)).
				WithDetails(map[string]any{"index": i, "name": acc.Name})
		}
		if prev, ok := seen[acc.AuthToken]; ok {
			return apperrors.Config(fmt.Sprintf("account %d reuses the authToken of account %d", i, prev)).
				WithDetails(map[string]any{"index": i, "name": acc.Name})
		}
		seen[acc.AuthToken] = i
		if acc.Name == "" {
			accounts[i].Name = fmt.Sprintf("account-%d", i+1)
		}
	}
	return nil
}
