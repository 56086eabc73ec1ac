package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSheetsCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetsCredentials.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSheetsCredentialsFromPath(t *testing.T) {
	path := writeSheetsCredentials(t, `{
		"installed": {
			"client_id": "client-id",
			"project_id": "manpower-board",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
			"client_secret": "secret",
			"redirect_uris": ["http://localhost"]
		}
	}`)

	creds, err := LoadSheetsCredentialsFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "client-id", creds.Installed.ClientID)
	assert.Equal(t, "manpower-board", creds.Installed.ProjectID)
}

func TestLoadSheetsCredentialsFromPath_MissingClientID(t *testing.T) {
	path := writeSheetsCredentials(t, `{
		"installed": {
			"project_id": "manpower-board",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
			"client_secret": "secret",
			"redirect_uris": ["http://localhost"]
		}
	}`)

	_, err := LoadSheetsCredentialsFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadSheetsCredentialsFromPath_InvalidJSON(t *testing.T) {
	path := writeSheetsCredentials(t, `{"installed":`)

	_, err := LoadSheetsCredentialsFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadSheetsCredentialsFromPath_FileNotFound(t *testing.T) {
	_, err := LoadSheetsCredentialsFromPath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
