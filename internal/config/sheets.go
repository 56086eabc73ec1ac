package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SheetsCredentials is the Google OAuth client used by the board
// publisher. The JSON layout matches the "installed application"
// credentials file downloaded from the Google Cloud console, which is the
// shape google.ConfigFromJSON expects.
type SheetsCredentials struct {
	Installed InstalledApp `json:"installed" validate:"required"`
}

// InstalledApp is the installed-application section of the credentials file
type InstalledApp struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadSheetsCredentialsWithEnv locates and loads the credentials for an
// environment. Resolution mirrors the main config file: current directory
// first, then the home directory, with the env spliced into the filename,
// e.g. env="test" -> "sheetsCredentials.test.json".
func LoadSheetsCredentialsWithEnv(env string) (*SheetsCredentials, error) {
	path, err := resolveSheetsCredentialsPath(env)
	if err != nil {
		return nil, err
	}

	return LoadSheetsCredentialsFromPath(path)
}

// LoadSheetsCredentialsFromPath loads and validates credentials from a
// specific file.
func LoadSheetsCredentialsFromPath(path string) (*SheetsCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials file: %w", err)
	}

	var creds SheetsCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse sheets credentials file: %w", err)
	}

	if err := validate.Struct(&creds); err != nil {
		return nil, fmt.Errorf("sheets credentials validation failed: %w", err)
	}

	return &creds, nil
}

func resolveSheetsCredentialsPath(env string) (string, error) {
	name := "sheetsCredentials.json"
	if env != "" {
		name = "sheetsCredentials." + env + ".json"
	}

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("sheets credentials file %s not found in current or home directory", name)
}
