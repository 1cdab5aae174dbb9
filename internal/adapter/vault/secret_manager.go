// Package vault pulls production secrets from HashiCorp Vault. Missing or
// unreadable secrets fall back to the values already in the configuration.
package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault: new client: %w", err)
	}
	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// read fetches one field from a KV v2 secret.
func (sm *SecretManager) read(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	if secret == nil {
		return "", fmt.Errorf("vault: secret %s not found", path)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: secret %s has no data", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault: secret %s missing field %s", path, field)
	}
	return value, nil
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read("secret/data/database", "connection_string")
}

func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.read("secret/data/auth", "jwt_secret")
}

func (sm *SecretManager) GetGeminiAPIKey() (string, error) {
	return sm.read("secret/data/gemini", "api_key")
}

func (sm *SecretManager) GetCloudinarySecret() (string, error) {
	return sm.read("secret/data/cloudinary", "api_secret")
}
