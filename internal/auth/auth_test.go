package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_GetCredentials_Success(t *testing.T) {
	provider := &StaticProvider{Creds: Credentials{
		Email: "user@example.com",
		Token: "atat_test_token_123",
	}}

	creds, err := provider.GetCredentials()

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", creds.Email)
	assert.Equal(t, "atat_test_token_123", creds.Token)
}

func TestStaticProvider_GetCredentials_Missing(t *testing.T) {
	provider := &StaticProvider{Creds: Credentials{Email: "user@example.com"}}

	_, err := provider.GetCredentials()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestEnvProvider_GetCredentials_Success(t *testing.T) {
	os.Setenv("JIRA_EMAIL", "env@example.com")
	os.Setenv("JIRA_API_TOKEN", "atat_env_token")
	defer os.Unsetenv("JIRA_EMAIL")
	defer os.Unsetenv("JIRA_API_TOKEN")

	provider := &EnvProvider{}
	creds, err := provider.GetCredentials()

	require.NoError(t, err)
	assert.Equal(t, "env@example.com", creds.Email)
	assert.Equal(t, "atat_env_token", creds.Token)
}

func TestEnvProvider_GetCredentials_Missing(t *testing.T) {
	os.Unsetenv("JIRA_EMAIL")
	os.Unsetenv("JIRA_API_TOKEN")

	provider := &EnvProvider{}
	creds, err := provider.GetCredentials()

	assert.Error(t, err)
	assert.Empty(t, creds.Email)
	assert.Contains(t, err.Error(), "JIRA_EMAIL")
}

func TestGetCredentials_ConfigPreferred(t *testing.T) {
	os.Setenv("JIRA_EMAIL", "env@example.com")
	os.Setenv("JIRA_API_TOKEN", "atat_env_token")
	defer os.Unsetenv("JIRA_EMAIL")
	defer os.Unsetenv("JIRA_API_TOKEN")

	creds, err := GetCredentials(Credentials{
		Email: "config@example.com",
		Token: "atat_config_token",
	})

	require.NoError(t, err)
	assert.Equal(t, "config@example.com", creds.Email)
}

func TestGetCredentials_FallbackToEnv(t *testing.T) {
	os.Setenv("JIRA_EMAIL", "env@example.com")
	os.Setenv("JIRA_API_TOKEN", "atat_env_token")
	defer os.Unsetenv("JIRA_EMAIL")
	defer os.Unsetenv("JIRA_API_TOKEN")

	creds, err := GetCredentials(Credentials{})

	require.NoError(t, err)
	assert.Equal(t, "env@example.com", creds.Email)
	assert.Equal(t, "atat_env_token", creds.Token)
}

func TestGetCredentials_BothFail(t *testing.T) {
	os.Unsetenv("JIRA_EMAIL")
	os.Unsetenv("JIRA_API_TOKEN")

	_, err := GetCredentials(Credentials{})

	require.Error(t, err)
	// Error should be actionable
	assert.Contains(t, err.Error(), "JIRA_EMAIL")
	assert.Contains(t, err.Error(), "config")
}

func TestCredentialsProvider_Interface(t *testing.T) {
	// Verify both implementations satisfy the interface
	var _ CredentialsProvider = &StaticProvider{}
	var _ CredentialsProvider = &EnvProvider{}
}
