// Package auth provides Jira Cloud credential management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Credentials is an email + API token pair for Jira Cloud basic auth.
type Credentials struct {
	Email string
	Token string
}

// Validate checks that both halves of the credential pair are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("jira email is required")
	}
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("jira API token is required")
	}
	return nil
}

// CredentialsProvider defines the interface for obtaining Jira credentials.
// Implementations may use different sources (config files, environment
// variables, etc).
type CredentialsProvider interface {
	GetCredentials() (Credentials, error)
}

// StaticProvider returns credentials resolved ahead of time, typically
// from the user's config file.
type StaticProvider struct {
	Creds Credentials
}

// GetCredentials returns the stored pair, or an error when either half
// is missing.
func (s *StaticProvider) GetCredentials() (Credentials, error) {
	if err := s.Creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return s.Creds, nil
}

// EnvProvider obtains credentials from the JIRA_EMAIL and JIRA_API_TOKEN
// environment variables. This is the fallback method when the config file
// carries no credentials.
type EnvProvider struct{}

// GetCredentials reads the JIRA_EMAIL and JIRA_API_TOKEN environment
// variables. Returns an error if either is not set or is empty.
func (e *EnvProvider) GetCredentials() (Credentials, error) {
	creds := Credentials{
		Email: os.Getenv("JIRA_EMAIL"),
		Token: os.Getenv("JIRA_API_TOKEN"),
	}
	if creds.Email == "" {
		return Credentials{}, errors.New("JIRA_EMAIL environment variable not set or empty")
	}
	if creds.Token == "" {
		return Credentials{}, errors.New("JIRA_API_TOKEN environment variable not set or empty")
	}
	return creds, nil
}

// GetCredentials attempts to obtain Jira credentials using the following
// strategy:
// 1. Use the config file values when both are present (preferred method)
// 2. Fall back to JIRA_EMAIL / JIRA_API_TOKEN environment variables
// 3. Return a clear, actionable error if both fail
//
// This is the main entry point for credential retrieval in the application.
func GetCredentials(fromConfig Credentials) (Credentials, error) {
	static := &StaticProvider{Creds: fromConfig}
	creds, err := static.GetCredentials()
	if err == nil {
		return creds, nil
	}

	// Store config error for later
	cfgErr := err

	envProvider := &EnvProvider{}
	creds, err = envProvider.GetCredentials()
	if err == nil {
		return creds, nil
	}

	// Both failed - return actionable error
	return Credentials{}, fmt.Errorf(
		"failed to obtain Jira credentials: config (%v) and environment not set.\n"+
			"Please either:\n"+
			"  1. Add 'email' and 'api_token' to your config file, or\n"+
			"  2. Set the JIRA_EMAIL and JIRA_API_TOKEN environment variables",
		cfgErr,
	)
}
