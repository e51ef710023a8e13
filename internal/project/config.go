// Package project loads the declarative backend definition the CLI builds
// from: a gen2.yaml file plus schema files on disk.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/callsite"
	"github.com/dbanksdesign/gen2/internal/constructs/auth"
	"github.com/dbanksdesign/gen2/internal/constructs/data"
)

// Config is the parsed gen2.yaml.
type Config struct {
	BackendID  string            `yaml:"backendId"`
	Branch     string            `yaml:"branch"`
	Auth       AuthConfig        `yaml:"auth"`
	Data       DataConfig        `yaml:"data"`
	Parameters map[string]string `yaml:"parameters"`
}

type AuthConfig struct {
	LoginWithEmail   bool `yaml:"loginWithEmail"`
	AllowGuestAccess bool `yaml:"allowGuestAccess"`
}

type DataConfig struct {
	ApiName            string         `yaml:"apiName"`
	Schema             string         `yaml:"schema"`
	AuthorizationModes *ModesOverride `yaml:"authorizationModes"`
}

// ModesOverride is the config-file form of authorization mode overrides.
type ModesOverride struct {
	DefaultAuthorizationMode string `yaml:"defaultAuthorizationMode"`
	APIKeyExpiresInDays      int    `yaml:"apiKeyExpiresInDays"`
	OIDCIssuer               string `yaml:"oidcIssuer"`
	OIDCClientID             string `yaml:"oidcClientId"`
}

// Load reads and validates a gen2.yaml file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", path, err)
	}

	if cfg.BackendID == "" {
		return nil, fmt.Errorf("project config %s: backendId is required", path)
	}
	if cfg.Data.Schema == "" {
		return nil, fmt.Errorf("project config %s: data.schema is required", path)
	}
	return &cfg, nil
}

// Identifier builds the backend identifier, with branch overridable from
// the command line.
func (c *Config) Identifier(branchOverride string) (backend.Identifier, error) {
	branch := c.Branch
	if branchOverride != "" {
		branch = branchOverride
	}
	return backend.NewIdentifier(c.BackendID, branch)
}

// DataFactory assembles the data construct factory from the config. The
// definition is config-driven rather than code-driven, so the file-path
// convention check does not apply.
func (c *Config) DataFactory(configDir string) *data.Factory {
	schemaPath := c.Data.Schema
	if !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(configDir, schemaPath)
	}

	props := data.Props{
		Schema:             data.SchemaFiles(schemaPath),
		Name:               c.Data.ApiName,
		AuthorizationModes: c.Data.AuthorizationModes.toProps(),
	}

	return data.Define(props,
		data.WithAuthProvider(c.AuthFactory()),
		data.WithPathVerifier(callsite.NoopVerifier{}),
	)
}

// AuthFactory assembles the auth construct factory from the config.
func (c *Config) AuthFactory() *auth.Factory {
	return auth.Define(auth.Props{
		LoginWithEmail:   c.Auth.LoginWithEmail,
		AllowGuestAccess: c.Auth.AllowGuestAccess,
	})
}

func (m *ModesOverride) toProps() *data.AuthorizationModes {
	if m == nil {
		return nil
	}

	modes := &data.AuthorizationModes{
		DefaultAuthorizationMode: data.Mode(m.DefaultAuthorizationMode),
	}
	if m.APIKeyExpiresInDays > 0 {
		modes.APIKeyConfig = &data.APIKeyConfig{ExpiresInDays: m.APIKeyExpiresInDays}
	}
	if m.OIDCIssuer != "" {
		modes.OIDCConfig = &data.OIDCConfig{
			Issuer:   m.OIDCIssuer,
			ClientID: m.OIDCClientID,
		}
	}
	return modes
}
