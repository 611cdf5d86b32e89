package agent

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the immutable set of settings the client needs. It is
// assembled once at startup, validated, and passed by reference into the
// token provider and REST client constructors; there is no process-wide
// settings singleton.
type Config struct {
	// Realm is the account tenant scoping OAuth token issuance
	Realm string `mapstructure:"realm"`

	// ClientID and ClientSecret are the OAuth client credentials
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// AuthURL is the identity service base URL
	AuthURL string `mapstructure:"auth_url"`

	// InferenceURL is the agent API base URL, including the API version
	InferenceURL string `mapstructure:"inference_url"`

	// AgentID is the remote agent to chat with
	AgentID string `mapstructure:"agent_id"`

	// ChatEndpoint optionally overrides the agent/{id}/chat endpoint
	ChatEndpoint string `mapstructure:"chat_endpoint"`

	// ResponseField is the response key carrying the answer text
	ResponseField string `mapstructure:"response_field"`

	// UploadURL is the file-upload API endpoint for presigned forms
	UploadURL string `mapstructure:"upload_url"`
}

// envPrefix is the environment variable prefix (STACKSPOT_REALM, ...).
const envPrefix = "STACKSPOT"

// NewViper builds a viper instance with the defaults, environment
// bindings and optional config file lookup for this application.
// cfgFile, when non-empty, pins an explicit config file.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()

	v.SetDefault("auth_url", DefaultAuthURL)
	v.SetDefault("inference_url", DefaultInferenceURL)
	v.SetDefault("response_field", DefaultResponseField)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal; each key needs an explicit binding.
	for _, key := range []string{
		"realm", "client_id", "client_secret", "auth_url",
		"inference_url", "agent_id", "chat_endpoint",
		"response_field", "upload_url",
	} {
		_ = v.BindEnv(key)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("stackspot-agent")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/stackspot-agent")
	}

	return v
}

// LoadConfig reads the configuration from the given viper instance.
// A missing config file is fine (environment and flags may cover
// everything); an unreadable or malformed one is not.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to read config file: %v", err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to parse configuration: %v", err)}
	}

	return &cfg, nil
}

// Validate checks the required settings, reporting every missing field
// at once rather than failing on the first.
func (c *Config) Validate() error {
	var missing []string
	if c.Realm == "" {
		missing = append(missing, "realm")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.AuthURL == "" {
		missing = append(missing, "auth_url")
	}
	if c.InferenceURL == "" {
		missing = append(missing, "inference_url")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// ValidateForChat additionally requires the agent identifier needed for
// chat operations.
func (c *Config) ValidateForChat() error {
	if err := c.Validate(); err != nil {
		if cfgErr, ok := err.(*ConfigurationError); ok && c.AgentID == "" && c.ChatEndpoint == "" {
			cfgErr.Missing = append(cfgErr.Missing, "agent_id")
		}
		return err
	}
	if c.AgentID == "" && c.ChatEndpoint == "" {
		return &ConfigurationError{Missing: []string{"agent_id"}}
	}
	return nil
}
