package types

// ProviderConfig represents image search provider configuration
type ProviderConfig struct {
	ID   ProviderID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DataForSEO uses login/password basic auth instead of a bearer key
	Login    string `json:"login,omitempty" yaml:"login,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Optional settings
	Timeout    int `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // seconds
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"` // default: 1 (single attempt)
}

// Validate validates the provider configuration. A missing credential is
// not an error here: unconfigured providers stay registered and return
// empty results at search time.
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}

	switch c.ID {
	case ProviderDataForSEO:
		if c.Login != "" && c.Password == "" {
			return ErrMissingPassword
		}
	}

	return nil
}

// Configured reports whether the provider has usable credentials.
func (c *ProviderConfig) Configured() bool {
	if c.ID == ProviderDataForSEO {
		return c.Login != "" && c.Password != ""
	}
	return c.APIKey != ""
}
