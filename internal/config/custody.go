package config

import (
	"fmt"
	"net/url"
)

// CustodyConfig points at the custody bridge: the external collaborator that
// actually moves and holds funds on behalf of the ledger.
type CustodyConfig struct {
	Address string `mapstructure:"address"`
	// Timeout for custody bridge requests, in milliseconds
	Timeout int `mapstructure:"timeout"`
}

func (cfg *CustodyConfig) Validate() error {
	if cfg.Address == "" {
		return fmt.Errorf("missing custody bridge address")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid custody bridge address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported custody bridge scheme: %s", u.Scheme)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("custody bridge timeout must be a positive integer")
	}

	return nil
}
