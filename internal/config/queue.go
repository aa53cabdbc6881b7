package config

import "fmt"

// QueueConfig holds the connection settings for the event queue the service
// publishes stake notifications to.
type QueueConfig struct {
	Url           string `mapstructure:"url"`
	QueueUser     string `mapstructure:"queue-user"`
	QueuePassword string `mapstructure:"queue-password"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if cfg.QueueUser == "" {
		return fmt.Errorf("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return fmt.Errorf("missing queue password")
	}

	return nil
}
