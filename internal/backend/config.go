package backend

import (
	"fmt"

	"budget/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:           backendType,
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPQueue:      appConfig.AMQPQueue,
		PublishTimeout: appConfig.PublishTimeout,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional, so we don't validate it

	case MemoryBackend:
		// Memory backend doesn't require additional configuration
	}

	return nil
}
