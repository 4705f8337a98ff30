// Package bootstrap wires leadscore service components together.
package bootstrap

import (
	"fmt"
	"log"

	"github.com/scoutline/leadscore/internal/config"
	infraconfig "github.com/scoutline/leadscore/internal/infra/config"
	infralogger "github.com/scoutline/leadscore/internal/infra/logger"
)

const defaultServicePort = 8085

// LoadConfig loads configuration. Uses defaults if file doesn't exist.
func LoadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config file (%s), using defaults: %v", configPath, err)
		cfg = &config.Config{}
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (infralogger.Logger, error) {
	logger, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With(infralogger.String("service", "leadscore")), nil
}
