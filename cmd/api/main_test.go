package main

import (
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:        config.EnvDev,
		StoreDriver:   config.DriverMemory,
		CatalogDriver: config.DriverMemory,
	}
}

func TestRunRejectsMissingSecretOutsideDev(t *testing.T) {
	cfg := memoryConfig()
	cfg.AppEnv = "prod"

	err := run(cfg, logger.Nop())
	assert.True(t, errors.Is(err, config.ErrMissingJWTSecret), "got %v", err)
}

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := memoryConfig()
	cfg.RabbitMQURL = "not-an-amqp-url"

	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial rabbitmq")
}
