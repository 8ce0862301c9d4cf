package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/pkg/config"
	"trustly/pkg/logger"
	"trustly/pkg/utils"
)

var Module = fx.Provide(
	provideConfig, provideLogger, provideTokenManager)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Env, cfg.LogLevel)
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}
