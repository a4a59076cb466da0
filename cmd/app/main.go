package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/academic-hub/academic-hub-back/internal/config"
	"github.com/academic-hub/academic-hub-back/internal/db"
	"github.com/academic-hub/academic-hub-back/internal/service"
	"github.com/academic-hub/academic-hub-back/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewLogger,
			db.NewGormClient,
		),
		service.Module,
		transport.Module,
		fx.Invoke(func(*transport.HTTPServer) {}),
	)
	app.Run()
}

func NewLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
