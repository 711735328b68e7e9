package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/config"
	"github.com/hazadus/go-stereo/internal/logger"
)

// Application хранит общие зависимости команд
type Application struct {
	Config     *config.Config
	Log        *zap.Logger
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{}
	if err := app.createRootCommand(ctx).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и создает журнал
func (app *Application) setup() error {
	cfg, err := config.LoadConfig(app.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.Config = cfg

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(cfg.LogLevel)
	logCfg.OutputPath = cfg.LogFile

	log, err := logger.New(logCfg)
	if err != nil {
		// Без файла журнала плеер все равно работает
		fmt.Fprintf(os.Stderr, "⚠️  Журнал отключен: %v\n", err)
		log = zap.NewNop()
	}
	app.Log = log
	return nil
}

// teardown сбрасывает буферы журнала
func (app *Application) teardown() {
	if app.Log != nil {
		_ = app.Log.Sync()
	}
}
