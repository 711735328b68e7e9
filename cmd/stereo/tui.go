package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/analysis"
	"github.com/hazadus/go-stereo/internal/importer"
	"github.com/hazadus/go-stereo/internal/order"
	"github.com/hazadus/go-stereo/internal/player"
	"github.com/hazadus/go-stereo/internal/playlist"
	"github.com/hazadus/go-stereo/internal/s3"
	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/tui"
	screens "github.com/hazadus/go-stereo/internal/tui/app"
	tuiPlayer "github.com/hazadus/go-stereo/internal/tui/player"
	"github.com/hazadus/go-stereo/internal/visualizer"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files or directories...]",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch the interactive player. Same as running stereo without a subcommand.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return app.launchTUI(ctx, args)
		},
	}
}

// s3Config собирает настройки S3 из конфигурации
func (app *Application) s3Config() *s3.Config {
	return &s3.Config{
		Region:    app.Config.AwsRegion,
		AccessKey: app.Config.AwsAccessKey,
		SecretKey: app.Config.AwsSecretKey,
		Endpoint:  app.Config.AwsEndpoint,
	}
}

// newImporter создает сервис импорта; s3:// адреса доступны, если заданы ключи
func (app *Application) newImporter() (*importer.Service, bool, error) {
	reader := importer.SourceReader{Local: importer.LocalReader{}}

	s3cfg := app.s3Config()
	if s3cfg.Enabled() {
		fetcher, err := s3.NewFetcher(s3cfg)
		if err != nil {
			return nil, false, err
		}
		reader.Remote = fetcher
	}

	return importer.NewService(reader, app.Log.Named("importer")), reader.Remote != nil, nil
}

// newVisualizer создает визуализатор по настройкам конфигурации
func (app *Application) newVisualizer(spectrum visualizer.Spectrum) (*visualizer.Engine, error) {
	projection, err := visualizer.ParseProjection(app.Config.Visualizer.Projection)
	if err != nil {
		return nil, err
	}
	color, err := visualizer.ParseColorMode(app.Config.Visualizer.Color)
	if err != nil {
		return nil, err
	}
	return visualizer.New(spectrum, visualizer.Options{
		Particles:  app.Config.Visualizer.Particles,
		Projection: projection,
		Color:      color,
		FPS:        app.Config.FPS,
	}), nil
}

func (app *Application) launchTUI(ctx context.Context, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	svc, remote, err := app.newImporter()
	if err != nil {
		return err
	}

	p := player.NewPlayer(app.Config.SampleRate, app.Log.Named("player"))
	p.SetVolume(app.Config.Volume)

	viz, err := app.newVisualizer(analysis.New(p))
	if err != nil {
		p.Close()
		return err
	}

	ctrl := transport.NewController(playlist.NewStore(), order.NewPolicy(), p, app.Log.Named("transport"))

	var watcher *importer.Watcher
	if app.Config.DropDir != "" {
		watcher, err = importer.NewWatcher(app.Config.DropDir, app.Log.Named("watcher"))
		if err != nil {
			app.Log.Warn("папка для перетаскивания недоступна", zap.String("dir", app.Config.DropDir), zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	app.Log.Info("запуск плеера",
		zap.Int("files", len(files)),
		zap.Bool("s3", remote),
		zap.Bool("drop_dir", watcher != nil),
	)

	// Создаем экземпляр TUI приложения
	tuiApp := tui.NewApp(screens.Options{
		Player: tuiPlayer.Options{
			Controller: ctrl,
			Importer:   svc,
			Watcher:    watcher,
			Visualizer: viz,
			FPS:        app.Config.FPS,
			Log:        app.Log.Named("tui"),
		},
		MusicDir:     app.Config.MusicDir,
		RemoteReady:  remote,
		InitialFiles: files,
	})

	// Запускаем TUI
	if err := tuiApp.Run(ctx); err != nil {
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
