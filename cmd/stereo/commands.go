package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-stereo/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stereo [files or directories...]",
		Short: "Terminal music player with a stereometer visualizer",
		Long: `Play mp3, wav, flac and ogg files from disk or S3 with a particle stereometer.
Files given as arguments are added to the playlist on start.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.teardown()
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return app.launchTUI(ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createListCommand(ctx))

	return rootCmd
}
