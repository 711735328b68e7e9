package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-stereo/internal/metadata"
	"github.com/hazadus/go-stereo/internal/progress"
	"github.com/hazadus/go-stereo/internal/utils"
)

// Ширины колонок таблицы в ячейках терминала
const (
	artistWidth   = 24
	titleWidth    = 32
	albumWidth    = 20
	durationWidth = 8
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list [files or directories...]",
		Short: "Probe audio files and print their tags, duration and size",
		Long:  `Read the given files the same way the player imports them and print a table.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.listTracks(ctx, cmd.OutOrStdout(), args)
		},
	}
}

func (app *Application) listTracks(ctx context.Context, out io.Writer, args []string) error {
	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, "📚 Аудиофайлы не найдены.")
		return nil
	}

	svc, _, err := app.newImporter()
	if err != nil {
		return err
	}
	result := svc.ImportBatch(ctx, paths)
	extractor := metadata.NewExtractor()

	fmt.Fprintf(out, "📚 Найдено треков: %d\n\n", len(result.Tracks))

	// Выводим заголовок таблицы
	fmt.Fprintf(out, "%-4s %s %s %s %s %s\n",
		"№",
		utils.PadRight("Исполнитель", artistWidth),
		utils.PadRight("Название", titleWidth),
		utils.PadRight("Альбом", albumWidth),
		utils.PadRight("Длит.", durationWidth),
		"Размер")
	fmt.Fprintln(out, strings.Repeat("-", 4+artistWidth+titleWidth+albumWidth+durationWidth+15))

	// Выводим каждый трек
	for i, track := range result.Tracks {
		duration := "N/A"
		if d, err := extractor.GetDuration(track.Payload, track.ContentType); err == nil {
			duration = progress.FormatDuration(d)
		}

		fmt.Fprintf(out, "%-4d %s %s %s %s %s\n",
			i+1,
			utils.PadRight(track.Artist, artistWidth),
			utils.PadRight(track.Title, titleWidth),
			utils.PadRight(track.Album, albumWidth),
			utils.PadRight(duration, durationWidth),
			utils.FormatSize(track.Size))
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\n⚠️  Пропущено файлов: %d\n", len(result.Errors))
		for _, err := range result.Errors {
			fmt.Fprintf(out, "   ✗ %v\n", err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "💡 Используйте 'stereo [файлы]' для воспроизведения")
	return nil
}
