// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-stereo/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	opts app.Options
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(opts app.Options) *App {
	return &App{opts: opts}
}

// Run запускает TUI приложение до выхода пользователя или отмены контекста
func (tuiApp *App) Run(ctx context.Context) error {
	// Создаем модель для Bubble Tea
	model := app.NewMainModel(tuiApp.opts)

	// Создаем программу Bubble Tea: мышь нужна для перемотки и выбора трека
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Запускаем программу
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	// Закрываем плеер после завершения программы
	return errors.Join(err, model.Close())
}
