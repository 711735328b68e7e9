// Package prompt содержит экран ручного ввода путей и s3:// адресов
package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-stereo/internal/importer"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(8)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// SubmitMsg отправляется с разобранными путями
type SubmitMsg struct {
	Paths []string
}

// GoBackMsg отправляется при отмене ввода
type GoBackMsg struct{}

// Model представляет экран ввода путей
type Model struct {
	input  textinput.Model
	err    string
	remote bool // Настроен ли доступ к S3
}

// NewModel создает экран ввода. remote включает подсказку про s3:// адреса.
func NewModel(remote bool) *Model {
	input := textinput.New()
	input.Placeholder = "/path/to/song.mp3 '/path/with spaces.flac'"
	if remote {
		input.Placeholder += " s3://bucket/key.ogg"
	}
	input.Focus()
	input.PromptStyle = focusedStyle
	input.TextStyle = focusedStyle

	return &Model{
		input:  input,
		remote: remote,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Отменяем ввод
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "enter":
			return m, m.submit()
		}

	case tea.WindowSizeMsg:
		// Обновляем ширину поля ввода
		m.input.Width = msg.Width - 20
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit проверяет введенный текст и отправляет поддерживаемые пути
func (m *Model) submit() tea.Cmd {
	paths := importer.ParseDropped(strings.TrimSpace(m.input.Value()))
	if len(paths) == 0 {
		m.err = "Введите хотя бы один путь"
		return nil
	}

	supported, rejected := importer.FilterSupported(paths)
	if len(rejected) > 0 {
		m.err = fmt.Sprintf("%v: %s", importer.ErrUnsupported, strings.Join(rejected, ", "))
		return nil
	}
	if !m.remote {
		for _, p := range supported {
			if importer.IsRemote(p) {
				m.err = "S3 не настроен: заполните aws_* в конфигурации"
				return nil
			}
		}
	}

	m.err = ""
	m.input.Reset()
	return func() tea.Msg {
		return SubmitMsg{Paths: supported}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Добавить файлы по пути"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Путь:"))
	b.WriteString(" ")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Несколько путей разделяются пробелом, пути с пробелами берутся в кавычки"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Enter: добавить • Esc: отмена"))

	return b.String()
}
